// Package catalog loads per-major, per-year degree plan definitions and
// their auxiliary alias tables into typed requirement sequences.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joshsymonds/degree-audit/internal/common"
	"github.com/joshsymonds/degree-audit/internal/model"
	"github.com/joshsymonds/degree-audit/internal/pattern"
)

// Loader resolves and parses degree plan files from a catalog directory laid
// out as <dir>/<year>/<Major>.(csv|xlsx). Loaded plans are memoized for the
// process lifetime; cache entries are write-once and immutable.
type Loader struct {
	dir   string
	cache map[string][]model.Requirement
	mu    sync.RWMutex
}

// NewLoader creates a catalog loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string][]model.Requirement),
	}
}

var suffixedColRe = regexp.MustCompile(`^(option|must have option|except)\s*(\d+)$`)

// Load returns the ordered requirement sequence for (major, year).
// A missing plan file yields common.ErrPlanNotFound; a malformed row aborts
// the whole load with common.ErrMalformedCatalog.
func (l *Loader) Load(ctx context.Context, major string, year int) ([]model.Requirement, error) {
	key := fmt.Sprintf("%s|%d", strings.ToLower(major), year)

	l.mu.RLock()
	cached, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	reqs, err := l.load(ctx, major, year)
	if err != nil {
		return nil, err
	}

	// Publish fully computed; a concurrent miss may have raced us here, in
	// which case both computed the same immutable value.
	l.mu.Lock()
	if existing, ok := l.cache[key]; ok {
		reqs = existing
	} else {
		l.cache[key] = reqs
	}
	l.mu.Unlock()

	return reqs, nil
}

func (l *Loader) load(_ context.Context, major string, year int) ([]model.Requirement, error) {
	path, err := l.planPath(major, year)
	if err != nil {
		return nil, err
	}

	rows, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedCatalog, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: %s has no header row", common.ErrMalformedCatalog, path)
	}

	aliases := loadAliasTables(l.dir, year)
	cols := resolveColumns(rows[0])

	var reqs []model.Requirement
	for i, row := range rows[1:] {
		req, err := parseRow(row, cols, aliases)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", common.ErrMalformedCatalog, filepath.Base(path), i+2, err)
		}
		if req == nil {
			continue // Formatting row without a course code
		}
		reqs = append(reqs, *req)
	}

	slog.Info("Loaded degree plan",
		"major", major,
		"year", year,
		"requirements", len(reqs),
		"alias_buckets", len(aliases))

	return reqs, nil
}

// planPath resolves the requirement definition file for (major, year).
func (l *Loader) planPath(major string, year int) (string, error) {
	yearDir := filepath.Join(l.dir, strconv.Itoa(year))
	entries, err := os.ReadDir(yearDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s %d", common.ErrPlanNotFound, major, year)
	}

	want := strings.ToLower(major)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if base == want {
			return filepath.Join(yearDir, name), nil
		}
	}

	return "", fmt.Errorf("%w: %s %d", common.ErrPlanNotFound, major, year)
}

// Plans lists the available (year, majors) pairs under the catalog root.
func (l *Loader) Plans(_ context.Context) (map[int][]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	plans := make(map[int][]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		year, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		files, err := os.ReadDir(filepath.Join(l.dir, e.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			ext := strings.ToLower(filepath.Ext(f.Name()))
			if ext != ".csv" && ext != ".xlsx" {
				continue
			}
			base := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
			if strings.EqualFold(base, "buckets") {
				continue
			}
			plans[year] = append(plans[year], base)
		}
		sort.Strings(plans[year])
	}

	return plans, nil
}

// columns maps the catalog's case-insensitive headers to column indices.
type columns struct {
	courseCode  int
	courseName  int
	creditsNeed int
	grade       int
	comments    int
	options     []int // Sorted by numeric suffix
	mustHaves   []int
	excepts     []int
}

type suffixedCol struct {
	index  int
	suffix int
}

func resolveColumns(header []string) columns {
	cols := columns{courseCode: -1, courseName: -1, creditsNeed: -1, grade: -1, comments: -1}
	var options, mustHaves, excepts []suffixedCol

	for i, raw := range header {
		name := strings.ToLower(strings.Join(strings.Fields(raw), " "))
		switch name {
		case "course_code":
			cols.courseCode = i
		case "course_name":
			cols.courseName = i
		case "credits_need":
			cols.creditsNeed = i
		case "grade":
			cols.grade = i
		case "comments":
			cols.comments = i
		default:
			if m := suffixedColRe.FindStringSubmatch(name); m != nil {
				n, _ := strconv.Atoi(m[2])
				col := suffixedCol{index: i, suffix: n}
				switch m[1] {
				case "option":
					options = append(options, col)
				case "must have option":
					mustHaves = append(mustHaves, col)
				case "except":
					excepts = append(excepts, col)
				}
			}
		}
	}

	cols.options = sortBySuffix(options)
	cols.mustHaves = sortBySuffix(mustHaves)
	cols.excepts = sortBySuffix(excepts)
	return cols
}

func sortBySuffix(cols []suffixedCol) []int {
	sort.Slice(cols, func(i, j int) bool { return cols[i].suffix < cols[j].suffix })
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.index
	}
	return out
}

// parseRow converts one catalog row into a Requirement. Rows without a
// course code are pure formatting and return (nil, nil).
func parseRow(row []string, cols columns, aliases aliasTable) (*model.Requirement, error) {
	code := cell(row, cols.courseCode)
	if code == "" {
		return nil, nil
	}

	req := &model.Requirement{
		CourseCode: code,
		CourseName: cell(row, cols.courseName),
		MinGrade:   "D",
		Comments:   cell(row, cols.comments),
	}

	if g := cell(row, cols.grade); g != "" {
		req.MinGrade = strings.ToUpper(g)
	}

	if c := cell(row, cols.creditsNeed); c != "" {
		credits, err := strconv.ParseFloat(c, 64)
		if err != nil || credits < 0 {
			return nil, fmt.Errorf("invalid credits_need %q", c)
		}
		req.CreditsNeed = credits
	}

	for _, i := range cols.options {
		v := cell(row, i)
		if v == "" {
			continue
		}
		alt, err := parseAlternative(v, aliases)
		if err != nil {
			return nil, err
		}
		req.Options = append(req.Options, alt)
	}

	for _, i := range cols.mustHaves {
		v := cell(row, i)
		if v == "" {
			continue
		}
		expanded := aliases.expand(v)
		if _, err := pattern.ParseGroup(expanded); err != nil {
			return nil, fmt.Errorf("invalid must-have %q: %v", v, err)
		}
		req.MustHaves = append(req.MustHaves, expanded)
	}

	for _, i := range cols.excepts {
		v := cell(row, i)
		if v == "" {
			continue
		}
		expanded := aliases.expand(v)
		if _, err := pattern.ParseGroup(expanded); err != nil {
			return nil, fmt.Errorf("invalid except %q: %v", v, err)
		}
		req.Excepts = append(req.Excepts, expanded)
	}

	// The primary code must itself be a valid pattern group.
	if _, err := pattern.ParseGroup(aliases.expand(code)); err != nil {
		return nil, fmt.Errorf("invalid course_code %q: %v", code, err)
	}
	req.CourseCode = aliases.expand(code)

	return req, nil
}

// parseAlternative expands one option cell into an AND-group of pattern
// components. Components are separated by "+"; each component is expanded
// through the alias tables into a slash OR-group when it names a bucket.
func parseAlternative(value string, aliases aliasTable) ([]string, error) {
	var components []string
	for _, part := range strings.Split(value, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		expanded := aliases.expand(part)
		if _, err := pattern.ParseGroup(expanded); err != nil {
			return nil, fmt.Errorf("invalid option %q: %v", part, err)
		}
		components = append(components, expanded)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("empty option cell %q", value)
	}
	return components, nil
}
