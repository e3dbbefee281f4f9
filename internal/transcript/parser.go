// Package transcript turns registrar-extracted transcript text into a typed
// model.Transcript.
package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/joshsymonds/degree-audit/internal/common"
	"github.com/joshsymonds/degree-audit/internal/model"
)

// Parser implements transcript text parsing for the registrar layout.
type Parser struct{}

// NewParser creates a new transcript parser.
func NewParser() *Parser {
	return &Parser{}
}

const codeToken = `[A-Z&]{2,5}\s?\d{1,4}[A-Z]?`

var (
	semesterRe = regexp.MustCompile(`^(Fall|Spring|Summer|Winter)\s+(\d{4})$`)
	overallRe  = regexp.MustCompile(`^Overall\b`)
	trailerRe  = regexp.MustCompile(`^Semester\s+GPA\b`)
	metadataRe = regexp.MustCompile(`^([^:]+):\s*(.*)$`)

	courseStartRe = regexp.MustCompile(`^` + codeToken + `(?:\s|/|-|$)`)
	courseLineRe  = regexp.MustCompile(
		`^(` + codeToken + `(?:\s*[/-]\s*(?:` + codeToken + `|\d{1,4}[A-Z]?|[A-Z]))*)` +
			`\s+(.*?)\s+(PASS|FAIL|[A-Z]{1,3}[+-]?)(\*{0,2})` +
			`\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)\s*$`)

	gpaRe      = regexp.MustCompile(`GPA:?\s*(\d+(?:\.\d+)?)`)
	enrolledRe = regexp.MustCompile(`Credits\s+Enrolled:?\s*(\d+(?:\.\d+)?)`)
	earnedRe   = regexp.MustCompile(`Credits\s+Earned:?\s*(\d+(?:\.\d+)?)`)
)

// boilerplateLines are table headers repeated inside each semester block.
var boilerplateLines = []string{
	"COURSE CODE COURSE TITLE GRADE CREDITS",
	"COURSE CODE COURSE TITLE GRADE CREDITS GRADE POINTS",
	"COURSE CODE",
}

// Parse reads transcript text and returns its structured form. The text is
// expected to already be extracted from the source document.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (*model.Transcript, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return p.ParseLines(lines)
}

// ParseLines parses pre-trimmed, non-empty transcript lines.
func (p *Parser) ParseLines(lines []string) (*model.Transcript, error) {
	if len(lines) == 0 {
		return nil, common.ErrEmptyTranscript
	}
	first := firstSemesterIndex(lines)
	if first < 0 {
		return nil, fmt.Errorf("%w: no semester headers found", common.ErrUnparseableTranscript)
	}

	t := &model.Transcript{
		Metadata: parseMetadata(lines[:first]),
	}

	// Every semester block spans from its header to the next header, or to
	// the trailing Overall line.
	end := len(lines)
	for i := first; i < end; i++ {
		if overallRe.MatchString(lines[i]) {
			end = i
			break
		}
	}

	var headerIdx []int
	for i := first; i < end; i++ {
		if semesterRe.MatchString(lines[i]) {
			headerIdx = append(headerIdx, i)
		}
	}

	for n, start := range headerIdx {
		stop := end
		if n+1 < len(headerIdx) {
			stop = headerIdx[n+1]
		}
		sem, err := p.parseSemester(lines[start], lines[start+1:stop])
		if err != nil {
			return nil, err
		}
		t.Semesters = append(t.Semesters, *sem)
	}

	if end < len(lines) {
		overall := strings.Join(lines[end:], " ")
		t.GPA = matchFloat(gpaRe, overall)
		t.CreditsEnrolled = matchFloat(enrolledRe, overall)
		t.CreditsEarned = matchFloat(earnedRe, overall)
	}

	slog.Info("Parsed transcript",
		"semesters", len(t.Semesters),
		"courses", len(t.Courses()),
		"metadata_fields", len(t.Metadata))

	return t, nil
}

// parseSemester parses one semester block: course segments, then an optional
// GPA/credits trailer.
func (p *Parser) parseSemester(header string, body []string) (*model.Semester, error) {
	sem := &model.Semester{Name: header}

	var segments []string
	for _, line := range body {
		if isBoilerplate(line) {
			continue
		}
		if trailerRe.MatchString(line) {
			sem.GPA = matchFloat(gpaRe, line)
			sem.CreditsEnrolled = matchFloat(enrolledRe, line)
			sem.CreditsEarned = matchFloat(earnedRe, line)
			continue
		}
		if courseStartRe.MatchString(line) {
			segments = append(segments, line)
			continue
		}
		// Wrapped continuation of a multi-line course title.
		if len(segments) > 0 {
			segments[len(segments)-1] += " " + line
			continue
		}
		return nil, fmt.Errorf("%w: unexpected line %q in %s", common.ErrUnparseableTranscript, line, header)
	}

	for _, seg := range segments {
		course, err := parseCourse(seg)
		if err != nil {
			return nil, err
		}
		sem.Courses = append(sem.Courses, *course)
	}

	return sem, nil
}

// parseCourse matches one assembled course segment against the course-line
// expression. A segment that does not match is fatal for the whole parse.
func parseCourse(segment string) (*model.Course, error) {
	m := courseLineRe.FindStringSubmatch(segment)
	if m == nil {
		return nil, fmt.Errorf("%w: unrecognized course line %q", common.ErrUnparseableTranscript, segment)
	}

	credits, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad credits in %q", common.ErrUnparseableTranscript, segment)
	}
	points, err := strconv.ParseFloat(m[6], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad grade points in %q", common.ErrUnparseableTranscript, segment)
	}

	return &model.Course{
		Code:        strings.Join(strings.Fields(m[1]), " "),
		Title:       strings.TrimSpace(m[2]),
		Grade:       m[3] + m[4],
		Credits:     credits,
		GradePoints: points,
	}, nil
}

// firstSemesterIndex returns the index of the first semester header line.
func firstSemesterIndex(lines []string) int {
	for i, line := range lines {
		if semesterRe.MatchString(line) {
			return i
		}
	}
	return -1
}

// parseMetadata extracts "key: value" header fields preceding the first
// semester block. Lines without a colon are registrar boilerplate and skipped.
func parseMetadata(lines []string) map[string]string {
	meta := make(map[string]string)
	for _, line := range lines {
		if m := metadataRe.FindStringSubmatch(line); m != nil {
			meta[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
		}
	}
	return meta
}

func isBoilerplate(line string) bool {
	upper := strings.ToUpper(strings.Join(strings.Fields(line), " "))
	for _, b := range boilerplateLines {
		if upper == b {
			return true
		}
	}
	return strings.HasPrefix(upper, "COURSE CODE COURSE TITLE")
}

func matchFloat(re *regexp.Regexp, s string) *float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}
