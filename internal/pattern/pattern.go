// Package pattern implements the course-code pattern language used by degree
// plans: exact codes, numeric wildcards, ranges, alias groups, and the
// catch-all token. Patterns are parsed once at catalog-load time; matching is
// a pure function over the parsed form.
package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AnyDept is the catch-all department token that matches every course code.
const AnyDept = "ANY"

// Pattern decides whether a course code satisfies one pattern expression.
type Pattern interface {
	// Matches reports whether the (raw) course code satisfies this pattern.
	// Slash-compounded codes match if any component matches.
	Matches(code string) bool
	// IsBucket reports whether the pattern describes a family of courses
	// (wildcard or range) rather than one specific code.
	IsBucket() bool
	String() string
}

// Exact matches one specific course code, with an optional section suffix.
type Exact struct {
	Dept   string
	Number string
	Suffix string
}

// Wildcard matches codes whose number fits a digit template where each X
// stands for any single digit, e.g. "BIOL 3XX".
type Wildcard struct {
	Dept   string
	Digits string
}

// Range matches codes whose number falls in a closed interval. Bounds may
// contain X wildcard digits; a wildcard position assumes the candidate's own
// digit before the numeric comparison, so "ANT X00-ANT X29" accepts any
// hundred-block's 00-29 sub-range.
type Range struct {
	Dept string
	Low  string
	High string
}

// Any matches every course code.
type Any struct{}

// Group is an ordered slash-separated alias group; a code matches the group
// when it matches any member.
type Group []Pattern

var (
	spaceRe      = regexp.MustCompile(`\s+`)
	sectionRe    = regexp.MustCompile(`^(.*\d)\s*[-/]\s*([A-Z])$`)
	codeRe       = regexp.MustCompile(`^([A-Z&]+)\s+([0-9X]+)([A-Z]?)$`)
	rangeRe      = regexp.MustCompile(`^([A-Z&]+)\s+([0-9X]+)\s*-\s*([A-Z&]+)\s+([0-9X]+)$`)
	bareNumberRe = regexp.MustCompile(`^([0-9X]+)([A-Z]?)$`)
)

// Normalize canonicalizes a course code or pattern token: uppercase, collapse
// whitespace, and fold a trailing "-X"/"/X" section marker into a plain
// trailing letter so "NUR 213/C" and "NUR 213-C" compare identically.
func Normalize(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	c = spaceRe.ReplaceAllString(c, " ")
	if m := sectionRe.FindStringSubmatch(c); m != nil {
		c = m[1] + m[2]
	}
	return c
}

// Parse parses a single pattern expression (no slash aliases).
func Parse(raw string) (Pattern, error) {
	p := Normalize(raw)
	if p == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	if p == AnyDept || strings.HasPrefix(p, AnyDept+" ") {
		return Any{}, nil
	}

	if m := rangeRe.FindStringSubmatch(p); m != nil {
		if m[1] != m[3] {
			return nil, fmt.Errorf("range pattern %q spans departments %q and %q", raw, m[1], m[3])
		}
		if len(m[2]) != len(m[4]) {
			return nil, fmt.Errorf("range pattern %q has mismatched bound widths", raw)
		}
		return Range{Dept: m[1], Low: m[2], High: m[4]}, nil
	}

	if m := codeRe.FindStringSubmatch(p); m != nil {
		if strings.Contains(m[2], "X") {
			if m[3] != "" {
				return nil, fmt.Errorf("wildcard pattern %q cannot carry a section suffix", raw)
			}
			return Wildcard{Dept: m[1], Digits: m[2]}, nil
		}
		return Exact{Dept: m[1], Number: m[2], Suffix: m[3]}, nil
	}

	return nil, fmt.Errorf("unrecognized pattern %q", raw)
}

// ParseGroup parses a slash-separated alias group. A member with only a
// number inherits the previous member's department, so "BIOL 301/302"
// expands to BIOL 301 and BIOL 302.
func ParseGroup(raw string) (Group, error) {
	norm := Normalize(raw)
	if norm == "" {
		return nil, fmt.Errorf("empty pattern group")
	}

	var group Group
	lastDept := ""
	for _, part := range strings.Split(norm, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := bareNumberRe.FindStringSubmatch(part); m != nil && lastDept != "" {
			part = lastDept + " " + part
		}
		p, err := Parse(part)
		if err != nil {
			return nil, err
		}
		group = append(group, p)
		if cm := codeRe.FindStringSubmatch(Normalize(part)); cm != nil {
			lastDept = cm[1]
		}
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("empty pattern group")
	}
	return group, nil
}

// parsedCode is one component of a (possibly slash-compounded) course code.
type parsedCode struct {
	dept   string
	number string
	suffix string
}

// splitCode normalizes and decomposes a course code into its cross-listed
// components. Components with a bare number inherit the previous department.
func splitCode(code string) []parsedCode {
	norm := Normalize(code)
	var out []parsedCode
	lastDept := ""
	for _, part := range strings.Split(norm, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := bareNumberRe.FindStringSubmatch(part); m != nil && lastDept != "" {
			out = append(out, parsedCode{dept: lastDept, number: m[1], suffix: m[2]})
			continue
		}
		if m := codeRe.FindStringSubmatch(part); m != nil {
			out = append(out, parsedCode{dept: m[1], number: m[2], suffix: m[3]})
			lastDept = m[1]
		}
	}
	return out
}

// Matches implements Pattern.
func (e Exact) Matches(code string) bool {
	for _, c := range splitCode(code) {
		if c.dept != e.Dept || c.number != e.Number {
			continue
		}
		if e.Suffix == "" {
			if c.suffix == "" {
				return true
			}
			continue
		}
		if c.suffix == e.Suffix {
			return true
		}
	}
	return false
}

// IsBucket implements Pattern.
func (e Exact) IsBucket() bool { return false }

func (e Exact) String() string { return e.Dept + " " + e.Number + e.Suffix }

// Matches implements Pattern.
func (w Wildcard) Matches(code string) bool {
	for _, c := range splitCode(code) {
		if c.dept != w.Dept || len(c.number) != len(w.Digits) {
			continue
		}
		if digitsMatch(c.number, w.Digits) {
			return true
		}
	}
	return false
}

// IsBucket implements Pattern.
func (w Wildcard) IsBucket() bool { return true }

func (w Wildcard) String() string { return w.Dept + " " + w.Digits }

// Matches implements Pattern.
func (r Range) Matches(code string) bool {
	for _, c := range splitCode(code) {
		if c.dept != r.Dept || len(c.number) != len(r.Low) {
			continue
		}
		low := substituteWildcards(r.Low, c.number)
		high := substituteWildcards(r.High, c.number)
		n, err := strconv.Atoi(c.number)
		if err != nil {
			continue
		}
		lo, _ := strconv.Atoi(low)
		hi, _ := strconv.Atoi(high)
		if n >= lo && n <= hi {
			return true
		}
	}
	return false
}

// IsBucket implements Pattern.
func (r Range) IsBucket() bool { return true }

func (r Range) String() string { return r.Dept + " " + r.Low + "-" + r.Dept + " " + r.High }

// Matches implements Pattern.
func (Any) Matches(string) bool { return true }

// IsBucket implements Pattern.
func (Any) IsBucket() bool { return true }

func (Any) String() string { return AnyDept }

// Matches reports whether the code matches any member of the group.
func (g Group) Matches(code string) bool {
	for _, p := range g {
		if p.Matches(code) {
			return true
		}
	}
	return false
}

// IsBucket reports whether every member of the group is a bucket pattern.
func (g Group) IsBucket() bool {
	for _, p := range g {
		if !p.IsBucket() {
			return false
		}
	}
	return len(g) > 0
}

// IsAny reports whether any member is the catch-all pattern.
func (g Group) IsAny() bool {
	for _, p := range g {
		if _, ok := p.(Any); ok {
			return true
		}
	}
	return false
}

func (g Group) String() string {
	parts := make([]string, len(g))
	for i, p := range g {
		parts[i] = p.String()
	}
	return strings.Join(parts, "/")
}

// digitsMatch compares a concrete number against a digit template where X
// stands for any digit. Lengths are assumed equal.
func digitsMatch(number, template string) bool {
	for i := range template {
		if template[i] == 'X' {
			continue
		}
		if number[i] != template[i] {
			return false
		}
	}
	return true
}

// substituteWildcards replaces each X in a range bound with the candidate's
// digit at the same position.
func substituteWildcards(bound, number string) string {
	b := []byte(bound)
	for i := range b {
		if b[i] == 'X' {
			b[i] = number[i]
		}
	}
	return string(b)
}

// IsCatchAll reports whether a raw pattern string begins with the catch-all
// department token. Used to push broad bucket requirements behind specific
// ones when ordering an audit.
func IsCatchAll(raw string) bool {
	norm := Normalize(raw)
	return norm == AnyDept || strings.HasPrefix(norm, AnyDept+" ")
}
