package model

import "strings"

// gradeRank is the ordinal ladder used to compare letter grades.
var gradeRank = map[string]int{
	"F":  0,
	"D":  1,
	"D+": 2,
	"C-": 3,
	"C":  4,
	"C+": 5,
	"B-": 6,
	"B":  7,
	"B+": 8,
	"A-": 9,
	"A":  10,
}

// nonApplicableGrades are registrar statuses that never satisfy a minimum:
// withdrawn, withdrawn-failing, audited, incomplete, in-progress.
var nonApplicableGrades = map[string]bool{
	"W":  true,
	"WF": true,
	"AU": true,
	"I":  true,
	"IP": true,
	"NA": true,
}

// NormalizeGrade strips retake markers and uppercases a raw grade token.
func NormalizeGrade(grade string) string {
	g := strings.TrimSpace(strings.ToUpper(grade))
	return strings.TrimRight(g, "*")
}

// IsRetakeMarked reports whether a raw grade token carries the "**"
// superseded-by-retake marker.
func IsRetakeMarked(grade string) bool {
	return strings.HasSuffix(strings.TrimSpace(grade), "**")
}

// GradeApplicable reports whether a grade can count toward any requirement.
func GradeApplicable(grade string) bool {
	return !nonApplicableGrades[NormalizeGrade(grade)]
}

// GradeMeets reports whether a grade satisfies a minimum grade. Both sides
// are normalized first. Non-applicable statuses never satisfy any minimum.
// PASS satisfies every minimum; a letter grade satisfies a PASS minimum when
// it is D or better. Unrecognized tokens fall back to string equality
// against the minimum.
func GradeMeets(grade, minGrade string) bool {
	g := NormalizeGrade(grade)
	m := NormalizeGrade(minGrade)

	if !GradeApplicable(g) {
		return false
	}
	if m == "" {
		m = "D"
	}

	if g == "PASS" {
		return true
	}
	if m == "PASS" {
		if rank, ok := gradeRank[g]; ok {
			return rank >= gradeRank["D"]
		}
		return g == m
	}

	gr, gok := gradeRank[g]
	mr, mok := gradeRank[m]
	if gok && mok {
		return gr >= mr
	}

	// Unknown token: compare directly against the minimum.
	return g == m
}
