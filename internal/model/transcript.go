// Package model defines the core domain models used throughout the application.
package model

// Course represents a single completed course as it appears on a transcript.
type Course struct {
	Code        string  // Canonical course code, e.g. "MATH 161"
	Title       string
	Grade       string  // Raw grade token, e.g. "B+", "PASS", "A-**"
	Credits     float64
	GradePoints float64
}

// Semester is one term block on a transcript, e.g. "Fall 2023".
type Semester struct {
	Name            string
	Courses         []Course
	GPA             *float64
	CreditsEnrolled *float64
	CreditsEarned   *float64
}

// Transcript is the structured form of a student's academic record.
// It is constructed once per audit request and never mutated afterwards.
type Transcript struct {
	Metadata        map[string]string
	Semesters       []Semester
	GPA             *float64
	CreditsEnrolled *float64
	CreditsEarned   *float64
}

// Courses returns all courses across all semesters in chronological order.
func (t *Transcript) Courses() []Course {
	var out []Course
	for _, sem := range t.Semesters {
		out = append(out, sem.Courses...)
	}
	return out
}
