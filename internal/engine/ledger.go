package engine

import (
	"fmt"

	"github.com/joshsymonds/degree-audit/internal/model"
)

// CourseLedger owns the arena of matchable courses for one audit run along
// with each course's remaining credit balance. All consumption goes through
// Consume, which keeps the balance from ever going negative, so credits from
// one course can never be double-spent across requirements.
//
// A ledger is private to a single audit run and is not safe for concurrent
// use.
type CourseLedger struct {
	courses   []model.Course
	remaining []float64
}

// NewCourseLedger builds a ledger over the given courses, each starting with
// its full credit value available.
func NewCourseLedger(courses []model.Course) *CourseLedger {
	remaining := make([]float64, len(courses))
	for i, c := range courses {
		remaining[i] = c.Credits
	}
	return &CourseLedger{courses: courses, remaining: remaining}
}

// Len returns the number of courses in the arena.
func (l *CourseLedger) Len() int {
	return len(l.courses)
}

// Course returns the course at index i.
func (l *CourseLedger) Course(i int) model.Course {
	return l.courses[i]
}

// Remaining returns the unconsumed credits of the course at index i.
func (l *CourseLedger) Remaining(i int) float64 {
	return l.remaining[i]
}

// Exhausted reports whether the course at index i has no credits left.
func (l *CourseLedger) Exhausted(i int) bool {
	return l.remaining[i] <= 0
}

// Consume deducts amount credits from the course at index i.
func (l *CourseLedger) Consume(i int, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("cannot consume negative credits for %s", l.courses[i].Code)
	}
	if amount > l.remaining[i] {
		return fmt.Errorf("cannot consume %.1f credits from %s: only %.1f remaining",
			amount, l.courses[i].Code, l.remaining[i])
	}
	l.remaining[i] -= amount
	return nil
}
