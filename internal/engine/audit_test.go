package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/degree-audit/internal/model"
)

func transcriptOf(semesters ...model.Semester) *model.Transcript {
	return &model.Transcript{Semesters: semesters}
}

func semester(name string, courses ...model.Course) model.Semester {
	return model.Semester{Name: name, Courses: courses}
}

func TestAuditExactAndBucket(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "MATH 161", Title: "Calculus I", Grade: "B", Credits: 3},
		model.Course{Code: "PHYS 101", Title: "Physics I", Grade: "B", Credits: 3},
	))

	reqs := []model.Requirement{
		{CourseCode: "MATH 161", CourseName: "Calculus I", CreditsNeed: 3},
		{CourseCode: "PHYS 1XX", CourseName: "Physics Electives", CreditsNeed: 6},
	}

	results, summary := New().Audit(tr, reqs)
	require.Len(t, results, 2)

	math := results[0]
	assert.Equal(t, model.StatusSatisfied, math.Status)
	assert.InDelta(t, 3, math.CreditsApplied, 0.001)
	assert.InDelta(t, 0, math.CreditsRemaining, 0.001)
	require.Len(t, math.UsedCourses, 1)
	assert.Equal(t, "MATH 161", math.UsedCourses[0].Code)

	phys := results[1]
	assert.Equal(t, model.StatusPending, phys.Status)
	assert.InDelta(t, 3, phys.CreditsApplied, 0.001)
	assert.InDelta(t, 3, phys.CreditsRemaining, 0.001)
	assert.Equal(t, "Not enough credits in bucket", phys.Note)

	assert.InDelta(t, 9, summary.TotalRequired, 0.001)
	assert.InDelta(t, 6, summary.TotalApplied, 0.001)
	assert.InDelta(t, 3, summary.TotalRemaining, 0.001)
	assert.InDelta(t, 6, summary.TotalTaken, 0.001)
}

func TestAuditCreditConservation(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "MATH 161", Grade: "A", Credits: 3},
	))

	reqs := []model.Requirement{
		{CourseCode: "MATH 161", CreditsNeed: 3},
		{CourseCode: "MATH 161", CreditsNeed: 3},
	}

	results, _ := New().Audit(tr, reqs)
	require.Len(t, results, 2)

	assert.Equal(t, model.StatusSatisfied, results[0].Status)
	assert.Equal(t, model.StatusPending, results[1].Status)
	assert.InDelta(t, 0, results[1].CreditsApplied, 0.001)
	assert.Equal(t, "Missing MATH 161", results[1].Note)

	var consumed float64
	for _, r := range results {
		for _, u := range r.UsedCourses {
			consumed += u.Credits
		}
	}
	assert.LessOrEqual(t, consumed, 3.0, "a course's credits must never be double-counted")
}

func TestAuditDeterminism(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "SOC 101", Grade: "B", Credits: 3},
		model.Course{Code: "PSYC 101", Grade: "C", Credits: 3},
		model.Course{Code: "HIST 101", Grade: "A", Credits: 3},
	))
	reqs := []model.Requirement{
		{CourseCode: "SOC 101/PSYC 101", CreditsNeed: 3},
		{CourseCode: "ANY", CreditsNeed: 6},
	}

	r1, s1 := New().Audit(tr, reqs)
	r2, s2 := New().Audit(tr, reqs)
	assert.Equal(t, r1, r2)
	assert.Equal(t, s1, s2)
}

func TestAuditRetakeDeduplication(t *testing.T) {
	t.Run("marked retake keeps only the last attempt", func(t *testing.T) {
		tr := transcriptOf(
			semester("Fall 2023", model.Course{Code: "CS 101", Grade: "D", Credits: 3}),
			semester("Spring 2024", model.Course{Code: "CS 101", Grade: "A**", Credits: 3}),
		)
		reqs := []model.Requirement{
			{CourseCode: "CS 101", CreditsNeed: 3, MinGrade: "C"},
			{CourseCode: "CS 101", CreditsNeed: 3, MinGrade: "C"},
		}

		results, _ := New().Audit(tr, reqs)
		assert.Equal(t, model.StatusSatisfied, results[0].Status)
		require.Len(t, results[0].UsedCourses, 1)
		assert.Equal(t, model.StatusPending, results[1].Status, "only one attempt survives de-duplication")
	})

	t.Run("unmarked repeats stay independently matchable", func(t *testing.T) {
		tr := transcriptOf(
			semester("Fall 2023", model.Course{Code: "MUS 120", Grade: "A", Credits: 1}),
			semester("Spring 2024", model.Course{Code: "MUS 120", Grade: "A", Credits: 1}),
		)
		reqs := []model.Requirement{
			{CourseCode: "MUS 120", CreditsNeed: 1},
			{CourseCode: "MUS 120", CreditsNeed: 1},
		}

		results, _ := New().Audit(tr, reqs)
		assert.Equal(t, model.StatusSatisfied, results[0].Status)
		assert.Equal(t, model.StatusSatisfied, results[1].Status)
	})
}

func TestAuditGradeMinimum(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "MATH 161", Grade: "D", Credits: 3},
	))
	reqs := []model.Requirement{{CourseCode: "MATH 161", CreditsNeed: 3, MinGrade: "C"}}

	results, _ := New().Audit(tr, reqs)
	assert.Equal(t, model.StatusPending, results[0].Status)
	assert.Equal(t, "Missing MATH 161", results[0].Note)
}

func TestAuditExcepts(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "SOC 300", Grade: "A", Credits: 3},
		model.Course{Code: "SOC 101", Grade: "B", Credits: 3},
	))
	reqs := []model.Requirement{{
		CourseCode:  "SOC 1XX/SOC 3XX",
		CreditsNeed: 3,
		Excepts:     []string{"SOC 300"},
	}}

	results, _ := New().Audit(tr, reqs)
	require.Equal(t, model.StatusSatisfied, results[0].Status)
	require.Len(t, results[0].UsedCourses, 1)
	assert.Equal(t, "SOC 101", results[0].UsedCourses[0].Code, "excluded course must not be consumed")
}

func TestAuditMustHave(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "HIST 101", Grade: "B", Credits: 3},
		model.Course{Code: "HIST 102", Grade: "B", Credits: 3},
	))

	t.Run("satisfied when a consumed course matches", func(t *testing.T) {
		reqs := []model.Requirement{{
			CourseCode:  "History Core",
			CreditsNeed: 6,
			Options:     [][]string{{"HIST 101", "HIST 102"}},
			MustHaves:   []string{"HIST 102"},
		}}
		results, _ := New().Audit(tr, reqs)
		assert.Equal(t, model.StatusSatisfied, results[0].Status)
	})

	t.Run("pending when no consumed course matches", func(t *testing.T) {
		reqs := []model.Requirement{{
			CourseCode:  "History Core",
			CreditsNeed: 6,
			Options:     [][]string{{"HIST 101", "HIST 102"}},
			MustHaves:   []string{"HIST 999"},
		}}
		results, _ := New().Audit(tr, reqs)
		assert.Equal(t, model.StatusPending, results[0].Status)
		assert.Equal(t, "Missing HIST 999", results[0].Note)
	})
}

func TestAuditAlternatives(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "ENGL 110", Grade: "B", Credits: 6},
	))
	reqs := []model.Requirement{{
		CourseCode:  "ENGL 101",
		CreditsNeed: 6,
		Options: [][]string{
			{"ENGL 101", "ENGL 102"},
			{"ENGL 110"},
		},
	}}

	results, _ := New().Audit(tr, reqs)
	require.Equal(t, model.StatusSatisfied, results[0].Status)
	require.Len(t, results[0].UsedCourses, 1)
	assert.Equal(t, "ENGL 110", results[0].UsedCourses[0].Code, "second alternative satisfies")
}

func TestAuditPartialConsumption(t *testing.T) {
	// Two pending requirements must not both claim the same partial credits.
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "ENGL 101", Grade: "B", Credits: 3},
	))
	reqs := []model.Requirement{
		{CourseCode: "First Year Writing", CreditsNeed: 6, Options: [][]string{{"ENGL 101", "ENGL 102"}}},
		{CourseCode: "Writing Intensive", CreditsNeed: 6, Options: [][]string{{"ENGL 101", "ENGL 103"}}},
	}

	results, _ := New().Audit(tr, reqs)
	assert.Equal(t, model.StatusPending, results[0].Status)
	assert.InDelta(t, 3, results[0].CreditsApplied, 0.001, "best partial is consumed")
	assert.Equal(t, model.StatusPending, results[1].Status)
	assert.InDelta(t, 0, results[1].CreditsApplied, 0.001, "partial credits cannot be claimed twice")
}

func TestAuditCatchAllOrdering(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "MATH 161", Grade: "B", Credits: 3},
		model.Course{Code: "ART 100", Grade: "B", Credits: 3},
	))
	// The free-elective bucket appears first but must not steal MATH 161
	// from the explicit requirement behind it.
	reqs := []model.Requirement{
		{CourseCode: "ANY", CreditsNeed: 3},
		{CourseCode: "MATH 161", CreditsNeed: 3},
	}

	results, _ := New().Audit(tr, reqs)
	require.Len(t, results, 2)

	free := results[0]
	require.Equal(t, model.StatusSatisfied, free.Status)
	require.Len(t, free.UsedCourses, 1)
	assert.Equal(t, "ART 100", free.UsedCourses[0].Code)

	assert.Equal(t, model.StatusSatisfied, results[1].Status)
}

func TestAuditBucketRecency(t *testing.T) {
	tr := transcriptOf(
		semester("Fall 2023", model.Course{Code: "BIOL 301", Grade: "B", Credits: 3}),
		semester("Spring 2024", model.Course{Code: "BIOL 320", Grade: "A", Credits: 3}),
	)
	reqs := []model.Requirement{{CourseCode: "BIOL 3XX", CreditsNeed: 3}}

	results, _ := New().Audit(tr, reqs)
	require.Equal(t, model.StatusSatisfied, results[0].Status)
	require.Len(t, results[0].UsedCourses, 1)
	assert.Equal(t, "BIOL 320", results[0].UsedCourses[0].Code, "wildcard buckets consume most recent first")
}

func TestAuditNonApplicableGrades(t *testing.T) {
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "MATH 161", Grade: "W", Credits: 3},
	))
	reqs := []model.Requirement{{CourseCode: "MATH 161", CreditsNeed: 3}}

	results, summary := New().Audit(tr, reqs)
	assert.Equal(t, model.StatusPending, results[0].Status)
	assert.InDelta(t, 0, summary.TotalTaken, 0.001, "withdrawn credits do not count as taken")
}

func TestAuditTotalTakenFromTranscript(t *testing.T) {
	earned := 42.0
	tr := transcriptOf(semester("Fall 2023",
		model.Course{Code: "MATH 161", Grade: "B", Credits: 3},
	))
	tr.CreditsEarned = &earned

	_, summary := New().Audit(tr, nil)
	assert.InDelta(t, 42, summary.TotalTaken, 0.001, "overall earned figure wins when present")
}

func TestAuditZeroCreditRequirement(t *testing.T) {
	t.Run("zero-credit course", func(t *testing.T) {
		tr := transcriptOf(semester("Fall 2023",
			model.Course{Code: "UNIV 100", Grade: "PASS", Credits: 0},
		))
		reqs := []model.Requirement{{CourseCode: "UNIV 100", MinGrade: "PASS"}}

		results, _ := New().Audit(tr, reqs)
		assert.Equal(t, model.StatusSatisfied, results[0].Status)
		assert.InDelta(t, 0, results[0].CreditsApplied, 0.001)
	})

	t.Run("credits stay free for buckets", func(t *testing.T) {
		tr := transcriptOf(semester("Fall 2023",
			model.Course{Code: "PE 110", Grade: "PASS", Credits: 1},
		))
		reqs := []model.Requirement{
			{CourseCode: "PE 110"},
			{CourseCode: "ANY", CreditsNeed: 1},
		}

		results, _ := New().Audit(tr, reqs)
		assert.Equal(t, model.StatusSatisfied, results[0].Status)
		assert.InDelta(t, 0, results[0].CreditsApplied, 0.001, "no numeric target, no consumption")
		assert.Equal(t, model.StatusSatisfied, results[1].Status)
		assert.InDelta(t, 1, results[1].CreditsApplied, 0.001)
	})
}
