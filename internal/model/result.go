package model

import "time"

// RequirementStatus indicates whether a requirement was met by the transcript.
type RequirementStatus string

// Requirement status constants.
const (
	StatusSatisfied RequirementStatus = "SATISFIED"
	StatusPending   RequirementStatus = "PENDING"
)

// String returns the human-readable form used in reports.
func (s RequirementStatus) String() string {
	switch s {
	case StatusSatisfied:
		return "Satisfied"
	case StatusPending:
		return "Pending"
	default:
		return string(s)
	}
}

// CourseUse records credits consumed from one course by one requirement.
type CourseUse struct {
	Code    string
	Title   string
	Credits float64 // Credits consumed, not the course's full credit value
}

// RequirementResult is the audit outcome for a single requirement.
type RequirementResult struct {
	Requirement      Requirement
	Status           RequirementStatus
	UsedCourses      []CourseUse
	CreditsApplied   float64
	CreditsRemaining float64
	Note             string
}

// AuditSummary aggregates credit figures across all requirement results.
type AuditSummary struct {
	TotalRequired  float64
	TotalApplied   float64
	TotalRemaining float64
	TotalTaken     float64
}

// AuditRecord bundles one stored audit run for a student.
type AuditRecord struct {
	UpdatedAt     time.Time
	StudentID     string
	Major         string
	ReportBlob    string
	Warnings      []string
	Results       []RequirementResult
	Summary       AuditSummary
	AdmissionYear int
}
