// Package service defines the interfaces between the audit pipeline's
// components.
package service

import (
	"context"
	"io"

	"github.com/joshsymonds/degree-audit/internal/model"
)

// Storage defines the contract for the audit result store.
type Storage interface {
	SaveAudit(ctx context.Context, record *model.AuditRecord) error
	GetLatestAudit(ctx context.Context, studentID string, year *int, major *string) (*model.AuditRecord, error)
	Migrate(ctx context.Context) error
	Close() error
}

// TranscriptParser turns extracted transcript text into a typed Transcript.
type TranscriptParser interface {
	Parse(ctx context.Context, reader io.Reader) (*model.Transcript, error)
}

// CatalogLoader resolves the requirement sequence for a (major, year) plan.
type CatalogLoader interface {
	Load(ctx context.Context, major string, year int) ([]model.Requirement, error)
	Plans(ctx context.Context) (map[int][]string, error)
}

// Auditor matches a transcript against a requirement sequence.
type Auditor interface {
	Audit(t *model.Transcript, reqs []model.Requirement) ([]model.RequirementResult, model.AuditSummary)
}

// ReportWriter serializes audit results into the exportable report format.
type ReportWriter interface {
	Render(results []model.RequirementResult, summary model.AuditSummary) (string, error)
	RenderBlob(results []model.RequirementResult, summary model.AuditSummary) (string, error)
	WriteFile(path string, results []model.RequirementResult, summary model.AuditSummary) error
}
