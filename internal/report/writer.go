// Package report serializes audit results into the tabular export format.
package report

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joshsymonds/degree-audit/internal/model"
)

// header is the fixed report column order.
var header = []string{
	"course_code",
	"course_name",
	"credits_required",
	"min_grade",
	"status",
	"used_courses",
	"credits_applied",
	"credits_remaining",
	"note",
}

// Writer renders audit results as CSV text.
type Writer struct{}

// NewWriter creates a new report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Render produces the CSV report: header, satisfied rows, pending rows
// (stable within each group by original requirement order), and a TOTALS
// trailer row.
func (w *Writer) Render(results []model.RequirementResult, summary model.AuditSummary) (string, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)

	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to write report header: %w", err)
	}

	for _, r := range ordered(results) {
		if err := cw.Write(resultRow(r)); err != nil {
			return "", fmt.Errorf("failed to write report row: %w", err)
		}
	}

	totals := []string{
		"TOTALS",
		"",
		formatCredits(summary.TotalRequired),
		"",
		"",
		"",
		formatCredits(summary.TotalApplied),
		formatCredits(summary.TotalRemaining),
		fmt.Sprintf("Credits taken: %s", formatCredits(summary.TotalTaken)),
	}
	if err := cw.Write(totals); err != nil {
		return "", fmt.Errorf("failed to write totals row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush report: %w", err)
	}
	return sb.String(), nil
}

// RenderBlob returns the report base64-encoded for embedding in a response
// payload.
func (w *Writer) RenderBlob(results []model.RequirementResult, summary model.AuditSummary) (string, error) {
	text, err := w.Render(results, summary)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(text)), nil
}

// WriteFile renders the report and writes it to path.
func (w *Writer) WriteFile(path string, results []model.RequirementResult, summary model.AuditSummary) error {
	text, err := w.Render(results, summary)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// ordered returns results with satisfied requirements first, preserving the
// original requirement order within each group.
func ordered(results []model.RequirementResult) []model.RequirementResult {
	out := make([]model.RequirementResult, 0, len(results))
	for _, r := range results {
		if r.Status == model.StatusSatisfied {
			out = append(out, r)
		}
	}
	for _, r := range results {
		if r.Status != model.StatusSatisfied {
			out = append(out, r)
		}
	}
	return out
}

func resultRow(r model.RequirementResult) []string {
	return []string{
		r.Requirement.CourseCode,
		r.Requirement.CourseName,
		formatCredits(r.Requirement.CreditsNeed),
		r.Requirement.MinGrade,
		r.Status.String(),
		formatUsedCourses(r.UsedCourses),
		formatCredits(r.CreditsApplied),
		formatCredits(r.CreditsRemaining),
		r.Note,
	}
}

func formatUsedCourses(uses []model.CourseUse) string {
	parts := make([]string, len(uses))
	for i, u := range uses {
		parts[i] = fmt.Sprintf("%s (%s)", u.Code, formatCredits(u.Credits))
	}
	return strings.Join(parts, "; ")
}

func formatCredits(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
