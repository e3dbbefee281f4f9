package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshsymonds/degree-audit/internal/common"
	"github.com/joshsymonds/degree-audit/internal/model"
)

// SaveAudit upserts an audit record by (student_id, admission_year, major).
func (s *SQLiteStorage) SaveAudit(ctx context.Context, record *model.AuditRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAuditRecord(record); err != nil {
		return err
	}

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}

	results, err := json.Marshal(record.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	summary, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	warnings, err := json.Marshal(record.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (
			student_id, admission_year, major, results, summary,
			warnings, report_blob, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(student_id, admission_year, major) DO UPDATE SET
			results = excluded.results,
			summary = excluded.summary,
			warnings = excluded.warnings,
			report_blob = excluded.report_blob,
			updated_at = excluded.updated_at
	`,
		record.StudentID,
		record.AdmissionYear,
		record.Major,
		string(results),
		string(summary),
		string(warnings),
		record.ReportBlob,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}

	return nil
}

// GetLatestAudit returns the most recently updated audit for a student,
// optionally narrowed by admission year and major. Returns
// common.ErrNotFound when no matching record exists.
func (s *SQLiteStorage) GetLatestAudit(ctx context.Context, studentID string, year *int, major *string) (*model.AuditRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if studentID == "" {
		return nil, fmt.Errorf("studentID cannot be empty")
	}

	query := `
		SELECT student_id, admission_year, major, results, summary,
		       warnings, report_blob, updated_at
		FROM audits
		WHERE student_id = ?`
	args := []any{studentID}

	if year != nil {
		query += ` AND admission_year = ?`
		args = append(args, *year)
	}
	if major != nil {
		query += ` AND major = ? COLLATE NOCASE`
		args = append(args, *major)
	}
	query += ` ORDER BY updated_at DESC LIMIT 1`

	var record model.AuditRecord
	var results, summary, warnings string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&record.StudentID,
		&record.AdmissionYear,
		&record.Major,
		&results,
		&summary,
		&warnings,
		&record.ReportBlob,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	if err := json.Unmarshal([]byte(results), &record.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &record.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if warnings != "" {
		if err := json.Unmarshal([]byte(warnings), &record.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}

	return &record, nil
}

func validateAuditRecord(record *model.AuditRecord) error {
	if record == nil {
		return fmt.Errorf("audit record cannot be nil")
	}
	if strings.TrimSpace(record.StudentID) == "" {
		return fmt.Errorf("student ID is required")
	}
	if strings.TrimSpace(record.Major) == "" {
		return fmt.Errorf("major is required")
	}
	if record.AdmissionYear <= 0 {
		return fmt.Errorf("admission year must be positive")
	}
	return nil
}
