package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joshsymonds/degree-audit/internal/catalog"
	"github.com/joshsymonds/degree-audit/internal/common"
	"github.com/joshsymonds/degree-audit/internal/config"
	"github.com/joshsymonds/degree-audit/internal/engine"
	"github.com/joshsymonds/degree-audit/internal/model"
	"github.com/joshsymonds/degree-audit/internal/report"
	"github.com/joshsymonds/degree-audit/internal/service"
	"github.com/joshsymonds/degree-audit/internal/storage"
	"github.com/joshsymonds/degree-audit/internal/transcript"
)

// initStorage opens the result store and applies pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate result store: %w", err)
	}

	return store, nil
}

// newLoader creates a catalog loader rooted at the configured directory.
func newLoader() (service.CatalogLoader, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	return catalog.NewLoader(settings.CatalogDir), nil
}

// runAudit executes the full pipeline for one transcript file and returns
// the assembled record, ready for display or persistence.
func runAudit(ctx context.Context, loader service.CatalogLoader, transcriptPath, studentID, major string, year int) (*model.AuditRecord, error) {
	f, err := os.Open(transcriptPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open transcript %s", transcriptPath), err)
	}
	defer func() { _ = f.Close() }()

	var (
		parser  service.TranscriptParser = transcript.NewParser()
		auditor service.Auditor          = engine.New()
		writer  service.ReportWriter     = report.NewWriter()
	)

	t, err := parser.Parse(ctx, f)
	if err != nil {
		return nil, err
	}

	reqs, err := loader.Load(ctx, major, year)
	if err != nil {
		return nil, err
	}

	results, summary := auditor.Audit(t, reqs)

	var warnings []string
	if t.CreditsEarned == nil {
		warnings = append(warnings, "transcript has no overall earned-credits figure; total taken derived from course list")
	}

	blob, err := writer.RenderBlob(results, summary)
	if err != nil {
		return nil, err
	}

	return &model.AuditRecord{
		StudentID:     studentID,
		AdmissionYear: year,
		Major:         major,
		Results:       results,
		Summary:       summary,
		Warnings:      warnings,
		ReportBlob:    blob,
		UpdatedAt:     time.Now(),
	}, nil
}
