package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/degree-audit/internal/cli"
	"github.com/joshsymonds/degree-audit/internal/model"
	"github.com/joshsymonds/degree-audit/internal/report"
)

func runCmd() *cobra.Command {
	var (
		transcriptPath string
		major          string
		year           int
		studentID      string
		outPath        string
		noSave         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit one transcript against a degree plan",
		Long: `Parse a transcript text file, load the degree plan for the given major and
admission year, and report which requirements are satisfied.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			loader, err := newLoader()
			if err != nil {
				return err
			}

			record, err := runAudit(ctx, loader, transcriptPath, studentID, major, year)
			if err != nil {
				return err
			}

			printResults(record)

			if outPath != "" {
				w := report.NewWriter()
				if err := w.WriteFile(outPath, record.Results, record.Summary); err != nil {
					return err
				}
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Report written to %s", outPath)))
			}

			if !noSave {
				store, err := initStorage(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()

				if err := store.SaveAudit(ctx, record); err != nil {
					return fmt.Errorf("failed to save audit: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "transcript text file (required)")
	cmd.Flags().StringVarP(&major, "major", "m", "", "degree plan major (required)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "admission year (required)")
	cmd.Flags().StringVarP(&studentID, "student", "s", "", "student ID (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the CSV report to this file")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving the result to the store")
	_ = cmd.MarkFlagRequired("transcript")
	_ = cmd.MarkFlagRequired("major")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("student")

	return cmd
}

// printResults renders a styled requirement table plus the credit summary.
func printResults(record *model.AuditRecord) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Degree audit: %s, %s %d", record.StudentID, record.Major, record.AdmissionYear)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Requirement"),
		cli.HeaderStyle.Render("Status"),
		cli.HeaderStyle.Render("Applied"),
		cli.HeaderStyle.Render("Remaining"),
		cli.HeaderStyle.Render("Note"))

	for _, r := range record.Results {
		status := cli.SuccessStyle.Render(r.Status.String())
		if r.Status != model.StatusSatisfied {
			status = cli.WarningStyle.Render(r.Status.String())
		}
		name := r.Requirement.CourseCode
		if r.Requirement.CourseName != "" {
			name = fmt.Sprintf("%s %s", r.Requirement.CourseCode, r.Requirement.CourseName)
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%s\n",
			truncate(name, 48), status, r.CreditsApplied, r.CreditsRemaining, r.Note)
	}
	_ = w.Flush()

	s := record.Summary
	fmt.Println()
	fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
		"Required: %.1f  Applied: %.1f  Remaining: %.1f  Taken: %.1f",
		s.TotalRequired, s.TotalApplied, s.TotalRemaining, s.TotalTaken)))

	for _, warning := range record.Warnings {
		fmt.Println(cli.WarningStyle.Render("⚠ " + warning))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
