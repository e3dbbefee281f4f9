package main

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/degree-audit/internal/cli"
	"github.com/joshsymonds/degree-audit/internal/common"
)

func resultsCmd() *cobra.Command {
	var (
		studentID string
		major     string
		year      int
		showBlob  bool
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show the latest stored audit for a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var yearFilter *int
			if year > 0 {
				yearFilter = &year
			}
			var majorFilter *string
			if major != "" {
				majorFilter = &major
			}

			record, err := store.GetLatestAudit(ctx, studentID, yearFilter, majorFilter)
			if errors.Is(err, common.ErrNotFound) {
				fmt.Println(cli.InfoStyle.Render("No stored audit matches."))
				return nil
			}
			if err != nil {
				return err
			}

			printResults(record)
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Last updated: %s", record.UpdatedAt.Format("2006-01-02 15:04:05"))))

			if showBlob {
				text, err := base64.StdEncoding.DecodeString(record.ReportBlob)
				if err != nil {
					return fmt.Errorf("failed to decode report blob: %w", err)
				}
				fmt.Println()
				fmt.Print(string(text))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&studentID, "student", "s", "", "student ID (required)")
	cmd.Flags().StringVarP(&major, "major", "m", "", "filter by major")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "filter by admission year")
	cmd.Flags().BoolVar(&showBlob, "report", false, "also print the stored CSV report")
	_ = cmd.MarkFlagRequired("student")

	return cmd
}
