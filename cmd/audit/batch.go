package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/joshsymonds/degree-audit/internal/cli"
	"github.com/joshsymonds/degree-audit/internal/common"
)

func batchCmd() *cobra.Command {
	var (
		dir   string
		major string
		year  int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Audit every transcript in a directory",
		Long: `Audit every .txt transcript in a directory against one degree plan. The file
name (without extension) is used as the student ID. Each result is saved to
the store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("failed to read transcript directory: %w", err)
			}

			var files []string
			for _, e := range entries {
				if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
					files = append(files, e.Name())
				}
			}
			if len(files) == 0 {
				fmt.Println(cli.InfoStyle.Render("No .txt transcripts found."))
				return nil
			}

			loader, err := newLoader()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetDescription("Auditing transcripts"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var audited, failed int
			for _, name := range files {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				studentID := strings.TrimSuffix(name, filepath.Ext(name))
				record, err := runAudit(ctx, loader, filepath.Join(dir, name), studentID, major, year)
				if err != nil {
					common.LogError(err, "Audit failed", common.Fields{"transcript": name})
					failed++
					_ = bar.Add(1)
					continue
				}

				if err := store.SaveAudit(ctx, record); err != nil {
					return fmt.Errorf("failed to save audit for %s: %w", studentID, err)
				}
				audited++
				_ = bar.Add(1)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Audited %d transcripts (%d failed)", audited, failed)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of transcript .txt files (required)")
	cmd.Flags().StringVarP(&major, "major", "m", "", "degree plan major (required)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "admission year (required)")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("major")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
