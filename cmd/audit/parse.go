package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/degree-audit/internal/transcript"
)

func parseCmd() *cobra.Command {
	var transcriptPath string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a transcript and print its structured form",
		Long:  `Parse a transcript text file and dump the structured Transcript as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(transcriptPath)
			if err != nil {
				return fmt.Errorf("failed to open transcript: %w", err)
			}
			defer func() { _ = f.Close() }()

			t, err := transcript.NewParser().Parse(cmd.Context(), f)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(t, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal transcript: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "transcript text file (required)")
	_ = cmd.MarkFlagRequired("transcript")

	return cmd
}
