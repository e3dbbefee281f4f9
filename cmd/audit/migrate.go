package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/degree-audit/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending result store migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.SuccessStyle.Render("Result store is up to date."))
			return nil
		},
	}
}
