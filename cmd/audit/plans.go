package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/degree-audit/internal/cli"
)

func plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available degree plans",
		Long:  `List every (admission year, major) degree plan found in the catalog directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := newLoader()
			if err != nil {
				return err
			}

			plans, err := loader.Plans(cmd.Context())
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Println(cli.InfoStyle.Render("No degree plans found in the catalog directory."))
				return nil
			}

			years := make([]int, 0, len(plans))
			for y := range plans {
				years = append(years, y)
			}
			sort.Ints(years)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n", cli.HeaderStyle.Render("Year"), cli.HeaderStyle.Render("Majors"))
			for _, y := range years {
				fmt.Fprintf(w, "%d\t%s\n", y, strings.Join(plans[y], ", "))
			}
			return nil
		},
	}
}
