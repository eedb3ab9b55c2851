package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WallCut/internal/project"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent split runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := project.RecentRunsFromDefault(runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		fmt.Printf("%-10s %-20s %-22s %-8s %-8s %s\n", "ID", "STARTED", "DOCUMENT", "SPLIT", "SKIPPED", "MODE")
		for _, m := range runs {
			mode := "apply"
			if m.DryRun {
				mode = "dry-run"
			}
			fmt.Printf("%-10s %-20s %-22s %-8d %-8d %s\n",
				m.ID, m.StartedAt.Local().Format("2006-01-02 15:04:05"),
				m.DocName, m.Metrics.Successes, m.Metrics.Failures, mode)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list (0 = all)")
}
