package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WallCut/internal/engine"
	"github.com/piwi3910/WallCut/internal/host/memdoc"
)

var compareCmd = &cobra.Command{
	Use:   "compare <document>",
	Short: "Dry-run the pipeline under alternative settings and compare the results",
	Long: `Dry-runs the split pipeline once per scenario: the current settings, the
other height policy, a wider probe sequence, and a looser vertical-face
test. Nothing is mutated, so every scenario sees the same geometry.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&runPreset, "preset", "", "named settings preset to use as the baseline")
	compareCmd.Flags().StringVar(&runPolicy, "policy", "", "baseline height policy: clearance or bounds")
}

func runCompare(cmd *cobra.Command, args []string) error {
	settings := resolveSettings(cmd)
	if err := settings.Validate(); err != nil {
		return err
	}

	doc, err := memdoc.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scenarios := engine.BuildDefaultScenarios(settings)
	results := engine.CompareScenarios(ctx, doc, doc, scenarios, logger.Named("compare"))

	fmt.Printf("%-26s %-8s %-8s %-8s %s\n", "SCENARIO", "FACES", "SPLIT", "SKIPPED", "SUCCESS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-26s error: %v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Printf("%-26s %-8d %-8d %-8d %.1f%%\n",
			r.Scenario.Name, r.Metrics.TotalFaces, r.Metrics.Successes,
			r.Metrics.Failures, r.Metrics.SuccessRate)
	}
	return nil
}
