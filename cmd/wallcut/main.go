// WallCut — wall face splitter for clearance heights
//
// A batch geometry tool that splits the vertical faces of building-model
// walls at the clear height required by the adjacent room. It reads an
// in-memory JSON document, computes a closed planar cutting profile per
// wall face, applies the splits under one edit session, and reports the
// per-face outcomes.
//
// Build:
//   go build -o wallcut ./cmd/wallcut

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/piwi3910/WallCut/internal/model"
	"github.com/piwi3910/WallCut/internal/project"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	logger *zap.Logger
	appCfg model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "wallcut",
	Short: "WallCut - split wall faces at room clearance heights",
	Long: `WallCut splits the vertical faces of building-model walls at the clear
height required by the room each face borders.

For every wall it selects the vertical (side) faces, locates the adjacent
room by probing along the face normal, resolves the split height from the
room's clearance attribute or bounding elevations, builds a closed planar
cutting profile from the face boundary, and applies the split through the
document's edit session. Per-face failures are recorded and skipped; one
bad face never aborts a run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configPath == "" {
			configPath = project.DefaultConfigPath()
		}
		appCfg, err = project.LoadAppConfigWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		if appCfg.Verbose && !verbose {
			config.Level.SetLevel(zapcore.DebugLevel)
		}

		custom, err := project.LoadCustomPresetsFromDefault()
		if err != nil {
			logger.Warn("failed to load custom presets", zap.Error(err))
		} else {
			model.CustomPresets = custom
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "app config file (default ~/.wallcut/config.json)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
