package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/WallCut/internal/engine"
	"github.com/piwi3910/WallCut/internal/export"
	"github.com/piwi3910/WallCut/internal/host/memdoc"
	"github.com/piwi3910/WallCut/internal/model"
	"github.com/piwi3910/WallCut/internal/project"
	"github.com/piwi3910/WallCut/internal/report"
)

var (
	runPolicy  string
	runPreset  string
	runDry     bool
	runWorkers int
	runPhase   string
	runOut     string
	runPDF     bool
	runXLSX    bool
	runDXF     bool
	runLabels  bool
	runLogs    bool
)

var runCmd = &cobra.Command{
	Use:   "run <document>",
	Short: "Split every wall face in a document at its room's clearance height",
	Long: `Runs the split pipeline over a .wallcut.json document.

Settings come from, in increasing precedence: built-in defaults, the app
config file, WALLCUT_* environment variables, --preset, and the flags
below. With --dry-run every profile is computed and reported but no edit
session is opened and the document is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	runCmd.Flags().StringVar(&runPolicy, "policy", "", "height policy: clearance or bounds")
	runCmd.Flags().StringVar(&runPreset, "preset", "", "named settings preset (see 'wallcut presets list')")
	runCmd.Flags().BoolVar(&runDry, "dry-run", false, "compute profiles without applying splits")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel compute workers (0 = settings default)")
	runCmd.Flags().StringVar(&runPhase, "phase", "", "restrict room queries to one design phase")
	runCmd.Flags().StringVar(&runOut, "out", "", "artifact directory (default: config export dir or next to the document)")
	runCmd.Flags().BoolVar(&runPDF, "pdf", false, "write the PDF run report")
	runCmd.Flags().BoolVar(&runXLSX, "xlsx", false, "write the outcome workbook")
	runCmd.Flags().BoolVar(&runDXF, "dxf", false, "write the profile DXF drawing")
	runCmd.Flags().BoolVar(&runLabels, "labels", false, "write QR label sheets for applied splits")
	runCmd.Flags().BoolVar(&runLogs, "logs", false, "write the plain-text site logs")
}

// resolveSettings layers preset and flag overrides over the configured
// defaults. Flags are only applied when explicitly set, so a preset's
// values survive unless the user overrode them.
func resolveSettings(cmd *cobra.Command) model.Settings {
	settings := model.DefaultSettings()
	appCfg.ApplyToSettings(&settings)
	if runPreset != "" {
		settings = model.GetPreset(runPreset).Settings
	}
	if cmd.Flags().Changed("policy") {
		settings.HeightPolicy = model.HeightPolicy(runPolicy)
	}
	if cmd.Flags().Changed("workers") {
		settings.Workers = runWorkers
	}
	if cmd.Flags().Changed("phase") {
		settings.Phase = runPhase
	}
	return settings
}

func runSplit(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	settings := resolveSettings(cmd)
	if err := settings.Validate(); err != nil {
		return err
	}

	doc, err := memdoc.Load(docPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot faces before mutation so reports can draw the original
	// outlines even after splits replace them.
	faces := export.SnapshotFaces(doc)
	tolerance := doc.MinimumCurveLength() * settings.CurveToleranceMultiplier

	manifest := report.NewManifest(doc.Name(), docPath, runDry, settings)

	pipe := engine.NewPipeline(settings, logger.Named("pipeline"))
	pipe.DryRun = runDry
	outcomes, runErr := pipe.Run(ctx, doc, doc)
	manifest.Finish(outcomes)

	printOutcomes(outcomes, manifest.Metrics)

	if !runDry && manifest.Metrics.Successes > 0 {
		if err := doc.Save(docPath); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		fmt.Printf("Document saved: %s\n", docPath)
	}

	if path, err := project.SaveRunToDefault(manifest); err != nil {
		logger.Warn("failed to save run manifest", zap.Error(err))
	} else {
		fmt.Printf("Run manifest: %s\n", path)
	}

	if runPDF || runXLSX || runDXF || runLabels || runLogs {
		rep := export.NewRunReport(doc.Name(), settings, tolerance, outcomes)
		rep.Faces = faces
		if err := writeArtifacts(docPath, rep, outcomes, settings); err != nil {
			return err
		}
	}

	rememberDocument(docPath)
	return runErr
}

// writeArtifacts renders the requested export files into the artifact
// directory.
func writeArtifacts(docPath string, rep export.RunReport, outcomes []model.Outcome, settings model.Settings) error {
	outDir := runOut
	if outDir == "" {
		outDir = appCfg.ExportDir
	}
	if outDir == "" {
		outDir = filepath.Dir(docPath)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	if runPDF {
		path := filepath.Join(outDir, "wallcut-report.pdf")
		if err := export.ExportPDF(path, rep); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		fmt.Printf("PDF report:   %s\n", path)
	}
	if runXLSX {
		path := filepath.Join(outDir, "wallcut-outcomes.xlsx")
		if err := export.ExportXLSX(path, rep); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		fmt.Printf("Workbook:     %s\n", path)
	}
	if runDXF {
		path := filepath.Join(outDir, "wallcut-profiles.dxf")
		if err := export.ExportDXF(path, rep); err != nil {
			return fmt.Errorf("dxf export: %w", err)
		}
		fmt.Printf("DXF drawing:  %s\n", path)
	}
	if runLabels {
		path := filepath.Join(outDir, "wallcut-labels.pdf")
		if err := export.ExportLabels(path, outcomes); err != nil {
			return fmt.Errorf("label export: %w", err)
		}
		fmt.Printf("Labels:       %s\n", path)
	}
	if runLogs {
		w := report.NewWriter(rep.DocName, settings)
		okPath, failPath, err := w.WriteRunLogs(outDir, outcomes)
		if err != nil {
			return fmt.Errorf("log export: %w", err)
		}
		fmt.Printf("Site logs:    %s, %s\n", okPath, failPath)
	}
	return nil
}

// printOutcomes writes the per-face outcome table and the run summary to
// stdout.
func printOutcomes(outcomes []model.Outcome, metrics model.RunMetrics) {
	fmt.Printf("%-14s %-10s %-16s %-10s %s\n", "WALL", "FACE", "ROOM", "HEIGHT", "RESULT")
	for _, o := range outcomes {
		name := o.WallName
		if name == "" {
			name = o.WallID
		}
		height := ""
		if o.Height > 0 {
			height = model.FormatFeet(o.Height)
		}
		result := string(o.Result)
		if o.Failure != nil {
			result = o.Failure.Error()
		}
		fmt.Printf("%-14s %-10s %-16s %-10s %s\n", name, o.FaceID, o.RoomName, height, result)
	}

	fmt.Printf("\n%d faces: %d split, %d skipped (%.1f%% success)\n",
		metrics.TotalFaces, metrics.Successes, metrics.Failures, metrics.SuccessRate)
	if metrics.Successes > 0 {
		fmt.Printf("Mean split height %s, total cut perimeter %s\n",
			model.FormatFeet(metrics.MeanHeight), model.FormatFeet(metrics.TotalPerimeter))
	}
	for _, w := range model.DetectSlivers(outcomes, 0) {
		fmt.Printf("Warning: split on %s/%s leaves only %s above the cut\n",
			w.WallName, w.FaceID, model.FormatFeetInches(w.Remainder))
	}
}

// rememberDocument records the document in the recent list and persists
// the config. Failures here never fail the run.
func rememberDocument(docPath string) {
	abs, err := filepath.Abs(docPath)
	if err != nil {
		abs = docPath
	}
	appCfg.AddRecentDocument(abs)
	if err := project.SaveAppConfig(configPath, appCfg); err != nil {
		logger.Warn("failed to save app config", zap.Error(err))
	}
}
