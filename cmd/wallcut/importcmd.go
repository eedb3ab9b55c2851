package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WallCut/internal/host/memdoc"
	"github.com/piwi3910/WallCut/internal/importer"
	"github.com/piwi3910/WallCut/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import clearance schedules and room footprints into a document",
}

var importClearancesCmd = &cobra.Command{
	Use:   "clearances <document> <schedule.csv|.xlsx>",
	Short: "Import a room clearance schedule",
	Long: `Reads a room schedule export (CSV or Excel) and writes each row's
clearance text onto the matching room. Rooms match by number first, then
by name. Unmatched rows are reported and skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: importClearances,
}

var (
	fpScale       float64
	fpPhase       string
	fpCeiling     float64
	fpStartNumber int
)

var importFootprintsCmd = &cobra.Command{
	Use:   "footprints <document> <plan.dxf>",
	Short: "Import room footprints from a DXF floor plan",
	Long: `Reads closed shapes (polylines, circles, and chained lines/arcs) from a
DXF floor plan and appends them to the document as numbered rooms. A plan
drawn in millimeters imports with the default scale of 1/304.8; pass
--scale 1 for plans already in feet.`,
	Args: cobra.ExactArgs(2),
	RunE: importFootprints,
}

func init() {
	importFootprintsCmd.Flags().Float64Var(&fpScale, "scale", 1.0/model.MillimetersPerFoot, "plan unit to ft conversion factor")
	importFootprintsCmd.Flags().StringVar(&fpPhase, "phase", "", "design phase for imported rooms")
	importFootprintsCmd.Flags().Float64Var(&fpCeiling, "ceiling", 9, "upper elevation for imported rooms, ft")
	importFootprintsCmd.Flags().IntVar(&fpStartNumber, "start-number", 101, "first room number")

	importCmd.AddCommand(importClearancesCmd)
	importCmd.AddCommand(importFootprintsCmd)
}

func importClearances(cmd *cobra.Command, args []string) error {
	docPath, schedulePath := args[0], args[1]

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(schedulePath)) {
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(schedulePath)
	default:
		result = importer.ImportCSV(schedulePath)
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	if len(result.Rows) == 0 {
		return fmt.Errorf("no usable rows in %s", schedulePath)
	}

	doc, err := memdoc.Load(docPath)
	if err != nil {
		return err
	}
	f := doc.Snapshot()

	applied, unmatched := importer.ApplyClearances(&f, result.Rows)
	for _, row := range unmatched {
		fmt.Printf("Unmatched: room %q %q (clearance %s)\n", row.Number, row.Name, row.Clearance)
	}
	if applied == 0 {
		return fmt.Errorf("no schedule rows matched a room in %s", docPath)
	}

	if err := memdoc.SaveFile(docPath, f); err != nil {
		return err
	}
	fmt.Printf("Applied %d clearance values to %s\n", applied, docPath)
	return nil
}

func importFootprints(cmd *cobra.Command, args []string) error {
	docPath, planPath := args[0], args[1]

	result := importer.ImportFootprints(planPath, fpScale)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	if len(result.Footprints) == 0 {
		return fmt.Errorf("no room footprints found in %s", planPath)
	}

	doc, err := memdoc.Load(docPath)
	if err != nil {
		return err
	}
	f := doc.Snapshot()

	rooms := importer.RoomsFromFootprints(result.Footprints, fpPhase, fpCeiling, fpStartNumber)
	f.Rooms = append(f.Rooms, rooms...)

	if err := memdoc.SaveFile(docPath, f); err != nil {
		return err
	}
	fmt.Printf("Added %d rooms to %s\n", len(rooms), docPath)
	return nil
}
