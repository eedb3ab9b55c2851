package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WallCut/internal/model"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List and inspect settings presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%-20s %-8s %s\n", "NAME", "SOURCE", "DESCRIPTION")
		for _, p := range model.AllPresets() {
			source := "custom"
			if p.IsBuiltIn {
				source = "built-in"
			}
			fmt.Printf("%-20s %-8s %s\n", p.Name, source, p.Description)
		}
		return nil
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a preset's settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := model.GetPreset(args[0])
		if !strings.EqualFold(p.Name, args[0]) {
			fmt.Printf("No preset %q, showing %q\n\n", args[0], p.Name)
		}
		fmt.Printf("Name:               %s\n", p.Name)
		fmt.Printf("Description:        %s\n", p.Description)
		fmt.Printf("Height policy:      %s\n", p.Settings.HeightPolicy)
		fmt.Printf("Unit factor:        %g\n", p.Settings.UnitConversionFactor)
		fmt.Printf("Normal tolerance:   %g\n", p.Settings.NormalAngleTolerance)
		fmt.Printf("Offset sequence:    %v ft\n", p.Settings.OffsetSequence)
		fmt.Printf("Curve multiplier:   %g\n", p.Settings.CurveToleranceMultiplier)
		fmt.Printf("Workers:            %d\n", p.Settings.Workers)
		if p.Settings.Phase != "" {
			fmt.Printf("Phase:              %s\n", p.Settings.Phase)
		}
		return nil
	},
}

func init() {
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
}
