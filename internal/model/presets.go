package model

import (
	"fmt"

	"github.com/google/uuid"
)

// SplitPreset bundles a named Settings variant for a class of projects,
// so operators pick a preset instead of retyping tolerances per run.
type SplitPreset struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Settings    Settings `json:"settings"`
	IsBuiltIn   bool     `json:"is_built_in"`
}

// Built-in split presets. The last entry is the fallback default.
var BuiltInPresets = []SplitPreset{
	{
		Name:        "Metric clearance",
		Description: "Clearance attribute entered in millimeters (metric room schedules)",
		Settings: Settings{
			NormalAngleTolerance:     0.1,
			OffsetSequence:           []float64{0.01, 0.1, 0.5, 1.0},
			HeightPolicy:             HeightPolicyClearance,
			UnitConversionFactor:     1.0 / MillimetersPerFoot,
			CurveToleranceMultiplier: 1.01,
			Workers:                  4,
		},
		IsBuiltIn: true,
	},
	{
		Name:        "Imperial clearance",
		Description: "Clearance attribute entered in decimal feet",
		Settings: Settings{
			NormalAngleTolerance:     0.1,
			OffsetSequence:           []float64{0.01, 0.1, 0.5, 1.0},
			HeightPolicy:             HeightPolicyClearance,
			UnitConversionFactor:     1.0,
			CurveToleranceMultiplier: 1.01,
			Workers:                  4,
		},
		IsBuiltIn: true,
	},
	{
		Name:        "Room bounds",
		Description: "Height from room bounding elevations, clearance attributes ignored",
		Settings: Settings{
			NormalAngleTolerance:     0.1,
			OffsetSequence:           []float64{0.01, 0.1, 0.5, 1.0},
			HeightPolicy:             HeightPolicyBounds,
			UnitConversionFactor:     1.0,
			CurveToleranceMultiplier: 1.01,
			Workers:                  4,
		},
		IsBuiltIn: true,
	},
	{
		Name:        "Coarse sampling",
		Description: "Wider probe offsets and looser face detection for sloppy room boundaries",
		Settings: Settings{
			NormalAngleTolerance:     0.1,
			OffsetSequence:           []float64{0.1, 0.5, 1.0, 2.0},
			HeightPolicy:             HeightPolicyClearance,
			UnitConversionFactor:     1.0 / MillimetersPerFoot,
			CurveToleranceMultiplier: 1.05,
			Workers:                  4,
		},
		IsBuiltIn: true,
	},
	{
		Name:        "Default",
		Description: "Standard metric clearance configuration",
		Settings:    Settings{},
		IsBuiltIn:   true,
	},
}

func init() {
	// The fallback preset always mirrors DefaultSettings.
	BuiltInPresets[len(BuiltInPresets)-1].Settings = DefaultSettings()
}

// CustomPresets holds user-defined presets loaded from the config dir.
var CustomPresets []SplitPreset

// AllPresets returns built-in presets followed by custom ones.
func AllPresets() []SplitPreset {
	all := make([]SplitPreset, 0, len(BuiltInPresets)+len(CustomPresets))
	all = append(all, BuiltInPresets...)
	all = append(all, CustomPresets...)
	return all
}

// GetPreset returns a preset by name, or the Default preset if not found.
// Custom presets are checked first so they can shadow nothing built-in but
// still resolve by their own names.
func GetPreset(name string) SplitPreset {
	for _, p := range CustomPresets {
		if p.Name == name {
			return p
		}
	}
	for _, p := range BuiltInPresets {
		if p.Name == name {
			return p
		}
	}
	return BuiltInPresets[len(BuiltInPresets)-1] // Default (last one)
}

// GetPresetNames returns the names of all available presets.
func GetPresetNames() []string {
	var names []string
	for _, p := range AllPresets() {
		names = append(names, p.Name)
	}
	return names
}

// AddCustomPreset registers a custom preset. Presets with a built-in name
// are rejected; an existing custom preset with the same name is updated in
// place.
func AddCustomPreset(p SplitPreset) error {
	for _, b := range BuiltInPresets {
		if b.Name == p.Name {
			return fmt.Errorf("preset name %q conflicts with a built-in preset", p.Name)
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()[:8]
	}
	p.IsBuiltIn = false
	for i := range CustomPresets {
		if CustomPresets[i].Name == p.Name {
			CustomPresets[i] = p
			return nil
		}
	}
	CustomPresets = append(CustomPresets, p)
	return nil
}

// RemoveCustomPreset removes a custom preset by name. Returns true if found.
func RemoveCustomPreset(name string) bool {
	for i := range CustomPresets {
		if CustomPresets[i].Name == name {
			CustomPresets = append(CustomPresets[:i], CustomPresets[i+1:]...)
			return true
		}
	}
	return false
}
