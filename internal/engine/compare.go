package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/WallCut/internal/host"
	"github.com/piwi3910/WallCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the outcomes and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario ComparisonScenario
	Outcomes []model.Outcome
	Metrics  model.RunMetrics
	Err      error
}

// CompareScenarios dry-runs the pipeline once per scenario and returns the
// results in scenario order. Dry runs never mutate the document, so every
// scenario sees the same geometry and the numbers compare like for like.
func CompareScenarios(ctx context.Context, doc host.Document, app host.Application, scenarios []ComparisonScenario, log *zap.Logger) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		pipe := NewPipeline(scenario.Settings, log)
		pipe.DryRun = true
		outcomes, err := pipe.Run(ctx, doc, app)

		results = append(results, ComparisonResult{
			Scenario: scenario,
			Outcomes: outcomes,
			Metrics:  model.ComputeMetrics(outcomes),
			Err:      err,
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if
// alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: the other height policy
	alt := base
	if base.HeightPolicy == model.HeightPolicyClearance {
		alt.HeightPolicy = model.HeightPolicyBounds
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Room Bounds Heights",
			Settings: alt,
		})
	} else {
		alt.HeightPolicy = model.HeightPolicyClearance
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Clearance Heights",
			Settings: alt,
		})
	}

	// Scenario: probe further for rooms
	if n := len(base.OffsetSequence); n > 0 {
		wide := base
		wide.OffsetSequence = append(append([]float64{}, base.OffsetSequence...), base.OffsetSequence[n-1]*2)
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Probe to %.2f ft", wide.OffsetSequence[len(wide.OffsetSequence)-1]),
			Settings: wide,
		})
	}

	// Scenario: looser vertical-face test
	loose := base
	loose.NormalAngleTolerance = base.NormalAngleTolerance * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Normal Tolerance %.2f", loose.NormalAngleTolerance),
		Settings: loose,
	})

	return scenarios
}
