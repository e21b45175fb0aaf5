package engine

import (
	"fmt"

	"github.com/piwi3910/LineCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.CutSettings
}

// ComparisonResult holds the plan and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Plan          model.CutPlan
	BarsUsed      int
	TotalCuts     int
	WastePercent  float64
	UnplacedCount int
	Cost          float64
}

// CompareScenarios plans the same parts and stock under each scenario and
// returns the results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, parts []model.Part, stocks []model.StockBar) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		plan := New(scenario.Settings).Optimize(parts, stocks)

		wastePercent := 0.0
		if len(plan.UsedBars()) > 0 {
			wastePercent = 100.0 - plan.TotalEfficiency()
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Plan:          plan,
			BarsUsed:      len(plan.UsedBars()),
			TotalCuts:     plan.CutCount(),
			WastePercent:  wastePercent,
			UnplacedCount: len(plan.Unplaced),
			Cost:          plan.TotalCost(),
		})
	}

	return results
}

// BuildDefaultScenarios derives what-if alternatives from the current
// settings by varying kerf and trim.
func BuildDefaultScenarios(baseSettings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	if baseSettings.KerfWidth > 0 {
		noKerf := baseSettings
		noKerf.KerfWidth = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Kerf",
			Settings: noKerf,
		})
	}

	// Thinner blade
	if baseSettings.KerfWidth > 1.0 {
		halfKerf := baseSettings
		halfKerf.KerfWidth = baseSettings.KerfWidth * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", halfKerf.KerfWidth),
			Settings: halfKerf,
		})
	}

	if baseSettings.TrimLeft > 0 || baseSettings.TrimRight > 0 {
		noTrim := baseSettings
		noTrim.TrimLeft = 0
		noTrim.TrimRight = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Trim",
			Settings: noTrim,
		})
	}

	return scenarios
}
