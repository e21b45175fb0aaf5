package ui

import (
	"strings"
	"testing"

	"github.com/piwi3910/LineCut/internal/model"
)

func TestEstimateText(t *testing.T) {
	parts := []model.Part{
		{Label: "Rail", Length: 1000, Quantity: 3},
		{Label: "Beam", Length: 4000, Quantity: 1},
	}
	est := model.CalculatePurchaseEstimate(parts, 3000, 0, 10, 20)

	got := estimateText(est, model.UnitMillimeter)
	for _, want := range []string{
		"Total cut length: 3000 mm (kerf 0 mm per cut)",
		"Bars needed: 1 (1.00 exact)",
		"With 10% waste: 2 bars",
		"Estimated cost: 40.00",
		"Beam 4000 mm x1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestEstimateTextWithoutPrice(t *testing.T) {
	est := model.CalculatePurchaseEstimate([]model.Part{{Label: "A", Length: 500, Quantity: 2}}, 3000, 0, 0, 0)
	if got := estimateText(est, model.UnitMillimeter); strings.Contains(got, "cost") {
		t.Errorf("unexpected cost line in:\n%s", got)
	}
}
