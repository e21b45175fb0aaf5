package model

import (
	"math"
	"testing"
)

func TestCalculatePurchaseEstimateBasic(t *testing.T) {
	parts := []Part{
		{Label: "Rail", Length: 997, Quantity: 6},
	}
	est := CalculatePurchaseEstimate(parts, 6000, 3.0, 10.0, 25.00)

	// Each cut with kerf: 1000 mm, x6 = 6000 mm
	if math.Abs(est.TotalCutLength-6000) > 0.001 {
		t.Errorf("expected total cut length 6000, got %.1f", est.TotalCutLength)
	}
	if est.BarsNeededMin != 1 {
		t.Errorf("expected 1 bar minimum, got %d", est.BarsNeededMin)
	}
	if est.BarsWithWaste != 2 {
		t.Errorf("expected 2 bars with 10%% waste, got %d", est.BarsWithWaste)
	}
	if est.EstimatedCost != 50 {
		t.Errorf("expected cost 50, got %.2f", est.EstimatedCost)
	}
}

func TestCalculatePurchaseEstimateZeroBarLength(t *testing.T) {
	parts := []Part{{Label: "P1", Length: 100, Quantity: 1}}
	est := CalculatePurchaseEstimate(parts, 0, 0, 10, 0)
	if est.BarsNeededMin != 0 {
		t.Errorf("expected 0 bars for zero bar length, got %d", est.BarsNeededMin)
	}
	if est.TotalCutLength != 100 {
		t.Errorf("expected total cut length 100, got %.1f", est.TotalCutLength)
	}
}

func TestCalculatePurchaseEstimateOversize(t *testing.T) {
	parts := []Part{
		{Label: "Long", Length: 7000, Quantity: 1},
		{Label: "Short", Length: 1000, Quantity: 2},
	}
	est := CalculatePurchaseEstimate(parts, 6000, 0, 0, 0)
	if len(est.Oversize) != 1 || est.Oversize[0].Label != "Long" {
		t.Fatalf("expected Long reported as oversize, got %+v", est.Oversize)
	}
	if est.TotalCutLength != 2000 {
		t.Errorf("expected oversize part excluded from totals, got %.1f", est.TotalCutLength)
	}
}

func TestCalculatePurchaseEstimateWasteNeverBelowMin(t *testing.T) {
	parts := []Part{{Label: "P", Length: 2500, Quantity: 3}}
	est := CalculatePurchaseEstimate(parts, 3000, 0, -50, 10)
	if est.BarsWithWaste < est.BarsNeededMin {
		t.Errorf("bars with waste %d below minimum %d", est.BarsWithWaste, est.BarsNeededMin)
	}
}
