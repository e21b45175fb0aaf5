package engine

import (
	"testing"

	"github.com/piwi3910/LineCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestSettings() model.CutSettings {
	s := model.DefaultSettings()
	// Simplify for testing: no kerf, no trim
	s.KerfWidth = 0
	return s
}

func labelsOn(bar model.BarResult) []string {
	var labels []string
	for _, c := range bar.Cuts {
		labels = append(labels, c.Part.Label)
	}
	return labels
}

func TestOptimize_SingleStockSinglePart(t *testing.T) {
	opt := New(defaultTestSettings())
	parts := []model.Part{model.NewPart("A", 500, 1)}
	stocks := []model.StockBar{model.NewStockBar("Bar", 1000, 1)}

	plan := opt.Optimize(parts, stocks)

	require.Len(t, plan.Bars, 1)
	assert.Empty(t, plan.Unplaced)
	require.Len(t, plan.Bars[0].Cuts, 1)
	assert.Equal(t, "A", plan.Bars[0].Cuts[0].Part.Label)
	assert.Equal(t, 500.0, plan.Bars[0].Remaining)
	assert.Equal(t, 1, plan.Bars[0].ID)
}

func TestOptimize_MatchesAllocator(t *testing.T) {
	opt := New(defaultTestSettings())
	parts := []model.Part{
		model.NewPart("Rail", 1200, 1),
		model.NewPart("Post", 800, 2),
		model.NewPart("Brace", 500, 1),
	}
	stocks := []model.StockBar{
		model.NewStockBar("Short", 2500, 1),
		model.NewStockBar("Long", 3000, 1),
	}

	plan := opt.Optimize(parts, stocks)
	raw := Allocate([]float64{1200, 800, 800, 500}, []float64{2500, 3000})

	require.Len(t, plan.Bars, len(raw.Stock))
	for i, bar := range plan.Bars {
		var lengths []float64
		for _, c := range bar.Cuts {
			lengths = append(lengths, c.Allocated)
		}
		assert.ElementsMatch(t, raw.Stock[i].Cuts, lengths)
		assert.Equal(t, raw.Stock[i].Remaining, bar.Remaining)
	}
	assert.Equal(t, []string{"Rail", "Post", "Brace"}, labelsOn(plan.Bars[0]))
	assert.Equal(t, []string{"Post"}, labelsOn(plan.Bars[1]))
}

func TestOptimize_QuantityExpansion(t *testing.T) {
	opt := New(defaultTestSettings())

	parts := []model.Part{model.NewPart("A", 500, 3)}
	stocks := []model.StockBar{model.NewStockBar("Bar", 1000, 2)}

	plan := opt.Optimize(parts, stocks)

	require.Len(t, plan.Bars, 2, "each stock quantity becomes its own bar")
	assert.Equal(t, 3, plan.CutCount())
	assert.Empty(t, plan.Unplaced)
	for _, bar := range plan.Bars {
		for _, c := range bar.Cuts {
			assert.Equal(t, 1, c.Part.Quantity)
			assert.Equal(t, parts[0].ID, c.Part.ID)
		}
	}
}

func TestOptimize_AllPartsUnplaceable(t *testing.T) {
	opt := New(defaultTestSettings())
	parts := []model.Part{model.NewPart("Huge", 5000, 2)}
	stocks := []model.StockBar{model.NewStockBar("Bar", 1000, 1)}

	plan := opt.Optimize(parts, stocks)

	require.Len(t, plan.Bars, 1)
	assert.Empty(t, plan.Bars[0].Cuts)
	assert.Len(t, plan.Unplaced, 2)
	assert.Empty(t, plan.UsedBars())
}

func TestOptimize_EmptyInputs(t *testing.T) {
	opt := New(defaultTestSettings())

	plan := opt.Optimize(nil, []model.StockBar{model.NewStockBar("Bar", 1000, 1)})
	assert.Len(t, plan.Bars, 1)
	assert.Empty(t, plan.Unplaced)

	plan = opt.Optimize([]model.Part{model.NewPart("A", 100, 1)}, nil)
	assert.Empty(t, plan.Bars)
	assert.Len(t, plan.Unplaced, 1)
}

func TestOptimize_KerfAddedToEveryCut(t *testing.T) {
	settings := defaultTestSettings()
	settings.KerfWidth = 5

	// 2 x (495 + 5) fills 1000 exactly; a third cut cannot fit.
	plan := New(settings).Optimize(
		[]model.Part{model.NewPart("A", 495, 3)},
		[]model.StockBar{model.NewStockBar("Bar", 1000, 1)},
	)

	require.Len(t, plan.Bars[0].Cuts, 2)
	assert.Equal(t, 500.0, plan.Bars[0].Cuts[0].Allocated)
	assert.Equal(t, 0.0, plan.Bars[0].Remaining)
	assert.Len(t, plan.Unplaced, 1)
	assert.InDelta(t, 990.0, plan.Bars[0].UsedLength(), 1e-9)
}

func TestOptimize_TrimReducesUsableLength(t *testing.T) {
	settings := defaultTestSettings()
	settings.TrimLeft = 10
	settings.TrimRight = 15

	plan := New(settings).Optimize(
		[]model.Part{model.NewPart("Fits", 975, 1), model.NewPart("TooLong", 976, 1)},
		[]model.StockBar{model.NewStockBar("A", 1000, 1), model.NewStockBar("B", 1000, 1)},
	)

	assert.Equal(t, 975.0, plan.Bars[0].Usable)
	assert.Equal(t, []string{"Fits"}, labelsOn(plan.Bars[0]))
	assert.Empty(t, plan.Bars[1].Cuts)
	require.Len(t, plan.Unplaced, 1)
	assert.Equal(t, "TooLong", plan.Unplaced[0].Label)
}

func TestOptimize_TrimLongerThanBar(t *testing.T) {
	settings := defaultTestSettings()
	settings.TrimLeft = 600
	settings.TrimRight = 600

	plan := New(settings).Optimize(
		[]model.Part{model.NewPart("A", 10, 1)},
		[]model.StockBar{model.NewStockBar("Bar", 1000, 1)},
	)

	assert.Equal(t, 0.0, plan.Bars[0].Usable)
	assert.Len(t, plan.Unplaced, 1)
}

func TestOptimize_Positions(t *testing.T) {
	settings := defaultTestSettings()
	settings.KerfWidth = 3
	settings.TrimLeft = 20

	plan := New(settings).Optimize(
		[]model.Part{model.NewPart("A", 400, 1), model.NewPart("B", 300, 1)},
		[]model.StockBar{model.NewStockBar("Bar", 1000, 1)},
	)

	cuts := plan.Bars[0].Cuts
	require.Len(t, cuts, 2)
	assert.Equal(t, 20.0, cuts[0].Position)
	assert.Equal(t, 423.0, cuts[1].Position)
}

func TestOptimize_Groups_SeparatePlacement(t *testing.T) {
	opt := New(defaultTestSettings())

	steel := model.NewPart("Steel", 900, 1)
	steel.Group = "steel"
	alu := model.NewPart("Alu", 800, 1)
	alu.Group = "alu"

	aluBar := model.NewStockBar("Alu bar", 1000, 1)
	aluBar.Group = "ALU"
	steelBar := model.NewStockBar("Steel bar", 1000, 1)
	steelBar.Group = "steel"

	plan := opt.Optimize([]model.Part{steel, alu}, []model.StockBar{aluBar, steelBar})

	assert.Equal(t, []string{"Alu"}, labelsOn(plan.Bars[0]), "groups compare case-insensitively")
	assert.Equal(t, []string{"Steel"}, labelsOn(plan.Bars[1]))
	assert.Empty(t, plan.Unplaced)
}

func TestOptimize_Groups_NoMatchingBar(t *testing.T) {
	opt := New(defaultTestSettings())

	wood := model.NewPart("Wood", 100, 1)
	wood.Group = "timber"
	bar := model.NewStockBar("Steel bar", 1000, 1)
	bar.Group = "steel"

	plan := opt.Optimize([]model.Part{wood}, []model.StockBar{bar})

	assert.Empty(t, plan.Bars[0].Cuts)
	require.Len(t, plan.Unplaced, 1)
	assert.Equal(t, "Wood", plan.Unplaced[0].Label)
}

func TestOptimize_Groups_EmptyGroupIsUniversal(t *testing.T) {
	opt := New(defaultTestSettings())

	anyPart := model.NewPart("Any", 500, 1)
	steel := model.NewPart("Steel", 400, 1)
	steel.Group = "steel"
	steelBar := model.NewStockBar("Steel bar", 1000, 1)
	steelBar.Group = "steel"
	plainBar := model.NewStockBar("Plain", 1000, 1)

	plan := opt.Optimize([]model.Part{steel, anyPart}, []model.StockBar{steelBar, plainBar})

	// A universal bar or part is not consumed twice.
	assert.Equal(t, []string{"Any", "Steel"}, labelsOn(plan.Bars[0]))
	assert.Empty(t, plan.Bars[1].Cuts)
	assert.Equal(t, 100.0, plan.Bars[0].Remaining)
}

func TestOptimize_Offcuts(t *testing.T) {
	settings := defaultTestSettings()
	settings.MinOffcutLength = 300

	plan := New(settings).Optimize(
		[]model.Part{model.NewPart("A", 600, 1), model.NewPart("B", 900, 1)},
		[]model.StockBar{model.NewStockBar("Bar", 1000, 2)},
	)

	require.Len(t, plan.Offcuts, 1)
	assert.Equal(t, 2, plan.Offcuts[0].BarID)
	assert.Equal(t, 400.0, plan.Offcuts[0].Length)
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	parts := []model.Part{model.NewPart("A", 500, 2)}
	stocks := []model.StockBar{model.NewStockBar("Bar", 1000, 1)}

	New(defaultTestSettings()).Optimize(parts, stocks)

	assert.Equal(t, 2, parts[0].Quantity)
	assert.Equal(t, 1, stocks[0].Quantity)
}
