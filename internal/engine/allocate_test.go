package engine

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lengthsOf(pieces int, r *rand.Rand, min, max int) []float64 {
	out := make([]float64, pieces)
	for i := range out {
		out[i] = float64(min + r.Intn(max-min+1))
	}
	return out
}

func TestAllocate_DocumentedExample(t *testing.T) {
	result := Allocate([]float64{1200, 800, 800, 500}, []float64{2500, 3000})

	require.Len(t, result.Stock, 2)
	assert.Equal(t, 1, result.Stock[0].ID)
	assert.Equal(t, 2500.0, result.Stock[0].Original)
	assert.Equal(t, []float64{1200, 800, 500}, result.Stock[0].Cuts)
	assert.Equal(t, 0.0, result.Stock[0].Remaining)

	assert.Equal(t, 2, result.Stock[1].ID)
	assert.Equal(t, 3000.0, result.Stock[1].Original)
	assert.Equal(t, []float64{800}, result.Stock[1].Cuts)
	assert.Equal(t, 2200.0, result.Stock[1].Remaining)

	assert.Empty(t, result.Waste)
}

func TestAllocate_FirstFitNotBestFit(t *testing.T) {
	result := Allocate([]float64{800}, []float64{1000, 850})

	require.Len(t, result.Stock, 2)
	assert.Equal(t, []float64{800}, result.Stock[0].Cuts, "the first piece that fits wins")
	assert.Empty(t, result.Stock[1].Cuts)
	assert.Equal(t, 850.0, result.Stock[1].Remaining)
}

func TestAllocate_DescendingOrder(t *testing.T) {
	result := Allocate([]float64{500, 800}, []float64{1000})

	require.Len(t, result.Stock, 1)
	assert.Equal(t, []float64{800}, result.Stock[0].Cuts)
	assert.Equal(t, 200.0, result.Stock[0].Remaining)
	assert.Equal(t, []float64{500}, result.Waste)
}

func TestAllocate_EqualLengthsTieBreak(t *testing.T) {
	result := Allocate([]float64{500, 500}, []float64{500})

	require.Len(t, result.Stock, 1)
	assert.Equal(t, []float64{500}, result.Stock[0].Cuts)
	assert.Equal(t, 0.0, result.Stock[0].Remaining)
	assert.Equal(t, []float64{500}, result.Waste)
}

func TestAllocate_StableOrderOfEqualCuts(t *testing.T) {
	// Indices 1 and 2 tie; the earlier one must be placed first.
	alloc := firstFit([]float64{300, 700, 700}, []float64{700, 700}, nil)

	assert.Equal(t, []int{1}, alloc.pieces[0])
	assert.Equal(t, []int{2}, alloc.pieces[1])
	assert.Equal(t, []int{0}, alloc.waste)
}

func TestAllocate_AllWaste(t *testing.T) {
	result := Allocate([]float64{5000}, []float64{1000})

	require.Len(t, result.Stock, 1)
	assert.Empty(t, result.Stock[0].Cuts)
	assert.Equal(t, 1000.0, result.Stock[0].Remaining)
	assert.Equal(t, []float64{5000}, result.Waste)
}

func TestAllocate_ExactFitIsInclusive(t *testing.T) {
	result := Allocate([]float64{1000}, []float64{1000})

	assert.Equal(t, []float64{1000}, result.Stock[0].Cuts)
	assert.Equal(t, 0.0, result.Stock[0].Remaining)
	assert.Empty(t, result.Waste)
}

func TestAllocate_EmptyInputs(t *testing.T) {
	t.Run("no cuts", func(t *testing.T) {
		result := Allocate(nil, []float64{1000, 2000})
		require.Len(t, result.Stock, 2)
		for _, p := range result.Stock {
			assert.NotNil(t, p.Cuts)
			assert.Empty(t, p.Cuts)
			assert.Equal(t, p.Original, p.Remaining)
		}
		assert.NotNil(t, result.Waste)
		assert.Empty(t, result.Waste)
	})

	t.Run("no stock", func(t *testing.T) {
		result := Allocate([]float64{300, 900, 600}, nil)
		assert.NotNil(t, result.Stock)
		assert.Empty(t, result.Stock)
		assert.Equal(t, []float64{900, 600, 300}, result.Waste)
	})

	t.Run("nothing at all", func(t *testing.T) {
		result := Allocate(nil, nil)
		assert.Empty(t, result.Stock)
		assert.Empty(t, result.Waste)
	})
}

func TestAllocate_UnusedPiecesReported(t *testing.T) {
	result := Allocate([]float64{100}, []float64{1000, 2000, 3000})

	require.Len(t, result.Stock, 3)
	assert.Equal(t, 1, result.PiecesUsed())
	for i, p := range result.Stock {
		assert.Equal(t, i+1, p.ID)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	cuts := []float64{500, 1200, 800, 800}
	stock := []float64{2500, 3000}

	Allocate(cuts, stock)

	assert.Equal(t, []float64{500, 1200, 800, 800}, cuts)
	assert.Equal(t, []float64{2500, 3000}, stock)
}

func TestAllocate_RandomProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		cuts := lengthsOf(r.Intn(25), r, 1, 3000)
		stock := lengthsOf(r.Intn(6), r, 500, 6000)
		cutsBefore := slices.Clone(cuts)
		stockBefore := slices.Clone(stock)

		result := Allocate(cuts, stock)

		require.Len(t, result.Stock, len(stock))

		var placed []float64
		for i, p := range result.Stock {
			assert.Equal(t, i+1, p.ID)
			assert.Equal(t, stock[i], p.Original)
			assert.GreaterOrEqual(t, p.Remaining, 0.0)
			assert.InDelta(t, p.Original, p.Remaining+p.Used(), 1e-9)
			placed = append(placed, p.Cuts...)
		}

		// Every cut is placed once or wasted once.
		assert.ElementsMatch(t, cuts, append(placed, result.Waste...))

		// Same input, same output.
		assert.Equal(t, result, Allocate(cuts, stock))

		assert.Equal(t, cutsBefore, cuts)
		assert.Equal(t, stockBefore, stock)
	}
}

func TestAllocate_WastedCutFitsNowhere(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for run := 0; run < 100; run++ {
		cuts := lengthsOf(1+r.Intn(20), r, 100, 4000)
		stock := lengthsOf(1+r.Intn(4), r, 1000, 5000)

		result := Allocate(cuts, stock)

		// Remaining only shrinks, so a wasted cut was too long for every
		// piece's final remainder as well.
		for _, w := range result.Waste {
			for _, p := range result.Stock {
				assert.Less(t, p.Remaining, w)
			}
		}
	}
}

func TestProcessingOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2, 4, 0, 3}, processingOrder([]float64{100, 900, 900, 50, 300}))
	assert.Empty(t, processingOrder(nil))
}
