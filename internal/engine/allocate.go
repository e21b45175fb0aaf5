package engine

import (
	"sort"

	"github.com/piwi3910/LineCut/internal/model"
)

// allocation is the index-level outcome of a first-fit pass. Higher layers use
// the cut indices to re-attach caller identity by position.
type allocation struct {
	pieces    [][]int   // Cut indices per stock piece, in assignment order
	remaining []float64 // Remaining length per stock piece
	waste     []int     // Unplaced cut indices, in processing order
}

// fitFunc reports whether cut may go on piece at all, independent of length.
type fitFunc func(cut, piece int) bool

// processingOrder returns the cut indices sorted by descending length. Equal
// lengths keep their input order.
func processingOrder(cuts []float64) []int {
	order := make([]int, len(cuts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cuts[order[a]] > cuts[order[b]]
	})
	return order
}

// firstFit places each cut, longest first, on the lowest-numbered piece whose
// remaining length is at least the cut length. A nil fits accepts every pair.
// Neither input slice is modified.
func firstFit(cuts, stock []float64, fits fitFunc) allocation {
	alloc := allocation{
		pieces:    make([][]int, len(stock)),
		remaining: make([]float64, len(stock)),
	}
	copy(alloc.remaining, stock)

	for _, ci := range processingOrder(cuts) {
		c := cuts[ci]
		placed := false
		for pi := range alloc.remaining {
			if alloc.remaining[pi] < c {
				continue
			}
			if fits != nil && !fits(ci, pi) {
				continue
			}
			alloc.pieces[pi] = append(alloc.pieces[pi], ci)
			alloc.remaining[pi] -= c
			placed = true
			break
		}
		if !placed {
			alloc.waste = append(alloc.waste, ci)
		}
	}
	return alloc
}

// Allocate assigns every cut to a stock piece using greedy first-fit over the
// cuts sorted longest first, and reports the cuts that could not be placed.
//
// Stock pieces are numbered 1..N in input order and scanned in that order; the
// first piece with enough remaining length wins even if a later one would fit
// tighter. Equal cut lengths are processed in input order. The result lists
// every piece, used or not, and the unplaced cuts in the order they failed.
//
// Allocate does not validate its input; callers reject non-positive and
// non-finite lengths with model.ValidateLengths first.
func Allocate(cuts, stockLengths []float64) model.AllocationResult {
	alloc := firstFit(cuts, stockLengths, nil)

	result := model.AllocationResult{
		Stock: make([]model.StockPiece, len(stockLengths)),
		Waste: make([]float64, 0, len(alloc.waste)),
	}
	for i, length := range stockLengths {
		assigned := make([]float64, 0, len(alloc.pieces[i]))
		for _, ci := range alloc.pieces[i] {
			assigned = append(assigned, cuts[ci])
		}
		result.Stock[i] = model.StockPiece{
			ID:        i + 1,
			Original:  length,
			Cuts:      assigned,
			Remaining: alloc.remaining[i],
		}
	}
	for _, ci := range alloc.waste {
		result.Waste = append(result.Waste, cuts[ci])
	}
	return result
}
