package engine

import (
	"strings"

	"github.com/piwi3910/LineCut/internal/model"
)

// Optimizer plans labeled parts onto labeled stock bars.
type Optimizer struct {
	Settings model.CutSettings
}

// New returns an optimizer that plans with settings.
func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Optimize expands part and stock quantities, folds kerf into every cut and
// trim out of every bar, and runs the first-fit allocator over the result.
// Labels are re-attached to the allocation by position.
//
// When parts or stocks carry a group, a grouped part is only placed on bars of
// the same group (case-insensitive). Parts or bars with an empty group are
// compatible with anything. Grouping never changes the processing order.
func (o *Optimizer) Optimize(parts []model.Part, stocks []model.StockBar) model.CutPlan {
	cutParts := expandParts(parts)
	bars := expandStocks(stocks)

	cuts := make([]float64, len(cutParts))
	for i, p := range cutParts {
		cuts[i] = p.Length + o.Settings.KerfWidth
	}

	usable := make([]float64, len(bars))
	for i, b := range bars {
		usable[i] = b.Length - o.Settings.TrimLeft - o.Settings.TrimRight
		if usable[i] < 0 {
			usable[i] = 0
		}
	}

	alloc := firstFit(cuts, usable, groupFilter(cutParts, bars))

	plan := model.CutPlan{
		Bars:     make([]model.BarResult, len(bars)),
		Unplaced: []model.Part{},
		Settings: o.Settings,
	}
	for i, b := range bars {
		placed := make([]model.PlacedCut, 0, len(alloc.pieces[i]))
		pos := o.Settings.TrimLeft
		for _, ci := range alloc.pieces[i] {
			placed = append(placed, model.PlacedCut{
				Part:      cutParts[ci],
				Allocated: cuts[ci],
				Position:  pos,
			})
			pos += cuts[ci]
		}
		plan.Bars[i] = model.BarResult{
			ID:        i + 1,
			Stock:     b,
			Original:  b.Length,
			Usable:    usable[i],
			Cuts:      placed,
			Remaining: alloc.remaining[i],
		}
	}
	for _, ci := range alloc.waste {
		plan.Unplaced = append(plan.Unplaced, cutParts[ci])
	}
	plan.Offcuts = model.DetectOffcuts(plan, o.Settings.MinOffcutLength)
	return plan
}

// expandParts returns one part per required occurrence, in list order.
func expandParts(parts []model.Part) []model.Part {
	var out []model.Part
	for _, p := range parts {
		for q := 0; q < p.Quantity; q++ {
			single := p
			single.Quantity = 1
			out = append(out, single)
		}
	}
	return out
}

// expandStocks returns one bar per available piece, in list order.
func expandStocks(stocks []model.StockBar) []model.StockBar {
	var out []model.StockBar
	for _, s := range stocks {
		for q := 0; q < s.Quantity; q++ {
			single := s
			single.Quantity = 1
			out = append(out, single)
		}
	}
	return out
}

// groupFilter returns nil when no part or bar carries a group, so ungrouped
// input takes exactly the plain allocator path.
func groupFilter(parts []model.Part, bars []model.StockBar) fitFunc {
	grouped := false
	for _, p := range parts {
		if p.Group != "" {
			grouped = true
			break
		}
	}
	if !grouped {
		for _, b := range bars {
			if b.Group != "" {
				grouped = true
				break
			}
		}
	}
	if !grouped {
		return nil
	}
	return func(cut, piece int) bool {
		pg, bg := parts[cut].Group, bars[piece].Group
		return pg == "" || bg == "" || strings.EqualFold(pg, bg)
	}
}
