package model

import "github.com/google/uuid"

// Offcut represents a reusable remnant left at the end of a bar after cutting.
type Offcut struct {
	ID       string  `json:"id"`
	BarID    int     `json:"bar_id"`    // Which bar it came from
	BarLabel string  `json:"bar_label"` // Label of the source bar
	Position float64 `json:"position"`  // Start of the remnant from the bar start (mm)
	Length   float64 `json:"length"`    // Usable length (mm)
	Group    string  `json:"group,omitempty"`
	Price    float64 `json:"price"` // Share of the bar price proportional to length (0 if not set)
}

// ToStockBar converts an offcut into a stock bar for reuse in future projects.
func (o Offcut) ToStockBar() StockBar {
	bar := NewStockBar("Offcut "+o.BarLabel, o.Length, 1)
	bar.Group = o.Group
	bar.Price = o.Price
	return bar
}

// MinOffcutLength is the minimum remnant length (in mm) worth keeping.
// Shorter remnants are scrap.
const MinOffcutLength = 300.0

// DetectOffcuts returns the remnants of every used bar whose remaining length
// is at least minLength. A non-positive minLength selects MinOffcutLength.
// Bars without cuts are whole stock, not offcuts, and are skipped.
func DetectOffcuts(plan CutPlan, minLength float64) []Offcut {
	if minLength <= 0 {
		minLength = MinOffcutLength
	}

	var offcuts []Offcut
	for _, b := range plan.Bars {
		if len(b.Cuts) == 0 || b.Remaining < minLength {
			continue
		}
		var price float64
		if b.Original > 0 {
			price = b.Stock.Price * b.Remaining / b.Original
		}
		offcuts = append(offcuts, Offcut{
			ID:       uuid.New().String()[:8],
			BarID:    b.ID,
			BarLabel: b.Stock.Label,
			Position: plan.Settings.TrimLeft + b.Usable - b.Remaining,
			Length:   b.Remaining,
			Group:    b.Stock.Group,
			Price:    price,
		})
	}
	return offcuts
}

// TotalOffcutLength sums the length of the given offcuts.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
