package model

import "github.com/google/uuid"

// StockPiece is one raw-material length inside an allocation. Cuts holds the
// lengths placed on it in assignment order.
type StockPiece struct {
	ID        int       `json:"id"`
	Original  float64   `json:"original"`
	Cuts      []float64 `json:"cuts"`
	Remaining float64   `json:"remaining"`
}

// Used returns the total length assigned to the piece.
func (p StockPiece) Used() float64 {
	var total float64
	for _, c := range p.Cuts {
		total += c
	}
	return total
}

// AllocationResult is the output of the allocator: every stock piece in id
// order (including untouched ones) and the cuts that could not be placed.
type AllocationResult struct {
	Stock []StockPiece `json:"stock"`
	Waste []float64    `json:"waste"`
}

// PiecesUsed returns the number of stock pieces that received at least one cut.
func (r AllocationResult) PiecesUsed() int {
	n := 0
	for _, p := range r.Stock {
		if len(p.Cuts) > 0 {
			n++
		}
	}
	return n
}

// Part represents a required piece to be cut from linear stock.
type Part struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Length   float64 `json:"length" yaml:"length"` // mm
	Quantity int     `json:"quantity" yaml:"quantity"`
	Group    string  `json:"group,omitempty" yaml:"group,omitempty"` // Material group; empty fits any bar
}

// NewPart creates a part with a generated short ID.
func NewPart(label string, length float64, qty int) Part {
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Quantity: qty,
	}
}

// StockBar represents an available length of raw material.
type StockBar struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Length   float64 `json:"length" yaml:"length"` // mm
	Quantity int     `json:"quantity" yaml:"quantity"`
	Group    string  `json:"group,omitempty" yaml:"group,omitempty"`
	Price    float64 `json:"price,omitempty" yaml:"price,omitempty"` // Price per bar, 0 if unknown
}

// NewStockBar creates a stock bar with a generated short ID.
func NewStockBar(label string, length float64, qty int) StockBar {
	return StockBar{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Quantity: qty,
	}
}

// CutSettings holds the caller-side adjustments folded into lengths before
// allocation.
type CutSettings struct {
	KerfWidth float64 `json:"kerf_width" yaml:"kerf_width"` // Blade width added to every cut (mm)
	TrimLeft  float64 `json:"trim_left" yaml:"trim_left"`   // Removed from the start of every bar (mm)
	TrimRight float64 `json:"trim_right" yaml:"trim_right"` // Removed from the end of every bar (mm)
	Units     Unit    `json:"units" yaml:"units"`           // Display units

	MinOffcutLength float64 `json:"min_offcut_length,omitempty" yaml:"min_offcut_length,omitempty"` // 0 selects MinOffcutLength
}

// DefaultSettings returns a 3.2 mm kerf with no trim, in millimeters.
func DefaultSettings() CutSettings {
	return CutSettings{
		KerfWidth: 3.2,
		TrimLeft:  0,
		TrimRight: 0,
		Units:     UnitMillimeter,

		MinOffcutLength: MinOffcutLength,
	}
}

// PlacedCut is a single part occurrence placed on a stock bar.
type PlacedCut struct {
	Part      Part    `json:"part"`
	Allocated float64 `json:"allocated"` // Length consumed on the bar, kerf included
	Position  float64 `json:"position"`  // Offset of the cut start from the bar start (mm)
}

// BarResult represents one stock bar with its placed cuts.
type BarResult struct {
	ID        int         `json:"id"` // 1-based position in the expanded stock list
	Stock     StockBar    `json:"stock"`
	Original  float64     `json:"original"`
	Usable    float64     `json:"usable"` // Original minus trim
	Cuts      []PlacedCut `json:"cuts"`
	Remaining float64     `json:"remaining"`
}

// UsedLength returns the net length of the parts placed on the bar.
func (b BarResult) UsedLength() float64 {
	var total float64
	for _, c := range b.Cuts {
		total += c.Part.Length
	}
	return total
}

// Efficiency returns the usage percentage of the bar.
func (b BarResult) Efficiency() float64 {
	if b.Original == 0 {
		return 0
	}
	return (b.UsedLength() / b.Original) * 100.0
}

// CutPlan holds a labeled solution.
type CutPlan struct {
	Bars     []BarResult `json:"bars"`
	Unplaced []Part      `json:"unplaced"` // One entry per unplaced occurrence, Quantity 1
	Settings CutSettings `json:"settings"`
	Offcuts  []Offcut    `json:"offcuts,omitempty"`
}

// UsedBars returns the bars that received at least one cut.
func (p CutPlan) UsedBars() []BarResult {
	var used []BarResult
	for _, b := range p.Bars {
		if len(b.Cuts) > 0 {
			used = append(used, b)
		}
	}
	return used
}

// TotalEfficiency returns overall material usage over the bars actually used.
func (p CutPlan) TotalEfficiency() float64 {
	var used, total float64
	for _, b := range p.UsedBars() {
		used += b.UsedLength()
		total += b.Original
	}
	if total == 0 {
		return 0
	}
	return (used / total) * 100.0
}

// TotalCost sums the price of every bar that received a cut.
func (p CutPlan) TotalCost() float64 {
	var cost float64
	for _, b := range p.UsedBars() {
		cost += b.Stock.Price
	}
	return cost
}

// CutCount returns the number of placed cuts.
func (p CutPlan) CutCount() int {
	n := 0
	for _, b := range p.Bars {
		n += len(b.Cuts)
	}
	return n
}

// Project ties everything together for save/load.
type Project struct {
	Name     string      `json:"name" yaml:"name"`
	Parts    []Part      `json:"parts" yaml:"parts"`
	Stocks   []StockBar  `json:"stocks" yaml:"stocks"`
	Settings CutSettings `json:"settings" yaml:"settings"`
	Result   *CutPlan    `json:"result,omitempty" yaml:"-"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Parts:    []Part{},
		Stocks:   []StockBar{},
		Settings: DefaultSettings(),
	}
}
