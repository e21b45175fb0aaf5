package model

import "math"

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	TotalCutLength  float64 `json:"total_cut_length"`  // Sum of all cuts including kerf (mm)
	BarLength       float64 `json:"bar_length"`        // Length of one bar (mm)
	BarsNeededExact float64 `json:"bars_needed_exact"` // Exact fractional number of bars
	BarsNeededMin   int     `json:"bars_needed_min"`   // Minimum bars (ceiling of exact)
	BarsWithWaste   int     `json:"bars_with_waste"`   // Recommended bars including waste factor
	WastePercent    float64 `json:"waste_percent"`     // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost   float64 `json:"estimated_cost"`    // Total cost if pricing available
	PricePerBar     float64 `json:"price_per_bar"`     // Price used for estimation
	KerfWidth       float64 `json:"kerf_width"`        // Kerf width used in calculation
	Oversize        []Part  `json:"oversize,omitempty"`
}

// CalculatePurchaseEstimate computes how many bars of barLength to buy for a
// cut list. Parts longer than a bar (kerf included) can never be cut from it;
// they are reported in Oversize and left out of the totals.
func CalculatePurchaseEstimate(parts []Part, barLength, kerfWidth, wastePercent, pricePerBar float64) PurchaseEstimate {
	est := PurchaseEstimate{
		BarLength:    barLength,
		WastePercent: wastePercent,
		PricePerBar:  pricePerBar,
		KerfWidth:    kerfWidth,
	}

	for _, p := range parts {
		cut := p.Length + kerfWidth
		if barLength > 0 && cut > barLength {
			est.Oversize = append(est.Oversize, p)
			continue
		}
		est.TotalCutLength += cut * float64(p.Quantity)
	}

	if barLength <= 0 {
		return est
	}

	est.BarsNeededExact = est.TotalCutLength / barLength
	est.BarsNeededMin = int(math.Ceil(est.BarsNeededExact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	est.BarsWithWaste = int(math.Ceil(est.BarsNeededExact * wasteFactor))
	if est.BarsWithWaste < est.BarsNeededMin {
		est.BarsWithWaste = est.BarsNeededMin
	}

	est.EstimatedCost = float64(est.BarsWithWaste) * pricePerBar
	return est
}
