package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/piwi3910/LineCut/internal/model"
)

// WriteAllocationText writes a raw allocation result as a fixed-width table
// followed by the waste list.
func WriteAllocationText(w io.Writer, result model.AllocationResult) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%-7s  %10s  %10s  %s\n", "Stock #", "Original", "Remaining", "Cuts")
	for _, p := range result.Stock {
		cuts := "-"
		if len(p.Cuts) > 0 {
			cuts = formatLengths(p.Cuts)
		}
		fmt.Fprintf(bw, "%-7d  %10s  %10s  %s\n", p.ID, formatLengths([]float64{p.Original}), formatLengths([]float64{p.Remaining}), cuts)
	}

	if len(result.Waste) == 0 {
		fmt.Fprintln(bw, "\nWaste: none")
	} else {
		fmt.Fprintf(bw, "\nWaste: %s\n", formatLengths(result.Waste))
	}
	return bw.Flush()
}

// WriteText writes a human-readable cut plan: every bar with its cuts and
// remainder, the unplaced parts, then a summary.
func WriteText(w io.Writer, plan model.CutPlan) error {
	units := plan.Settings.Units
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Kerf %s, trim %s / %s\n\n", units.Format(plan.Settings.KerfWidth),
		units.Format(plan.Settings.TrimLeft), units.Format(plan.Settings.TrimRight))

	for _, bar := range plan.Bars {
		fmt.Fprintf(bw, "Bar %d  %s  %s\n", bar.ID, bar.Stock.Label, units.Format(bar.Original))
		if len(bar.Cuts) == 0 {
			fmt.Fprintln(bw, "  (unused)")
		}
		for _, c := range bar.Cuts {
			fmt.Fprintf(bw, "  %-20s %10s  @ %s\n", c.Part.Label, units.Format(c.Part.Length), units.Format(c.Position))
		}
		if len(bar.Cuts) > 0 {
			fmt.Fprintf(bw, "  %-20s %10s\n", "remaining", units.Format(bar.Remaining))
		}
		fmt.Fprintln(bw)
	}

	if len(plan.Unplaced) == 0 {
		fmt.Fprintln(bw, "Unplaced: none")
	} else {
		fmt.Fprintf(bw, "Unplaced (%d):\n", len(plan.Unplaced))
		for _, p := range plan.Unplaced {
			fmt.Fprintf(bw, "  %-20s %10s\n", p.Label, units.Format(p.Length))
		}
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "Bars used:   %d of %d\n", len(plan.UsedBars()), len(plan.Bars))
	fmt.Fprintf(bw, "Cuts placed: %d\n", plan.CutCount())
	fmt.Fprintf(bw, "Efficiency:  %.1f%%\n", plan.TotalEfficiency())
	if cost := plan.TotalCost(); cost > 0 {
		fmt.Fprintf(bw, "Cost:        %.2f\n", cost)
	}
	if len(plan.Offcuts) > 0 {
		fmt.Fprintf(bw, "Offcuts:     %d (%s)\n", len(plan.Offcuts), units.Format(model.TotalOffcutLength(plan.Offcuts)))
	}
	return bw.Flush()
}
