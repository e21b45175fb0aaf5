package importer

import (
	"fmt"
	"math"

	"github.com/piwi3910/LineCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// Members whose lengths agree to lengthTolerance are merged.
const (
	lengthTolerance = 0.01
	lengthScale     = 1 / lengthTolerance
)

// ImportDXF imports parts from a DXF drawing where every member is drawn as a
// single entity: a LINE, an ARC or an open LWPOLYLINE becomes one part whose
// length is the entity's length. A closed LWPOLYLINE (a frame outline) yields
// one part per edge. Members of the same length are merged into one part with
// a quantity, in order of first appearance.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			lengths = append(lengths, distance(e.Start, e.End))

		case *entity.Arc:
			lengths = append(lengths, arcLength(e))

		case *entity.LwPolyline:
			if len(e.Vertices) < 2 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 2 vertices")
				continue
			}
			if e.Closed {
				lengths = append(lengths, polylineEdges(e)...)
			} else {
				lengths = append(lengths, sum(polylineEdges(e)))
			}

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	for _, m := range mergeLengths(lengths) {
		if m.length < lengthTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %d zero-length members", m.count))
			continue
		}
		label := fmt.Sprintf("DXF Part %d", len(result.Parts)+1)
		result.Parts = append(result.Parts, model.NewPart(label, m.length, m.count))
	}

	if len(result.Parts) == 0 {
		result.Errors = append(result.Errors, "No lines, arcs or polylines found in DXF file")
	}
	return result
}

// polylineEdges returns the length of every edge of the polyline, including
// the closing edge when the polyline is closed. Bulged edges are arcs.
func polylineEdges(lw *entity.LwPolyline) []float64 {
	n := len(lw.Vertices)
	edges := n - 1
	if lw.Closed {
		edges = n
	}

	out := make([]float64, 0, edges)
	for i := 0; i < edges; i++ {
		a, b := lw.Vertices[i], lw.Vertices[(i+1)%n]
		chord := distance(a, b)

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		out = append(out, bulgeArcLength(chord, bulge))
	}
	return out
}

// bulgeArcLength returns the length of an edge with the given chord and DXF
// bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcLength(chord, bulge float64) float64 {
	b := math.Abs(bulge)
	if b < 1e-9 || chord < 1e-9 {
		return chord
	}
	included := 4 * math.Atan(b)
	radius := chord * (1 + b*b) / (4 * b)
	return radius * included
}

// arcLength returns the length of a DXF ARC; angles are in degrees, counter-clockwise.
func arcLength(a *entity.Arc) float64 {
	sweep := a.Angle[1] - a.Angle[0]
	if sweep <= 0 {
		sweep += 360
	}
	return a.Circle.Radius * sweep * math.Pi / 180
}

func distance(a, b []float64) float64 {
	var sq float64
	for i := 0; i < len(a) && i < len(b) && i < 3; i++ {
		d := b[i] - a[i]
		sq += d * d
	}
	return math.Sqrt(sq)
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}

type mergedLength struct {
	length float64
	count  int
}

// mergeLengths rounds lengths to lengthTolerance and counts equal values,
// keeping the order in which each length first appears.
func mergeLengths(lengths []float64) []mergedLength {
	var out []mergedLength
	index := make(map[int64]int)
	for _, l := range lengths {
		key := int64(math.Round(l * lengthScale))
		if i, ok := index[key]; ok {
			out[i].count++
			continue
		}
		index[key] = len(out)
		out = append(out, mergedLength{length: float64(key) / lengthScale, count: 1})
	}
	return out
}
