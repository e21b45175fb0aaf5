package model

import (
	"fmt"
	"strings"
)

// Unit is a display unit for lengths. All lengths are stored in millimeters.
type Unit string

const (
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
	UnitInch       Unit = "in"
	UnitFoot       Unit = "ft"
)

var mmPerUnit = map[Unit]float64{
	UnitMillimeter: 1,
	UnitCentimeter: 10,
	UnitInch:       25.4,
	UnitFoot:       304.8,
}

// Units lists the supported units in menu order.
func Units() []Unit {
	return []Unit{UnitMillimeter, UnitCentimeter, UnitInch, UnitFoot}
}

// ParseUnit accepts a unit symbol or its long name, case-insensitively.
// An empty string yields millimeters.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mm", "millimeter", "millimeters":
		return UnitMillimeter, nil
	case "cm", "centimeter", "centimeters":
		return UnitCentimeter, nil
	case "in", "inch", "inches", "\"":
		return UnitInch, nil
	case "ft", "foot", "feet", "'":
		return UnitFoot, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// Valid reports whether u is a supported unit. The zero value counts as mm.
func (u Unit) Valid() bool {
	if u == "" {
		return true
	}
	_, ok := mmPerUnit[u]
	return ok
}

func (u Unit) factor() float64 {
	if f, ok := mmPerUnit[u]; ok {
		return f
	}
	return 1
}

// ToMillimeters converts v expressed in u to millimeters.
func (u Unit) ToMillimeters(v float64) float64 {
	return v * u.factor()
}

// FromMillimeters converts a millimeter length to u.
func (u Unit) FromMillimeters(mm float64) float64 {
	return mm / u.factor()
}

// Format renders a millimeter length in u with its symbol.
func (u Unit) Format(mm float64) string {
	if u == "" {
		u = UnitMillimeter
	}
	switch u {
	case UnitMillimeter:
		return fmt.Sprintf("%.0f %s", mm, u)
	case UnitCentimeter:
		return fmt.Sprintf("%.1f %s", u.FromMillimeters(mm), u)
	default:
		return fmt.Sprintf("%.2f %s", u.FromMillimeters(mm), u)
	}
}

func (u Unit) String() string {
	if u == "" {
		return string(UnitMillimeter)
	}
	return string(u)
}
