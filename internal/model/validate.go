package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingInput is returned when a request lacks its cuts or stock list.
	ErrMissingInput = errors.New("Missing cuts or stock data")

	// ErrInvalidLength marks a zero, negative or non-finite length.
	ErrInvalidLength = errors.New("invalid length")
)

// ValidateLengths rejects non-positive and non-finite values. kind names the
// list in the error message ("cut", "stock").
func ValidateLengths(kind string, lengths []float64) error {
	for i, v := range lengths {
		if err := checkLength(v); err != nil {
			return fmt.Errorf("%s %d (%v): %w", kind, i+1, v, err)
		}
	}
	return nil
}

func checkLength(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Errorf("%w: must be finite", ErrInvalidLength)
	case v <= 0:
		return fmt.Errorf("%w: must be positive", ErrInvalidLength)
	}
	return nil
}

// Validate checks that a part can be expanded into cuts.
func (p Part) Validate() error {
	if err := checkLength(p.Length); err != nil {
		return fmt.Errorf("part %q: %w", p.Label, err)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("part %q: quantity must be positive", p.Label)
	}
	return nil
}

// Validate checks that a stock bar can be expanded into pieces.
func (s StockBar) Validate() error {
	if err := checkLength(s.Length); err != nil {
		return fmt.Errorf("stock %q: %w", s.Label, err)
	}
	if s.Quantity <= 0 {
		return fmt.Errorf("stock %q: quantity must be positive", s.Label)
	}
	if s.Price < 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
		return fmt.Errorf("stock %q: price must be a non-negative number", s.Label)
	}
	return nil
}

// Validate checks the kerf and trim values.
func (s CutSettings) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"kerf width", s.KerfWidth},
		{"trim left", s.TrimLeft},
		{"trim right", s.TrimRight},
		{"minimum offcut length", s.MinOffcutLength},
	}
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be a non-negative number, got %v", f.name, f.v)
		}
	}
	if !s.Units.Valid() {
		return fmt.Errorf("unknown unit %q", s.Units)
	}
	return nil
}

// ValidatePlanInput validates parts, stocks and settings together.
func ValidatePlanInput(parts []Part, stocks []StockBar, settings CutSettings) error {
	var errs []error
	for _, p := range parts {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range stocks {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := settings.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
