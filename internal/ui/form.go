package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/LineCut/internal/model"
)

var (
	errQuantity = errors.New("quantity must be a whole number > 0")
	errPrice    = errors.New("price must be a number >= 0")
)

// lengthText renders a millimeter length in u for an edit field, without
// the unit symbol.
func lengthText(mm float64, u model.Unit) string {
	v := math.Round(u.FromMillimeters(mm)*1e4) / 1e4
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseLength reads a length typed in u and returns it in millimeters.
func parseLength(text string, u model.Unit) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("length %q is not a number", text)
	}
	mm := u.ToMillimeters(v)
	if err := model.ValidateLengths("length", []float64{mm}); err != nil {
		return 0, err
	}
	return mm, nil
}

func parseQuantity(text string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || q < 1 {
		return 0, errQuantity
	}
	return q, nil
}

// parsePrice accepts an empty field as no price.
func parsePrice(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	p, err := strconv.ParseFloat(text, 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, errPrice
	}
	return p, nil
}

// partForm holds the raw text of the part dialog.
type partForm struct {
	Label, Length, Quantity, Group string
}

func (f partForm) apply(p *model.Part, u model.Unit) error {
	length, err := parseLength(f.Length, u)
	if err != nil {
		return err
	}
	qty, err := parseQuantity(f.Quantity)
	if err != nil {
		return err
	}
	p.Label = strings.TrimSpace(f.Label)
	p.Length = length
	p.Quantity = qty
	p.Group = strings.TrimSpace(f.Group)
	return nil
}

// stockForm holds the raw text of the stock dialog.
type stockForm struct {
	Label, Length, Quantity, Group, Price string
}

func (f stockForm) apply(s *model.StockBar, u model.Unit) error {
	length, err := parseLength(f.Length, u)
	if err != nil {
		return err
	}
	qty, err := parseQuantity(f.Quantity)
	if err != nil {
		return err
	}
	price, err := parsePrice(f.Price)
	if err != nil {
		return err
	}
	s.Label = strings.TrimSpace(f.Label)
	s.Length = length
	s.Quantity = qty
	s.Group = strings.TrimSpace(f.Group)
	s.Price = price
	return nil
}

// parseSetting reads a kerf, trim or offcut length typed in u. Zero and an
// empty field are allowed.
func parseSetting(text string, u model.Unit) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q must be a number >= 0", text)
	}
	return u.ToMillimeters(v), nil
}
