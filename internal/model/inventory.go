package model

import "github.com/google/uuid"

// StockPreset represents a reusable stock bar definition.
type StockPreset struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Length float64 `json:"length" yaml:"length"`
	Group  string  `json:"group" yaml:"group"`
	Price  float64 `json:"price" yaml:"price"`
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, length float64, group string, price float64) StockPreset {
	return StockPreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Length: length,
		Group:  group,
		Price:  price,
	}
}

// ToStockBar converts a StockPreset into a StockBar with the given quantity.
func (sp StockPreset) ToStockBar(qty int) StockBar {
	bar := NewStockBar(sp.Name, sp.Length, qty)
	bar.Group = sp.Group
	bar.Price = sp.Price
	return bar
}

// Inventory holds the user's saved stock presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks" yaml:"stocks"`
}

// DefaultInventory returns an inventory populated with common bar lengths.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Steel tube 6000", 6000, "Steel", 0),
			NewStockPreset("Aluminium extrusion 6000", 6000, "Aluminium", 0),
			NewStockPreset("Timber 2400", 2400, "Timber", 0),
			NewStockPreset("Timber 3600", 3600, "Timber", 0),
			NewStockPreset("Timber 4800", 4800, "Timber", 0),
			NewStockPreset("PVC pipe 3000", 3000, "PVC", 0),
		},
	}
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns a list of stock preset names for UI dropdowns.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// RemoveStock deletes the preset with the given ID. It reports whether a
// preset was removed.
func (inv *Inventory) RemoveStock(id string) bool {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			inv.Stocks = append(inv.Stocks[:i], inv.Stocks[i+1:]...)
			return true
		}
	}
	return false
}

// Merge appends the presets of other whose IDs are not present yet and
// returns how many were added.
func (inv *Inventory) Merge(other Inventory) int {
	seen := make(map[string]bool, len(inv.Stocks))
	for _, s := range inv.Stocks {
		seen[s.ID] = true
	}
	added := 0
	for _, s := range other.Stocks {
		if seen[s.ID] {
			continue
		}
		inv.Stocks = append(inv.Stocks, s)
		seen[s.ID] = true
		added++
	}
	return added
}
