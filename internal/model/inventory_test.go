package model

import (
	"testing"
)

func TestNewStockPreset(t *testing.T) {
	sp := NewStockPreset("Tube 6m", 6000, "Steel", 45.99)
	if sp.Price != 45.99 {
		t.Errorf("expected price 45.99, got %.2f", sp.Price)
	}
	if sp.Name != "Tube 6m" {
		t.Errorf("expected name 'Tube 6m', got %s", sp.Name)
	}
	if sp.Group != "Steel" {
		t.Errorf("expected group 'Steel', got %s", sp.Group)
	}
}

func TestToStockBarCarriesPrice(t *testing.T) {
	sp := NewStockPreset("Timber 2400", 2400, "Timber", 8.50)
	bar := sp.ToStockBar(3)
	if bar.Price != 8.50 {
		t.Errorf("expected bar price 8.50, got %.2f", bar.Price)
	}
	if bar.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", bar.Quantity)
	}
	if bar.Group != "Timber" {
		t.Errorf("expected group Timber, got %q", bar.Group)
	}
}

func TestInventoryLookups(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Stocks) == 0 {
		t.Fatal("default inventory should not be empty")
	}

	first := inv.Stocks[0]
	if got := inv.FindStockByID(first.ID); got == nil || got.Name != first.Name {
		t.Errorf("FindStockByID did not return %q", first.Name)
	}
	if got := inv.FindStockByName("Timber 2400"); got == nil || got.Length != 2400 {
		t.Error("expected to find Timber 2400")
	}
	if inv.FindStockByName("missing") != nil {
		t.Error("expected nil for unknown name")
	}
	if len(inv.StockNames()) != len(inv.Stocks) {
		t.Error("StockNames length mismatch")
	}
}

func TestInventoryRemoveStock(t *testing.T) {
	inv := DefaultInventory()
	n := len(inv.Stocks)
	id := inv.Stocks[1].ID
	if !inv.RemoveStock(id) {
		t.Fatal("expected removal to succeed")
	}
	if len(inv.Stocks) != n-1 {
		t.Errorf("expected %d presets, got %d", n-1, len(inv.Stocks))
	}
	if inv.RemoveStock(id) {
		t.Error("second removal should report false")
	}
}

func TestInventoryMerge(t *testing.T) {
	inv := Inventory{Stocks: []StockPreset{{ID: "a", Name: "Tube 6000", Length: 6000}}}
	other := Inventory{Stocks: []StockPreset{
		{ID: "a", Name: "Duplicate", Length: 1},
		{ID: "b", Name: "Angle 3000", Length: 3000},
		{ID: "b", Name: "Angle again", Length: 3000},
	}}

	if added := inv.Merge(other); added != 1 {
		t.Errorf("expected 1 preset added, got %d", added)
	}
	if len(inv.Stocks) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(inv.Stocks))
	}
	if inv.Stocks[0].Name != "Tube 6000" {
		t.Errorf("existing preset should win on duplicate ID, got %q", inv.Stocks[0].Name)
	}
	if inv.Stocks[1].Name != "Angle 3000" {
		t.Errorf("expected first imported b, got %q", inv.Stocks[1].Name)
	}
}
