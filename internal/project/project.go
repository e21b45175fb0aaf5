// Package project persists projects and the stock inventory to disk.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/piwi3910/LineCut/internal/model"
	"gopkg.in/yaml.v3"
)

// Extension is the default file extension for saved projects.
const Extension = ".linecut"

// ErrUnsupportedFormat is returned for a project or inventory path whose
// extension is neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported project format")

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case Extension, ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// writeFile encodes v in the format picked by the extension of path,
// creating parent directories as needed.
func writeFile(path string, v any) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// readFile decodes path into v in the format picked by its extension.
func readFile(path string, v any) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Save writes the project to path as JSON (.linecut, .json) or YAML
// (.yaml, .yml). The last result is kept in JSON files only.
func Save(path string, proj model.Project) error {
	if err := writeFile(path, proj); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads a project saved by Save.
func Load(path string) (model.Project, error) {
	proj := model.NewProject()
	if err := readFile(path, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	normalize(&proj)
	return proj, nil
}

// normalize replaces nil slices and fills defaults missing from older files.
func normalize(proj *model.Project) {
	if proj.Parts == nil {
		proj.Parts = []model.Part{}
	}
	if proj.Stocks == nil {
		proj.Stocks = []model.StockBar{}
	}
	if proj.Settings.Units == "" {
		proj.Settings.Units = model.UnitMillimeter
	}
	if proj.Name == "" {
		proj.Name = "Untitled"
	}
}

// ─── Stock Inventory ───────────────────────────────────────

// DefaultInventoryPath returns ~/.linecut/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".linecut", "inventory.json"), nil
}

// SaveInventory writes the stock presets to path, JSON or YAML by extension.
func SaveInventory(path string, inv model.Inventory) error {
	if err := writeFile(path, inv); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

// LoadInventory reads the stock presets at path. A missing file is seeded
// with model.DefaultInventory and written back.
func LoadInventory(path string) (model.Inventory, error) {
	var inv model.Inventory
	err := readFile(path, &inv)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	case err != nil:
		return model.Inventory{}, fmt.Errorf("failed to load inventory: %w", err)
	}
	if inv.Stocks == nil {
		inv.Stocks = []model.StockPreset{}
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory at DefaultInventoryPath and
// returns the path it used.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path, err := DefaultInventoryPath()
	if err != nil {
		return model.DefaultInventory(), "", err
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the presets stored at path into existing. Presets
// whose ID is already present are skipped. On error existing is returned
// unchanged.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	var imported model.Inventory
	if err := readFile(path, &imported); err != nil {
		return existing, fmt.Errorf("failed to import inventory: %w", err)
	}
	merged := model.Inventory{Stocks: slices.Clone(existing.Stocks)}
	merged.Merge(imported)
	return merged, nil
}
