package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() model.Project {
	proj := model.NewProject()
	proj.Name = "Gate frame"
	rail := model.NewPart("Rail", 1800, 2)
	rail.Group = "steel"
	proj.Parts = []model.Part{rail, model.NewPart("Stile", 1200, 2)}
	bar := model.NewStockBar("Box section 40x40", 6000, 2)
	bar.Price = 31.5
	proj.Stocks = []model.StockBar{bar}
	proj.Settings.KerfWidth = 2
	proj.Settings.TrimLeft = 5
	return proj
}

func TestSaveLoad_JSONKeepsResult(t *testing.T) {
	proj := sampleProject()
	plan := engine.New(proj.Settings).Optimize(proj.Parts, proj.Stocks)
	proj.Result = &plan

	path := filepath.Join(t.TempDir(), "gate"+Extension)
	require.NoError(t, Save(path, proj))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, proj.Name, loaded.Name)
	assert.Equal(t, proj.Parts, loaded.Parts)
	assert.Equal(t, proj.Stocks, loaded.Stocks)
	assert.Equal(t, proj.Settings, loaded.Settings)
	require.NotNil(t, loaded.Result)
	assert.Equal(t, plan.CutCount(), loaded.Result.CutCount())
}

func TestSaveLoad_YAMLDropsResult(t *testing.T) {
	proj := sampleProject()
	plan := engine.New(proj.Settings).Optimize(proj.Parts, proj.Stocks)
	proj.Result = &plan

	path := filepath.Join(t.TempDir(), "gate.yaml")
	require.NoError(t, Save(path, proj))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kerf_width: 2")

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, proj.Parts, loaded.Parts)
	assert.Equal(t, proj.Stocks, loaded.Stocks)
	assert.Equal(t, proj.Settings, loaded.Settings)
	assert.Nil(t, loaded.Result)
}

func TestLoad_NormalizesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"parts":null,"settings":{"kerf_width":1.5}}`), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Untitled", loaded.Name)
	assert.NotNil(t, loaded.Parts)
	assert.NotNil(t, loaded.Stocks)
	assert.Equal(t, 1.5, loaded.Settings.KerfWidth)
	assert.Equal(t, model.UnitMillimeter, loaded.Settings.Units)
	assert.Equal(t, model.MinOffcutLength, loaded.Settings.MinOffcutLength)
}

func TestSaveLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gate.txt")

	err := Save(path, sampleProject())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Load(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("parts: [unterminated"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestDefaultInventoryPath(t *testing.T) {
	path, err := DefaultInventoryPath()
	require.NoError(t, err)
	assert.Equal(t, "inventory.json", filepath.Base(path))
	assert.Equal(t, ".linecut", filepath.Base(filepath.Dir(path)))
}

func TestSaveLoadInventory(t *testing.T) {
	inv := model.Inventory{Stocks: []model.StockPreset{
		model.NewStockPreset("Flat bar 40x5", 6000, "Steel", 18.4),
	}}

	for _, name := range []string{"nested/inventory.json", "inventory.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveInventory(path, inv))

			loaded, err := LoadInventory(path)
			require.NoError(t, err)
			assert.Equal(t, inv, loaded)
		})
	}
}

func TestLoadInventory_SeedsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv, err := LoadInventory(path)
	require.NoError(t, err)
	assert.Len(t, inv.Stocks, len(model.DefaultInventory().Stocks))

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults should be written back")
}

func TestLoadInventory_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := LoadInventory(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"stocks":null}`), 0644))
	inv, err := LoadInventory(path)
	require.NoError(t, err)
	assert.NotNil(t, inv.Stocks)

	_, err = LoadInventory(filepath.Join(t.TempDir(), "inventory.txt"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestImportInventory(t *testing.T) {
	existing := model.Inventory{Stocks: []model.StockPreset{
		{ID: "a", Name: "Tube 6000", Length: 6000},
	}}
	path := filepath.Join(t.TempDir(), "import.yml")
	require.NoError(t, SaveInventory(path, model.Inventory{Stocks: []model.StockPreset{
		{ID: "a", Name: "Duplicate", Length: 1},
		{ID: "b", Name: "Angle 3000", Length: 3000, Group: "Steel"},
	}}))

	merged, err := ImportInventory(path, existing)
	require.NoError(t, err)
	require.Len(t, merged.Stocks, 2)
	assert.Equal(t, "Tube 6000", merged.Stocks[0].Name)
	assert.Equal(t, "b", merged.Stocks[1].ID)
	assert.Len(t, existing.Stocks, 1, "caller's inventory is not modified")
}

func TestImportInventory_MissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	merged, err := ImportInventory(filepath.Join(t.TempDir(), "inventory.json"), existing)
	assert.Error(t, err)
	assert.Equal(t, existing, merged)
}
