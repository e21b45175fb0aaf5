package export

import (
	"bytes"
	"testing"

	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/sebdah/goldie/v2"
)

func goldenPlan() model.CutPlan {
	settings := model.DefaultSettings()
	settings.KerfWidth = 3

	short := model.NewStockBar("Steel tube", 2500, 1)
	short.Price = 12.5
	long := model.NewStockBar("Steel tube", 3000, 1)
	long.Price = 12.5

	return engine.New(settings).Optimize(
		[]model.Part{
			model.NewPart("Rail", 1200, 1),
			model.NewPart("Post", 800, 2),
			model.NewPart("Brace", 500, 1),
			model.NewPart("Gate", 4000, 1),
		},
		[]model.StockBar{short, long, model.NewStockBar("Spare", 1000, 1)},
	)
}

func TestWriteText_Golden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, goldenPlan()); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "plan", buf.Bytes())
}

func TestWriteAllocationText_Golden(t *testing.T) {
	result := engine.Allocate([]float64{1200, 800, 800, 500, 5000}, []float64{2500, 3000, 400})

	var buf bytes.Buffer
	if err := WriteAllocationText(&buf, result); err != nil {
		t.Fatalf("WriteAllocationText returned error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "allocation", buf.Bytes())
}

func TestWriteAllocationText_NoWaste(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAllocationText(&buf, engine.Allocate([]float64{100}, []float64{200})); err != nil {
		t.Fatalf("WriteAllocationText returned error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Waste: none")) {
		t.Errorf("expected 'Waste: none' in output, got:\n%s", buf.String())
	}
}
