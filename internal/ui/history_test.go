package ui

import (
	"testing"

	"github.com/piwi3910/LineCut/internal/model"
)

func projectWith(parts ...model.Part) model.Project {
	p := model.NewProject()
	p.Parts = parts
	return p
}

func part(id string, length float64) model.Part {
	return model.Part{ID: id, Label: id, Length: length, Quantity: 1}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should be empty")
	}
	if h.UndoLabel() != "" {
		t.Errorf("expected empty undo label, got %q", h.UndoLabel())
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "empty"))
	h.Push(MakeSnapshot(projectWith(part("p1", 1200)), "Add Part"))

	if h.UndoLabel() != "Add Part" {
		t.Errorf("expected undo label 'Add Part', got %q", h.UndoLabel())
	}

	current := MakeSnapshot(projectWith(part("p1", 1200), part("p2", 800)), "two parts")
	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Parts) != 1 {
		t.Errorf("expected 1 part, got %d", len(restored.Parts))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Parts) != 2 {
		t.Errorf("expected 2 parts after redo, got %d", len(redone.Parts))
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "empty"))

	if _, ok := h.Undo(MakeSnapshot(projectWith(part("p1", 500)), "one part")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(projectWith(), "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}
	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(projectWith(), ""))
	}
	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(projectWith(), "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "a"))
	h.Push(MakeSnapshot(projectWith(), "b"))
	h.Undo(MakeSnapshot(projectWith(), "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	proj := projectWith(part("p1", 1200))
	proj.Stocks = []model.StockBar{{ID: "s1", Label: "Bar", Length: 6000, Quantity: 2}}
	snap := MakeSnapshot(proj, "test")

	proj.Parts[0].Label = "Modified"
	proj.Stocks[0].Length = 3000
	proj.Settings.KerfWidth = 9

	if snap.Parts[0].Label != "p1" {
		t.Error("snapshot parts should be independent of the project")
	}
	if snap.Stocks[0].Length != 6000 {
		t.Error("snapshot stocks should be independent of the project")
	}
	if snap.Settings.KerfWidth != model.DefaultSettings().KerfWidth {
		t.Error("snapshot settings should be independent of the project")
	}
}

func TestSnapshotKeepsNilSlices(t *testing.T) {
	snap := MakeSnapshot(model.Project{}, "nil test")
	if snap.Parts != nil || snap.Stocks != nil {
		t.Error("nil slices should stay nil")
	}
}

func TestApplyRestoresAndDropsResult(t *testing.T) {
	proj := projectWith(part("p1", 1200))
	snap := MakeSnapshot(proj, "before")

	proj.Parts = append(proj.Parts, part("p2", 800))
	proj.Settings.TrimLeft = 10
	proj.Result = &model.CutPlan{}

	snap.Apply(&proj)
	if len(proj.Parts) != 1 {
		t.Errorf("expected 1 part, got %d", len(proj.Parts))
	}
	if proj.Settings.TrimLeft != 0 {
		t.Errorf("expected trim to be restored, got %v", proj.Settings.TrimLeft)
	}
	if proj.Result != nil {
		t.Error("stale result should be dropped")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(projectWith(), "empty"))
	h.Push(MakeSnapshot(projectWith(part("p1", 100)), "1 part"))
	h.Push(MakeSnapshot(projectWith(part("p1", 100), part("p2", 200)), "2 parts"))

	s := MakeSnapshot(projectWith(part("p1", 100), part("p2", 200), part("p3", 300)), "3 parts")

	for want := 2; want >= 0; want-- {
		var ok bool
		s, ok = h.Undo(s)
		if !ok || len(s.Parts) != want {
			t.Fatalf("undo: expected %d parts, got %d", want, len(s.Parts))
		}
	}
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	for want := 1; want <= 3; want++ {
		var ok bool
		s, ok = h.Redo(s)
		if !ok || len(s.Parts) != want {
			t.Fatalf("redo: expected %d parts, got %d", want, len(s.Parts))
		}
	}
	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}
