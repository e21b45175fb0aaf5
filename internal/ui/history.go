package ui

import "github.com/piwi3910/LineCut/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the editable project state at a point in time.
type Snapshot struct {
	Parts    []model.Part
	Stocks   []model.StockBar
	Settings model.CutSettings
	Label    string // e.g. "Add Part"
}

// History manages undo/redo stacks of project snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before a modification and clears the redo stack.
// The oldest entries are dropped beyond maxDepth.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo returns the state to restore and moves current onto the redo stack.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoLabel names the change the next Undo reverts, or "".
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot copies the slices so later edits do not leak into history.
func MakeSnapshot(proj model.Project, label string) Snapshot {
	s := Snapshot{Settings: proj.Settings, Label: label}
	if proj.Parts != nil {
		s.Parts = append([]model.Part(nil), proj.Parts...)
	}
	if proj.Stocks != nil {
		s.Stocks = append([]model.StockBar(nil), proj.Stocks...)
	}
	return s
}

// Apply writes the snapshot back into proj. The last result is dropped
// since it no longer matches the inputs.
func (s Snapshot) Apply(proj *model.Project) {
	proj.Parts = s.Parts
	proj.Stocks = s.Stocks
	proj.Settings = s.Settings
	proj.Result = nil
}
