package ui

import "github.com/piwi3910/PalletCut/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the project's pallets at a point in time. Results are
// not part of it: they are keyed by pallet id and a restored pallet finds
// its result again as long as its dimensions match.
type Snapshot struct {
	Problems []model.Problem
	Label    string // Human-readable description (e.g. "Remove Pallet")
}

// History manages undo/redo stacks of pallet list snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied, labelled with
// the modification about to happen.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		// Drop the oldest snapshots
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// the current state onto the redo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to undo.
//
// The label names the change being undone and travels with the current
// state, so the matching Redo reports the same change.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	// Pop from undo
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	// Push current state onto redo
	current.Label = last.Label
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// the current state onto the undo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	// Pop from redo
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	// Push current state onto undo
	current.Label = last.Label
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// copyProblems returns a copy of a pallet slice. Problem holds only
// values, so copying the slice is a deep copy.
func copyProblems(problems []model.Problem) []model.Problem {
	if problems == nil {
		return nil
	}
	cp := make([]model.Problem, len(problems))
	copy(cp, problems)
	return cp
}

// MakeSnapshot creates a snapshot of the pallet list with a label.
func MakeSnapshot(problems []model.Problem, label string) Snapshot {
	return Snapshot{
		Problems: copyProblems(problems),
		Label:    label,
	}
}
