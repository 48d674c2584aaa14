package ui

import (
	"testing"

	"github.com/piwi3910/PalletCut/internal/model"
)

func pallets(n int) []model.Problem {
	ps := make([]model.Problem, n)
	for i := range ps {
		ps[i] = model.Problem{ID: string(rune('a' + i)), Length: 10 * (i + 1), Width: 10, BoxLength: 3, BoxWidth: 2}
	}
	return ps
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.CanUndo() {
		t.Error("new history should not be able to undo")
	}
	if h.CanRedo() {
		t.Error("new history should not be able to redo")
	}
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected max depth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()

	h.Push(MakeSnapshot(pallets(1), "one pallet"))
	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	restored, ok := h.Undo(MakeSnapshot(pallets(2), "two pallets"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Problems) != 1 {
		t.Errorf("expected 1 pallet, got %d", len(restored.Problems))
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Problems) != 2 {
		t.Errorf("expected 2 pallets after redo, got %d", len(redone.Problems))
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "empty"))

	if _, ok := h.Undo(MakeSnapshot(pallets(1), "one pallet")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(nil, "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}
	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(pallets(i), ""))
	}
	if len(h.undoStack) != 3 {
		t.Fatalf("expected undo stack length 3, got %d", len(h.undoStack))
	}
	// The oldest snapshots are dropped.
	if n := len(h.undoStack[0].Problems); n != 2 {
		t.Errorf("expected oldest kept snapshot to hold 2 pallets, got %d", n)
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(nil, "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "a"))
	h.Push(MakeSnapshot(nil, "b"))
	h.Undo(MakeSnapshot(nil, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	original := pallets(1)
	original[0].Label = "Euro"
	snap := MakeSnapshot(original, "test")

	original[0].Label = "Modified"
	original[0].Length = 999

	if snap.Problems[0].Label != "Euro" || snap.Problems[0].Length != 10 {
		t.Error("snapshot should be independent of original slice")
	}
}

func TestCopyNilSlices(t *testing.T) {
	if snap := MakeSnapshot(nil, "nil test"); snap.Problems != nil {
		t.Error("nil problems should stay nil")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "empty"))
	h.Push(MakeSnapshot(pallets(1), "1 pallet"))
	h.Push(MakeSnapshot(pallets(2), "2 pallets"))

	s, ok := h.Undo(MakeSnapshot(pallets(3), "3 pallets"))
	for _, want := range []int{2, 1, 0} {
		if !ok || len(s.Problems) != want {
			t.Fatalf("undo: expected %d pallets, got %d", want, len(s.Problems))
		}
		if want > 0 {
			s, ok = h.Undo(s)
		}
	}
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	for _, want := range []int{1, 2, 3} {
		s, ok = h.Redo(s)
		if !ok || len(s.Problems) != want {
			t.Fatalf("redo: expected %d pallets, got %d", want, len(s.Problems))
		}
	}
	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}

func TestUndoRedoCarryChangeLabel(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(pallets(2), "Remove Pallet"))
	h.Push(MakeSnapshot(pallets(1), "Add Pallet"))

	s, _ := h.Undo(MakeSnapshot(pallets(2), ""))
	if s.Label != "Add Pallet" {
		t.Errorf("undo label = %q, want %q", s.Label, "Add Pallet")
	}
	s, _ = h.Undo(s)
	if s.Label != "Remove Pallet" {
		t.Errorf("undo label = %q, want %q", s.Label, "Remove Pallet")
	}

	s, _ = h.Redo(s)
	if s.Label != "Remove Pallet" || len(s.Problems) != 1 {
		t.Errorf("redo = %q with %d pallets, want Remove Pallet with 1", s.Label, len(s.Problems))
	}
	s, _ = h.Redo(s)
	if s.Label != "Add Pallet" || len(s.Problems) != 2 {
		t.Errorf("redo = %q with %d pallets, want Add Pallet with 2", s.Label, len(s.Problems))
	}
}
