package canvas

import (
	"bytes"
	"testing"
)

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	layer := NewLayer(64, 48)
	h := NewHistory(layer, nil)
	h.Clear()
	blank := layer.Snapshot()

	const strokes = 4
	for i := 0; i < strokes; i++ {
		layer.Dot(float64(8+i*12), float64(10+i*8), 5)
		h.Save()
	}
	final := layer.Snapshot()
	if bytes.Equal(final, blank) {
		t.Fatal("strokes did not change the layer")
	}

	for i := 0; i < strokes; i++ {
		h.Undo()
	}
	if !bytes.Equal(layer.Snapshot(), blank) {
		t.Fatal("undoing all strokes did not return to the blank state")
	}

	for i := 0; i < strokes; i++ {
		h.Redo()
	}
	if !bytes.Equal(layer.Snapshot(), final) {
		t.Fatal("redoing all strokes did not restore the final pixels bit-for-bit")
	}
}

func TestHistory_ClearSeedsSingleBlankEntry(t *testing.T) {
	layer := NewLayer(32, 32)
	var canUndo, canRedo bool
	h := NewHistory(layer, func(u, r bool) { canUndo, canRedo = u, r })

	layer.Dot(16, 16, 6)
	h.Clear()

	if h.Len() != 1 {
		t.Fatalf("history length=%d after Clear, want 1", h.Len())
	}
	if canUndo || canRedo {
		t.Fatalf("(canUndo, canRedo)=(%v, %v) after Clear, want (false, false)", canUndo, canRedo)
	}
	blank := NewLayer(32, 32)
	if !bytes.Equal(layer.Snapshot(), blank.Snapshot()) {
		t.Fatal("Clear did not wipe the layer")
	}
}

func TestHistory_NewStrokeTruncatesRedoEntries(t *testing.T) {
	layer := NewLayer(32, 32)
	h := NewHistory(layer, nil)
	h.Clear()

	for i := 0; i < 5; i++ {
		layer.Dot(float64(4+i*5), 16, 3)
		h.Save()
	}
	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo to be available after undo")
	}

	layer.Dot(28, 28, 3)
	h.Save()
	if h.CanRedo() {
		t.Fatal("committing a stroke from a non-tip cursor must truncate redo entries")
	}
	if h.Len() != 5 {
		t.Fatalf("history length=%d after truncation, want 5", h.Len())
	}

	after := layer.Snapshot()
	h.Redo()
	if !bytes.Equal(layer.Snapshot(), after) {
		t.Fatal("redo after truncation must be a no-op")
	}
}

func TestHistory_UndoAtBaselineIsNoOp(t *testing.T) {
	layer := NewLayer(16, 16)
	h := NewHistory(layer, nil)
	h.Clear()

	h.Undo()
	h.Undo()
	if h.Len() != 1 || h.CanUndo() || h.CanRedo() {
		t.Fatalf("len=%d canUndo=%v canRedo=%v, want 1/false/false", h.Len(), h.CanUndo(), h.CanRedo())
	}
}
