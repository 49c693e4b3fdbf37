package canvas

// History is a snapshot-based undo/redo stack over a Layer's pixel buffer.
// A cursor points at the "current" entry; committing a new snapshot from a
// non-tip position truncates everything beyond the cursor.
type History struct {
	layer   *Layer
	entries [][]byte
	cursor  int

	// onChange receives (canUndo, canRedo) after every operation.
	onChange func(canUndo, canRedo bool)
}

// NewHistory creates an empty history bound to the given layer. The stack is
// unusable until the first Clear seeds the blank baseline entry.
func NewHistory(layer *Layer, onChange func(canUndo, canRedo bool)) *History {
	return &History{
		layer:    layer,
		cursor:   -1,
		onChange: onChange,
	}
}

// Save captures the layer's full pixel state at cursor+1, discarding any redo
// entries beyond the old cursor. Called once per completed stroke.
func (h *History) Save() {
	if h == nil || h.layer == nil {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], h.layer.Snapshot())
	h.cursor = len(h.entries) - 1
	h.notify()
}

// Undo steps back one entry and restores it into the layer. Stepping past the
// initial blank state is a no-op.
func (h *History) Undo() {
	if h == nil || h.cursor <= 0 {
		h.notify()
		return
	}
	h.cursor--
	h.restore()
	h.notify()
}

// Redo steps forward one entry. A no-op at the tip.
func (h *History) Redo() {
	if h == nil || h.cursor >= len(h.entries)-1 {
		h.notify()
		return
	}
	h.cursor++
	h.restore()
	h.notify()
}

// Clear discards all entries, wipes the layer, and immediately records the
// blank state as entry 0 so the stack is never empty once initialized.
func (h *History) Clear() {
	if h == nil {
		return
	}
	h.entries = nil
	h.cursor = -1
	if h.layer != nil {
		h.layer.Clear()
	}
	h.Save()
}

// CanUndo reports whether an Undo would change state.
func (h *History) CanUndo() bool {
	return h != nil && h.cursor > 0
}

// CanRedo reports whether a Redo would change state.
func (h *History) CanRedo() bool {
	return h != nil && h.cursor < len(h.entries)-1
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

func (h *History) restore() {
	if h.layer == nil || h.cursor < 0 || h.cursor >= len(h.entries) {
		return
	}
	// Clear first so a shorter snapshot never leaves partial overdraw.
	h.layer.Clear()
	h.layer.Restore(h.entries[h.cursor])
}

func (h *History) notify() {
	if h != nil && h.onChange != nil {
		h.onChange(h.CanUndo(), h.CanRedo())
	}
}
