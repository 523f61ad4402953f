package region

import (
	"errors"
)

// DefaultHistoryDepth bounds how many snapshots each stack retains.
const DefaultHistoryDepth = 30

// ErrEmptyHistory is returned when popping from an empty stack. Callers are
// expected to check CanUndo/CanRedo first; hitting this is a caller bug, not
// a user-facing failure.
var ErrEmptyHistory = errors.New("history: no entries")

// Snapshot is a deep copy of the ordered region geometry at a point in time.
type Snapshot []Region

// History holds bounded undo and redo stacks of region snapshots. Pushing
// beyond capacity evicts the oldest entry; access is LIFO.
type History struct {
	undo  []Snapshot
	redo  []Snapshot
	depth int
}

// NewHistory creates a History with the given maximum depth per stack.
// Non-positive depth falls back to DefaultHistoryDepth.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

func clone(regions []Region) Snapshot {
	s := make(Snapshot, len(regions))
	copy(s, regions)
	return s
}

func push(stack []Snapshot, s Snapshot, depth int) []Snapshot {
	stack = append(stack, s)
	if len(stack) > depth {
		stack = stack[1:]
	}
	return stack
}

// Snapshot records the current region geometry on the undo stack and clears
// the redo stack. Call before applying a mutation.
func (h *History) Snapshot(regions []Region) {
	h.undo = push(h.undo, clone(regions), h.depth)
	h.redo = nil
}

// PushRedo records the current region geometry on the redo stack without
// touching the undo stack. Used only while performing an undo.
func (h *History) PushRedo(regions []Region) {
	h.redo = push(h.redo, clone(regions), h.depth)
}

// PushUndo records the current region geometry on the undo stack without
// clearing redo. Used only while performing a redo.
func (h *History) PushUndo(regions []Region) {
	h.undo = push(h.undo, clone(regions), h.depth)
}

// CanUndo reports whether an undo entry is available.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether a redo entry is available.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// PopUndo removes and returns the most recent undo snapshot.
func (h *History) PopUndo() (Snapshot, error) {
	if len(h.undo) == 0 {
		return nil, ErrEmptyHistory
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return s, nil
}

// PopRedo removes and returns the most recent redo snapshot.
func (h *History) PopRedo() (Snapshot, error) {
	if len(h.redo) == 0 {
		return nil, ErrEmptyHistory
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return s, nil
}

// Clear drops all history. Called when a new document is loaded.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
