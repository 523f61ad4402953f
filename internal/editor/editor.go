// Package editor implements the interactive region-editing state machine.
// It owns the document: the mesh grid, the ordered region list, the undo
// history and the selection. It has no rendering or widget dependencies;
// the UI routes pointer events and commands in and listens on callbacks.
package editor

import (
	"fmt"

	"mesh-regions/internal/mesh"
	"mesh-regions/internal/region"
	"mesh-regions/pkg/geometry"
)

const (
	// ResizeToleranceFraction scales each axis range into the hit-test
	// tolerance around region borders and handles.
	ResizeToleranceFraction = 0.02

	// MinExtent is the smallest width/height a resize can shrink a region
	// to. The moving edge is pinned just inside the opposite edge so a
	// rectangle can never invert.
	MinExtent = 0.001
)

// Editor is the interaction state machine over the region document.
type Editor struct {
	grid     *mesh.Grid
	regions  []region.Region
	history  *region.History
	selected int
	snap     bool
	state    dragState

	onRegionsChanged   func()
	onSelectionChanged func(index int)
	onStatus           func(msg string)
}

// New creates an editor with an empty document.
func New() *Editor {
	return &Editor{
		history:  region.NewHistory(region.DefaultHistoryDepth),
		selected: -1,
		state:    stateIdle{},
	}
}

// OnRegionsChanged sets the callback fired whenever the committed region
// list changes shape or content (not on every drag tick).
func (e *Editor) OnRegionsChanged(f func()) {
	e.onRegionsChanged = f
}

// OnSelectionChanged sets the callback fired when the selected region index
// changes. Index -1 means no selection.
func (e *Editor) OnSelectionChanged(f func(index int)) {
	e.onSelectionChanged = f
}

// OnStatus sets the callback for transient status-line messages.
func (e *Editor) OnStatus(f func(msg string)) {
	e.onStatus = f
}

// SetSnap enables or disables snapping of drag coordinates to the mesh axes.
func (e *Editor) SetSnap(snap bool) {
	e.snap = snap
}

// Snap reports whether grid snapping is enabled.
func (e *Editor) Snap() bool {
	return e.snap
}

// Grid returns the current mesh grid, or nil before a load.
func (e *Editor) Grid() *mesh.Grid {
	return e.grid
}

// Regions returns the committed region list in insertion order.
func (e *Editor) Regions() []region.Region {
	return e.regions
}

// SelectedIndex returns the selected region index, or -1.
func (e *Editor) SelectedIndex() int {
	return e.selected
}

// CanUndo reports whether an undo entry is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether a redo entry is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// Load replaces the whole document: new grid, new region list, empty
// history, no selection. Any drag in progress is abandoned.
func (e *Editor) Load(grid *mesh.Grid, regions []region.Region) {
	e.grid = grid
	e.regions = append([]region.Region(nil), regions...)
	e.history.Clear()
	e.state = stateIdle{}
	e.setSelected(-1)
	e.regionsChanged()
}

// DragRect returns the in-progress draw rectangle, if a draw gesture is
// active. The rectangle is display-only until committed on pointer-up.
func (e *Editor) DragRect() (geometry.Rect, bool) {
	if st, ok := e.state.(stateDrawing); ok {
		return st.rect, true
	}
	return geometry.Rect{}, false
}

// Dragging reports whether any gesture (draw, resize or move) is active.
func (e *Editor) Dragging() bool {
	_, idle := e.state.(stateIdle)
	return !idle
}

// tolerances returns the per-axis hit-test tolerance derived from the mesh
// bounds.
func (e *Editor) tolerances() (tolX, tolY float64) {
	tolX = (e.grid.MaxX - e.grid.MinX) * ResizeToleranceFraction
	tolY = (e.grid.MaxY - e.grid.MinY) * ResizeToleranceFraction
	return tolX, tolY
}

// HandleAt performs the resize-handle hit test against all regions in list
// order, without side effects. Used for hover cursor feedback as well as
// pointer-down dispatch.
func (e *Editor) HandleAt(p geometry.Point2D) (Handle, int, bool) {
	if e.grid == nil {
		return 0, 0, false
	}
	tolX, tolY := e.tolerances()
	for i, r := range e.regions {
		if h := handleFor(p, r, tolX, tolY); h != 0 {
			return h, i, true
		}
	}
	return 0, 0, false
}

// PointerDown dispatches a press at data coordinate p in strict priority
// order: resize handle, region interior (move), region border (select only),
// empty space (start drawing).
func (e *Editor) PointerDown(p geometry.Point2D) {
	if e.grid == nil {
		return
	}

	if h, i, ok := e.HandleAt(p); ok {
		e.SelectRegion(i)
		e.history.Snapshot(e.regions)
		e.state = stateResizing{index: i, handle: h}
		e.status(fmt.Sprintf("Resizing region %d (%s)", i+1, h))
		return
	}

	tolX, tolY := e.tolerances()
	for i, r := range e.regions {
		if r.Bounds().ContainsInterior(p, tolX, tolY) {
			e.SelectRegion(i)
			e.history.Snapshot(e.regions)
			e.state = stateMoving{index: i, start: p, orig: r}
			e.status("Moving region")
			return
		}
	}

	for i, r := range e.regions {
		if r.Bounds().Expand(tolX, tolY).Contains(p) {
			e.SelectRegion(i)
			return
		}
	}

	e.Deselect()
	e.state = stateDrawing{anchor: p, rect: geometry.Rect{Min: p, Max: p}}
}

// PointerMove advances the active gesture with a new data coordinate.
func (e *Editor) PointerMove(p geometry.Point2D) {
	if e.grid == nil {
		return
	}

	switch st := e.state.(type) {
	case stateResizing:
		e.applyResize(st, p)
	case stateMoving:
		e.applyMove(st, p)
	case stateDrawing:
		st.rect = e.snapRect(geometry.RectFromCorners(st.anchor, p))
		e.state = st
	}
}

// PointerUp ends the active gesture. Safe to call when idle.
func (e *Editor) PointerUp() {
	switch st := e.state.(type) {
	case stateResizing:
		e.state = stateIdle{}
		e.status("Resize complete")

	case stateMoving:
		e.state = stateIdle{}
		// The listing was deliberately not refreshed during move ticks;
		// refresh now and re-assert the selection the refresh rebuilds.
		e.regionsChanged()
		e.setSelected(st.index)
		e.status(fmt.Sprintf("Moved region %d", st.index+1))

	case stateDrawing:
		e.state = stateIdle{}
		if st.rect.Width() <= 0 || st.rect.Height() <= 0 {
			return
		}
		e.history.Snapshot(e.regions)
		e.regions = append(e.regions, region.FromRect(st.rect))
		e.regionsChanged()
		e.status(fmt.Sprintf("Added region %d", len(e.regions)))
	}
}

// applyResize moves the edges named by the handle, clamping so the
// rectangle keeps at least MinExtent on each axis.
func (e *Editor) applyResize(st stateResizing, p geometry.Point2D) {
	r := e.regions[st.index]
	x, y := p.X, p.Y
	if e.snap {
		x = mesh.Snap(x, e.grid.XCoords)
		y = mesh.Snap(y, e.grid.YCoords)
	}

	if st.handle&HandleW != 0 {
		r.Min.X = minf(x, r.Max.X-MinExtent)
	}
	if st.handle&HandleE != 0 {
		r.Max.X = maxf(x, r.Min.X+MinExtent)
	}
	if st.handle&HandleS != 0 {
		r.Min.Y = minf(y, r.Max.Y-MinExtent)
	}
	if st.handle&HandleN != 0 {
		r.Max.Y = maxf(y, r.Min.Y+MinExtent)
	}

	e.regions[st.index] = r
	e.regionsChanged()
}

// applyMove translates the original bounds by the pointer delta. The delta
// is always taken from the gesture start so repeated ticks cannot drift.
func (e *Editor) applyMove(st stateMoving, p geometry.Point2D) {
	nb := st.orig.Bounds().Translate(p.Sub(st.start))
	if e.snap {
		nb.Min = geometry.Point2D{
			X: mesh.Snap(nb.Min.X, e.grid.XCoords),
			Y: mesh.Snap(nb.Min.Y, e.grid.YCoords),
		}
		nb.Max = geometry.Point2D{
			X: mesh.Snap(nb.Max.X, e.grid.XCoords),
			Y: mesh.Snap(nb.Max.Y, e.grid.YCoords),
		}
	}
	e.regions[st.index] = region.FromCorners(nb.Min, nb.Max)
	// No regionsChanged here: the textual listing is refreshed once at
	// gesture end to avoid flicker on every move tick.
}

// snapRect snaps all four edges to the nearest axis values when snapping is
// enabled.
func (e *Editor) snapRect(r geometry.Rect) geometry.Rect {
	if !e.snap {
		return r
	}
	return geometry.RectFromCorners(
		geometry.Point2D{
			X: mesh.Snap(r.Min.X, e.grid.XCoords),
			Y: mesh.Snap(r.Min.Y, e.grid.YCoords),
		},
		geometry.Point2D{
			X: mesh.Snap(r.Max.X, e.grid.XCoords),
			Y: mesh.Snap(r.Max.Y, e.grid.YCoords),
		},
	)
}

// SelectRegion selects the region at index and announces it.
func (e *Editor) SelectRegion(index int) {
	if index < 0 || index >= len(e.regions) {
		return
	}
	e.setSelected(index)
	e.status(fmt.Sprintf("Selected region %d", index+1))
}

// Deselect clears any selection.
func (e *Editor) Deselect() {
	if e.selected >= 0 {
		e.setSelected(-1)
	}
}

// DeleteRegion removes the region at index. Any gesture in progress is
// abandoned: its index would be stale against the shrunk list.
func (e *Editor) DeleteRegion(index int) {
	if index < 0 || index >= len(e.regions) {
		return
	}
	e.state = stateIdle{}
	e.history.Snapshot(e.regions)
	e.regions = append(e.regions[:index], e.regions[index+1:]...)
	e.setSelected(-1)
	e.regionsChanged()
	e.status(fmt.Sprintf("Deleted region %d", index+1))
}

// ClearAll removes every region. No-op (and no history entry) when the list
// is already empty.
func (e *Editor) ClearAll() {
	if len(e.regions) == 0 {
		return
	}
	e.state = stateIdle{}
	e.history.Snapshot(e.regions)
	e.regions = nil
	e.setSelected(-1)
	e.regionsChanged()
	e.status("Cleared all regions")
}

// Undo restores the most recent undo snapshot, saving the current state for
// redo.
func (e *Editor) Undo() {
	if !e.history.CanUndo() {
		e.status("Nothing to undo")
		return
	}
	e.history.PushRedo(e.regions)
	prev, err := e.history.PopUndo()
	if err != nil {
		return
	}
	e.restore(prev)
	e.status("Undo")
}

// Redo restores the most recent redo snapshot, saving the current state back
// onto the undo stack without disturbing the remaining redo entries.
func (e *Editor) Redo() {
	if !e.history.CanRedo() {
		e.status("Nothing to redo")
		return
	}
	e.history.PushUndo(e.regions)
	next, err := e.history.PopRedo()
	if err != nil {
		return
	}
	e.restore(next)
	e.status("Redo")
}

// restore replaces the region list from a history snapshot, abandoning any
// gesture in progress so no drag index outlives the list it referred to.
func (e *Editor) restore(s region.Snapshot) {
	e.state = stateIdle{}
	e.regions = append([]region.Region(nil), s...)
	e.setSelected(-1)
	e.regionsChanged()
}

func (e *Editor) setSelected(index int) {
	e.selected = index
	if e.onSelectionChanged != nil {
		e.onSelectionChanged(index)
	}
}

func (e *Editor) regionsChanged() {
	if e.onRegionsChanged != nil {
		e.onRegionsChanged()
	}
}

func (e *Editor) status(msg string) {
	if e.onStatus != nil {
		e.onStatus(msg)
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
