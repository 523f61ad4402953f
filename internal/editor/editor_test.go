package editor

import (
	"testing"

	"mesh-regions/internal/mesh"
	"mesh-regions/internal/region"
	"mesh-regions/pkg/geometry"
)

// testGrid returns a 3x3 mesh over [0,20]x[0,20], tolerance 0.4 per axis.
func testGrid() *mesh.Grid {
	return &mesh.Grid{
		Z: [][]float64{
			{0.0, 0.1, 0.2},
			{0.1, 0.2, 0.3},
			{0.2, 0.3, 0.4},
		},
		XCoords: []float64{0, 10, 20},
		YCoords: []float64{0, 10, 20},
		MinX:    0, MaxX: 20,
		MinY: 0, MaxY: 20,
	}
}

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func loadedEditor(regions ...region.Region) *Editor {
	e := New()
	e.Load(testGrid(), regions)
	return e
}

func TestHandleFor(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	tolX, tolY := 0.4, 0.4

	tests := []struct {
		name string
		p    geometry.Point2D
		want Handle
	}{
		{"West edge", pt(5.1, 10), HandleW},
		{"East edge", pt(14.9, 10), HandleE},
		{"South edge", pt(10, 5.2), HandleS},
		{"North edge", pt(10, 14.8), HandleN},
		{"Southwest corner", pt(5.1, 5.1), HandleSW},
		{"Northeast corner", pt(15.2, 15.2), HandleNE},
		{"Southeast corner", pt(15.1, 4.9), HandleSE},
		{"Northwest corner", pt(4.9, 15.1), HandleNW},
		{"Interior", pt(10, 10), 0},
		{"Far outside", pt(1, 1), 0},
		{"Near edge but outside off-axis span", pt(5.1, 20), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleFor(tt.p, r, tolX, tolY)
			if got != tt.want {
				t.Errorf("handleFor(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDrawCommit(t *testing.T) {
	e := loadedEditor()

	e.PointerDown(pt(2, 2))
	e.PointerMove(pt(15, 15))

	if r, ok := e.DragRect(); !ok {
		t.Fatal("Expected an active drag rect")
	} else if r.Min != pt(2, 2) || r.Max != pt(15, 15) {
		t.Errorf("Unexpected drag rect: %+v", r)
	}

	e.PointerUp()
	if len(e.Regions()) != 1 {
		t.Fatalf("Expected 1 region after commit, got %d", len(e.Regions()))
	}
	got := e.Regions()[0]
	if got.Min != pt(2, 2) || got.Max != pt(15, 15) {
		t.Errorf("Unexpected committed region: %+v", got)
	}
	if !e.CanUndo() {
		t.Error("Expected an undo entry after committing a draw")
	}
}

func TestDrawDiscardsDegenerate(t *testing.T) {
	e := loadedEditor()

	e.PointerDown(pt(5, 5))
	e.PointerUp()

	if len(e.Regions()) != 0 {
		t.Errorf("Expected zero-size draw to be discarded, got %d regions", len(e.Regions()))
	}
	if e.CanUndo() {
		t.Error("Expected no undo entry for a discarded draw")
	}
}

func TestDrawNormalizesReversedDrag(t *testing.T) {
	e := loadedEditor()

	e.PointerDown(pt(15, 15))
	e.PointerMove(pt(5, 5))
	e.PointerUp()

	got := e.Regions()[0]
	if got.Min != pt(5, 5) || got.Max != pt(15, 15) {
		t.Errorf("Expected normalized region, got %+v", got)
	}
}

func TestDrawSnapped(t *testing.T) {
	e := loadedEditor()
	e.SetSnap(true)

	e.PointerDown(pt(2, 2))
	e.PointerMove(pt(14, 16))
	e.PointerUp()

	got := e.Regions()[0]
	if got.Min != pt(0, 0) || got.Max != pt(10, 20) {
		t.Errorf("Expected snapped region [0,0]-[10,20], got %+v", got)
	}
}

func TestPointerDownPriority(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))

	tests := []struct {
		name     string
		p        geometry.Point2D
		dragging bool
		selected int
	}{
		{"Handle press starts resize", pt(5.1, 10), true, 0},
		{"Interior press starts move", pt(10, 10), true, 0},
		{"Corner press starts resize", pt(5.2, 5.2), true, 0},
		{"Empty press starts drawing deselected", pt(18, 2), true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := loadedEditor(r)
			e.PointerDown(tt.p)
			if e.Dragging() != tt.dragging {
				t.Errorf("Expected Dragging=%v", tt.dragging)
			}
			if e.SelectedIndex() != tt.selected {
				t.Errorf("Expected selection %d, got %d", tt.selected, e.SelectedIndex())
			}
		})
	}
}

func TestResizeClampsToMinExtent(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	e := loadedEditor(r)

	// Grab the east edge and drag it past the west edge.
	e.PointerDown(pt(14.9, 10))
	e.PointerMove(pt(0, 10))
	e.PointerUp()

	got := e.Regions()[0]
	if got.Min.X != 5 {
		t.Errorf("Expected west edge to stay at 5, got %v", got.Min.X)
	}
	if got.Max.X != 5+MinExtent {
		t.Errorf("Expected east edge clamped to %v, got %v", 5+MinExtent, got.Max.X)
	}
	if got.Max.X < got.Min.X {
		t.Error("Region inverted during resize")
	}
}

func TestResizeCorner(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	e := loadedEditor(r)

	e.PointerDown(pt(15.1, 15.1)) // northeast corner
	e.PointerMove(pt(18, 19))
	e.PointerUp()

	got := e.Regions()[0]
	if got.Min != pt(5, 5) {
		t.Errorf("Expected anchored min corner, got %v", got.Min)
	}
	if got.Max != pt(18, 19) {
		t.Errorf("Expected max corner at (18, 19), got %v", got.Max)
	}
}

func TestMoveAppliesDeltaFromOriginal(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(10, 10))
	e := loadedEditor(r)

	e.PointerDown(pt(7, 7))
	// Several intermediate ticks; the final position alone decides.
	e.PointerMove(pt(8, 8))
	e.PointerMove(pt(9, 6))
	e.PointerMove(pt(10, 9))
	e.PointerUp()

	got := e.Regions()[0]
	if got.Min != pt(8, 7) || got.Max != pt(13, 12) {
		t.Errorf("Expected region translated by (3, 2), got %+v", got)
	}
	if e.SelectedIndex() != 0 {
		t.Errorf("Expected moved region to stay selected, got %d", e.SelectedIndex())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := loadedEditor()

	e.PointerDown(pt(2, 2))
	e.PointerMove(pt(8, 8))
	e.PointerUp()
	e.PointerDown(pt(12, 12))
	e.PointerMove(pt(18, 18))
	e.PointerUp()

	if len(e.Regions()) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(e.Regions()))
	}

	e.Undo()
	if len(e.Regions()) != 1 {
		t.Fatalf("Expected 1 region after undo, got %d", len(e.Regions()))
	}
	e.Undo()
	if len(e.Regions()) != 0 {
		t.Fatalf("Expected 0 regions after second undo, got %d", len(e.Regions()))
	}

	e.Redo()
	e.Redo()
	if len(e.Regions()) != 2 {
		t.Fatalf("Expected 2 regions after redoing both, got %d", len(e.Regions()))
	}
	if e.Regions()[1].Max != pt(18, 18) {
		t.Errorf("Unexpected region after redo: %+v", e.Regions()[1])
	}

	// Redo after a redo must still undo cleanly.
	e.Undo()
	if len(e.Regions()) != 1 {
		t.Errorf("Expected 1 region after undoing a redo, got %d", len(e.Regions()))
	}
}

func TestNewMutationClearsRedo(t *testing.T) {
	e := loadedEditor()

	e.PointerDown(pt(2, 2))
	e.PointerMove(pt(8, 8))
	e.PointerUp()
	e.Undo()
	if !e.CanRedo() {
		t.Fatal("Expected redo to be available after undo")
	}

	e.PointerDown(pt(12, 12))
	e.PointerMove(pt(18, 18))
	e.PointerUp()
	if e.CanRedo() {
		t.Error("Expected a new mutation to clear the redo stack")
	}
}

func TestDeleteRegion(t *testing.T) {
	a := region.FromCorners(pt(1, 1), pt(3, 3))
	b := region.FromCorners(pt(10, 10), pt(12, 12))
	e := loadedEditor(a, b)

	e.SelectRegion(0)
	e.DeleteRegion(0)

	if len(e.Regions()) != 1 {
		t.Fatalf("Expected 1 region after delete, got %d", len(e.Regions()))
	}
	if e.Regions()[0] != b {
		t.Errorf("Expected remaining region %+v, got %+v", b, e.Regions()[0])
	}
	if e.SelectedIndex() != -1 {
		t.Errorf("Expected selection cleared after delete, got %d", e.SelectedIndex())
	}

	e.Undo()
	if len(e.Regions()) != 2 {
		t.Errorf("Expected delete to be undoable, got %d regions", len(e.Regions()))
	}
}

func TestClearAll(t *testing.T) {
	e := loadedEditor(region.FromCorners(pt(1, 1), pt(3, 3)))

	e.ClearAll()
	if len(e.Regions()) != 0 {
		t.Fatal("Expected no regions after ClearAll")
	}

	// Clearing an empty document records no history entry.
	before := e.CanUndo()
	e.ClearAll()
	if e.CanUndo() != before {
		t.Error("Expected ClearAll on empty document to be a no-op")
	}

	e.Undo()
	if len(e.Regions()) != 1 {
		t.Errorf("Expected ClearAll to be undoable, got %d regions", len(e.Regions()))
	}
}

func TestDeleteRegionCancelsActiveDrag(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	e := loadedEditor(r)

	// Grab the east handle, then delete the region mid-gesture (the Delete
	// key is live while the button is held).
	e.PointerDown(pt(14.9, 10))
	e.DeleteRegion(0)

	if e.Dragging() {
		t.Error("Expected delete to abandon the active gesture")
	}
	e.PointerMove(pt(12, 10))
	e.PointerUp()
	if len(e.Regions()) != 0 {
		t.Errorf("Expected 0 regions after mid-drag delete, got %d", len(e.Regions()))
	}
}

func TestClearAllCancelsActiveDrag(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	e := loadedEditor(r)

	e.PointerDown(pt(10, 10)) // interior press starts a move
	e.ClearAll()

	if e.Dragging() {
		t.Error("Expected clear to abandon the active gesture")
	}
	e.PointerMove(pt(12, 12))
	e.PointerUp()
	if len(e.Regions()) != 0 {
		t.Errorf("Expected 0 regions after mid-drag clear, got %d", len(e.Regions()))
	}
}

func TestUndoCancelsActiveDrag(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	e := loadedEditor(r)

	e.PointerDown(pt(10, 10))
	e.PointerMove(pt(12, 12))
	e.Undo() // restores the pre-move snapshot taken at pointer-down

	if e.Dragging() {
		t.Error("Expected undo to abandon the active gesture")
	}
	e.PointerMove(pt(14, 14))
	e.PointerUp()

	got := e.Regions()[0]
	if got != r {
		t.Errorf("Expected undone region %+v, got %+v", r, got)
	}

	e.Redo()
	if e.Dragging() {
		t.Error("Expected redo to leave the editor idle")
	}
}

func TestHandleString(t *testing.T) {
	tests := []struct {
		h    Handle
		want string
	}{
		{HandleW, "w"},
		{HandleE, "e"},
		{HandleS, "s"},
		{HandleN, "n"},
		{HandleSW, "sw"},
		{HandleNE, "ne"},
		{Handle(0), "none"},
	}
	for _, tt := range tests {
		if got := tt.h.String(); got != tt.want {
			t.Errorf("Handle(%d).String() = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestResizeStatusNamesHandle(t *testing.T) {
	r := region.FromCorners(pt(5, 5), pt(15, 15))
	e := loadedEditor(r)

	var last string
	e.OnStatus(func(msg string) { last = msg })

	e.PointerDown(pt(14.9, 10))
	if last != "Resizing region 1 (e)" {
		t.Errorf("Expected resize status to name the handle, got %q", last)
	}
}

func TestLoadResetsDocument(t *testing.T) {
	e := loadedEditor()
	e.PointerDown(pt(2, 2))
	e.PointerMove(pt(8, 8))
	e.PointerUp()
	e.SelectRegion(0)

	kept := region.FromCorners(pt(1, 1), pt(2, 2))
	e.Load(testGrid(), []region.Region{kept})

	if len(e.Regions()) != 1 || e.Regions()[0] != kept {
		t.Errorf("Expected loaded regions, got %+v", e.Regions())
	}
	if e.SelectedIndex() != -1 {
		t.Errorf("Expected no selection after load, got %d", e.SelectedIndex())
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("Expected history cleared after load")
	}
}

func TestPointerEventsWithoutGrid(t *testing.T) {
	e := New()
	e.PointerDown(pt(1, 1))
	e.PointerMove(pt(2, 2))
	e.PointerUp()
	if len(e.Regions()) != 0 || e.Dragging() {
		t.Error("Expected pointer events to be ignored before a load")
	}
}
