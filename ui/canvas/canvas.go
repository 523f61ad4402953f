// Package canvas provides the interactive mesh canvas widget.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"mesh-regions/internal/app"
	"mesh-regions/internal/editor"
	"mesh-regions/internal/render"
	"mesh-regions/internal/settings"
	"mesh-regions/pkg/geometry"
)

// MeshCanvas displays the height map and routes pointer events to the
// region editor. All event positions arrive in device-independent units
// and are converted to data coordinates through the viewport of the last
// rendered frame.
type MeshCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	// Viewport of the last rendered frame, used for event conversion.
	viewport  render.Viewport
	pixelW    int
	pixelH    int
	hasFrame  bool
	lastFrame *image.RGBA

	// Current hover cursor, driven by handle hit tests.
	cursor desktop.Cursor
}

var _ desktop.Mouseable = (*MeshCanvas)(nil)
var _ desktop.Hoverable = (*MeshCanvas)(nil)
var _ desktop.Cursorable = (*MeshCanvas)(nil)
var _ fyne.Draggable = (*MeshCanvas)(nil)

// NewMeshCanvas creates the canvas bound to the application state.
func NewMeshCanvas(state *app.State) *MeshCanvas {
	mc := &MeshCanvas{
		state:  state,
		cursor: desktop.CrosshairCursor,
	}
	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.raster.SetMinSize(fyne.NewSize(500, 400))
	mc.ExtendBaseWidget(mc)

	state.On(app.EventRegionsChanged, func(interface{}) { mc.Refresh() })
	state.On(app.EventSelectionChanged, func(interface{}) { mc.Refresh() })
	state.On(app.EventViewChanged, func(interface{}) { mc.Refresh() })
	state.On(app.EventConfigLoaded, func(interface{}) { mc.Refresh() })
	return mc
}

// CreateRenderer implements fyne.Widget.
func (mc *MeshCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(mc.raster)
}

// LastFrame returns the most recently rendered frame, for PNG export.
func (mc *MeshCanvas) LastFrame() *image.RGBA {
	return mc.lastFrame
}

// draw renders one frame at the requested pixel size.
func (mc *MeshCanvas) draw(w, h int) image.Image {
	ed := mc.state.Editor
	grid := ed.Grid()
	vs := mc.state.View()

	var opts render.Options
	opts.Grid = grid
	opts.Regions = ed.Regions()
	opts.Selected = ed.SelectedIndex()
	opts.ShowDots = vs.ShowGridDots
	if r, ok := ed.DragRect(); ok {
		opts.DragRect = &r
	}
	if vs.HasLimits {
		opts.Limits = &render.ColorLimits{Min: vs.VMin, Max: vs.VMax}
	}
	if vs.OverlayEnabled {
		if ov, ok := overlayFromSettings(vs); ok {
			opts.Overlay = &ov
		}
	}
	if grid != nil {
		opts.View = render.ViewBounds(grid, vs.PlotAreaX, vs.PlotAreaY)
		mc.viewport = render.NewViewport(opts.View, w, h)
		mc.pixelW, mc.pixelH = w, h
		mc.hasFrame = true
	}
	opts.OnZRange = mc.state.SetDataZRange

	frame := render.Render(w, h, opts)
	mc.lastFrame = frame
	return frame
}

// overlayFromSettings derives the probe lattice from the settings text
// fields; malformed fields disable the overlay for this frame.
func overlayFromSettings(vs app.ViewSnapshot) (render.Overlay, bool) {
	min, err := settings.ParsePair(vs.MeshMin)
	if err != nil {
		return render.Overlay{}, false
	}
	max, err := settings.ParsePair(vs.MeshMax)
	if err != nil {
		return render.Overlay{}, false
	}
	cx, cy, err := settings.ParseCounts(vs.ProbeCount)
	if err != nil {
		return render.Overlay{}, false
	}
	return render.Overlay{
		MeshMin: min,
		MeshMax: max,
		CountX:  cx,
		CountY:  cy,
	}, true
}

// toData converts a widget-local event position to data coordinates.
func (mc *MeshCanvas) toData(pos fyne.Position) (geometry.Point2D, bool) {
	if !mc.hasFrame {
		return geometry.Point2D{}, false
	}
	size := mc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return geometry.Point2D{}, false
	}
	// Event positions are in device-independent units; the raster renders
	// at device pixels.
	px := float64(pos.X) * float64(mc.pixelW) / float64(size.Width)
	py := float64(pos.Y) * float64(mc.pixelH) / float64(size.Height)
	return mc.viewport.ToData(px, py), true
}

// MouseDown implements desktop.Mouseable.
func (mc *MeshCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p, ok := mc.toData(ev.Position)
	if !ok {
		return
	}
	mc.state.Editor.PointerDown(p)
	mc.Refresh()
}

// MouseUp implements desktop.Mouseable.
func (mc *MeshCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if p, ok := mc.toData(ev.Position); ok {
		mc.state.Editor.PointerMove(p)
	}
	mc.state.Editor.PointerUp()
	mc.Refresh()
}

// Dragged implements fyne.Draggable.
func (mc *MeshCanvas) Dragged(ev *fyne.DragEvent) {
	p, ok := mc.toData(ev.Position)
	if !ok {
		return
	}
	mc.state.Editor.PointerMove(p)
	mc.Refresh()
}

// DragEnd implements fyne.Draggable. The terminating MouseUp carries the
// final position, so there is nothing further to commit here.
func (mc *MeshCanvas) DragEnd() {}

// MouseMoved implements desktop.Hoverable, updating the cursor to reflect
// what a press at this position would do.
func (mc *MeshCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if mc.state.Editor.Dragging() {
		return
	}
	p, ok := mc.toData(ev.Position)
	if !ok {
		return
	}
	var next desktop.Cursor = desktop.CrosshairCursor
	if h, _, ok := mc.state.Editor.HandleAt(p); ok {
		next = cursorForHandle(h)
	}
	if next != mc.cursor {
		mc.cursor = next
	}
}

// MouseIn implements desktop.Hoverable.
func (mc *MeshCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (mc *MeshCanvas) MouseOut() {
	mc.cursor = desktop.CrosshairCursor
}

// Cursor implements desktop.Cursorable.
func (mc *MeshCanvas) Cursor() desktop.Cursor {
	return mc.cursor
}

func cursorForHandle(h editor.Handle) desktop.Cursor {
	switch h {
	case editor.HandleE, editor.HandleW:
		return desktop.HResizeCursor
	case editor.HandleN, editor.HandleS:
		return desktop.VResizeCursor
	case editor.HandleNE, editor.HandleNW, editor.HandleSE, editor.HandleSW:
		return desktop.PointerCursor
	default:
		return desktop.CrosshairCursor
	}
}
