package render

import (
	"mesh-regions/internal/mesh"
	"mesh-regions/pkg/geometry"
)

// ViewMargin is added around the mesh data when it exceeds the configured
// print area, so the data never touches the frame edge. Millimeters.
const ViewMargin = 10.0

// ViewBounds computes the axis viewport: anchored at the origin, at least
// the configured print area, expanded to contain the mesh data plus a
// margin.
func ViewBounds(grid *mesh.Grid, plotAreaX, plotAreaY float64) geometry.Rect {
	maxX := plotAreaX
	maxY := plotAreaY
	if grid != nil {
		if m := grid.MaxX + ViewMargin; m > maxX {
			maxX = m
		}
		if m := grid.MaxY + ViewMargin; m > maxY {
			maxY = m
		}
	}
	return geometry.Rect{Max: geometry.Point2D{X: maxX, Y: maxY}}
}

// Viewport maps data coordinates (millimeters, Y up) onto pixel coordinates
// (Y down) with a uniform scale, so one millimeter is the same number of
// pixels on both axes.
type Viewport struct {
	View  geometry.Rect
	W, H  int
	scale float64
	offX  float64
	offY  float64
}

// NewViewport fits the view rectangle into a w x h pixel frame, centered.
func NewViewport(view geometry.Rect, w, h int) Viewport {
	v := Viewport{View: view, W: w, H: h}
	if view.Width() <= 0 || view.Height() <= 0 || w <= 0 || h <= 0 {
		v.scale = 1
		return v
	}
	sx := float64(w) / view.Width()
	sy := float64(h) / view.Height()
	v.scale = sx
	if sy < sx {
		v.scale = sy
	}
	v.offX = (float64(w) - view.Width()*v.scale) / 2
	v.offY = (float64(h) - view.Height()*v.scale) / 2
	return v
}

// ToPixel converts a data point to pixel coordinates.
func (v Viewport) ToPixel(p geometry.Point2D) (float64, float64) {
	px := v.offX + (p.X-v.View.Min.X)*v.scale
	py := float64(v.H) - v.offY - (p.Y-v.View.Min.Y)*v.scale
	return px, py
}

// ToData converts pixel coordinates back to data space.
func (v Viewport) ToData(px, py float64) geometry.Point2D {
	return geometry.Point2D{
		X: v.View.Min.X + (px-v.offX)/v.scale,
		Y: v.View.Min.Y + (float64(v.H)-v.offY-py)/v.scale,
	}
}
