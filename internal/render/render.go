// Package render draws the editor frame: the height-map raster, probe
// overlays and region rectangles. It produces plain RGBA images and knows
// nothing about widgets; drawables are derived from current region state on
// every frame.
package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"

	"mesh-regions/internal/mesh"
	"mesh-regions/internal/region"
	"mesh-regions/pkg/geometry"
)

// Probe overlay lattice counts are clamped to this range before use.
const (
	MinProbeCount = 2
	MaxProbeCount = 200
)

var (
	backgroundColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 255}
	regionColor     = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	selectionColor  = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	probeColor      = color.RGBA{R: 230, G: 60, B: 60, A: 255}
	probeEdgeColor  = color.RGBA{R: 140, G: 20, B: 20, A: 255}
	outlineColor    = color.RGBA{R: 70, G: 130, B: 240, A: 255}
	gridDotColor    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// Overlay describes the probe-point lattice derived from the bed mesh
// settings fields.
type Overlay struct {
	MeshMin geometry.Point2D
	MeshMax geometry.Point2D
	CountX  int
	CountY  int
}

// ColorLimits overrides the color scale normally derived from the data
// range. An inverted or degenerate request (Min >= Max) is ignored.
type ColorLimits struct {
	Min, Max float64
}

// Options carries everything one frame needs. The renderer only reads.
type Options struct {
	Grid     *mesh.Grid
	Regions  []region.Region
	Selected int
	// DragRect is the in-progress draw rectangle, shown before commit.
	DragRect *geometry.Rect
	View     geometry.Rect
	Overlay  *Overlay
	Limits   *ColorLimits
	ShowDots bool
	// OnZRange is notified with the data's actual Z range after drawing,
	// for driving external color-scale controls. One-way signal.
	OnZRange func(zmin, zmax float64)
}

// Render draws a full frame into a w x h image.
func Render(w, h int, o Options) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(out, backgroundColor)
	if o.Grid == nil || w <= 0 || h <= 0 {
		return out
	}

	vp := NewViewport(o.View, w, h)

	zmin, zmax := o.Grid.ZRange()
	vmin, vmax := zmin, zmax
	if o.Limits != nil && o.Limits.Min < o.Limits.Max {
		vmin, vmax = o.Limits.Min, o.Limits.Max
	}

	drawHeatmap(out, o.Grid, vp, vmin, vmax)

	if o.ShowDots {
		drawGridDots(out, o.Grid, vp)
	}

	if o.Overlay != nil {
		drawOverlay(out, *o.Overlay, o.Regions, vp)
	}

	for i, r := range o.Regions {
		col, thick := regionColor, 2
		if i == o.Selected {
			col, thick = selectionColor, 3
		}
		drawDashedRect(out, vp, r.Bounds(), col, thick)
	}
	if o.DragRect != nil {
		drawDashedRect(out, vp, *o.DragRect, regionColor, 2)
	}

	if o.OnZRange != nil {
		o.OnZRange(zmin, zmax)
	}
	return out
}

// ClassifyProbePoints builds the overlay lattice (counts clamped to
// [MinProbeCount, MaxProbeCount]) and splits it into included and excluded
// points. A point inside the closed bounding box of any region is excluded;
// boundaries count as inside.
func ClassifyProbePoints(ov Overlay, regions []region.Region) (included, excluded []geometry.Point2D) {
	cx := clampCount(ov.CountX)
	cy := clampCount(ov.CountY)
	xs := floats.Span(make([]float64, cx), ov.MeshMin.X, ov.MeshMax.X)
	ys := floats.Span(make([]float64, cy), ov.MeshMin.Y, ov.MeshMax.Y)

	for _, y := range ys {
		for _, x := range xs {
			p := geometry.Point2D{X: x, Y: y}
			if inAnyRegion(p, regions) {
				excluded = append(excluded, p)
			} else {
				included = append(included, p)
			}
		}
	}
	return included, excluded
}

func inAnyRegion(p geometry.Point2D, regions []region.Region) bool {
	for _, r := range regions {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

func clampCount(n int) int {
	if n < MinProbeCount {
		return MinProbeCount
	}
	if n > MaxProbeCount {
		return MaxProbeCount
	}
	return n
}

// drawHeatmap renders the grid at sample resolution and scales it up with
// nearest-neighbour interpolation, one colored cell per sample.
func drawHeatmap(out *image.RGBA, g *mesh.Grid, vp Viewport, vmin, vmax float64) {
	lut := colormapLUT(256)
	span := vmax - vmin

	src := image.NewRGBA(image.Rect(0, 0, g.XCount(), g.YCount()))
	for j, row := range g.Z {
		for i, z := range row {
			t := 0.0
			if span > 0 {
				t = (z - vmin) / span
			}
			idx := int(t * 255)
			if idx < 0 {
				idx = 0
			}
			if idx > 255 {
				idx = 255
			}
			// Row 0 of the grid is the lowest Y; flip for pixel space.
			src.SetRGBA(i, g.YCount()-1-j, lut[idx])
		}
	}

	x0, y0 := vp.ToPixel(geometry.Point2D{X: g.MinX, Y: g.MaxY})
	x1, y1 := vp.ToPixel(geometry.Point2D{X: g.MaxX, Y: g.MinY})
	dst := image.Rect(int(x0), int(y0), int(x1)+1, int(y1)+1)
	xdraw.NearestNeighbor.Scale(out, dst, src, src.Bounds(), xdraw.Src, nil)
}

// drawGridDots scatters every grid coordinate as a small half-opacity
// marker.
func drawGridDots(out *image.RGBA, g *mesh.Grid, vp Viewport) {
	for _, y := range g.YCoords {
		for _, x := range g.XCoords {
			px, py := vp.ToPixel(geometry.Point2D{X: x, Y: y})
			blendCircle(out, int(px), int(py), 2, gridDotColor, 0.5)
		}
	}
}

// drawOverlay draws the probe lattice classification plus a dashed outline
// of the mesh_min/mesh_max bounding box.
func drawOverlay(out *image.RGBA, ov Overlay, regions []region.Region, vp Viewport) {
	included, excluded := ClassifyProbePoints(ov, regions)

	for _, p := range included {
		px, py := vp.ToPixel(p)
		fillCircle(out, int(px), int(py), 4, probeColor)
		drawCircle(out, int(px), int(py), 4, probeEdgeColor)
	}
	for _, p := range excluded {
		px, py := vp.ToPixel(p)
		drawCross(out, int(px), int(py), 5, probeColor)
	}

	box := geometry.Rect{Min: ov.MeshMin, Max: ov.MeshMax}
	drawDashedRect(out, vp, box, outlineColor, 2)
}

// fill floods the whole image with one color.
func fill(out *image.RGBA, col color.RGBA) {
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetRGBA(x, y, col)
		}
	}
}
