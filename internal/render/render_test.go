package render

import (
	"testing"

	"mesh-regions/internal/mesh"
	"mesh-regions/internal/region"
	"mesh-regions/pkg/geometry"
)

func testGrid() *mesh.Grid {
	return &mesh.Grid{
		Z: [][]float64{
			{0.0, 0.1},
			{0.1, 0.2},
		},
		XCoords: []float64{20, 200},
		YCoords: []float64{20, 200},
		MinX:    20, MaxX: 200,
		MinY: 20, MaxY: 200,
	}
}

func TestViewBounds(t *testing.T) {
	tests := []struct {
		name         string
		grid         *mesh.Grid
		areaX, areaY float64
		wantX, wantY float64
	}{
		{"Area larger than mesh", testGrid(), 220, 220, 220, 220},
		{"Mesh exceeds area", testGrid(), 150, 150, 210, 210},
		{"Mixed axes", testGrid(), 250, 150, 250, 210},
		{"No grid", nil, 220, 180, 220, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ViewBounds(tt.grid, tt.areaX, tt.areaY)
			if got.Min != (geometry.Point2D{}) {
				t.Errorf("Expected view anchored at origin, got %v", got.Min)
			}
			if got.Max.X != tt.wantX || got.Max.Y != tt.wantY {
				t.Errorf("Expected view max (%v, %v), got %v", tt.wantX, tt.wantY, got.Max)
			}
		})
	}
}

func TestViewportRoundTrip(t *testing.T) {
	view := geometry.Rect{Max: geometry.Point2D{X: 220, Y: 220}}
	vp := NewViewport(view, 800, 600)

	points := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: 220, Y: 220},
		{X: 110, Y: 110},
		{X: 37.5, Y: 180},
	}
	for _, p := range points {
		px, py := vp.ToPixel(p)
		back := vp.ToData(px, py)
		if absDiff(back.X, p.X) > 1e-9 || absDiff(back.Y, p.Y) > 1e-9 {
			t.Errorf("Round trip of %v gave %v", p, back)
		}
	}
}

func TestViewportYAxisFlips(t *testing.T) {
	view := geometry.Rect{Max: geometry.Point2D{X: 100, Y: 100}}
	vp := NewViewport(view, 200, 200)

	_, lowY := vp.ToPixel(geometry.Point2D{X: 50, Y: 10})
	_, highY := vp.ToPixel(geometry.Point2D{X: 50, Y: 90})
	if highY >= lowY {
		t.Errorf("Expected higher data Y to map to smaller pixel Y, got %v vs %v", highY, lowY)
	}
}

func TestViewportUniformScale(t *testing.T) {
	view := geometry.Rect{Max: geometry.Point2D{X: 100, Y: 200}}
	vp := NewViewport(view, 400, 400)

	x0, _ := vp.ToPixel(geometry.Point2D{X: 0, Y: 0})
	x1, _ := vp.ToPixel(geometry.Point2D{X: 100, Y: 0})
	_, y0 := vp.ToPixel(geometry.Point2D{X: 0, Y: 0})
	_, y1 := vp.ToPixel(geometry.Point2D{X: 0, Y: 200})

	spanX := x1 - x0
	spanY := y0 - y1
	if absDiff(spanX/100, spanY/200) > 1e-9 {
		t.Errorf("Expected uniform scale, got %v px/mm vs %v px/mm", spanX/100, spanY/200)
	}
}

func TestClassifyProbePoints(t *testing.T) {
	ov := Overlay{
		MeshMin: geometry.Point2D{X: 0, Y: 0},
		MeshMax: geometry.Point2D{X: 10, Y: 10},
		CountX:  11,
		CountY:  11,
	}
	regions := []region.Region{
		region.FromCorners(geometry.Point2D{X: 2, Y: 2}, geometry.Point2D{X: 8, Y: 8}),
	}

	included, excluded := ClassifyProbePoints(ov, regions)

	if len(included)+len(excluded) != 121 {
		t.Fatalf("Expected 121 lattice points, got %d", len(included)+len(excluded))
	}

	find := func(pts []geometry.Point2D, x, y float64) bool {
		for _, p := range pts {
			if p.X == x && p.Y == y {
				return true
			}
		}
		return false
	}

	if !find(excluded, 5, 5) {
		t.Error("Expected (5,5) inside the region to be excluded")
	}
	if !find(included, 1, 1) {
		t.Error("Expected (1,1) outside the region to be included")
	}
	// Boundary points count as inside the region.
	if !find(excluded, 2, 5) {
		t.Error("Expected boundary point (2,5) to be excluded")
	}
	if !find(excluded, 8, 8) {
		t.Error("Expected corner point (8,8) to be excluded")
	}
}

func TestClassifyProbePointsClampsCounts(t *testing.T) {
	ov := Overlay{
		MeshMax: geometry.Point2D{X: 10, Y: 10},
		CountX:  0,
		CountY:  1000,
	}
	included, excluded := ClassifyProbePoints(ov, nil)
	total := len(included) + len(excluded)
	if total != MinProbeCount*MaxProbeCount {
		t.Errorf("Expected %d points after clamping, got %d", MinProbeCount*MaxProbeCount, total)
	}
}

func TestRenderIgnoresInvertedLimits(t *testing.T) {
	g := testGrid()
	var gotMin, gotMax float64
	img := Render(80, 80, Options{
		Grid:   g,
		View:   ViewBounds(g, 220, 220),
		Limits: &ColorLimits{Min: 1, Max: -1},
		OnZRange: func(zmin, zmax float64) {
			gotMin, gotMax = zmin, zmax
		},
	})
	if img == nil {
		t.Fatal("Expected a frame")
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 80 {
		t.Errorf("Unexpected frame size: %v", img.Bounds())
	}
	if gotMin != 0 || gotMax != 0.2 {
		t.Errorf("Expected OnZRange(0, 0.2), got (%v, %v)", gotMin, gotMax)
	}
}

func TestRenderNilGrid(t *testing.T) {
	img := Render(40, 30, Options{})
	if img == nil || img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatal("Expected an empty background frame for nil grid")
	}
	if img.RGBAAt(0, 0) != backgroundColor {
		t.Errorf("Expected background fill, got %v", img.RGBAAt(0, 0))
	}
}

func TestColormapEndpoints(t *testing.T) {
	low := colormapAt(0)
	high := colormapAt(1)
	if low.B <= low.R {
		t.Errorf("Expected low end to be blue-ish, got %v", low)
	}
	if high.G <= high.B {
		t.Errorf("Expected high end to be yellow-ish, got %v", high)
	}

	lut := colormapLUT(256)
	if len(lut) != 256 {
		t.Fatalf("Expected 256 LUT entries, got %d", len(lut))
	}
	if lut[0] != colormapAt(0) {
		t.Errorf("Expected LUT start to match colormapAt(0)")
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
