package render

import (
	"image"
	"image/color"

	"mesh-regions/pkg/geometry"
)

// dashPeriod controls the on/off pattern of dashed strokes; the first
// dashOn pixels of each period are drawn.
const (
	dashPeriod = 8
	dashOn     = 5
)

// drawDashedRect strokes a data-space rectangle with dashed lines of the
// given pixel thickness.
func drawDashedRect(out *image.RGBA, vp Viewport, r geometry.Rect, col color.RGBA, thickness int) {
	x0, y0 := vp.ToPixel(geometry.Point2D{X: r.Min.X, Y: r.Max.Y})
	x1, y1 := vp.ToPixel(geometry.Point2D{X: r.Max.X, Y: r.Min.Y})
	left, top := int(x0), int(y0)
	right, bottom := int(x1), int(y1)

	drawDashedLine(out, left, top, right, top, col, thickness)
	drawDashedLine(out, left, bottom, right, bottom, col, thickness)
	drawDashedLine(out, left, top, left, bottom, col, thickness)
	drawDashedLine(out, right, top, right, bottom, col, thickness)
}

// drawDashedLine is Bresenham with a positional dash pattern, so that
// overlapping segments dash consistently.
func drawDashedLine(out *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, thickness int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if (x+y)%dashPeriod < dashOn {
			setThick(out, x, y, col, thickness)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// setThick stamps a thickness x thickness block centered on (x, y).
func setThick(out *image.RGBA, x, y int, col color.RGBA, thickness int) {
	half := thickness / 2
	for oy := -half; oy <= half; oy++ {
		for ox := -half; ox <= half; ox++ {
			setClipped(out, x+ox, y+oy, col)
		}
	}
}

func fillCircle(out *image.RGBA, cx, cy, r int, col color.RGBA) {
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			if ox*ox+oy*oy <= r*r {
				setClipped(out, cx+ox, cy+oy, col)
			}
		}
	}
}

// drawCircle strokes only the ring at radius r.
func drawCircle(out *image.RGBA, cx, cy, r int, col color.RGBA) {
	inner := (r - 1) * (r - 1)
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			d := ox*ox + oy*oy
			if d <= r*r && d > inner {
				setClipped(out, cx+ox, cy+oy, col)
			}
		}
	}
}

// blendCircle fills a circle mixed with the existing pixels at the given
// opacity.
func blendCircle(out *image.RGBA, cx, cy, r int, col color.RGBA, alpha float64) {
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			if ox*ox+oy*oy <= r*r {
				blendClipped(out, cx+ox, cy+oy, col, alpha)
			}
		}
	}
}

// drawCross stamps an X marker with arms of the given length.
func drawCross(out *image.RGBA, cx, cy, arm int, col color.RGBA) {
	for d := -arm; d <= arm; d++ {
		setThick(out, cx+d, cy+d, col, 2)
		setThick(out, cx+d, cy-d, col, 2)
	}
}

func setClipped(out *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(out.Bounds()) {
		out.SetRGBA(x, y, col)
	}
}

func blendClipped(out *image.RGBA, x, y int, col color.RGBA, alpha float64) {
	if !image.Pt(x, y).In(out.Bounds()) {
		return
	}
	old := out.RGBAAt(x, y)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-alpha) + float64(b)*alpha)
	}
	out.SetRGBA(x, y, color.RGBA{
		R: mix(old.R, col.R),
		G: mix(old.G, col.G),
		B: mix(old.B, col.B),
		A: 255,
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
