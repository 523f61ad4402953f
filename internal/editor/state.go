package editor

import (
	"mesh-regions/internal/region"
	"mesh-regions/pkg/geometry"
)

// Handle identifies one of the 8 resize hit zones on a region border as a
// bitmask of the edges it moves. Corners combine two edges.
type Handle uint8

const (
	HandleW Handle = 1 << iota
	HandleE
	HandleS
	HandleN
)

// Corner handles.
const (
	HandleSW = HandleS | HandleW
	HandleSE = HandleS | HandleE
	HandleNW = HandleN | HandleW
	HandleNE = HandleN | HandleE
)

func (h Handle) String() string {
	switch h {
	case HandleW:
		return "w"
	case HandleE:
		return "e"
	case HandleS:
		return "s"
	case HandleN:
		return "n"
	case HandleSW:
		return "sw"
	case HandleSE:
		return "se"
	case HandleNW:
		return "nw"
	case HandleNE:
		return "ne"
	}
	return "none"
}

// handleFor tests a point against one region's 8 handle zones. Corners are
// tested before edges; edges require the off-axis coordinate to be strictly
// between the bounds.
func handleFor(p geometry.Point2D, r region.Region, tolX, tolY float64) Handle {
	onMinX := absf(p.X-r.Min.X) < tolX
	onMaxX := absf(p.X-r.Max.X) < tolX
	onMinY := absf(p.Y-r.Min.Y) < tolY
	onMaxY := absf(p.Y-r.Max.Y) < tolY

	switch {
	case onMinX && onMinY:
		return HandleSW
	case onMaxX && onMinY:
		return HandleSE
	case onMinX && onMaxY:
		return HandleNW
	case onMaxX && onMaxY:
		return HandleNE
	}

	insideY := p.Y > r.Min.Y && p.Y < r.Max.Y
	insideX := p.X > r.Min.X && p.X < r.Max.X
	switch {
	case onMinX && insideY:
		return HandleW
	case onMaxX && insideY:
		return HandleE
	case onMinY && insideX:
		return HandleS
	case onMaxY && insideX:
		return HandleN
	}
	return 0
}

// dragState is the tagged union of interaction modes. Exactly one mode is
// active at a time.
type dragState interface {
	isDragState()
}

type stateIdle struct{}

type stateDrawing struct {
	anchor geometry.Point2D
	rect   geometry.Rect
}

type stateResizing struct {
	index  int
	handle Handle
}

type stateMoving struct {
	index int
	start geometry.Point2D
	orig  region.Region
}

func (stateIdle) isDragState()     {}
func (stateDrawing) isDragState()  {}
func (stateResizing) isDragState() {}
func (stateMoving) isDragState()   {}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
