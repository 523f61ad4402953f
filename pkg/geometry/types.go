// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates, in millimeters.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents an axis-aligned rectangle spanning [Min.X,Max.X] x [Min.Y,Max.Y].
type Rect struct {
	Min Point2D `json:"min"`
	Max Point2D `json:"max"`
}

// RectFromCorners builds a Rect from two arbitrary opposite corners,
// normalizing so that Min.X <= Max.X and Min.Y <= Max.Y.
func RectFromCorners(a, b Point2D) Rect {
	return Rect{
		Min: Point2D{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point2D{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains returns true if the point is inside the closed rectangle.
// Boundary points count as inside.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsInterior returns true if the point is strictly inside the
// rectangle shrunk inward by (padX, padY) on each side.
func (r Rect) ContainsInterior(p Point2D, padX, padY float64) bool {
	return p.X > r.Min.X+padX && p.X < r.Max.X-padX &&
		p.Y > r.Min.Y+padY && p.Y < r.Max.Y-padY
}

// Expand returns the rectangle grown outward by (padX, padY) on each side.
func (r Rect) Expand(padX, padY float64) Rect {
	return Rect{
		Min: Point2D{X: r.Min.X - padX, Y: r.Min.Y - padY},
		Max: Point2D{X: r.Max.X + padX, Y: r.Max.Y + padY},
	}
}

// Translate returns the rectangle shifted by the given delta.
func (r Rect) Translate(d Point2D) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}
