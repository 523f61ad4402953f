// Package mesh provides the bed mesh height-map model and its config parser.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid holds a parsed bed mesh: height samples plus their coordinate axes.
// Z has YCount rows of XCount columns; Z[j][i] is the height at
// (XCoords[i], YCoords[j]). Both axes are evenly spaced between the bounds.
type Grid struct {
	Z       [][]float64
	XCoords []float64
	YCoords []float64

	MinX, MaxX float64
	MinY, MaxY float64
}

// XCount returns the number of samples along X.
func (g *Grid) XCount() int {
	return len(g.XCoords)
}

// YCount returns the number of samples along Y.
func (g *Grid) YCount() int {
	return len(g.YCoords)
}

// ZRange returns the minimum and maximum height values in the grid.
func (g *Grid) ZRange() (zmin, zmax float64) {
	zmin = math.Inf(1)
	zmax = math.Inf(-1)
	for _, row := range g.Z {
		zmin = math.Min(zmin, floats.Min(row))
		zmax = math.Max(zmax, floats.Max(row))
	}
	return zmin, zmax
}

// Snap returns the axis value closest to val. On an exact distance tie the
// lower-index candidate wins.
func Snap(val float64, axis []float64) float64 {
	best := axis[0]
	bestDist := math.Abs(val - axis[0])
	for _, v := range axis[1:] {
		if d := math.Abs(val - v); d < bestDist {
			best = v
			bestDist = d
		}
	}
	return best
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}
