// Package region provides the faulty-region model and its undo/redo history.
package region

import (
	"fmt"

	"mesh-regions/pkg/geometry"
)

// Region is a user-defined axis-aligned rectangle marking a mesh area to
// exclude from probing. Min.X <= Max.X and Min.Y <= Max.Y always hold for
// regions stored in the document list.
type Region struct {
	Min geometry.Point2D
	Max geometry.Point2D
}

// FromCorners builds a Region from two arbitrary opposite corners,
// normalizing them into min/max order.
func FromCorners(a, b geometry.Point2D) Region {
	r := geometry.RectFromCorners(a, b)
	return Region{Min: r.Min, Max: r.Max}
}

// FromRect builds a Region from an already-normalized rectangle.
func FromRect(r geometry.Rect) Region {
	return Region{Min: r.Min, Max: r.Max}
}

// Bounds returns the region as a geometry.Rect.
func (r Region) Bounds() geometry.Rect {
	return geometry.Rect{Min: r.Min, Max: r.Max}
}

// Contains reports whether the point lies in the closed bounding box of the
// region. Boundary points count as inside.
func (r Region) Contains(p geometry.Point2D) bool {
	return r.Bounds().Contains(p)
}

// Format renders the region in Klipper's faulty_region config syntax using
// the given 1-based index. Two lines, three decimal places.
func (r Region) Format(index int) []string {
	return []string{
		fmt.Sprintf("faulty_region_%d_min: %.3f, %.3f", index, r.Min.X, r.Min.Y),
		fmt.Sprintf("faulty_region_%d_max: %.3f, %.3f", index, r.Max.X, r.Max.Y),
	}
}

// LinesPerRegion is the number of listing lines each region occupies in the
// textual region list. Selection-index arithmetic divides by this.
const LinesPerRegion = 2

// FormatAll renders every region, densely renumbered from 1.
func FormatAll(regions []Region) []string {
	lines := make([]string, 0, len(regions)*LinesPerRegion)
	for i, r := range regions {
		lines = append(lines, r.Format(i+1)...)
	}
	return lines
}
