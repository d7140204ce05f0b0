// Package geom provides the rectangle arithmetic used throughout the
// extraction engine. Coordinates are top-left origin: y grows downward,
// so "below" means a larger y. Adapters over PDF-native (bottom-up)
// coordinate spaces are responsible for flipping y before handing
// rectangles to the core.
package geom

import (
	"fmt"
	"math"
)

// Point is a position in page space.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance to another point.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle. X0,Y0 is the top-left corner and
// X1,Y1 the bottom-right corner.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// NewRect returns a rectangle with the corners normalized so that
// X0 <= X1 and Y0 <= Y1.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// IsZero reports whether the rectangle is the zero value.
func (r Rect) IsZero() bool {
	return r.X0 == 0 && r.Y0 == 0 && r.X1 == 0 && r.Y1 == 0
}

// Center returns the centroid of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// Intersects reports whether the two rectangles overlap. Touching edges
// do not count as an overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 &&
		r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Contains reports whether the point lies inside or on the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// ContainsRect reports whether other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X0 >= r.X0 && other.X1 <= r.X1 &&
		other.Y0 >= r.Y0 && other.Y1 <= r.Y1
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.IsZero() {
		return other
	}
	if other.IsZero() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Expand returns the rectangle grown by the given margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{X0: r.X0 - margin, Y0: r.Y0 - margin, X1: r.X1 + margin, Y1: r.Y1 + margin}
}

// CenterDistance returns the Euclidean distance between the centroids
// of the two rectangles. Used as the deterministic tie-break when
// several candidates compete for the same label.
func (r Rect) CenterDistance(other Rect) float64 {
	return r.Center().DistanceTo(other.Center())
}

// String returns the rectangle formatted as "x0,y0,x1,y1" with one
// decimal place, the serialization used for stored provenance.
func (r Rect) String() string {
	return fmt.Sprintf("%.1f,%.1f,%.1f,%.1f", r.X0, r.Y0, r.X1, r.Y1)
}
