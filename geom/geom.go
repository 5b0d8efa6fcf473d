// Package geom provides the rectangle and point primitives shared by the
// extraction pipeline. Rectangles appear in two distinct coordinate spaces:
// document points (native text layer, origin top-left) and image pixels
// (rasterized pages, origin top-left). The two spaces are never converted
// into one another; a rectangle is only meaningful to the reader it was
// authored for.
package geom

import "math"

// Point is a 2D point.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle identified by its corners.
// X0,Y0 is the upper-left corner and X1,Y1 the lower-right corner.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a rectangle, normalizing swapped corners.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// FromSize builds a rectangle from an origin and dimensions.
func FromSize(x, y, w, h float64) Rect {
	return Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// IsEmpty reports whether the rectangle has non-positive extent.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// Expand grows the rectangle by margin on every edge. A negative margin
// shrinks it.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X0: r.X0 - margin,
		Y0: r.Y0 - margin,
		X1: r.X1 + margin,
		Y1: r.Y1 + margin,
	}
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Clamp restricts the rectangle to the given bounds. The result may be
// empty when r lies entirely outside bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	return Rect{
		X0: math.Min(math.Max(r.X0, bounds.X0), bounds.X1),
		Y0: math.Min(math.Max(r.Y0, bounds.Y0), bounds.Y1),
		X1: math.Max(math.Min(r.X1, bounds.X1), bounds.X0),
		Y1: math.Max(math.Min(r.Y1, bounds.Y1), bounds.Y0),
	}
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.X1 < other.X0 || r.X0 > other.X1 ||
		r.Y1 < other.Y0 || r.Y0 > other.Y1)
}
