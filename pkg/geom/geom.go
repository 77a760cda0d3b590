// Package geom provides the 2D primitives shared by the layout engine:
// points and axis-aligned rectangles in abstract world units.
//
// World units are the engine's coordinate space. They are not terminal
// cells; the renderer owns the mapping onto the character grid.
package geom

import "math"

// Point is a location in 2D layout space (world units).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance from p to q.
func (p Point) Dist(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in layout space.
// Width and Height are always non-negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ContainsPoint reports whether p lies inside r (edges inclusive).
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Overlaps reports whether r and other intersect after growing both by
// margin on every side. A zero margin tests plain intersection.
func (r Rect) Overlaps(other Rect, margin float64) bool {
	ax1, ay1 := r.X-margin, r.Y-margin
	ax2, ay2 := r.Right()+margin, r.Bottom()+margin
	bx1, by1 := other.X-margin, other.Y-margin
	bx2, by2 := other.Right()+margin, other.Bottom()+margin
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}
