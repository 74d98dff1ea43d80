package geom

import "github.com/go-gl/mathgl/mgl64"

// Vec2 represents a 2D point or direction in world space.
type Vec2 = mgl64.Vec2

// V builds a Vec2 from its components.
func V(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Vec2
}

// R builds a Rect from two corners in any order.
func R(x0, y0, x1, y1 float64) Rect {
	return RectFromPoints(V(x0, y0), V(x1, y1))
}

// RectFromPoints returns the smallest Rect containing every point.
func RectFromPoints(points ...Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min = V(min(r.Min.X(), p.X()), min(r.Min.Y(), p.Y()))
		r.Max = V(max(r.Max.X(), p.X()), max(r.Max.Y(), p.Y()))
	}
	return r
}

// Dx returns the width of the rectangle.
func (r Rect) Dx() float64 {
	return r.Max.X() - r.Min.X()
}

// Dy returns the height of the rectangle.
func (r Rect) Dy() float64 {
	return r.Max.Y() - r.Min.Y()
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Overlaps reports whether r and o share any area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X() < o.Max.X() && o.Min.X() < r.Max.X() &&
		r.Min.Y() < o.Max.Y() && o.Min.Y() < r.Max.Y()
}

// Contains reports whether p lies inside r (inclusive).
func (r Rect) Contains(p Vec2) bool {
	return p.X() >= r.Min.X() && p.X() <= r.Max.X() &&
		p.Y() >= r.Min.Y() && p.Y() <= r.Max.Y()
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{
		Min: V(r.Min.X()-d, r.Min.Y()-d),
		Max: V(r.Max.X()+d, r.Max.Y()+d),
	}
}

// Union returns the smallest Rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return RectFromPoints(r.Min, r.Max, o.Min, o.Max)
}
