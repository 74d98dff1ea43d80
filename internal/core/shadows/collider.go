package shadows

import "chosenoffset.com/softshadow/internal/core/geom"

// LightCollider is a closed polygon that blocks light. The last point
// connects back to the first.
type LightCollider struct {
	points []geom.Vec2

	// LightOverShape fills the shape with the light's emission instead of black.
	LightOverShape bool

	// Transform places the polygon relative to its owning entity.
	Transform geom.Transform
}

// NewLightCollider creates a collider from an ordered list of points.
func NewLightCollider(points ...geom.Vec2) *LightCollider {
	c := &LightCollider{}
	c.SetPointCount(len(points))
	copy(c.points, points)
	return c
}

// NewRectCollider creates a four point collider covering r.
func NewRectCollider(r geom.Rect) *LightCollider {
	return NewLightCollider(
		r.Min,
		geom.V(r.Max.X(), r.Min.Y()),
		r.Max,
		geom.V(r.Min.X(), r.Max.Y()),
	)
}

// PointCount returns the number of polygon points.
func (c *LightCollider) PointCount() int {
	return len(c.points)
}

// SetPointCount resizes the polygon. Existing points are kept up to n;
// new slots are zero and must be set with SetPoint.
func (c *LightCollider) SetPointCount(n int) {
	if n < 0 {
		n = 0
	}
	resized := make([]geom.Vec2, n)
	copy(resized, c.points)
	c.points = resized
}

// Point returns the local position of point i.
func (c *LightCollider) Point(i int) geom.Vec2 {
	return c.points[i]
}

// SetPoint sets the local position of point i.
func (c *LightCollider) SetPoint(i int, p geom.Vec2) {
	c.points[i] = p
}

// Points returns a copy of the local points.
func (c *LightCollider) Points() []geom.Vec2 {
	out := make([]geom.Vec2, len(c.points))
	copy(out, c.points)
	return out
}

// WorldPoints returns the points transformed by world ∘ c.Transform.
func (c *LightCollider) WorldPoints(world geom.Transform) []geom.Vec2 {
	return world.Mul(c.Transform).ApplyAll(c.points)
}

// Bounds returns the world-space bounding box of the polygon.
func (c *LightCollider) Bounds(world geom.Transform) geom.Rect {
	return geom.RectFromPoints(c.WorldPoints(world)...)
}

// signedArea returns twice the signed polygon area; positive for counter-clockwise
// order in a y-up frame.
func signedArea(points []geom.Vec2) float64 {
	area := 0.0
	n := len(points)
	for i := range points {
		area += geom.Cross(points[i], points[(i+1)%n])
	}
	return area
}
