package shadows

import "chosenoffset.com/softshadow/internal/core/geom"

// Penumbra is a soft-shadow wedge anchored at a polygon point.
// Brightness runs from LightBrightness along LightEdge to DarkBrightness along DarkEdge.
type Penumbra struct {
	Source          geom.Vec2 // Polygon point the wedge starts from
	LightEdge       geom.Vec2 // Direction of the lit side of the wedge
	DarkEdge        geom.Vec2 // Direction of the shadowed side of the wedge
	LightBrightness float64   // 0..1
	DarkBrightness  float64   // 0..1, nonzero only when the wedge continues onto a polygon edge
}

// Direction is the way a penumbra walk travels around a polygon.
type Direction int

const (
	Forward  Direction = iota // i -> i+1
	Backward                  // i -> i-1
)

// Step returns the index after i when walking n points in direction d.
func (d Direction) Step(i, n int) int {
	if d == Backward {
		return (i - 1 + n) % n
	}
	return (i + 1) % n
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Boundary is a silhouette point where edge facing flips from lit to unlit.
type Boundary struct {
	Index  int       // Point index in the collider
	Point  geom.Vec2 // World position
	Vector geom.Vec2 // Boundary ray direction leaving Point
	Lit    bool      // Whether the edge starting at Index faces the light
}

// PenumbraResult is everything the solver knows about one light/collider pair.
// OK is false when either boundary set does not have exactly two entries, in
// which case the collider casts no shadow for this light.
type PenumbraResult struct {
	Penumbras []Penumbra
	Inner     []Boundary // Where full light ends, vectors on the lit side
	Outer     []Boundary // Umbra silhouette, vectors along the umbra edge
	OK        bool
}
