package render

import (
	"image/color"

	"chosenoffset.com/softshadow/internal/core/geom"
)

// Fan triangulates a polygon around its first point. The result is exact
// for convex polygons and for polygons star-shaped around point 0.
func Fan(points []geom.Vec2, clr color.RGBA) ([]Vertex, []uint16) {
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	b := float32(clr.B) / 255
	a := float32(clr.A) / 255

	vertices := make([]Vertex, len(points))
	for i, p := range points {
		vertices[i] = Vertex{
			DstX:   float32(p.X()),
			DstY:   float32(p.Y()),
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		}
	}

	if len(points) < 3 {
		return vertices, nil
	}
	indices := make([]uint16, 0, (len(points)-2)*3)
	for i := 1; i < len(points)-1; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	return vertices, indices
}
