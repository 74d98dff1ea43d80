package shadows

import (
	"math"

	"chosenoffset.com/softshadow/internal/core/geom"
)

// minArea below which a polygon is treated as degenerate.
const minArea = 1e-9

// ComputePenumbras works out the soft shadow a collider casts from a disk
// shaped light at center with the given radius.
//
// Every polygon edge is classified against the two tangent rays from the
// disk through its end points. Where the classification flips, the polygon
// has a silhouette point. The "both edges" classification marks where full
// light ends (Inner) and the "one edge" classification marks the umbra
// silhouette (Outer). From each inner point a walk around the polygon emits
// penumbra wedges until an edge no longer cuts into the wedge.
func ComputePenumbras(center geom.Vec2, radius float64, collider *LightCollider, world geom.Transform) PenumbraResult {
	points := collider.WorldPoints(world)
	n := len(points)
	if n < 3 {
		return PenumbraResult{}
	}

	// Work in counter-clockwise order so edge normals point inwards and a
	// positive dot product with a tangent ray means the edge faces the light.
	area := signedArea(points)
	if math.Abs(area) < minArea {
		return PenumbraResult{}
	}
	reversed := area < 0
	if reversed {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}

	facingFrontBothEdges := make([]bool, n)
	facingFrontOneEdge := make([]bool, n)
	for i, p := range points {
		next := points[(i+1)%n]
		normal := geom.Normalize(geom.Perp(next.Sub(p)))

		lo, hi := tangentRays(p, center, radius)
		nextLo, nextHi := tangentRays(next, center, radius)

		a := geom.Dot(lo, normal) > 0
		b := geom.Dot(hi, normal) > 0
		c := geom.Dot(nextLo, normal) > 0
		d := geom.Dot(nextHi, normal) > 0

		facingFrontBothEdges[i] = (a && b) || (c && d)
		facingFrontOneEdge[i] = a || b || c || d
	}

	res := PenumbraResult{
		Inner: findBoundaries(facingFrontBothEdges),
		Outer: findBoundaries(facingFrontOneEdge),
	}

	// Inner points start the penumbra on the fully lit side; outer points
	// carry the umbra rays, which converge behind occluders smaller than
	// the light.
	for i := range res.Inner {
		b := &res.Inner[i]
		b.Point = points[b.Index]
		b.Vector = lightEdgeRay(b.Point, center, radius, b.Lit)
	}
	for i := range res.Outer {
		b := &res.Outer[i]
		b.Point = points[b.Index]
		b.Vector = darkEdgeRay(b.Point, center, radius, b.Lit)
	}

	res.OK = len(res.Inner) == 2 && len(res.Outer) == 2
	if res.OK {
		for _, b := range res.Inner {
			res.Penumbras = walkPenumbras(res.Penumbras, points, b, center, radius)
		}
	}

	if reversed {
		for i := range res.Inner {
			res.Inner[i].Index = n - 1 - res.Inner[i].Index
		}
		for i := range res.Outer {
			res.Outer[i].Index = n - 1 - res.Outer[i].Index
		}
	}
	return res
}

// tangentRays returns the rays reaching p from the two sides of a disk
// light: lo leaves the disk at center - offset, hi at center + offset, where
// offset is perpendicular to the center->p direction.
func tangentRays(p, center geom.Vec2, radius float64) (lo, hi geom.Vec2) {
	offset := geom.Normalize(geom.Perp(p.Sub(center))).Mul(radius)
	lo = p.Sub(center.Sub(offset))
	hi = p.Sub(center.Add(offset))
	return lo, hi
}

// lightEdgeRay is the tangent ray on the fully lit side of a silhouette point.
func lightEdgeRay(p, center geom.Vec2, radius float64, lit bool) geom.Vec2 {
	lo, hi := tangentRays(p, center, radius)
	if lit {
		return lo
	}
	return hi
}

// darkEdgeRay is the tangent ray on the umbra side of a silhouette point.
func darkEdgeRay(p, center geom.Vec2, radius float64, lit bool) geom.Vec2 {
	lo, hi := tangentRays(p, center, radius)
	if lit {
		return hi
	}
	return lo
}

// findBoundaries returns the indices where facing flips, scanning 1..n-1
// first and the wrap around from n-1 to 0 last.
func findBoundaries(facing []bool) []Boundary {
	n := len(facing)
	var out []Boundary
	for i := 1; i < n; i++ {
		if facing[i] != facing[i-1] {
			out = append(out, Boundary{Index: i, Lit: facing[i]})
		}
	}
	if n > 1 && facing[0] != facing[n-1] {
		out = append(out, Boundary{Index: 0, Lit: facing[0]})
	}
	return out
}

// walkDirection is the way from a boundary point towards its unlit edge.
// A lit boundary has its unlit edge behind it.
func walkDirection(b Boundary) Direction {
	if b.Lit {
		return Backward
	}
	return Forward
}

// walkPenumbras emits the wedges for one inner boundary. While the next
// polygon edge lies inside the current wedge the shadow boundary follows
// the edge and the wedge is split, carrying the interpolated brightness
// onto the next point.
func walkPenumbras(dst []Penumbra, points []geom.Vec2, b Boundary, center geom.Vec2, radius float64) []Penumbra {
	n := len(points)
	dir := walkDirection(b)

	idx := b.Index
	lightEdge := lightEdgeRay(points[idx], center, radius, b.Lit)
	lightBrightness := 1.0

	for step := 0; step < n; step++ {
		p := points[idx]
		darkEdge := darkEdgeRay(p, center, radius, b.Lit)

		nextIdx := dir.Step(idx, n)
		toNext := points[nextIdx].Sub(p)

		full := geom.Angle(lightEdge, darkEdge)
		part := geom.Angle(lightEdge, toNext)

		if part < full && geom.Angle(toNext, darkEdge) <= full {
			darkBrightness := clamp01(lightBrightness * (full - part) / full)
			dst = append(dst, Penumbra{
				Source:          p,
				LightEdge:       lightEdge,
				DarkEdge:        toNext,
				LightBrightness: clamp01(lightBrightness),
				DarkBrightness:  darkBrightness,
			})
			lightEdge = toNext
			lightBrightness = darkBrightness
			idx = nextIdx
			continue
		}

		dst = append(dst, Penumbra{
			Source:          p,
			LightEdge:       lightEdge,
			DarkEdge:        darkEdge,
			LightBrightness: clamp01(lightBrightness),
			DarkBrightness:  0,
		})
		break
	}
	return dst
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
