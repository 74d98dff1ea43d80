package geom

import "math"

// epsilon below which a length or determinant is treated as zero.
const epsilon = 1e-10

// Perp returns v rotated a quarter turn: (-y, x).
func Perp(v Vec2) Vec2 {
	return V(-v.Y(), v.X())
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func Normalize(v Vec2) Vec2 {
	l := v.Len()
	if l < epsilon {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a.Dot(b)
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Angle returns the unsigned angle between a and b in radians.
// The cosine is clamped to [-1, 1] so nearly parallel vectors never produce NaN.
func Angle(a, b Vec2) float64 {
	c := Dot(Normalize(a), Normalize(b))
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// RayIntersect intersects the ray as + u*ad with the ray bs + v*bd.
// Returns the intersection point and the parameter u along the first ray.
// Parallel rays and intersections behind either origin report false.
func RayIntersect(as, ad, bs, bd Vec2) (Vec2, float64, bool) {
	det := Cross(bd, ad)
	if math.Abs(det) < epsilon {
		return Vec2{}, 0, false
	}

	d := bs.Sub(as)
	u := (d.Y()*bd.X() - d.X()*bd.Y()) / det
	if u < 0 {
		return Vec2{}, 0, false
	}
	v := (d.Y()*ad.X() - d.X()*ad.Y()) / det
	if v < 0 {
		return Vec2{}, 0, false
	}

	return as.Add(ad.Mul(u)), u, true
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Vec2, polygon []Vec2) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X(), polygon[i].Y()
		xj, yj := polygon[j].X(), polygon[j].Y()

		if ((yi > point.Y()) != (yj > point.Y())) &&
			(point.X() < (xj-xi)*(point.Y()-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}
