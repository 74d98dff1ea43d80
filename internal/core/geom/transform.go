package geom

import "github.com/go-gl/mathgl/mgl64"

// Transform is a 2D affine transform stored as a homogeneous 3x3 matrix.
// The zero value is the identity.
type Transform struct {
	m   mgl64.Mat3
	set bool
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: mgl64.Ident3(), set: true}
}

// Translation returns a transform that shifts points by (tx, ty).
func Translation(tx, ty float64) Transform {
	return Transform{m: mgl64.Translate2D(tx, ty), set: true}
}

// Scaling returns a transform that scales points by (sx, sy) about the origin.
func Scaling(sx, sy float64) Transform {
	return Transform{m: mgl64.Scale2D(sx, sy), set: true}
}

// Rotation returns a transform that rotates points by angle radians about the origin.
func Rotation(angle float64) Transform {
	return Transform{m: mgl64.HomogRotate2D(angle), set: true}
}

// TRS builds the usual translate * rotate * scale transform used by entities.
func TRS(pos Vec2, rotation float64, scale Vec2) Transform {
	return Translation(pos.X(), pos.Y()).Mul(Rotation(rotation)).Mul(Scaling(scale.X(), scale.Y()))
}

func (t Transform) mat() mgl64.Mat3 {
	if !t.set {
		return mgl64.Ident3()
	}
	return t.m
}

// Mul returns t ∘ o: o is applied first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{m: t.mat().Mul3(o.mat()), set: true}
}

// Translate returns t followed by a translation of (tx, ty).
func (t Transform) Translate(tx, ty float64) Transform {
	return Translation(tx, ty).Mul(t)
}

// Scale returns t followed by a scale of (sx, sy).
func (t Transform) Scale(sx, sy float64) Transform {
	return Scaling(sx, sy).Mul(t)
}

// Rotate returns t followed by a rotation of angle radians.
func (t Transform) Rotate(angle float64) Transform {
	return Rotation(angle).Mul(t)
}

// Apply transforms the point p.
func (t Transform) Apply(p Vec2) Vec2 {
	return t.mat().Mul3x1(p.Vec3(1)).Vec2()
}

// ApplyAll transforms every point into a new slice.
func (t Transform) ApplyAll(points []Vec2) []Vec2 {
	m := t.mat()
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = m.Mul3x1(p.Vec3(1)).Vec2()
	}
	return out
}

// ApplyRect returns the bounding box of r after transformation.
func (t Transform) ApplyRect(r Rect) Rect {
	return RectFromPoints(
		t.Apply(r.Min),
		t.Apply(V(r.Max.X(), r.Min.Y())),
		t.Apply(r.Max),
		t.Apply(V(r.Min.X(), r.Max.Y())),
	)
}

// Offset returns the translation part of the transform.
func (t Transform) Offset() Vec2 {
	m := t.mat()
	return V(m.At(0, 2), m.At(1, 2))
}

// At returns the matrix element at row, col.
func (t Transform) At(row, col int) float64 {
	return t.mat().At(row, col)
}
