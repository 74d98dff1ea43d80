package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got Vec2) {
	t.Helper()
	assert.InDelta(t, want.X(), got.X(), 1e-9, "x of %v", got)
	assert.InDelta(t, want.Y(), got.Y(), 1e-9, "y of %v", got)
}

func TestZeroTransformIsIdentity(t *testing.T) {
	var tr Transform
	assertVec(t, V(3, -2), tr.Apply(V(3, -2)))
	assertVec(t, V(3, -2), tr.Mul(Identity()).Apply(V(3, -2)))
}

func TestTransformComposition(t *testing.T) {
	// Scale first, then translate.
	tr := Scaling(2, 3).Translate(10, 20)
	assertVec(t, V(12, 23), tr.Apply(V(1, 1)))

	// Mul applies the right-hand side first.
	same := Translation(10, 20).Mul(Scaling(2, 3))
	assertVec(t, tr.Apply(V(-4, 7)), same.Apply(V(-4, 7)))

	rot := Rotation(math.Pi / 2)
	assertVec(t, V(0, 1), rot.Apply(V(1, 0)))

	trs := TRS(V(5, 5), math.Pi/2, V(2, 2))
	assertVec(t, V(5, 7), trs.Apply(V(1, 0)))
	assertVec(t, V(5, 5), trs.Offset())
}

func TestApplyAllAndRect(t *testing.T) {
	tr := Translation(1, 2)
	pts := tr.ApplyAll([]Vec2{V(0, 0), V(1, 1)})
	assertVec(t, V(1, 2), pts[0])
	assertVec(t, V(2, 3), pts[1])

	r := Rotation(math.Pi / 4).ApplyRect(R(-1, -1, 1, 1))
	assert.InDelta(t, -math.Sqrt2, r.Min.X(), 1e-9)
	assert.InDelta(t, math.Sqrt2, r.Max.Y(), 1e-9)

	assert.InDelta(t, 1.0, tr.At(0, 2), 1e-12)
	assert.InDelta(t, 2.0, tr.At(1, 2), 1e-12)
}
