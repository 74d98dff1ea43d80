package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := Normalize(V(3, 4))
	assert.InDelta(t, 0.6, n.X(), 1e-12)
	assert.InDelta(t, 0.8, n.Y(), 1e-12)

	zero := Normalize(Vec2{})
	assert.Equal(t, Vec2{}, zero, "zero vector must not become NaN")
}

func TestPerpIsOrthogonal(t *testing.T) {
	v := V(2.5, -7)
	assert.InDelta(t, 0, Dot(v, Perp(v)), 1e-12)
	assert.Equal(t, V(7, 2.5), Perp(v))
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		want float64
	}{
		{"same direction", V(1, 0), V(5, 0), 0},
		{"right angle", V(1, 0), V(0, 3), math.Pi / 2},
		{"opposite", V(1, 0), V(-2, 0), math.Pi},
		{"diagonal", V(1, 0), V(1, 1), math.Pi / 4},
		{"zero vector", Vec2{}, V(1, 0), math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Angle(tt.a, tt.b)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAngleNearlyParallelNeverNaN(t *testing.T) {
	// Inputs whose normalized dot product rounds above 1.
	a := V(0.1, 0.7)
	for i := 0; i < 1000; i++ {
		b := a.Mul(1 + float64(i)*1e-3)
		got := Angle(a, b)
		require.False(t, math.IsNaN(got), "iteration %d", i)
		require.InDelta(t, 0, got, 1e-6)
	}
}

func TestRayIntersect(t *testing.T) {
	p, u, ok := RayIntersect(V(0, 0), V(1, 1), V(10, 0), V(-1, 1))
	require.True(t, ok)
	assert.InDelta(t, 5, p.X(), 1e-9)
	assert.InDelta(t, 5, p.Y(), 1e-9)
	assert.InDelta(t, 5, u, 1e-9)

	_, _, ok = RayIntersect(V(0, 0), V(1, 0), V(0, 1), V(1, 0))
	assert.False(t, ok, "parallel rays never meet")

	_, _, ok = RayIntersect(V(0, 0), V(-1, -1), V(10, 0), V(-1, 1))
	assert.False(t, ok, "intersection behind the first origin")

	_, _, ok = RayIntersect(V(0, 0), V(1, 1), V(10, 0), V(1, -1))
	assert.False(t, ok, "intersection behind the second origin")
}

func TestPointInPolygon(t *testing.T) {
	square := []Vec2{V(0, 0), V(10, 0), V(10, 10), V(0, 10)}
	assert.True(t, PointInPolygon(V(5, 5), square))
	assert.False(t, PointInPolygon(V(15, 5), square))
	assert.False(t, PointInPolygon(V(-1, -1), square))
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5, Distance(V(1, 1), V(4, 5)), 1e-12)
}

func TestRect(t *testing.T) {
	r := R(10, 10, 0, 0)
	assert.Equal(t, V(0, 0), r.Min)
	assert.Equal(t, V(10, 10), r.Max)
	assert.Equal(t, V(5, 5), r.Center())

	assert.True(t, r.Overlaps(R(5, 5, 15, 15)))
	assert.False(t, r.Overlaps(R(10, 0, 20, 10)), "touching edges do not overlap")
	assert.True(t, r.Inflate(1).Overlaps(R(10, 0, 20, 10)))

	u := r.Union(R(20, -5, 30, 5))
	assert.Equal(t, R(0, -5, 30, 10), u)
	assert.True(t, u.Contains(V(25, 0)))
}
