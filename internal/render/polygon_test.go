package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"chosenoffset.com/softshadow/internal/core/geom"
)

func TestFan(t *testing.T) {
	points := []geom.Vec2{geom.V(0, 0), geom.V(4, 0), geom.V(4, 4), geom.V(0, 4), geom.V(-2, 2)}
	vertices, indices := Fan(points, color.RGBA{255, 0, 51, 255})

	assert.Len(t, vertices, 5)
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4}, indices)
	assert.Equal(t, float32(4), vertices[2].DstX)
	assert.Equal(t, float32(1), vertices[0].ColorR)
	assert.Equal(t, float32(0), vertices[0].ColorG)
	assert.InDelta(t, 0.2, vertices[0].ColorB, 1e-6)
}

func TestFanTooFewPoints(t *testing.T) {
	_, indices := Fan([]geom.Vec2{geom.V(0, 0), geom.V(1, 1)}, color.RGBA{})
	assert.Empty(t, indices)
}
