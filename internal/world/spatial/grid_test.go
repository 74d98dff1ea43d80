package spatial

import (
	"testing"

	"chosenoffset.com/softshadow/internal/core/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridInsertionAndQuery(t *testing.T) {
	grid := NewGrid(2.0)

	grid.Insert("a", geom.R(0, 0, 1, 1))
	grid.Insert("b", geom.R(3, 3, 4, 4))

	assert.Equal(t, []string{"a"}, grid.QueryRect(geom.R(0, 0, 1, 1)))
	assert.Equal(t, []string{"b"}, grid.QueryRect(geom.R(3, 3, 4, 4)))

	// min 1 is cell 0, max 3 is cell 1, so both cells are touched.
	assert.Equal(t, []string{"a", "b"}, grid.QueryRect(geom.R(1, 1, 3, 3)))
	assert.Empty(t, grid.QueryRect(geom.R(10, 10, 12, 12)))
}

func TestGridQueryDeduplicatesLargeEntries(t *testing.T) {
	grid := NewGrid(10)
	grid.Insert("wide", geom.R(-50, -50, 50, 50))

	got := grid.QueryRect(geom.R(-30, -30, 30, 30))
	assert.Equal(t, []string{"wide"}, got)
}

func TestGridInsertionOrder(t *testing.T) {
	grid := NewGrid(4)
	for _, id := range []string{"c", "a", "d", "b"} {
		grid.Insert(id, geom.R(0, 0, 20, 20))
	}
	assert.Equal(t, []string{"c", "a", "d", "b"}, grid.QueryRect(geom.R(15, 15, 16, 16)))

	// Moving keeps the original slot.
	grid.Insert("c", geom.R(16, 16, 18, 18))
	assert.Equal(t, []string{"c", "a", "d", "b"}, grid.QueryRect(geom.R(15, 15, 16, 16)))
}

func TestGridMoveAndRemove(t *testing.T) {
	grid := NewGrid(5)
	grid.Insert("light", geom.R(0, 0, 4, 4))
	require.Equal(t, 1, grid.Len())

	grid.Insert("light", geom.R(100, 100, 104, 104))
	assert.Empty(t, grid.QueryRect(geom.R(0, 0, 4, 4)))
	assert.Equal(t, []string{"light"}, grid.QueryRect(geom.R(101, 101, 102, 102)))
	assert.Equal(t, 1, grid.Len())

	b, ok := grid.Bounds("light")
	require.True(t, ok)
	assert.Equal(t, geom.R(100, 100, 104, 104), b)

	grid.Remove("light")
	grid.Remove("unknown")
	assert.Empty(t, grid.QueryRect(geom.R(101, 101, 102, 102)))
	assert.Zero(t, grid.Len())
	assert.Empty(t, grid.cells)
}

func TestGridNegativeCoordinates(t *testing.T) {
	grid := NewGrid(8)
	grid.Insert("neg", geom.R(-9, -9, -1, -1))

	assert.Equal(t, []string{"neg"}, grid.QueryRect(geom.R(-2, -2, -1, -1)))
	assert.Empty(t, grid.QueryRect(geom.R(1, 1, 2, 2)))
}

func TestGridClear(t *testing.T) {
	grid := NewGrid(0)
	assert.Equal(t, 1.0, grid.CellSize())

	grid.Insert("x", geom.R(0, 0, 1, 1))
	grid.Clear()
	assert.Zero(t, grid.Len())
	assert.Empty(t, grid.QueryRect(geom.R(0, 0, 1, 1)))
}
