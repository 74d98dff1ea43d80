// Package spatial provides a uniform hash grid for broadphase rectangle
// queries over entity bounds.
package spatial

import (
	"math"
	"sort"

	"chosenoffset.com/softshadow/internal/core/geom"
)

type cellKey struct {
	x, y int
}

type entry struct {
	bounds geom.Rect
	seq    uint64
}

// Grid maps entity ids to every cell their bounds touch. Queries return
// candidates; callers do their own exact tests.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]string
	entries  map[string]entry
	nextSeq  uint64
}

// NewGrid creates a grid with square cells of the given size.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]string),
		entries:  make(map[string]entry),
	}
}

// CellSize returns the edge length of a cell.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of entries.
func (g *Grid) Len() int {
	return len(g.entries)
}

// Clear removes every entry.
func (g *Grid) Clear() {
	clear(g.cells)
	clear(g.entries)
	g.nextSeq = 0
}

// Insert adds id with the given bounds. Inserting an existing id moves it
// and keeps its original position in query results.
func (g *Grid) Insert(id string, bounds geom.Rect) {
	seq := g.nextSeq
	if old, ok := g.entries[id]; ok {
		g.unlink(id, old.bounds)
		seq = old.seq
	} else {
		g.nextSeq++
	}
	g.entries[id] = entry{bounds: bounds, seq: seq}

	g.forCells(bounds, func(k cellKey) {
		g.cells[k] = append(g.cells[k], id)
	})
}

// Remove deletes id. Unknown ids are ignored.
func (g *Grid) Remove(id string) {
	e, ok := g.entries[id]
	if !ok {
		return
	}
	g.unlink(id, e.bounds)
	delete(g.entries, id)
}

// Bounds returns the bounds id was inserted with.
func (g *Grid) Bounds(id string) (geom.Rect, bool) {
	e, ok := g.entries[id]
	return e.bounds, ok
}

// QueryRect returns the ids sharing a cell with area, without duplicates,
// in insertion order.
func (g *Grid) QueryRect(area geom.Rect) []string {
	unique := make(map[string]struct{})
	var results []string

	g.forCells(area, func(k cellKey) {
		for _, id := range g.cells[k] {
			if _, ok := unique[id]; !ok {
				unique[id] = struct{}{}
				results = append(results, id)
			}
		}
	})

	sort.Slice(results, func(i, j int) bool {
		return g.entries[results[i]].seq < g.entries[results[j]].seq
	})
	return results
}

func (g *Grid) unlink(id string, bounds geom.Rect) {
	g.forCells(bounds, func(k cellKey) {
		ids := g.cells[k]
		for i, other := range ids {
			if other == id {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = ids
		}
	})
}

func (g *Grid) forCells(r geom.Rect, fn func(cellKey)) {
	minX, maxX := g.cellIndex(r.Min.X()), g.cellIndex(r.Max.X())
	minY, maxY := g.cellIndex(r.Min.Y()), g.cellIndex(r.Max.Y())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			fn(cellKey{x, y})
		}
	}
}

func (g *Grid) cellIndex(pos float64) int {
	return int(math.Floor(pos / g.cellSize))
}
