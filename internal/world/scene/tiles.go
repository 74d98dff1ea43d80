package scene

import (
	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
)

// Coord is a tile position in a TileMap.
type Coord struct {
	X, Y int
}

// TileMap is a grid of solid and empty tiles. Solid tiles cast shadows.
type TileMap struct {
	Rows     []string // '#' marks a solid tile
	TileSize float64
	Origin   geom.Vec2
}

// Solid reports whether the tile at (x, y) blocks light.
func (m TileMap) Solid(x, y int) bool {
	if y < 0 || y >= len(m.Rows) || x < 0 || x >= len(m.Rows[y]) {
		return false
	}
	return m.Rows[y][x] == '#'
}

func (m TileMap) size() (int, int) {
	w := 0
	for _, r := range m.Rows {
		w = max(w, len(r))
	}
	return w, len(m.Rows)
}

// Colliders covers every solid tile with rectangle colliders. Each
// contiguous region is split into as few rectangles as row merging allows,
// so the shapes stay convex.
func (m TileMap) Colliders() []*shadows.LightCollider {
	var out []*shadows.LightCollider
	for _, region := range m.regions() {
		for _, r := range mergeRuns(tileRuns(region)) {
			out = append(out, shadows.NewRectCollider(m.rect(r)))
		}
	}
	return out
}

// run is a horizontal strip of tiles, extended downwards by height.
type run struct {
	x0, x1 int // Inclusive
	y      int
	height int
}

func (m TileMap) rect(r run) geom.Rect {
	ts := m.TileSize
	ox, oy := m.Origin.X(), m.Origin.Y()
	return geom.R(
		ox+float64(r.x0)*ts,
		oy+float64(r.y)*ts,
		ox+float64(r.x1+1)*ts,
		oy+float64(r.y+r.height)*ts,
	)
}

// regions finds all 4-connected groups of solid tiles
func (m TileMap) regions() [][]Coord {
	width, height := m.size()
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !m.Solid(x, y) {
				continue
			}

			region := m.floodFill(coord, visited)
			if len(region) > 0 {
				regions = append(regions, region)
			}
		}
	}

	return regions
}

// floodFill performs BFS to find all connected solid tiles
func (m TileMap) floodFill(start Coord, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := []Coord{
			{X: current.X, Y: current.Y - 1}, // North
			{X: current.X + 1, Y: current.Y}, // East
			{X: current.X, Y: current.Y + 1}, // South
			{X: current.X - 1, Y: current.Y}, // West
		}

		for _, neighbor := range neighbors {
			if visited[neighbor] || !m.Solid(neighbor.X, neighbor.Y) {
				continue
			}
			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}

	return region
}

// tileRuns splits a region into horizontal runs, top to bottom and left to right.
func tileRuns(region []Coord) []run {
	set := make(map[Coord]bool, len(region))
	minX, minY := region[0].X, region[0].Y
	maxX, maxY := minX, minY
	for _, c := range region {
		set[c] = true
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}

	var runs []run
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !set[Coord{x, y}] {
				continue
			}
			start := x
			for set[Coord{x + 1, y}] {
				x++
			}
			runs = append(runs, run{x0: start, x1: x, y: y, height: 1})
		}
	}
	return runs
}

// mergeRuns joins runs with the same horizontal extent that sit directly
// on top of each other.
func mergeRuns(runs []run) []run {
	merged := make([]bool, len(runs))
	var result []run

	for i := range runs {
		if merged[i] {
			continue
		}
		current := runs[i]
		merged[i] = true

		extended := true
		for extended {
			extended = false
			for j := i + 1; j < len(runs); j++ {
				other := runs[j]
				if merged[j] || other.y != current.y+current.height {
					continue
				}
				if other.x0 == current.x0 && other.x1 == current.x1 {
					current.height++
					merged[j] = true
					extended = true
					break
				}
			}
		}

		result = append(result, current)
	}

	return result
}
