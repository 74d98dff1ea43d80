// Package scene stores the entities of a lighting scene and answers the
// spatial queries the light system makes.
package scene

import (
	"image/color"

	"github.com/google/uuid"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/render/lighting"
	"chosenoffset.com/softshadow/internal/world/spatial"
)

// DefaultCellSize is the spatial grid cell size used when none is given.
const DefaultCellSize = 128

// Scene holds entities in insertion order and indexes their bounds.
type Scene struct {
	Name    string
	Ambient color.RGBA
	Bounds  geom.Rect // World area the scene is laid out in

	entities  []*Entity
	byID      map[string]*Entity
	lights    *spatial.Grid
	occluders *spatial.Grid
}

// New creates an empty scene.
func New(name string, cellSize float64) *Scene {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Scene{
		Name:      name,
		Ambient:   color.RGBA{0, 0, 0, 255},
		byID:      make(map[string]*Entity),
		lights:    spatial.NewGrid(cellSize),
		occluders: spatial.NewGrid(cellSize),
	}
}

// Add inserts e, assigning a fresh id when it has none, and returns the id.
func (s *Scene) Add(e *Entity) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, exists := s.byID[e.ID]; !exists {
		s.entities = append(s.entities, e)
	}
	s.byID[e.ID] = e
	s.Reindex(e)
	return e.ID
}

// Remove deletes the entity with the given id.
func (s *Scene) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	s.lights.Remove(id)
	s.occluders.Remove(id)
	for i, e := range s.entities {
		if e.ID == id {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the entity with the given id.
func (s *Scene) Get(id string) (*Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	return len(s.entities)
}

// Entities returns the entities in insertion order.
func (s *Scene) Entities() []*Entity {
	return s.entities
}

// Move places an entity at pos and updates the index.
func (s *Scene) Move(id string, pos geom.Vec2) bool {
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	e.Position = pos
	s.Reindex(e)
	return true
}

// Reindex refreshes the grid entries of e after it changed.
func (s *Scene) Reindex(e *Entity) {
	if b, ok := e.LightBounds(); ok {
		s.lights.Insert(e.ID, b)
	} else {
		s.lights.Remove(e.ID)
	}
	if b, ok := e.ShapeBounds(); ok {
		s.occluders.Insert(e.ID, b)
	} else {
		s.occluders.Remove(e.ID)
	}
}

// Refresh reindexes every entity. Call after affectors changed light sizes.
func (s *Scene) Refresh() {
	for _, e := range s.entities {
		s.Reindex(e)
	}
}

// Emitters returns every entity carrying at least one light.
func (s *Scene) Emitters() []lighting.LightEmitter {
	var out []lighting.LightEmitter
	for _, e := range s.entities {
		if len(e.Lights) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// QueryLights implements lighting.SpatialIndex.
func (s *Scene) QueryLights(area geom.Rect) []lighting.LightEmitter {
	ids := s.lights.QueryRect(area)
	out := make([]lighting.LightEmitter, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// QueryOccluders implements lighting.SpatialIndex.
func (s *Scene) QueryOccluders(area geom.Rect) []lighting.Occluder {
	ids := s.occluders.QueryRect(area)
	out := make([]lighting.Occluder, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}
