package scene

import (
	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
	"chosenoffset.com/softshadow/internal/render/lighting"
)

// Entity is anything placed in the scene. It may carry lights, shapes that
// cast shadows, or both.
type Entity struct {
	ID       string
	Name     string
	Position geom.Vec2
	Rotation float64 // Radians
	Scale    geom.Vec2

	Lights []*lighting.PointLight
	Shapes []*shadows.LightCollider
}

// NewEntity creates an unscaled entity at pos.
func NewEntity(name string, pos geom.Vec2) *Entity {
	return &Entity{
		Name:     name,
		Position: pos,
		Scale:    geom.V(1, 1),
	}
}

// WorldTransform places the entity in the world.
func (e *Entity) WorldTransform() geom.Transform {
	scale := e.Scale
	if scale == (geom.Vec2{}) {
		scale = geom.V(1, 1)
	}
	return geom.TRS(e.Position, e.Rotation, scale)
}

// PointLights returns the lights carried by the entity.
func (e *Entity) PointLights() []*lighting.PointLight {
	return e.Lights
}

// Colliders returns the shapes carried by the entity.
func (e *Entity) Colliders() []*shadows.LightCollider {
	return e.Shapes
}

// LightBounds is the union of every light footprint grown by its radius.
func (e *Entity) LightBounds() (geom.Rect, bool) {
	world := e.WorldTransform()
	var out geom.Rect
	found := false
	for _, l := range e.Lights {
		if l == nil || l.Sprite == nil {
			continue
		}
		b := l.Bounds(world).Inflate(l.Radius)
		if !found {
			out, found = b, true
		} else {
			out = out.Union(b)
		}
	}
	return out, found
}

// ShapeBounds is the union of every shape's bounds.
func (e *Entity) ShapeBounds() (geom.Rect, bool) {
	world := e.WorldTransform()
	var out geom.Rect
	found := false
	for _, c := range e.Shapes {
		if c == nil || c.PointCount() == 0 {
			continue
		}
		b := c.Bounds(world)
		if !found {
			out, found = b, true
		} else {
			out = out.Union(b)
		}
	}
	return out, found
}
