package lighting

import (
	"image/color"
	"math"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
	"chosenoffset.com/softshadow/internal/render"
)

// PointLight is a radial light with a physical radius. The falloff sprite
// is its unoccluded footprint; shadows are cast from the cast center.
type PointLight struct {
	Sprite   render.Image // Falloff sprite
	Emission render.Image // Optional emission sprite, Sprite is used when nil
	Texture  string       // Path the sprite was loaded from

	Color  color.RGBA // Light color
	Active bool

	// Sprite placement relative to the owning entity.
	Position geom.Vec2 // Local position of the sprite origin
	Scale    geom.Vec2 // Sprite scale
	Origin   geom.Vec2 // Pivot in sprite pixels

	// SourcePoint is the shadow ray origin in sprite pixels.
	SourcePoint geom.Vec2

	Radius          float64 // Light extent, drives penumbra width
	ShadowExtension float64 // Multiplier on the sprite size for shadow geometry

	Affectors []Affector
}

// NewPointLight creates an active white light centered on its sprite.
func NewPointLight(sprite render.Image, radius, shadowExtension float64) *PointLight {
	l := &PointLight{
		Sprite:          sprite,
		Color:           color.RGBA{255, 255, 255, 255},
		Active:          true,
		Scale:           geom.V(1, 1),
		Radius:          radius,
		ShadowExtension: shadowExtension,
	}
	l.CenterOrigin()
	return l
}

// CenterOrigin moves the pivot and the source point to the sprite center.
func (l *PointLight) CenterOrigin() {
	w, h := l.spriteSize()
	l.Origin = geom.V(w/2, h/2)
	l.SourcePoint = l.Origin
}

func (l *PointLight) spriteSize() (float64, float64) {
	if l.Sprite == nil {
		return 0, 0
	}
	w, h := l.Sprite.Size()
	return float64(w), float64(h)
}

// SpriteTransform maps sprite pixels into the owning entity's space.
func (l *PointLight) SpriteTransform() geom.Transform {
	scale := l.Scale
	if scale == (geom.Vec2{}) {
		scale = geom.V(1, 1)
	}
	return geom.Translation(l.Position.X(), l.Position.Y()).
		Mul(geom.Scaling(scale.X(), scale.Y())).
		Mul(geom.Translation(-l.Origin.X(), -l.Origin.Y()))
}

// CastCenter returns the shadow ray origin in world space.
func (l *PointLight) CastCenter(world geom.Transform) geom.Vec2 {
	return world.Mul(l.SpriteTransform()).Apply(l.SourcePoint)
}

// Bounds returns the world-space footprint of the falloff sprite.
func (l *PointLight) Bounds(world geom.Transform) geom.Rect {
	w, h := l.spriteSize()
	return world.Mul(l.SpriteTransform()).ApplyRect(geom.R(0, 0, w, h))
}

// ShadowDistance is how far shadow geometry is projected past an occluder.
func (l *PointLight) ShadowDistance() float64 {
	w, h := l.spriteSize()
	scale := l.Scale
	if scale == (geom.Vec2{}) {
		scale = geom.V(1, 1)
	}
	return l.ShadowExtension * (w*math.Abs(scale.X()) + h*math.Abs(scale.Y()))
}

// Penumbras runs the penumbra solver for this light against a collider.
func (l *PointLight) Penumbras(world geom.Transform, collider *shadows.LightCollider, colliderWorld geom.Transform) shadows.PenumbraResult {
	return shadows.ComputePenumbras(l.CastCenter(world), l.Radius, collider, colliderWorld)
}

// emissionSprite returns the sprite drawn in the emission pass.
func (l *PointLight) emissionSprite() render.Image {
	if l.Emission != nil {
		return l.Emission
	}
	return l.Sprite
}
