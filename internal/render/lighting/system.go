package lighting

import (
	"image/color"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/render"
)

// LightEmitter is an entity carrying one or more lights.
type LightEmitter interface {
	WorldTransform() geom.Transform
	PointLights() []*PointLight
}

// Occluder is an entity carrying one or more colliders.
type Occluder interface {
	WorldTransform() geom.Transform
	Colliders() []*shadows.LightCollider
}

// SpatialIndex finds emitters and occluders near a world-space rectangle.
// Results may include false positives; the light system filters them.
type SpatialIndex interface {
	QueryLights(area geom.Rect) []LightEmitter
	QueryOccluders(area geom.Rect) []Occluder
}

// LightSystem renders every light in view into an ambient colored light
// buffer and multiplies that buffer onto the scene.
type LightSystem struct {
	ctx     *renderContext
	ambient Ambient
	log     logging.Logger
	stats   FrameStats
}

// NewLightSystem creates a light system drawing with r. Missing assets are
// logged once and the matching effects are skipped.
func NewLightSystem(r render.Renderer, assets Assets, log logging.Logger) *LightSystem {
	if log == nil {
		log = logging.Nop{}
	}
	if assets.Unshadow == nil {
		log.Warnf("Lighting: no unshadow shader, penumbras will not be shaded")
	}
	if assets.PenumbraTexture == nil {
		log.Warnf("Lighting: no penumbra texture, penumbras will not be shaded")
	}
	return &LightSystem{
		ctx:     newRenderContext(r, assets, log),
		ambient: NewAmbient(color.RGBA{0, 0, 0, 255}),
		log:     log,
	}
}

// AmbientColor returns the current ambient light.
func (ls *LightSystem) AmbientColor() color.RGBA {
	return ls.ambient.Color()
}

// SetAmbientColor sets the ambient light immediately.
func (ls *LightSystem) SetAmbientColor(c color.RGBA) {
	ls.ambient.Set(c)
}

// InterpolateAmbientLight moves the ambient light one step towards target.
// Call once per frame; larger strength means a slower fade.
func (ls *LightSystem) InterpolateAmbientLight(target color.RGBA, strength float64) {
	ls.ambient.Interpolate(target, strength)
}

// Update runs the affectors of every active light.
func (ls *LightSystem) Update(emitters []LightEmitter, dt float64) {
	for _, e := range emitters {
		for _, l := range e.PointLights() {
			if l == nil || !l.Active {
				continue
			}
			for _, a := range l.Affectors {
				a.Update(l, dt)
			}
		}
	}
}

// Resize recreates the offscreen surfaces at the new size.
func (ls *LightSystem) Resize(width, height int) {
	ls.ctx.resize(width, height)
}

// Composition returns the light buffer of the last frame. Only valid until
// the next Render or Resize.
func (ls *LightSystem) Composition() render.Image {
	return ls.ctx.composition
}

// Stats returns the counters of the last Render call.
func (ls *LightSystem) Stats() FrameStats {
	return ls.stats
}

// Render draws the lights visible in view onto target. view is the world
// rectangle shown by target.
func (ls *LightSystem) Render(target render.Image, view geom.Rect, index SpatialIndex) FrameStats {
	ls.stats = FrameStats{}

	w, h := target.Size()
	if ls.ctx.needsResize(w, h) {
		ls.ctx.resize(w, h)
	}
	if ls.ctx.composition == nil || view.Dx() <= 0 || view.Dy() <= 0 {
		return ls.stats
	}

	ls.ctx.composition.Fill(ls.ambient.Color())

	toSurface := viewTransform(view, w, h)
	for _, e := range index.QueryLights(view) {
		world := e.WorldTransform()
		for _, l := range e.PointLights() {
			if l == nil || !l.Active || l.Sprite == nil {
				continue
			}
			bounds := l.Bounds(world)
			if !bounds.Overlaps(view) {
				continue
			}

			occluders := ls.occludersFor(l, bounds, index)
			out := ls.ctx.renderLight(l, world, occluders, toSurface, &ls.stats)
			ls.ctx.composition.DrawImage(out, &render.DrawImageOptions{Blend: render.BlendAdd})
		}
	}

	target.DrawImage(ls.ctx.composition, &render.DrawImageOptions{Blend: render.BlendMultiply})
	return ls.stats
}

// occludersFor returns the colliders whose radius inflated bounds overlap
// the radius inflated light bounds.
func (ls *LightSystem) occludersFor(l *PointLight, bounds geom.Rect, index SpatialIndex) []occluderRef {
	area := bounds.Inflate(l.Radius)

	var refs []occluderRef
	for _, o := range index.QueryOccluders(area) {
		world := o.WorldTransform()
		for _, c := range o.Colliders() {
			if c == nil {
				continue
			}
			if !c.Bounds(world).Inflate(l.Radius).Overlaps(area) {
				continue
			}
			refs = append(refs, occluderRef{collider: c, world: world})
		}
	}
	return refs
}

// Dispose releases the offscreen surfaces. Assets stay owned by the caller.
func (ls *LightSystem) Dispose() {
	ls.ctx.dispose()
}

// viewTransform maps the world rectangle view onto a w x h surface.
func viewTransform(view geom.Rect, w, h int) geom.Transform {
	return geom.Scaling(float64(w)/view.Dx(), float64(h)/view.Dy()).
		Mul(geom.Translation(-view.Min.X(), -view.Min.Y()))
}
