package lighting

import (
	"image/color"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/render"
)

var (
	opaqueBlack = color.RGBA{0, 0, 0, 255}
	opaqueWhite = color.RGBA{255, 255, 255, 255}
)

// FrameStats counts the work done by one Render call.
type FrameStats struct {
	Lights    int // Lights rendered
	Colliders int // Light/collider pairs tested
	Skipped   int // Pairs without a usable silhouette
	Antumbras int // Pairs whose umbra closes before the shadow ends
	Penumbras int // Penumbra wedges drawn
}

// occluderRef is a collider together with the transform of its entity.
type occluderRef struct {
	collider *shadows.LightCollider
	world    geom.Transform
}

// renderContext owns the scratch surfaces shared by every light in a frame.
// Surfaces are only valid between resize calls.
type renderContext struct {
	renderer render.Renderer
	assets   Assets
	log      logging.Logger

	width, height int
	emission      render.Image // Emission sprite of the current light
	light         render.Image // Light accumulation for the current light
	mask          render.Image // Shadow mask of one occluder, multiplied into light
	composition   render.Image // Ambient plus every light
	white         render.Image // Solid source for untextured triangles

	targetSizeInv []float32

	warnedPenumbra       bool
	warnedLightOverShape bool
}

func newRenderContext(r render.Renderer, assets Assets, log logging.Logger) *renderContext {
	white := r.NewImage(3, 3)
	white.Fill(opaqueWhite)
	return &renderContext{
		renderer: r,
		assets:   assets,
		log:      log,
		white:    white,
	}
}

// needsResize reports whether the surfaces do not match the given size.
func (rc *renderContext) needsResize(w, h int) bool {
	return rc.composition == nil || rc.width != w || rc.height != h
}

// resize recreates every surface at w x h. Contents are lost.
func (rc *renderContext) resize(w, h int) {
	rc.disposeSurfaces()
	if w <= 0 || h <= 0 {
		rc.width, rc.height = 0, 0
		return
	}

	rc.width, rc.height = w, h
	rc.emission = rc.renderer.NewImage(w, h)
	rc.light = rc.renderer.NewImage(w, h)
	rc.mask = rc.renderer.NewImage(w, h)
	rc.composition = rc.renderer.NewImage(w, h)
	rc.targetSizeInv = []float32{1 / float32(w), 1 / float32(h)}
	rc.log.Debugf("Lighting surfaces resized to %dx%d", w, h)
}

func (rc *renderContext) disposeSurfaces() {
	for _, img := range []*render.Image{&rc.emission, &rc.light, &rc.mask, &rc.composition} {
		if *img != nil {
			(*img).Dispose()
			*img = nil
		}
	}
}

func (rc *renderContext) dispose() {
	rc.disposeSurfaces()
	if rc.white != nil {
		rc.white.Dispose()
		rc.white = nil
	}
}

// renderLight draws one light with the shadows of the given occluders into
// the light surface and returns it. view maps world space to surface pixels.
func (rc *renderContext) renderLight(l *PointLight, world geom.Transform, occluders []occluderRef, view geom.Transform, stats *FrameStats) render.Image {
	spriteToSurface := view.Mul(world).Mul(l.SpriteTransform())

	// Emission pass, read back by the light-over-shape program.
	rc.emission.Clear()
	if emission := l.emissionSprite(); emission != nil {
		rc.emission.DrawImage(emission, &render.DrawImageOptions{
			GeoM:  spriteToSurface,
			Tint:  l.Color,
			Blend: render.BlendSourceOver,
		})
	}

	// Unoccluded footprint.
	rc.light.Fill(opaqueBlack)
	rc.light.DrawImage(l.Sprite, &render.DrawImageOptions{
		GeoM:  spriteToSurface,
		Tint:  l.Color,
		Blend: render.BlendSourceOver,
	})

	distance := l.ShadowDistance()
	center := l.CastCenter(world)
	for _, o := range occluders {
		stats.Colliders++
		// A light inside a shape is fully covered by its silhouette.
		if geom.PointInPolygon(center, o.collider.WorldPoints(o.world)) {
			stats.Skipped++
			continue
		}
		res := l.Penumbras(world, o.collider, o.world)
		if !res.OK {
			stats.Skipped++
			continue
		}
		if rc.castShadow(res, distance, view, stats) {
			stats.Antumbras++
		}
	}

	for _, o := range occluders {
		rc.drawSilhouette(o, view)
	}

	stats.Lights++
	return rc.light
}

// castShadow darkens the light surface behind one occluder. The shadow is
// built on the white mask surface and multiplied in, so penumbra gradients
// can only remove light. It reports whether the antumbra path was taken.
func (rc *renderContext) castShadow(res shadows.PenumbraResult, distance float64, view geom.Transform, stats *FrameStats) bool {
	oa, ob := res.Outer[0], res.Outer[1]
	oad, obd := geom.Normalize(oa.Vector), geom.Normalize(ob.Vector)

	rc.mask.Fill(opaqueWhite)

	_, u, ok := geom.RayIntersect(oa.Point, oad, ob.Point, obd)
	antumbra := ok && u <= distance
	if antumbra {
		// The umbra closes before the shadow ends, so light comes back
		// behind the occluder.
		rc.fillPolygon(rc.mask, view, innerMask(res, distance), opaqueBlack, render.BlendSourceOver)
	} else {
		quad := []geom.Vec2{
			oa.Point,
			ob.Point,
			ob.Point.Add(obd.Mul(distance)),
			oa.Point.Add(oad.Mul(distance)),
		}
		rc.fillPolygon(rc.mask, view, quad, opaqueBlack, render.BlendSourceOver)
		// Wedges lie outside the umbra; clear them so the gradient sets
		// their value instead of saturating against white.
		for _, p := range res.Penumbras {
			rc.fillPolygon(rc.mask, view, penumbraTriangle(p, distance), opaqueBlack, render.BlendSourceOver)
		}
	}
	rc.drawPenumbras(rc.mask, view, res.Penumbras, distance, stats)
	rc.light.DrawImage(rc.mask, &render.DrawImageOptions{Blend: render.BlendMultiply})
	return antumbra
}

// innerMask is the shadow region bounded by the lit side rays: a triangle
// when they cross, a quad of the shadow distance otherwise.
func innerMask(res shadows.PenumbraResult, distance float64) []geom.Vec2 {
	ia, ib := res.Inner[0], res.Inner[1]
	iad, ibd := geom.Normalize(ia.Vector), geom.Normalize(ib.Vector)

	if x, _, ok := geom.RayIntersect(ia.Point, iad, ib.Point, ibd); ok {
		return []geom.Vec2{ia.Point, ib.Point, x}
	}
	return []geom.Vec2{
		ia.Point,
		ib.Point,
		ib.Point.Add(ibd.Mul(distance)),
		ia.Point.Add(iad.Mul(distance)),
	}
}

// penumbraTriangle returns source, lit corner and dark corner of a wedge.
func penumbraTriangle(p shadows.Penumbra, distance float64) []geom.Vec2 {
	return []geom.Vec2{
		p.Source,
		p.Source.Add(geom.Normalize(p.LightEdge).Mul(distance)),
		p.Source.Add(geom.Normalize(p.DarkEdge).Mul(distance)),
	}
}

// drawPenumbras adds every wedge to dst through the unshadow program.
func (rc *renderContext) drawPenumbras(dst render.Image, view geom.Transform, penumbras []shadows.Penumbra, distance float64, stats *FrameStats) {
	if len(penumbras) == 0 {
		return
	}
	if rc.assets.Unshadow == nil || rc.assets.PenumbraTexture == nil {
		if !rc.warnedPenumbra {
			rc.log.Warnf("Penumbra shading disabled: unshadow shader or penumbra texture missing")
			rc.warnedPenumbra = true
		}
		return
	}

	tw, th := rc.assets.PenumbraTexture.Size()
	texCoords := [3][2]float32{
		{0, float32(th)},
		{0, 0},
		{float32(tw), 0},
	}

	for _, p := range penumbras {
		tri := view.ApplyAll(penumbraTriangle(p, distance))
		vertices := make([]render.Vertex, 3)
		for i, pt := range tri {
			vertices[i] = render.Vertex{
				DstX:   float32(pt.X()),
				DstY:   float32(pt.Y()),
				SrcX:   texCoords[i][0],
				SrcY:   texCoords[i][1],
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			}
		}

		opts := &render.DrawTrianglesShaderOptions{
			Uniforms: map[string]interface{}{
				"LightBrightness": float32(p.LightBrightness),
				"DarkBrightness":  float32(p.DarkBrightness),
			},
			Blend: render.BlendAdd,
		}
		opts.Images[0] = rc.assets.PenumbraTexture
		dst.DrawTrianglesShader(vertices, []uint16{0, 1, 2}, rc.assets.Unshadow, opts)
		stats.Penumbras++
	}
}

// drawSilhouette covers the occluder itself: black, or the light's
// emission when light passes over the shape.
func (rc *renderContext) drawSilhouette(o occluderRef, view geom.Transform) {
	points := o.collider.WorldPoints(o.world)
	if len(points) < 3 {
		return
	}

	if !o.collider.LightOverShape {
		rc.fillPolygon(rc.light, view, points, opaqueBlack, render.BlendSourceOver)
		return
	}

	if rc.assets.LightOverShape == nil {
		if !rc.warnedLightOverShape {
			rc.log.Warnf("Light-over-shape shader missing, filling shapes white")
			rc.warnedLightOverShape = true
		}
		rc.fillPolygon(rc.light, view, points, opaqueWhite, render.BlendSourceOver)
		return
	}

	vertices, indices := render.Fan(view.ApplyAll(points), opaqueWhite)
	for i := range vertices {
		vertices[i].SrcX = vertices[i].DstX
		vertices[i].SrcY = vertices[i].DstY
	}
	opts := &render.DrawTrianglesShaderOptions{
		Uniforms: map[string]interface{}{
			"TargetSizeInv": rc.targetSizeInv,
		},
		Blend: render.BlendSourceOver,
	}
	opts.Images[0] = rc.emission
	rc.light.DrawTrianglesShader(vertices, indices, rc.assets.LightOverShape, opts)
}

// fillPolygon fills a world-space polygon with a solid color.
func (rc *renderContext) fillPolygon(dst render.Image, view geom.Transform, points []geom.Vec2, clr color.RGBA, blend render.Blend) {
	if len(points) < 3 {
		return
	}
	vertices, indices := render.Fan(view.ApplyAll(points), clr)
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
	}
	dst.DrawTriangles(vertices, indices, rc.white, &render.DrawTrianglesOptions{Blend: blend})
}
