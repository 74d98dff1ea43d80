package lighting

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/render"
	"chosenoffset.com/softshadow/internal/render/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	world     geom.Transform
	lights    []*PointLight
	colliders []*shadows.LightCollider
}

func (e *testEntity) WorldTransform() geom.Transform      { return e.world }
func (e *testEntity) PointLights() []*PointLight          { return e.lights }
func (e *testEntity) Colliders() []*shadows.LightCollider { return e.colliders }

// testIndex returns everything and leaves filtering to the light system.
type testIndex struct {
	entities []*testEntity
}

func (ix *testIndex) QueryLights(area geom.Rect) []LightEmitter {
	var out []LightEmitter
	for _, e := range ix.entities {
		if len(e.lights) > 0 {
			out = append(out, e)
		}
	}
	return out
}

func (ix *testIndex) QueryOccluders(area geom.Rect) []Occluder {
	var out []Occluder
	for _, e := range ix.entities {
		if len(e.colliders) > 0 {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	rec    *rendertest.Recorder
	system *LightSystem
	target render.Image
	view   geom.Rect
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, withAssets bool) *fixture {
	t.Helper()
	rec := rendertest.NewRecorder()
	logs := &bytes.Buffer{}
	log := logging.NewWithWriters("lighting", false, logs, logs)

	var assets Assets
	if withAssets {
		assets = LoadAssets(rec, rec, AssetPaths{PenumbraTexture: "penumbra.png"}, log)
		require.NotNil(t, assets.Unshadow)
		require.NotNil(t, assets.LightOverShape)
		require.NotNil(t, assets.PenumbraTexture)
	}

	return &fixture{
		rec:    rec,
		system: NewLightSystem(rec, assets, log),
		target: rec.NewImage(320, 240),
		view:   geom.R(0, 0, 320, 240),
		logs:   logs,
	}
}

func (f *fixture) light(x, y, radius, ext float64) (*testEntity, *PointLight) {
	l := NewPointLight(f.rec.NewImage(64, 64), radius, ext)
	return &testEntity{world: geom.Translation(x, y), lights: []*PointLight{l}}, l
}

func box(x, y, size float64) *testEntity {
	return &testEntity{
		world:     geom.Translation(x, y),
		colliders: []*shadows.LightCollider{shadows.NewRectCollider(geom.R(0, 0, size, size))},
	}
}

func shaderOps(ops []rendertest.Op, s render.Shader) []rendertest.Op {
	var out []rendertest.Op
	for _, op := range ops {
		if op.Kind == rendertest.OpShader && op.Shader == s {
			out = append(out, op)
		}
	}
	return out
}

func TestRenderSkipsDistantOccluder(t *testing.T) {
	f := newFixture(t, true)
	lightEntity, l := f.light(50, 100, 1.0, 1.4)
	occluder := box(150, 150, 40)
	index := &testIndex{entities: []*testEntity{lightEntity, occluder}}

	stats := f.system.Render(f.target, f.view, index)

	assert.Equal(t, 1, stats.Lights)
	assert.Zero(t, stats.Colliders)
	assert.Zero(t, stats.Penumbras)

	// Only the sprite reaches the light surface, nothing darkens it.
	for _, op := range f.rec.OpsOn(f.system.ctx.light) {
		assert.NotEqual(t, rendertest.OpTriangles, op.Kind)
		assert.NotEqual(t, render.BlendMultiply, op.Blend)
	}

	// Moving it into the light footprint yields penumbras.
	occluder.world = geom.Translation(60, 80)
	res := l.Penumbras(lightEntity.world, occluder.colliders[0], occluder.world)
	require.True(t, res.OK)
	assert.NotEmpty(t, res.Penumbras)

	f.rec.Reset()
	stats = f.system.Render(f.target, f.view, index)
	assert.Equal(t, 1, stats.Colliders)
	assert.Zero(t, stats.Skipped)
	assert.Equal(t, len(res.Penumbras), stats.Penumbras)
}

func TestRenderPlainShadow(t *testing.T) {
	f := newFixture(t, true)
	lightEntity, _ := f.light(50, 100, 1.0, 1.4)
	index := &testIndex{entities: []*testEntity{lightEntity, box(60, 80, 40)}}

	stats := f.system.Render(f.target, f.view, index)
	require.Equal(t, 2, stats.Penumbras)
	assert.Zero(t, stats.Antumbras)

	ctx := f.system.ctx
	ops := f.rec.OpsOn(ctx.light)
	require.NotEmpty(t, ops)
	assert.Equal(t, rendertest.OpFill, ops[0].Kind)
	assert.Equal(t, opaqueBlack, ops[0].Color)
	assert.Equal(t, rendertest.OpImage, ops[1].Kind)

	// Umbra quad and both wedges are cleared on the white mask before the
	// gradients go in.
	mask := f.rec.OpsOn(ctx.mask)
	require.Len(t, mask, 6)
	assert.Equal(t, rendertest.OpFill, mask[0].Kind)
	assert.Equal(t, opaqueWhite, mask[0].Color)
	for _, op := range mask[1:4] {
		assert.Equal(t, rendertest.OpTriangles, op.Kind)
		assert.Equal(t, render.BlendSourceOver, op.Blend)
		assert.Equal(t, float32(0), op.Vertices[0].ColorR)
	}

	wedges := shaderOps(mask, ctx.assets.Unshadow)
	require.Len(t, wedges, 2)
	for _, op := range wedges {
		assert.Equal(t, render.BlendAdd, op.Blend)
		assert.Equal(t, float32(1), op.Uniforms["LightBrightness"])
		assert.Equal(t, float32(0), op.Uniforms["DarkBrightness"])
		assert.Equal(t, ctx.assets.PenumbraTexture, render.Image(op.Images[0]))
		require.Len(t, op.Vertices, 3)
		assert.Equal(t, float32(64), op.Vertices[0].SrcY)
		assert.Equal(t, float32(64), op.Vertices[2].SrcX)
	}

	// The mask is multiplied in once, then the silhouette is drawn.
	require.Len(t, ops, 4)
	assert.Equal(t, rendertest.OpImage, ops[2].Kind)
	assert.Equal(t, ctx.mask, ops[2].Source)
	assert.Equal(t, render.BlendMultiply, ops[2].Blend)

	last := ops[len(ops)-1]
	assert.Equal(t, rendertest.OpTriangles, last.Kind)
	assert.Equal(t, render.BlendSourceOver, last.Blend)
	assert.Len(t, last.Indices, 6)
}

func TestRenderNeverAddsToLightSurface(t *testing.T) {
	f := newFixture(t, true)
	lightEntity, l := f.light(50, 100, 1.0, 1.4)
	l.Color = color.RGBA{255, 0, 0, 255}
	antumbraLight, _ := f.light(220, 100, 20, 1.4)
	index := &testIndex{entities: []*testEntity{lightEntity, box(60, 80, 40), antumbraLight, box(250, 98, 4)}}

	stats := f.system.Render(f.target, f.view, index)
	require.Equal(t, 2, stats.Lights)
	require.Equal(t, 1, stats.Antumbras)
	require.NotZero(t, stats.Penumbras)

	ctx := f.system.ctx
	for _, op := range f.rec.OpsOn(ctx.light) {
		assert.NotEqual(t, render.BlendAdd, op.Blend, "%s draw adds light", op.Kind)
	}
	for _, op := range shaderOps(f.rec.Ops, ctx.assets.Unshadow) {
		assert.Equal(t, ctx.mask, op.Target)
	}
}

func TestRenderAntumbra(t *testing.T) {
	f := newFixture(t, true)
	lightEntity, _ := f.light(100, 100, 20, 1.4)
	index := &testIndex{entities: []*testEntity{lightEntity, box(130, 98, 4)}}

	stats := f.system.Render(f.target, f.view, index)
	assert.Equal(t, 1, stats.Antumbras)
	assert.Equal(t, 4, stats.Penumbras)

	ctx := f.system.ctx
	scratch := f.rec.OpsOn(ctx.mask)
	require.Len(t, scratch, 6)
	assert.Equal(t, rendertest.OpFill, scratch[0].Kind)
	assert.Equal(t, opaqueWhite, scratch[0].Color)
	assert.Equal(t, rendertest.OpTriangles, scratch[1].Kind)
	for _, op := range scratch[2:] {
		assert.Equal(t, rendertest.OpShader, op.Kind)
		assert.Equal(t, render.BlendAdd, op.Blend)
	}

	var merged bool
	for _, op := range f.rec.OpsOn(ctx.light) {
		if op.Kind == rendertest.OpImage && op.Source == ctx.mask {
			merged = true
			assert.Equal(t, render.BlendMultiply, op.Blend)
		}
	}
	assert.True(t, merged)
}

func TestRenderBranchIsDeterministic(t *testing.T) {
	f := newFixture(t, true)
	lightEntity, _ := f.light(100, 100, 20, 1.4)
	index := &testIndex{entities: []*testEntity{lightEntity, box(130, 98, 4)}}

	first := f.system.Render(f.target, f.view, index)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, f.system.Render(f.target, f.view, index))
	}
}

func TestRenderComposition(t *testing.T) {
	f := newFixture(t, true)
	f.system.SetAmbientColor(color.RGBA{30, 30, 60, 255})
	a, _ := f.light(50, 50, 1, 1)
	b, _ := f.light(200, 150, 1, 1)
	index := &testIndex{entities: []*testEntity{a, b}}

	stats := f.system.Render(f.target, f.view, index)
	assert.Equal(t, 2, stats.Lights)

	ctx := f.system.ctx
	comp := f.rec.OpsOn(ctx.composition)
	require.Len(t, comp, 3)
	assert.Equal(t, rendertest.OpFill, comp[0].Kind)
	assert.Equal(t, color.RGBA{30, 30, 60, 255}, comp[0].Color)
	for _, op := range comp[1:] {
		assert.Equal(t, ctx.light, render.Image(op.Source))
		assert.Equal(t, render.BlendAdd, op.Blend)
	}

	last := f.rec.Ops[len(f.rec.Ops)-1]
	assert.Equal(t, f.target, render.Image(last.Target))
	assert.Equal(t, ctx.composition, render.Image(last.Source))
	assert.Equal(t, render.BlendMultiply, last.Blend)
}

func TestRenderSkipsInactiveAndOffscreenLights(t *testing.T) {
	f := newFixture(t, true)
	off, _ := f.light(1000, 1000, 1, 1)
	inactive, l := f.light(50, 50, 1, 1)
	l.Active = false
	multi := &testEntity{world: geom.Translation(100, 100)}
	multi.lights = []*PointLight{
		NewPointLight(f.rec.NewImage(32, 32), 1, 1),
		NewPointLight(f.rec.NewImage(32, 32), 1, 1),
	}

	stats := f.system.Render(f.target, f.view, &testIndex{entities: []*testEntity{off, inactive, multi}})
	assert.Equal(t, 2, stats.Lights)
}

func TestRenderSkipsLightInsideOccluder(t *testing.T) {
	for _, radius := range []float64{1, 30} {
		f := newFixture(t, true)
		lightEntity, _ := f.light(100, 100, radius, 1)
		index := &testIndex{entities: []*testEntity{lightEntity, box(80, 80, 40)}}

		stats := f.system.Render(f.target, f.view, index)
		assert.Equal(t, 1, stats.Colliders)
		assert.Equal(t, 1, stats.Skipped)
		assert.Zero(t, stats.Penumbras)
		assert.Empty(t, f.rec.OpsOn(f.system.ctx.mask))

		// The silhouette is still drawn.
		ops := f.rec.OpsOn(f.system.ctx.light)
		assert.Equal(t, rendertest.OpTriangles, ops[len(ops)-1].Kind)
	}
}

func TestRenderLightOverShape(t *testing.T) {
	f := newFixture(t, true)
	lightEntity, _ := f.light(50, 100, 1, 1.4)
	occ := box(60, 80, 40)
	occ.colliders[0].LightOverShape = true
	index := &testIndex{entities: []*testEntity{lightEntity, occ}}

	f.system.Render(f.target, f.view, index)

	ctx := f.system.ctx
	ops := shaderOps(f.rec.OpsOn(ctx.light), ctx.assets.LightOverShape)
	require.Len(t, ops, 1)
	assert.Equal(t, ctx.emission, render.Image(ops[0].Images[0]))
	assert.Equal(t, []float32{1.0 / 320, 1.0 / 240}, ops[0].Uniforms["TargetSizeInv"])
}

func TestRenderWithoutAssetsDegrades(t *testing.T) {
	f := newFixture(t, false)
	lightEntity, _ := f.light(50, 100, 1, 1.4)
	occ := box(60, 80, 40)
	occ.colliders[0].LightOverShape = true
	index := &testIndex{entities: []*testEntity{lightEntity, occ}}

	var stats FrameStats
	assert.NotPanics(t, func() {
		stats = f.system.Render(f.target, f.view, index)
		f.system.Render(f.target, f.view, index)
	})
	assert.Zero(t, stats.Penumbras)
	assert.Empty(t, f.rec.OpsOfKind(rendertest.OpShader))

	// Shapes fall back to a white fill.
	ops := f.rec.OpsOn(f.system.ctx.light)
	last := ops[len(ops)-1]
	assert.Equal(t, rendertest.OpTriangles, last.Kind)
	assert.Equal(t, float32(1), last.Vertices[0].ColorR)

	logs := f.logs.String()
	assert.Equal(t, 1, strings.Count(logs, "Penumbra shading disabled"))
	assert.Equal(t, 1, strings.Count(logs, "Light-over-shape shader missing"))
}

func TestRenderResizesSurfaces(t *testing.T) {
	f := newFixture(t, true)
	index := &testIndex{}

	f.system.Render(f.target, f.view, index)
	first := f.system.Composition()
	require.NotNil(t, first)

	f.system.Render(f.target, f.view, index)
	assert.Same(t, first, f.system.Composition())

	bigger := f.rec.NewImage(640, 480)
	f.system.Render(bigger, geom.R(0, 0, 640, 480), index)
	assert.NotSame(t, first, f.system.Composition())
	assert.True(t, first.(*rendertest.Image).Disposed)
	assert.Equal(t, []float32{1.0 / 640, 1.0 / 480}, f.system.ctx.targetSizeInv)

	f.system.Resize(100, 50)
	w, h := f.system.Composition().Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestDisposeReleasesSurfaces(t *testing.T) {
	f := newFixture(t, false)
	f.system.Render(f.target, f.view, &testIndex{})
	ctx := f.system.ctx
	surfaces := []render.Image{ctx.emission, ctx.light, ctx.mask, ctx.composition, ctx.white}

	f.system.Dispose()
	for _, s := range surfaces {
		assert.True(t, s.(*rendertest.Image).Disposed)
	}
}

func TestViewTransformMapsWorldToSurface(t *testing.T) {
	v := viewTransform(geom.R(100, 50, 260, 170), 320, 240)
	assert.Equal(t, geom.V(0, 0), v.Apply(geom.V(100, 50)))
	assert.Equal(t, geom.V(320, 240), v.Apply(geom.V(260, 170)))
}

func TestUpdateRunsAffectorsOfActiveLights(t *testing.T) {
	f := newFixture(t, false)
	var calls int
	count := AffectorFunc(func(*PointLight, float64) { calls++ })

	on, a := f.light(0, 0, 1, 1)
	off, b := f.light(0, 0, 1, 1)
	a.Affectors = []Affector{count, count}
	b.Affectors = []Affector{count}
	b.Active = false

	f.system.Update([]LightEmitter{on, off}, 1.0/60)
	assert.Equal(t, 2, calls)
}

func TestLoadAssetsReportsFailures(t *testing.T) {
	rec := rendertest.NewRecorder()
	rec.CompileErr = errors.New("bad shader")
	rec.Missing["missing.png"] = true
	logs := &bytes.Buffer{}
	log := logging.NewWithWriters("", false, logs, logs)

	assets := LoadAssets(rec, rec, AssetPaths{PenumbraTexture: "missing.png"}, log)
	assert.Nil(t, assets.Unshadow)
	assert.Nil(t, assets.LightOverShape)
	assert.Nil(t, assets.PenumbraTexture)
	assert.Contains(t, logs.String(), "Failed to compile unshadow shader")
	assert.Contains(t, logs.String(), "Failed to load penumbra texture")
}

func TestLoadAssetsUsesEmbeddedSources(t *testing.T) {
	rec := rendertest.NewRecorder()
	assets := LoadAssets(rec, rec, AssetPaths{UnshadowShader: "does/not/exist.kage"}, logging.Nop{})

	require.Len(t, rec.Shaders, 2)
	assert.Equal(t, UnshadowShaderSource, rec.Shaders[0].Source)
	assert.Equal(t, LightOverShapeShaderSource, rec.Shaders[1].Source)
	assert.Nil(t, assets.PenumbraTexture)

	assets.Dispose()
	assert.True(t, rec.Shaders[0].Disposed)
	assert.Nil(t, assets.Unshadow)
}
