package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/core/shadows"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/placeholders"
	"chosenoffset.com/softshadow/internal/render"
	"chosenoffset.com/softshadow/internal/render/lighting"
)

// File is the YAML layout of a scene file.
type File struct {
	Name     string       `yaml:"name"`
	Ambient  []int        `yaml:"ambient"`  // [r, g, b]
	CellSize float64      `yaml:"cellSize"` // Spatial grid cell size, default 128
	Bounds   []float64    `yaml:"bounds"`   // [x0, y0, x1, y1], optional
	Entities []EntityFile `yaml:"entities"`
	Tiles    *TilesFile   `yaml:"tiles"`
}

// EntityFile describes one entity.
type EntityFile struct {
	Name      string         `yaml:"name"`
	Position  []float64      `yaml:"position"`
	Rotation  float64        `yaml:"rotation"` // Degrees
	Scale     []float64      `yaml:"scale"`
	Lights    []LightFile    `yaml:"lights"`
	Colliders []ColliderFile `yaml:"colliders"`
}

// LightFile describes one point light.
type LightFile struct {
	Texture         string       `yaml:"texture"` // Falloff sprite, generated when empty or missing
	Emission        string       `yaml:"emission"`
	Size            int          `yaml:"size"` // Generated sprite size, default 256
	Color           []int        `yaml:"color"`
	Active          *bool        `yaml:"active"` // Default true
	Position        []float64    `yaml:"position"`
	Scale           []float64    `yaml:"scale"`
	SourcePoint     []float64    `yaml:"sourcePoint"` // Sprite pixels, default sprite center
	Radius          float64      `yaml:"radius"`
	ShadowExtension float64      `yaml:"shadowExtension"`
	Flicker         *FlickerFile `yaml:"flicker"`
	Pulse           *PulseFile   `yaml:"pulse"`
}

// FlickerFile configures a lighting.Flicker.
type FlickerFile struct {
	Amount float64 `yaml:"amount"`
	Rate   float64 `yaml:"rate"`
	Seed   uint64  `yaml:"seed"`
}

// PulseFile configures a lighting.Pulse.
type PulseFile struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

// ColliderFile describes one shape, either as a box or as points.
type ColliderFile struct {
	Box            []float64   `yaml:"box"` // [x0, y0, x1, y1]
	Points         [][]float64 `yaml:"points"`
	LightOverShape bool        `yaml:"lightOverShape"`
}

// TilesFile is a tile map whose solid tiles become one static entity.
type TilesFile struct {
	TileSize float64   `yaml:"tileSize"`
	Origin   []float64 `yaml:"origin"`
	Rows     []string  `yaml:"rows"`
}

// ErrInvalidScene is wrapped by every validation failure.
var ErrInvalidScene = errors.New("invalid scene")

// Loader builds scenes from YAML, loading or generating light sprites.
type Loader struct {
	Renderer render.Renderer
	Images   render.ResourceLoader
	Log      logging.Logger

	// BaseDir resolves relative texture paths. Defaults to the scene file's directory.
	BaseDir string

	sprites map[string]render.Image
}

// NewLoader creates a loader. Sprites are cached across scenes.
func NewLoader(r render.Renderer, images render.ResourceLoader, log logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop{}
	}
	return &Loader{
		Renderer: r,
		Images:   images,
		Log:      log,
		sprites:  make(map[string]render.Image),
	}
}

// LoadFile reads and builds the scene at path.
func (ld *Loader) LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	base := ld.BaseDir
	if base == "" {
		base = filepath.Dir(path)
	}
	s, err := ld.parse(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse builds a scene from YAML data.
func (ld *Loader) Parse(data []byte) (*Scene, error) {
	return ld.parse(data, ld.BaseDir)
}

func (ld *Loader) parse(data []byte, base string) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s := New(f.Name, f.CellSize)
	if f.Ambient != nil {
		s.Ambient = rgb(f.Ambient)
	}
	if f.Bounds != nil {
		s.Bounds = geom.R(f.Bounds[0], f.Bounds[1], f.Bounds[2], f.Bounds[3])
	}

	for _, ef := range f.Entities {
		s.Add(ld.buildEntity(ef, base))
	}

	if f.Tiles != nil {
		tm := TileMap{Rows: f.Tiles.Rows, TileSize: f.Tiles.TileSize, Origin: vec(f.Tiles.Origin, geom.Vec2{})}
		walls := NewEntity("tiles", geom.Vec2{})
		walls.Shapes = tm.Colliders()
		s.Add(walls)
	}

	if s.Bounds == (geom.Rect{}) {
		s.Bounds = s.extent()
	}
	ld.Log.Debugf("Loaded scene %q with %d entities", s.Name, s.Len())
	return s, nil
}

func (ld *Loader) buildEntity(ef EntityFile, base string) *Entity {
	e := NewEntity(ef.Name, vec(ef.Position, geom.Vec2{}))
	e.Rotation = ef.Rotation * math.Pi / 180
	e.Scale = vec(ef.Scale, geom.V(1, 1))

	for _, lf := range ef.Lights {
		e.Lights = append(e.Lights, ld.buildLight(lf, base))
	}
	for _, cf := range ef.Colliders {
		e.Shapes = append(e.Shapes, buildCollider(cf))
	}
	return e
}

func (ld *Loader) buildLight(lf LightFile, base string) *lighting.PointLight {
	size := lf.Size
	if size <= 0 {
		size = placeholders.FalloffSize
	}

	l := lighting.NewPointLight(ld.sprite(lf.Texture, size, base), lf.Radius, lf.ShadowExtension)
	l.Texture = lf.Texture
	if lf.Emission != "" {
		l.Emission = ld.image(lf.Emission, base)
	}
	if lf.Color != nil {
		l.Color = rgb(lf.Color)
	}
	if lf.Active != nil {
		l.Active = *lf.Active
	}
	l.Position = vec(lf.Position, geom.Vec2{})
	l.Scale = vec(lf.Scale, geom.V(1, 1))
	if lf.SourcePoint != nil {
		l.SourcePoint = vec(lf.SourcePoint, l.Origin)
	}

	if lf.Flicker != nil {
		l.Affectors = append(l.Affectors, lighting.NewFlicker(l.Color, lf.Flicker.Amount, lf.Flicker.Rate, lf.Flicker.Seed))
	}
	if lf.Pulse != nil {
		l.Affectors = append(l.Affectors, &lighting.Pulse{
			BaseScale: l.Scale,
			Amplitude: lf.Pulse.Amplitude,
			Frequency: lf.Pulse.Frequency,
		})
	}
	return l
}

func buildCollider(cf ColliderFile) *shadows.LightCollider {
	var c *shadows.LightCollider
	if cf.Box != nil {
		c = shadows.NewRectCollider(geom.R(cf.Box[0], cf.Box[1], cf.Box[2], cf.Box[3]))
	} else {
		c = shadows.NewLightCollider()
		c.SetPointCount(len(cf.Points))
		for i, p := range cf.Points {
			c.SetPoint(i, geom.V(p[0], p[1]))
		}
	}
	c.LightOverShape = cf.LightOverShape
	return c
}

// sprite returns the falloff sprite at path, or a generated one of the
// given size when path is empty or cannot be loaded.
func (ld *Loader) sprite(path string, size int, base string) render.Image {
	if path != "" {
		if img := ld.image(path, base); img != nil {
			return img
		}
		ld.Log.Warnf("Using generated falloff sprite instead of %s", path)
	}

	key := fmt.Sprintf("falloff:%d", size)
	if img, ok := ld.sprites[key]; ok {
		return img
	}
	img := ld.Renderer.NewImageFromImage(placeholders.FalloffSprite(size))
	ld.sprites[key] = img
	return img
}

// image loads and caches an image. Failures are logged and return nil.
func (ld *Loader) image(path string, base string) render.Image {
	full := path
	if !filepath.IsAbs(full) && base != "" {
		full = filepath.Join(base, path)
	}
	if img, ok := ld.sprites[full]; ok {
		return img
	}
	if ld.Images == nil {
		return nil
	}
	img, err := ld.Images.LoadImage(full)
	if err != nil {
		ld.Log.Warnf("Failed to load light texture: %v", err)
		return nil
	}
	ld.sprites[full] = img
	return img
}

// Dispose releases every cached sprite.
func (ld *Loader) Dispose() {
	for k, img := range ld.sprites {
		img.Dispose()
		delete(ld.sprites, k)
	}
}

// Validate checks the shape of every field.
func (f *File) Validate() error {
	if f.Ambient != nil && len(f.Ambient) != 3 {
		return fmt.Errorf("%w: ambient must have 3 components, got %d", ErrInvalidScene, len(f.Ambient))
	}
	if f.Bounds != nil && len(f.Bounds) != 4 {
		return fmt.Errorf("%w: bounds must have 4 components, got %d", ErrInvalidScene, len(f.Bounds))
	}
	if f.CellSize < 0 {
		return fmt.Errorf("%w: cellSize cannot be negative", ErrInvalidScene)
	}

	for i, e := range f.Entities {
		if err := checkVec(e.Position, "position"); err != nil {
			return fmt.Errorf("%w: entity %d: %v", ErrInvalidScene, i, err)
		}
		if err := checkVec(e.Scale, "scale"); err != nil {
			return fmt.Errorf("%w: entity %d: %v", ErrInvalidScene, i, err)
		}
		for j, l := range e.Lights {
			if err := l.validate(); err != nil {
				return fmt.Errorf("%w: entity %d, light %d: %v", ErrInvalidScene, i, j, err)
			}
		}
		for j, c := range e.Colliders {
			if err := c.validate(); err != nil {
				return fmt.Errorf("%w: entity %d, collider %d: %v", ErrInvalidScene, i, j, err)
			}
		}
	}

	if f.Tiles != nil {
		if f.Tiles.TileSize <= 0 {
			return fmt.Errorf("%w: tiles: tileSize must be positive", ErrInvalidScene)
		}
		if err := checkVec(f.Tiles.Origin, "origin"); err != nil {
			return fmt.Errorf("%w: tiles: %v", ErrInvalidScene, err)
		}
	}
	return nil
}

func (l LightFile) validate() error {
	if l.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %g", l.Radius)
	}
	if l.ShadowExtension <= 0 {
		return fmt.Errorf("shadowExtension must be positive, got %g", l.ShadowExtension)
	}
	if l.Color != nil && len(l.Color) != 3 {
		return fmt.Errorf("color must have 3 components, got %d", len(l.Color))
	}
	if err := checkVec(l.Position, "position"); err != nil {
		return err
	}
	if err := checkVec(l.Scale, "scale"); err != nil {
		return err
	}
	if err := checkVec(l.SourcePoint, "sourcePoint"); err != nil {
		return err
	}
	if l.Flicker != nil && (l.Flicker.Amount < 0 || l.Flicker.Amount > 1) {
		return fmt.Errorf("flicker amount must be between 0 and 1, got %g", l.Flicker.Amount)
	}
	return nil
}

func (c ColliderFile) validate() error {
	switch {
	case c.Box != nil && c.Points != nil:
		return fmt.Errorf("box and points are mutually exclusive")
	case c.Box != nil:
		if len(c.Box) != 4 {
			return fmt.Errorf("box must have 4 components, got %d", len(c.Box))
		}
	case len(c.Points) < 3:
		return fmt.Errorf("need at least 3 points, got %d", len(c.Points))
	}
	for i, p := range c.Points {
		if len(p) != 2 {
			return fmt.Errorf("point %d must have 2 components, got %d", i, len(p))
		}
	}
	return nil
}

func checkVec(v []float64, name string) error {
	if v != nil && len(v) != 2 {
		return fmt.Errorf("%s must have 2 components, got %d", name, len(v))
	}
	return nil
}

func vec(v []float64, def geom.Vec2) geom.Vec2 {
	if len(v) != 2 {
		return def
	}
	return geom.V(v[0], v[1])
}

func rgb(c []int) color.RGBA {
	ch := func(v int) uint8 {
		return uint8(max(0, min(255, v)))
	}
	return color.RGBA{ch(c[0]), ch(c[1]), ch(c[2]), 255}
}

// extent is the union of every entity's bounds.
func (s *Scene) extent() geom.Rect {
	var out geom.Rect
	found := false
	for _, e := range s.entities {
		for _, b := range []func() (geom.Rect, bool){e.LightBounds, e.ShapeBounds} {
			r, ok := b()
			if !ok {
				continue
			}
			if !found {
				out, found = r, true
			} else {
				out = out.Union(r)
			}
		}
	}
	return out
}
