// Package config holds the viewer configuration.
// Values are read from a YAML file layered over the defaults, so a config
// file only needs the keys it changes.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"chosenoffset.com/softshadow/internal/render/lighting"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds everything the viewer needs at startup
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Scenes   ScenesConfig   `yaml:"scenes"`
	Assets   AssetsConfig   `yaml:"assets"`
	Lighting LightingConfig `yaml:"lighting"`
	Debug    bool           `yaml:"debug"`
}

// WindowConfig defines the initial window
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// ScenesConfig defines where scenes come from
type ScenesConfig struct {
	Dir     string `yaml:"dir"`     // Scanned for *.yaml scenes
	Initial string `yaml:"initial"` // Scene name to open first, optional
}

// AssetsConfig points at the optional on-disk assets.
// Empty shader paths use the embedded sources; an empty or missing
// penumbra texture is generated.
type AssetsConfig struct {
	UnshadowShader       string `yaml:"unshadowShader"`
	LightOverShapeShader string `yaml:"lightOverShapeShader"`
	PenumbraTexture      string `yaml:"penumbraTexture"`
	PenumbraSize         int    `yaml:"penumbraSize"` // Generated texture size
}

// LightingConfig defines ambient light behavior
type LightingConfig struct {
	AmbientStrength float64 `yaml:"ambientStrength"` // Frames to reach an ambient target
	Night           []int   `yaml:"night"`           // [r, g, b]
	Dusk            []int   `yaml:"dusk"`
	Day             []int   `yaml:"day"`
	MoveSpeed       float64 `yaml:"moveSpeed"` // Selected light speed, pixels per second
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1024,
			Height:    768,
			Title:     "Soft Shadows",
			Resizable: true,
		},
		Scenes: ScenesConfig{
			Dir: "data/scenes",
		},
		Assets: AssetsConfig{
			PenumbraSize: 128,
		},
		Lighting: LightingConfig{
			AmbientStrength: 60,
			Night:           []int{24, 24, 48},
			Dusk:            []int{110, 80, 90},
			Day:             []int{230, 230, 220},
			MoveSpeed:       180,
		},
	}
}

// Load reads a YAML config from path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Scenes.Dir == "" {
		return fmt.Errorf("%w: scenes.dir is empty", ErrInvalid)
	}
	if c.Assets.PenumbraSize <= 0 {
		return fmt.Errorf("%w: assets.penumbraSize must be positive", ErrInvalid)
	}
	if c.Lighting.AmbientStrength < 0 {
		return fmt.Errorf("%w: lighting.ambientStrength must not be negative", ErrInvalid)
	}
	if c.Lighting.MoveSpeed <= 0 {
		return fmt.Errorf("%w: lighting.moveSpeed must be positive", ErrInvalid)
	}
	presets := []struct {
		name string
		rgb  []int
	}{
		{"night", c.Lighting.Night},
		{"dusk", c.Lighting.Dusk},
		{"day", c.Lighting.Day},
	}
	for _, p := range presets {
		if len(p.rgb) != 3 {
			return fmt.Errorf("%w: lighting.%s needs 3 components", ErrInvalid, p.name)
		}
		for _, v := range p.rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%w: lighting.%s component %d out of range", ErrInvalid, p.name, v)
			}
		}
	}
	return nil
}

// AssetPaths converts the asset section for lighting.LoadAssets.
func (c *Config) AssetPaths() lighting.AssetPaths {
	return lighting.AssetPaths{
		UnshadowShader:       c.Assets.UnshadowShader,
		LightOverShapeShader: c.Assets.LightOverShapeShader,
		PenumbraTexture:      c.Assets.PenumbraTexture,
	}
}

// AmbientPresets returns night, dusk and day as colors.
// Call after Validate.
func (c *Config) AmbientPresets() [3]color.RGBA {
	return [3]color.RGBA{
		rgba(c.Lighting.Night),
		rgba(c.Lighting.Dusk),
		rgba(c.Lighting.Day),
	}
}

func rgba(c []int) color.RGBA {
	return color.RGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}
}
