package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, "data/scenes", cfg.Scenes.Dir)
	assert.Equal(t, 128, cfg.Assets.PenumbraSize)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	data := []byte(`
window:
  width: 640
lighting:
  night: [0, 0, 10]
  ambientStrength: 30
assets:
  penumbraTexture: assets/penumbra.png
debug: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.Equal(t, "Soft Shadows", cfg.Window.Title)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 30.0, cfg.Lighting.AmbientStrength)
	assert.Equal(t, 180.0, cfg.Lighting.MoveSpeed)

	presets := cfg.AmbientPresets()
	assert.Equal(t, color.RGBA{0, 0, 10, 255}, presets[0])
	assert.Equal(t, color.RGBA{230, 230, 220, 255}, presets[2])

	paths := cfg.AssetPaths()
	assert.Equal(t, "assets/penumbra.png", paths.PenumbraTexture)
	assert.Empty(t, paths.UnshadowShader)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("window: [1, 2"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"no scenes dir", func(c *Config) { c.Scenes.Dir = "" }},
		{"zero penumbra size", func(c *Config) { c.Assets.PenumbraSize = 0 }},
		{"negative strength", func(c *Config) { c.Lighting.AmbientStrength = -1 }},
		{"zero move speed", func(c *Config) { c.Lighting.MoveSpeed = 0 }},
		{"short preset", func(c *Config) { c.Lighting.Dusk = []int{1, 2} }},
		{"preset out of range", func(c *Config) { c.Lighting.Day = []int{0, 256, 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestParseValidates(t *testing.T) {
	_, err := Parse([]byte("window:\n  width: -5\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}
