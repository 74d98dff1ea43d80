package lighting

import (
	_ "embed"
	"fmt"
	"os"

	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/render"
)

// UnshadowShaderSource renders penumbra wedges by interpolating between
// two brightness values along the penumbra lookup texture.
//
//go:embed shaders/unshadow.kage
var UnshadowShaderSource []byte

// LightOverShapeShaderSource fills a shape with the light's emission
// surface sampled at the same screen position.
//
//go:embed shaders/lightovershape.kage
var LightOverShapeShaderSource []byte

// AssetPaths lists optional on-disk overrides. Empty shader paths use the
// embedded sources.
type AssetPaths struct {
	UnshadowShader       string
	LightOverShapeShader string
	PenumbraTexture      string
}

// Assets are the shared GPU resources every light needs. Any of them may be
// nil, in which case rendering degrades instead of failing.
type Assets struct {
	Unshadow        render.Shader
	LightOverShape  render.Shader
	PenumbraTexture render.Image
}

// Dispose releases every loaded resource.
func (a *Assets) Dispose() {
	if a.Unshadow != nil {
		a.Unshadow.Dispose()
		a.Unshadow = nil
	}
	if a.LightOverShape != nil {
		a.LightOverShape.Dispose()
		a.LightOverShape = nil
	}
	if a.PenumbraTexture != nil {
		a.PenumbraTexture.Dispose()
		a.PenumbraTexture = nil
	}
}

// LoadAssets compiles both programs and loads the penumbra texture.
// Failures are logged and leave the matching field nil.
func LoadAssets(r render.Renderer, loader render.ResourceLoader, paths AssetPaths, log logging.Logger) Assets {
	var assets Assets
	var err error

	assets.Unshadow, err = compileShader(r, paths.UnshadowShader, UnshadowShaderSource)
	if err != nil {
		log.Warnf("Failed to compile unshadow shader: %v", err)
	}
	assets.LightOverShape, err = compileShader(r, paths.LightOverShapeShader, LightOverShapeShaderSource)
	if err != nil {
		log.Warnf("Failed to compile light-over-shape shader: %v", err)
	}

	if paths.PenumbraTexture != "" {
		assets.PenumbraTexture, err = loader.LoadImage(paths.PenumbraTexture)
		if err != nil {
			log.Warnf("Failed to load penumbra texture: %v", err)
			assets.PenumbraTexture = nil
		}
	}
	return assets
}

// compileShader compiles the file at path, or the embedded source when path
// is empty. A path that cannot be read falls back to the embedded source.
func compileShader(r render.Renderer, path string, embedded []byte) (render.Shader, error) {
	src := embedded
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			src = b
		}
	}
	sh, err := r.CompileShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", shaderName(path), err)
	}
	return sh, nil
}

func shaderName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
