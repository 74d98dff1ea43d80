package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// Default sizes of the generated lighting assets.
const (
	FalloffSize  = 256
	PenumbraSize = 128
	FloorCell    = 32
)

// ColorPalette defines the colors the viewer draws the scene with.
var ColorPalette = struct {
	FloorLight  color.RGBA
	FloorDark   color.RGBA
	Occluder    color.RGBA
	LightMarker color.RGBA
	MarkerEdge  color.RGBA
	Selected    color.RGBA
	Background  color.RGBA
}{
	FloorLight:  color.RGBA{150, 145, 135, 255}, // Pale flagstone
	FloorDark:   color.RGBA{125, 120, 112, 255}, // Darker flagstone
	Occluder:    color.RGBA{90, 70, 60, 255},    // Crate brown
	LightMarker: color.RGBA{255, 220, 120, 255}, // Warm yellow
	MarkerEdge:  color.RGBA{60, 45, 40, 255},
	Selected:    color.RGBA{0, 255, 100, 255}, // Bright green
	Background:  color.RGBA{30, 28, 25, 255},
}

// FalloffSprite creates a square radial light falloff. Brightness is 1 at
// the center and reaches 0 at the inscribed circle.
func FalloffSprite(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			d := math.Sqrt(dx*dx+dy*dy) / center

			v := 0.0
			if d < 1 {
				v = (1 - d) * (1 - d)
			}
			c := uint8(math.Round(v * 255))
			img.SetRGBA(x, y, color.RGBA{c, c, c, 255})
		}
	}
	return img
}

// PenumbraTexture creates the lookup texture for penumbra wedges. The wedge
// apex maps to the bottom left corner, the lit edge to the left side and the
// dark edge to the top side. Red holds the light fraction across the wedge.
func PenumbraTexture(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5

			// Fraction of the way from the lit edge to the dark edge,
			// constant along lines through the apex.
			f := 1.0
			if s-fy > 0 {
				f = math.Min(1, fx/(s-fy))
			}
			t := 1 - f*f*(3-2*f)
			c := uint8(math.Round(t * 255))
			img.SetRGBA(x, y, color.RGBA{c, c, c, 255})
		}
	}
	return img
}

// Checkerboard creates a w x h floor image with square cells.
func Checkerboard(w, h, cell int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{a}, image.Point{}, draw.Src)
	if cell <= 0 {
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 1 {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

// CreateCircle creates a circular marker sprite
func CreateCircle(size int, fillColor, outlineColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := size / 2
	radius := size/2 - 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - center
			dy := y - center
			distSq := dx*dx + dy*dy

			if distSq <= radius*radius {
				img.Set(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.Set(x, y, outlineColor)
			}
		}
	}

	return img
}

// SavePNG saves an image to a PNG file, creating parent directories.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// GenerateAndSave writes every generated asset into dir and returns the
// written paths.
func GenerateAndSave(dir string) ([]string, error) {
	assets := []struct {
		name string
		img  image.Image
	}{
		{"falloff.png", FalloffSprite(FalloffSize)},
		{"penumbra.png", PenumbraTexture(PenumbraSize)},
		{"floor.png", Checkerboard(FloorCell*8, FloorCell*8, FloorCell, ColorPalette.FloorLight, ColorPalette.FloorDark)},
	}

	var written []string
	for _, a := range assets {
		path := filepath.Join(dir, a.name)
		if err := SavePNG(a.img, path); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", a.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
