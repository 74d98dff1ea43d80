// Package rendertest provides an in-memory render backend that records
// draw calls so rendering code can be tested without a GPU.
package rendertest

import (
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/softshadow/internal/render"
)

// OpKind identifies a recorded draw call.
type OpKind string

const (
	OpFill      OpKind = "fill"
	OpClear     OpKind = "clear"
	OpImage     OpKind = "image"
	OpTriangles OpKind = "triangles"
	OpShader    OpKind = "shader"
)

// Op is one recorded draw call.
type Op struct {
	Kind     OpKind
	Target   *Image
	Source   *Image
	Shader   *Shader
	Blend    render.Blend
	Color    color.Color
	Tint     color.Color
	Vertices []render.Vertex
	Indices  []uint16
	Uniforms map[string]interface{}
	Images   [4]*Image
}

// Recorder implements render.Renderer and records every call made on the
// images it creates.
type Recorder struct {
	Ops     []Op
	Created []*Image
	Shaders []*Shader

	// CompileErr, when set, is returned by CompileShader.
	CompileErr error
	// Missing lists paths LoadImage reports as not found.
	Missing map[string]bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Missing: make(map[string]bool)}
}

// Reset forgets recorded ops but keeps created images.
func (r *Recorder) Reset() {
	r.Ops = nil
}

// OpsOn returns the ops whose target is img.
func (r *Recorder) OpsOn(img render.Image) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Target == img {
			out = append(out, op)
		}
	}
	return out
}

// OpsOfKind returns the ops of the given kind.
func (r *Recorder) OpsOfKind(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Live returns the created images that have not been disposed.
func (r *Recorder) Live() []*Image {
	var out []*Image
	for _, img := range r.Created {
		if !img.Disposed {
			out = append(out, img)
		}
	}
	return out
}

func (r *Recorder) newImage(name string, w, h int) *Image {
	img := &Image{Name: name, W: w, H: h, rec: r}
	r.Created = append(r.Created, img)
	return img
}

// NewImage creates a new recorded image.
func (r *Recorder) NewImage(width, height int) render.Image {
	return r.newImage(fmt.Sprintf("image%d", len(r.Created)+1), width, height)
}

// NewImageFromImage creates a recorded image with the size of img.
func (r *Recorder) NewImageFromImage(img image.Image) render.Image {
	b := img.Bounds()
	return r.newImage(fmt.Sprintf("image%d", len(r.Created)+1), b.Dx(), b.Dy())
}

// FillCircle records nothing; circles are viewer decoration.
func (r *Recorder) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {}

// StrokeCircle records nothing; circles are viewer decoration.
func (r *Recorder) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
}

// DrawText records nothing.
func (r *Recorder) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
}

// MeasureText uses a fixed 7x13 cell.
func (r *Recorder) MeasureText(text string, scale float64) (width, height int) {
	return int(float64(len(text)*7) * scale), int(13 * scale)
}

// CompileShader returns a recorded shader, or CompileErr.
func (r *Recorder) CompileShader(src []byte) (render.Shader, error) {
	if r.CompileErr != nil {
		return nil, r.CompileErr
	}
	s := &Shader{Source: src}
	r.Shaders = append(r.Shaders, s)
	return s, nil
}

// LoadImage implements render.ResourceLoader.
func (r *Recorder) LoadImage(path string) (render.Image, error) {
	if r.Missing[path] {
		return nil, fmt.Errorf("open %s: file does not exist", path)
	}
	return r.newImage(path, 64, 64), nil
}

// Shader is a recorded shader program.
type Shader struct {
	Source   []byte
	Disposed bool
}

// Dispose marks the shader disposed.
func (s *Shader) Dispose() {
	s.Disposed = true
}

// Image is a recorded surface.
type Image struct {
	Name     string
	W, H     int
	Disposed bool
	rec      *Recorder
}

// Bounds returns the bounds of the image.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.W, i.H)
}

// Size returns the width and height of the image.
func (i *Image) Size() (width, height int) {
	return i.W, i.H
}

// Fill records a fill.
func (i *Image) Fill(clr color.Color) {
	i.rec.Ops = append(i.rec.Ops, Op{Kind: OpFill, Target: i, Color: clr})
}

// Clear records a clear.
func (i *Image) Clear() {
	i.rec.Ops = append(i.rec.Ops, Op{Kind: OpClear, Target: i})
}

// DrawImage records an image draw.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	op := Op{Kind: OpImage, Target: i, Source: asImage(src)}
	if opts != nil {
		op.Blend = opts.Blend
		op.Tint = opts.Tint
	}
	i.rec.Ops = append(i.rec.Ops, op)
}

// DrawTriangles records a triangle draw.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	op := Op{
		Kind:     OpTriangles,
		Target:   i,
		Source:   asImage(img),
		Vertices: append([]render.Vertex(nil), vertices...),
		Indices:  append([]uint16(nil), indices...),
	}
	if opts != nil {
		op.Blend = opts.Blend
	}
	i.rec.Ops = append(i.rec.Ops, op)
}

// DrawTrianglesShader records a shader triangle draw.
func (i *Image) DrawTrianglesShader(vertices []render.Vertex, indices []uint16, shader render.Shader, opts *render.DrawTrianglesShaderOptions) {
	op := Op{
		Kind:     OpShader,
		Target:   i,
		Shader:   shader.(*Shader),
		Vertices: append([]render.Vertex(nil), vertices...),
		Indices:  append([]uint16(nil), indices...),
	}
	if opts != nil {
		op.Blend = opts.Blend
		op.Uniforms = make(map[string]interface{}, len(opts.Uniforms))
		for k, v := range opts.Uniforms {
			op.Uniforms[k] = v
		}
		for idx, img := range opts.Images {
			op.Images[idx] = asImage(img)
		}
	}
	i.rec.Ops = append(i.rec.Ops, op)
}

// Dispose marks the image disposed.
func (i *Image) Dispose() {
	i.Disposed = true
}

func asImage(img render.Image) *Image {
	if img == nil {
		return nil
	}
	return img.(*Image)
}
