package lighting

import (
	"image/color"
	"math"
	"math/rand/v2"

	"chosenoffset.com/softshadow/internal/core/geom"
)

// Affector changes a light over time. Affectors run once per update for
// every active light that carries them.
type Affector interface {
	Update(l *PointLight, dt float64)
}

// AffectorFunc adapts a function to the Affector interface.
type AffectorFunc func(l *PointLight, dt float64)

// Update calls f.
func (f AffectorFunc) Update(l *PointLight, dt float64) {
	f(l, dt)
}

// Flicker jitters the light's brightness around a base color.
type Flicker struct {
	Base   color.RGBA
	Amount float64 // Largest fraction of brightness removed, 0..1
	Rate   float64 // Brightness changes per second

	rng   *rand.Rand
	timer float64
}

// NewFlicker creates a flicker with a fixed seed so runs are repeatable.
func NewFlicker(base color.RGBA, amount, rate float64, seed uint64) *Flicker {
	return &Flicker{
		Base:   base,
		Amount: amount,
		Rate:   rate,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (f *Flicker) Update(l *PointLight, dt float64) {
	if f.Rate <= 0 {
		return
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(1, 2))
	}

	f.timer -= dt
	if f.timer > 0 {
		return
	}
	f.timer += 1 / f.Rate
	if f.timer < 0 {
		f.timer = 0
	}

	amount := math.Max(0, math.Min(1, f.Amount))
	factor := 1 - amount*f.rng.Float64()
	l.Color = scaleColor(f.Base, factor)
}

// Pulse scales the light sinusoidally around a base scale.
type Pulse struct {
	BaseScale geom.Vec2
	Amplitude float64 // Fraction of the base scale
	Frequency float64 // Cycles per second

	elapsed float64
}

func (p *Pulse) Update(l *PointLight, dt float64) {
	p.elapsed += dt
	s := 1 + p.Amplitude*math.Sin(2*math.Pi*p.Frequency*p.elapsed)
	l.Scale = p.BaseScale.Mul(s)
}

func scaleColor(c color.RGBA, f float64) color.RGBA {
	ch := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(v)*f))))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}
