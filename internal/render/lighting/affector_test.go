package lighting

import (
	"image/color"
	"testing"

	"chosenoffset.com/softshadow/internal/core/geom"
	"github.com/stretchr/testify/assert"
)

func TestFlickerStaysWithinRange(t *testing.T) {
	base := color.RGBA{200, 100, 50, 255}
	f := NewFlicker(base, 0.5, 10, 42)
	l := &PointLight{Color: base, Active: true}

	seen := map[color.RGBA]bool{}
	for i := 0; i < 200; i++ {
		f.Update(l, 1.0/60)
		seen[l.Color] = true
		assert.LessOrEqual(t, l.Color.R, base.R)
		assert.GreaterOrEqual(t, l.Color.R, uint8(100))
		assert.Equal(t, uint8(255), l.Color.A)
	}
	assert.Greater(t, len(seen), 1)
}

func TestFlickerIsDeterministic(t *testing.T) {
	base := color.RGBA{255, 200, 150, 255}
	a := NewFlicker(base, 0.3, 12, 7)
	b := NewFlicker(base, 0.3, 12, 7)
	la := &PointLight{Color: base}
	lb := &PointLight{Color: base}

	for i := 0; i < 50; i++ {
		a.Update(la, 1.0/60)
		b.Update(lb, 1.0/60)
		assert.Equal(t, la.Color, lb.Color)
	}
}

func TestFlickerRespectsRate(t *testing.T) {
	base := color.RGBA{255, 255, 255, 255}
	f := NewFlicker(base, 1, 1, 3)
	l := &PointLight{Color: base}

	f.Update(l, 0.1)
	first := l.Color
	for i := 0; i < 5; i++ {
		f.Update(l, 0.1)
		assert.Equal(t, first, l.Color, "no change before a full period")
	}
}

func TestPulseScalesAroundBase(t *testing.T) {
	p := &Pulse{BaseScale: geom.V(2, 2), Amplitude: 0.25, Frequency: 1}
	l := &PointLight{}

	p.Update(l, 0.25) // Quarter period, peak.
	assert.InDelta(t, 2.5, l.Scale.X(), 1e-9)
	p.Update(l, 0.5) // Three quarters, trough.
	assert.InDelta(t, 1.5, l.Scale.Y(), 1e-9)
}

func TestAffectorFunc(t *testing.T) {
	var got float64
	a := AffectorFunc(func(l *PointLight, dt float64) { got += dt })
	a.Update(&PointLight{}, 0.5)
	assert.Equal(t, 0.5, got)
}
