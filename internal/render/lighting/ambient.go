package lighting

import (
	"image/color"
	"math"
)

// Ambient is the light level everything receives before any light is added.
// Interpolation keeps the fractional part of each step so slow fades still
// reach their target.
type Ambient struct {
	color color.RGBA
	shift [3]float64
}

// NewAmbient creates an ambient level at c.
func NewAmbient(c color.RGBA) Ambient {
	c.A = 255
	return Ambient{color: c}
}

// Color returns the current ambient color.
func (a *Ambient) Color() color.RGBA {
	return a.color
}

// Set jumps straight to c and drops any pending fraction.
func (a *Ambient) Set(c color.RGBA) {
	c.A = 255
	a.color = c
	a.shift = [3]float64{}
}

// Interpolate moves the ambient color towards target by 1/strength of the
// remaining distance. A strength of 1 or less snaps to target.
func (a *Ambient) Interpolate(target color.RGBA, strength float64) {
	if strength <= 1 {
		a.Set(target)
		return
	}

	cur := [3]*uint8{&a.color.R, &a.color.G, &a.color.B}
	tgt := [3]uint8{target.R, target.G, target.B}

	for i := range cur {
		from := float64(*cur[i])
		to := float64(tgt[i])
		if from == to {
			a.shift[i] = 0
			continue
		}

		a.shift[i] += (to - from) / strength
		whole := math.Trunc(a.shift[i])
		if whole == 0 {
			continue
		}
		a.shift[i] -= whole

		v := from + whole
		// Never step past the target, and arrive without a leftover fraction.
		if (whole > 0 && v >= to) || (whole < 0 && v <= to) {
			v = to
			a.shift[i] = 0
		}
		*cur[i] = uint8(math.Max(0, math.Min(255, v)))
	}
}
