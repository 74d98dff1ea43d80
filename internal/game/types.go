package game

import (
	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/render/lighting"
	"chosenoffset.com/softshadow/internal/world/scene"
)

// Camera tracks the viewport position for scrolling large scenes.
type Camera struct {
	X, Y float64 // Top-left corner of the viewport in world coords
}

// View returns the world rectangle shown on a w x h screen.
func (c Camera) View(w, h int) geom.Rect {
	return geom.R(c.X, c.Y, c.X+float64(w), c.Y+float64(h))
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// lightRef addresses one light of a scene entity.
type lightRef struct {
	Entity *scene.Entity
	Index  int
}

func (r lightRef) light() *lighting.PointLight {
	if r.Entity == nil || r.Index < 0 || r.Index >= len(r.Entity.Lights) {
		return nil
	}
	return r.Entity.Lights[r.Index]
}

// sceneLights lists every light of s in entity order.
func sceneLights(s *scene.Scene) []lightRef {
	var refs []lightRef
	for _, e := range s.Entities() {
		for i, l := range e.Lights {
			if l != nil {
				refs = append(refs, lightRef{Entity: e, Index: i})
			}
		}
	}
	return refs
}
