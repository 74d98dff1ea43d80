package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/placeholders"
	"chosenoffset.com/softshadow/internal/render"
)

var (
	lightOverShapeColor = placeholders.Lighten(placeholders.ColorPalette.Occluder, 0.6)
	inactiveMarkerColor = placeholders.Darken(placeholders.ColorPalette.LightMarker, 0.5)
	hudColor            = color.RGBA{255, 255, 255, 255}
	hudShadowColor      = color.RGBA{0, 0, 0, 200}
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()
	g.FrameCount++

	// Step 1: Unlit scene
	screen.Fill(placeholders.ColorPalette.Background)
	g.drawFloor(screen)
	g.drawOccluders(screen)

	// Step 2: Multiply the light buffer onto it
	g.Stats = g.Lights.Render(screen, g.Camera.View(w, h), g.Scene)
	if g.FrameCount <= 3 {
		g.Log.Debugf("Frame %d: %d lights, %d colliders, %d skipped",
			g.FrameCount, g.Stats.Lights, g.Stats.Colliders, g.Stats.Skipped)
	}

	// Step 3: Draw UI elements on top (unaffected by lighting)
	showHUD := g.Settings.Get().ShowHUD
	if showHUD {
		g.drawLightMarkers(screen)
	}
	g.drawSelection(screen)
	g.drawUI(screen)
	if showHUD {
		g.drawHUD(screen)
	}
}

// toScreen maps world coordinates to screen pixels.
func (g *Game) toScreen() geom.Transform {
	return geom.Translation(-g.Camera.X, -g.Camera.Y)
}

func (g *Game) drawFloor(screen render.Image) {
	if g.FloorTile == nil {
		return
	}
	tw, th := g.FloorTile.Size()
	if tw <= 0 || th <= 0 {
		return
	}
	w, h := screen.Size()

	bounds := g.Scene.Bounds
	startX := floorStart(bounds.Min.X(), g.Camera.X, float64(tw))
	startY := floorStart(bounds.Min.Y(), g.Camera.Y, float64(th))
	for y := startY; y < float64(h); y += float64(th) {
		for x := startX; x < float64(w); x += float64(tw) {
			screen.DrawImage(g.FloorTile, &render.DrawImageOptions{
				GeoM: geom.Translation(x, y),
			})
		}
	}
}

// floorStart returns the screen coordinate of the first tile column or row,
// keeping tiles aligned to the scene origin while the camera scrolls.
func floorStart(origin, camera, size float64) float64 {
	offset := origin - camera
	for offset > 0 {
		offset -= size
	}
	for offset <= -size {
		offset += size
	}
	return offset
}

func (g *Game) drawOccluders(screen render.Image) {
	view := g.toScreen()
	for _, e := range g.Scene.Entities() {
		world := e.WorldTransform()
		for _, c := range e.Shapes {
			if c == nil || c.PointCount() < 3 {
				continue
			}
			clr := placeholders.ColorPalette.Occluder
			if c.LightOverShape {
				clr = lightOverShapeColor
			}
			g.fillPolygon(screen, view.ApplyAll(c.WorldPoints(world)), clr)
		}
	}
}

func (g *Game) fillPolygon(dst render.Image, points []geom.Vec2, clr color.RGBA) {
	if g.WhiteImg == nil {
		g.WhiteImg = g.Renderer.NewImage(3, 3)
		g.WhiteImg.Fill(color.White)
	}
	vertices, indices := render.Fan(points, clr)
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
	}
	dst.DrawTriangles(vertices, indices, g.WhiteImg, &render.DrawTrianglesOptions{AntiAlias: true})
}

// drawLightMarkers dots the cast center of every light.
func (g *Game) drawLightMarkers(screen render.Image) {
	view := g.toScreen()
	for _, ref := range g.lights {
		l := ref.light()
		if l == nil {
			continue
		}
		c := view.Apply(l.CastCenter(ref.Entity.WorldTransform()))
		if g.Marker == nil {
			clr := placeholders.ColorPalette.LightMarker
			if !l.Active {
				clr = inactiveMarkerColor
			}
			g.Renderer.FillCircle(screen, float32(c.X()), float32(c.Y()), 3, clr)
			continue
		}
		mw, mh := g.Marker.Size()
		opts := &render.DrawImageOptions{
			GeoM: geom.Translation(c.X()-float64(mw)/2, c.Y()-float64(mh)/2),
		}
		if !l.Active {
			opts.Tint = color.RGBA{128, 128, 128, 255}
		}
		screen.DrawImage(g.Marker, opts)
	}
}

// drawSelection rings the cast center of the selected light.
func (g *Game) drawSelection(screen render.Image) {
	l, e := g.Selected(), g.SelectedEntity()
	if l == nil || e == nil {
		return
	}
	c := g.toScreen().Apply(l.CastCenter(e.WorldTransform()))
	radius := float32(max(l.Radius, 4))
	g.Renderer.StrokeCircle(screen, float32(c.X()), float32(c.Y()), radius+2, 1.5, placeholders.ColorPalette.Selected)
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	_, h := screen.Size()
	y := h - 30
	for i := len(g.Messages) - 1; i >= 0; i-- {
		msg := g.Messages[i]
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 20, y, color.RGBA{255, 255, 255, alpha}, 1.0)
		y -= 20
	}
}

func (g *Game) hudLines() []string {
	amb := g.Lights.AmbientColor()
	lines := []string{
		fmt.Sprintf("Scene: %s", g.Scene.Name),
		fmt.Sprintf("Lights: %d drawn / %d total", g.Stats.Lights, len(g.lights)),
		fmt.Sprintf("Colliders: %d tested, %d skipped", g.Stats.Colliders, g.Stats.Skipped),
		fmt.Sprintf("Penumbras: %d  Antumbras: %d", g.Stats.Penumbras, g.Stats.Antumbras),
		fmt.Sprintf("Ambient: %d %d %d", amb.R, amb.G, amb.B),
	}
	if l, e := g.Selected(), g.SelectedEntity(); l != nil {
		state := "on"
		if !l.Active {
			state = "off"
		}
		lines = append(lines, fmt.Sprintf("Selected: %s (r=%.1f, %s)", e.Name, l.Radius, state))
	}
	return append(lines,
		"Arrows move  Tab select  L toggle",
		"0-3 ambient  N next  R reload  H hud",
	)
}

func (g *Game) drawHUD(screen render.Image) {
	y := 16
	for _, line := range g.hudLines() {
		g.Renderer.DrawText(screen, line, 11, y+1, hudShadowColor, 1.0)
		g.Renderer.DrawText(screen, line, 10, y, hudColor, 1.0)
		_, lh := g.Renderer.MeasureText(line, 1.0)
		y += lh + 4
	}
}
