package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/softshadow/internal/core/geom"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/render"
	"chosenoffset.com/softshadow/internal/render/lighting"
	"chosenoffset.com/softshadow/internal/settings"
	"chosenoffset.com/softshadow/internal/world/scene"
)

// pickRadius is how close, in pixels, a click must land to a light.
const pickRadius = 16.0

// Game shows one scene lit by the light system and lets the user move and
// toggle its lights.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Scene        *scene.Scene
	Lights       *lighting.LightSystem
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Settings     *settings.Manager
	Log          logging.Logger
	Camera       Camera

	// Presets are the night, dusk and day ambient colors.
	Presets         [3]color.RGBA
	AmbientStrength float64
	MoveSpeed       float64 // Pixels per second

	FloorTile render.Image
	Marker    render.Image // Light marker sprite, circles are drawn when nil
	WhiteImg  render.Image

	// UI state
	Messages []Message
	Stats    lighting.FrameStats

	lights   []lightRef
	selected int
	dragging bool

	// Debug
	FrameCount int
}

// init prepares a freshly built game for its first frame.
func (g *Game) init() {
	if g.Log == nil {
		g.Log = logging.Nop{}
	}
	if g.Settings == nil {
		g.Settings = settings.NewManager(nil, g.Log)
	}
	g.lights = sceneLights(g.Scene)
	g.selected = 0
	g.Lights.SetAmbientColor(g.AmbientTarget())
	g.UpdateCamera()
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0

	g.updateMessages(dt)
	g.handleInput(dt)
	g.UpdateCamera()

	g.Lights.InterpolateAmbientLight(g.AmbientTarget(), g.AmbientStrength)
	g.Lights.Update(g.Scene.Emitters(), dt)

	// Affectors may have changed light footprints.
	g.Scene.Refresh()
	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// Resize adapts the game to a new screen size.
func (g *Game) Resize(w, h int) {
	g.ScreenWidth = w
	g.ScreenHeight = h
	g.Lights.Resize(w, h)
	g.UpdateCamera()
}

func (g *Game) handleInput(dt float64) {
	in := g.InputMgr
	if in == nil {
		return
	}

	if in.IsKeyJustPressed(render.KeyTab) {
		g.SelectNext()
	}

	if in.IsKeyJustPressed(render.KeyL) {
		g.toggleLight(g.selected)
	}

	presetKeys := []render.Key{render.Key0, render.Key1, render.Key2, render.Key3}
	for preset, key := range presetKeys {
		if in.IsKeyJustPressed(key) {
			g.SetAmbientPreset(preset)
		}
	}

	if in.IsKeyJustPressed(render.KeyH) {
		show := !g.Settings.Get().ShowHUD
		g.Settings.SetShowHUD(show)
		g.saveSettings()
	}

	var dx, dy float64
	if in.IsKeyPressed(render.KeyLeft) {
		dx--
	}
	if in.IsKeyPressed(render.KeyRight) {
		dx++
	}
	if in.IsKeyPressed(render.KeyUp) {
		dy--
	}
	if in.IsKeyPressed(render.KeyDown) {
		dy++
	}
	if dx != 0 || dy != 0 {
		speed := g.MoveSpeed * dt
		if in.IsKeyPressed(render.KeyShift) {
			speed *= 3
		}
		g.MoveSelected(geom.V(dx, dy).Normalize().Mul(speed))
	}

	g.handleMouse()
}

// handleMouse picks lights under the cursor: left click selects and drags,
// right click toggles.
func (g *Game) handleMouse() {
	in := g.InputMgr
	x, y := in.GetCursorPosition()
	cursor := g.toWorld(x, y)

	if in.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		if i := g.lightAt(cursor); i >= 0 {
			if i != g.selected {
				g.Select(i)
			}
			g.dragging = true
		}
	}
	if g.dragging {
		if in.IsMouseButtonPressed(render.MouseButtonLeft) {
			g.DragSelected(cursor)
		} else {
			g.dragging = false
		}
	}

	if in.IsMouseButtonJustPressed(render.MouseButtonRight) {
		if i := g.lightAt(cursor); i >= 0 {
			g.toggleLight(i)
		}
	}
}

// toWorld maps screen pixels to world coordinates.
func (g *Game) toWorld(x, y int) geom.Vec2 {
	return geom.V(float64(x)+g.Camera.X, float64(y)+g.Camera.Y)
}

// lightAt returns the index of the light whose cast center is nearest to p,
// or -1 when none is within pickRadius.
func (g *Game) lightAt(p geom.Vec2) int {
	best, bestDist := -1, pickRadius
	for i, ref := range g.lights {
		l := ref.light()
		if l == nil {
			continue
		}
		if d := geom.Distance(p, l.CastCenter(ref.Entity.WorldTransform())); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (g *Game) toggleLight(i int) {
	if i < 0 || i >= len(g.lights) {
		return
	}
	l := g.lights[i].light()
	if l == nil {
		return
	}
	l.Active = !l.Active
	if l.Active {
		g.ShowMessage("Light on")
	} else {
		g.ShowMessage("Light off")
	}
}

// Selected returns the light the arrow keys move, or nil when the scene
// has no lights.
func (g *Game) Selected() *lighting.PointLight {
	if len(g.lights) == 0 {
		return nil
	}
	return g.lights[g.selected].light()
}

// SelectedEntity returns the entity carrying the selected light.
func (g *Game) SelectedEntity() *scene.Entity {
	if len(g.lights) == 0 {
		return nil
	}
	return g.lights[g.selected].Entity
}

// SelectNext cycles through the lights of the scene.
func (g *Game) SelectNext() {
	if len(g.lights) == 0 {
		return
	}
	g.Select((g.selected + 1) % len(g.lights))
}

// Select makes light i the selected one.
func (g *Game) Select(i int) {
	if i < 0 || i >= len(g.lights) {
		return
	}
	g.selected = i
	e := g.SelectedEntity()
	g.ShowMessage(fmt.Sprintf("Selected light %d/%d (%s)", g.selected+1, len(g.lights), e.Name))
}

// MoveSelected moves the entity of the selected light by delta.
func (g *Game) MoveSelected(delta geom.Vec2) {
	e := g.SelectedEntity()
	if e == nil {
		return
	}
	g.Scene.Move(e.ID, e.Position.Add(delta))
}

// DragSelected moves the selected light's entity so the cast center lands on p.
func (g *Game) DragSelected(p geom.Vec2) {
	l, e := g.Selected(), g.SelectedEntity()
	if l == nil || e == nil {
		return
	}
	g.MoveSelected(p.Sub(l.CastCenter(e.WorldTransform())))
}

// SetAmbientPreset picks the ambient target and remembers the choice.
func (g *Game) SetAmbientPreset(preset int) {
	g.Settings.SetAmbientPreset(preset)
	g.saveSettings()

	names := []string{"scene", "night", "dusk", "day"}
	g.ShowMessage(fmt.Sprintf("Ambient: %s", names[g.Settings.Get().AmbientPreset]))
}

// AmbientTarget returns the color the ambient light fades towards.
func (g *Game) AmbientTarget() color.RGBA {
	preset := g.Settings.Get().AmbientPreset
	if preset == settings.AmbientScene {
		return g.Scene.Ambient
	}
	return g.Presets[preset-1]
}

func (g *Game) saveSettings() {
	if err := g.Settings.Save(); err != nil {
		g.Log.Warnf("Failed to save settings: %v", err)
	}
}

// UpdateCamera centers the camera on the selected light, clamped to the
// scene bounds. Scenes smaller than the screen are centered.
func (g *Game) UpdateCamera() {
	w, h := float64(g.ScreenWidth), float64(g.ScreenHeight)
	bounds := g.Scene.Bounds

	focus := bounds.Center()
	if e := g.SelectedEntity(); e != nil {
		focus = e.Position
	}

	g.Camera.X = clampAxis(focus.X()-w/2, bounds.Min.X(), bounds.Max.X(), w)
	g.Camera.Y = clampAxis(focus.Y()-h/2, bounds.Min.Y(), bounds.Max.Y(), h)
}

func clampAxis(pos, lo, hi, size float64) float64 {
	if hi-lo <= size {
		return (lo+hi)/2 - size/2
	}
	if pos < lo {
		return lo
	}
	if pos > hi-size {
		return hi - size
	}
	return pos
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	g.Log.Debugf("Message: %s", text)
}

// Dispose releases the images the game created. FloorTile and Marker
// belong to the caller.
func (g *Game) Dispose() {
	if g.WhiteImg != nil {
		g.WhiteImg.Dispose()
		g.WhiteImg = nil
	}
}
