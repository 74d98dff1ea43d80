package game

import (
	"errors"
	"fmt"
	"image/color"

	"chosenoffset.com/softshadow/internal/config"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/placeholders"
	"chosenoffset.com/softshadow/internal/render"
	"chosenoffset.com/softshadow/internal/render/lighting"
	"chosenoffset.com/softshadow/internal/settings"
	"chosenoffset.com/softshadow/internal/world/scene"
)

// ErrQuit is returned from Update when the user asks to leave.
var ErrQuit = errors.New("quit")

// ErrNoScenes is returned by Start when there is nothing to show.
var ErrNoScenes = errors.New("no scenes found")

// Manager owns the shared resources and switches between scenes.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Loader       *scene.Loader
	Lights       *lighting.LightSystem
	Settings     *settings.Manager
	Config       *config.Config
	Log          logging.Logger

	Scenes  []scene.Entry
	Current int
	Game    *Game

	floor  render.Image
	marker render.Image
}

// NewManager creates a new scene manager.
func NewManager(r render.Renderer, input render.InputManager, loader *scene.Loader, lights *lighting.LightSystem,
	cfg *config.Config, store *settings.Manager, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop{}
	}
	if store == nil {
		store = settings.NewManager(nil, log)
	}
	return &Manager{
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Renderer:     r,
		InputMgr:     input,
		Loader:       loader,
		Lights:       lights,
		Settings:     store,
		Config:       cfg,
		Log:          log,
	}
}

// Start opens the configured scene, else the last one shown, else the first.
func (m *Manager) Start() error {
	if len(m.Scenes) == 0 {
		return fmt.Errorf("%w in %s", ErrNoScenes, m.Config.Scenes.Dir)
	}
	index := 0
	if i := m.sceneIndex(m.Config.Scenes.Initial); i >= 0 {
		index = i
	} else if i := m.sceneIndex(m.Settings.Get().LastScene); i >= 0 {
		index = i
	}
	return m.LoadScene(index)
}

func (m *Manager) sceneIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, e := range m.Scenes {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// LoadScene loads scene i and replaces the current game with it. On error
// the current game is kept.
func (m *Manager) LoadScene(i int) error {
	if i < 0 || i >= len(m.Scenes) {
		return fmt.Errorf("scene index %d out of range", i)
	}
	entry := m.Scenes[i]
	m.Log.Infof("Loading scene: %s", entry.Path)

	s, err := m.Loader.LoadFile(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to load scene %s: %w", entry.Name, err)
	}

	m.ensureSprites()
	if m.Game != nil {
		m.Game.Dispose()
	}

	m.Game = &Game{
		ScreenWidth:     m.ScreenWidth,
		ScreenHeight:    m.ScreenHeight,
		Scene:           s,
		Lights:          m.Lights,
		Renderer:        m.Renderer,
		InputMgr:        m.InputMgr,
		Settings:        m.Settings,
		Log:             m.Log,
		Presets:         m.Config.AmbientPresets(),
		AmbientStrength: m.Config.Lighting.AmbientStrength,
		MoveSpeed:       m.Config.Lighting.MoveSpeed,
		FloorTile:       m.floor,
		Marker:          m.marker,
	}
	m.Game.init()
	m.Current = i

	m.Settings.SetLastScene(entry.Name)
	if err := m.Settings.Save(); err != nil {
		m.Log.Warnf("Failed to save settings: %v", err)
	}

	m.Log.Infof("Scene %s loaded: %d entities, %d lights", s.Name, s.Len(), len(m.Game.lights))
	return nil
}

func (m *Manager) ensureSprites() {
	if m.floor == nil {
		tile := placeholders.Checkerboard(placeholders.FloorCell*2, placeholders.FloorCell*2, placeholders.FloorCell,
			placeholders.ColorPalette.FloorLight, placeholders.ColorPalette.FloorDark)
		m.floor = m.Renderer.NewImageFromImage(tile)
	}
	if m.marker == nil {
		m.marker = m.Renderer.NewImageFromImage(placeholders.CreateCircle(9,
			placeholders.ColorPalette.LightMarker, placeholders.ColorPalette.MarkerEdge))
	}
}

// NextScene cycles to the following scene.
func (m *Manager) NextScene() {
	if len(m.Scenes) == 0 {
		return
	}
	m.switchTo((m.Current + 1) % len(m.Scenes))
}

// Reload reloads the current scene from disk.
func (m *Manager) Reload() {
	m.switchTo(m.Current)
}

func (m *Manager) switchTo(i int) {
	if err := m.LoadScene(i); err != nil {
		m.Log.Warnf("%v", err)
		if m.Game != nil {
			m.Game.ShowMessage(err.Error())
		}
	}
}

// Update updates the current scene.
func (m *Manager) Update() error {
	if m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return ErrQuit
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyN) {
		m.NextScene()
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyR) {
		m.Reload()
	}
	if m.Game != nil {
		return m.Game.Update()
	}
	return nil
}

// Draw draws the current scene.
func (m *Manager) Draw(screen render.Image) {
	if m.Game == nil {
		screen.Fill(color.RGBA{20, 20, 40, 255})
		m.Renderer.DrawText(screen, "No scene loaded", 50, 50, color.RGBA{255, 255, 255, 255}, 1.5)
		return
	}
	m.Game.Draw(screen)
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		if m.Game != nil {
			m.Game.Resize(outsideWidth, outsideHeight)
		} else {
			m.Lights.Resize(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// Dispose releases everything the manager owns.
func (m *Manager) Dispose() {
	if m.Game != nil {
		m.Game.Dispose()
		m.Game = nil
	}
	if m.floor != nil {
		m.floor.Dispose()
		m.floor = nil
	}
	if m.marker != nil {
		m.marker.Dispose()
		m.marker = nil
	}
	m.Lights.Dispose()
	m.Loader.Dispose()
}
