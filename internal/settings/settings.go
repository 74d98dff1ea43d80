// Package settings persists viewer preferences between runs.
package settings

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/softshadow/internal/logging"
)

// Ambient presets selectable with the number keys. AmbientScene uses the
// ambient color of the open scene.
const (
	AmbientScene = iota
	AmbientNight
	AmbientDusk
	AmbientDay
)

// Settings are the viewer preferences
type Settings struct {
	AmbientPreset int    `yaml:"ambientPreset"`
	ShowHUD       bool   `yaml:"showHud"`
	Debug         bool   `yaml:"debug"`
	LastScene     string `yaml:"lastScene"`
}

// Defaults returns the settings used on first launch
func Defaults() *Settings {
	return &Settings{
		AmbientPreset: AmbientScene,
		ShowHUD:       true,
	}
}

const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// Manager loads and saves Settings through gdata.
// A nil gdata manager keeps settings in memory only.
type Manager struct {
	store    *gdata.Manager
	settings *Settings
	log      logging.Logger
}

// NewManager creates a manager and loads any saved settings.
// Load failures are logged and the defaults are used.
func NewManager(store *gdata.Manager, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop{}
	}
	m := &Manager{store: store, settings: Defaults(), log: log}
	if err := m.Load(); err != nil {
		log.Warnf("Failed to load settings: %v (using defaults)", err)
	}
	return m
}

// Open opens the platform data store for appName.
// It returns nil when no store is available so callers can fall back to memory.
func Open(appName string, log logging.Logger) *gdata.Manager {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		if log != nil {
			log.Warnf("Settings will not persist: %v", err)
		}
		return nil
	}
	return store
}

// Persistent reports whether Save writes anywhere.
func (m *Manager) Persistent() bool {
	return m.store != nil
}

// Load replaces the current settings with the saved ones, or the defaults.
func (m *Manager) Load() error {
	if m.store == nil || !m.store.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = Defaults()
		return nil
	}

	data, err := m.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = Defaults()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.settings = Defaults()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.AmbientPreset = clampPreset(loaded.AmbientPreset)
	m.settings = loaded
	m.log.Debugf("Settings loaded")
	return nil
}

// Save writes the current settings. It is a no-op without a store.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	m.log.Debugf("Settings saved")
	return nil
}

// Get returns the current settings. Changes go through the setters.
func (m *Manager) Get() Settings {
	return *m.settings
}

// SetAmbientPreset selects the scene ambient, night, dusk or day. Other
// values are clamped.
func (m *Manager) SetAmbientPreset(preset int) {
	m.settings.AmbientPreset = clampPreset(preset)
}

func (m *Manager) SetShowHUD(show bool) {
	m.settings.ShowHUD = show
}

func (m *Manager) SetDebug(debug bool) {
	m.settings.Debug = debug
}

func (m *Manager) SetLastScene(name string) {
	m.settings.LastScene = name
}

func clampPreset(p int) int {
	if p < AmbientScene {
		return AmbientScene
	}
	if p > AmbientDay {
		return AmbientDay
	}
	return p
}
