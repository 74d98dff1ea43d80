package settings

import (
	"fmt"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/softshadow/internal/logging"
)

func openStore(t *testing.T) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	store, err := gdata.Open(gdata.Config{
		AppName: fmt.Sprintf("softshadow_test_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	return store
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, AmbientScene, s.AmbientPreset)
	assert.True(t, s.ShowHUD)
	assert.False(t, s.Debug)
	assert.Empty(t, s.LastScene)
}

func TestNilStoreKeepsSettingsInMemory(t *testing.T) {
	m := NewManager(nil, logging.Nop{})
	assert.False(t, m.Persistent())

	m.SetShowHUD(false)
	m.SetLastScene("cellar")
	require.NoError(t, m.Save())

	assert.False(t, m.Get().ShowHUD)
	assert.Equal(t, "cellar", m.Get().LastScene)

	require.NoError(t, m.Load())
	assert.Equal(t, *Defaults(), m.Get())
}

func TestSetAmbientPresetClamps(t *testing.T) {
	m := NewManager(nil, nil)

	m.SetAmbientPreset(AmbientDay)
	assert.Equal(t, AmbientDay, m.Get().AmbientPreset)

	m.SetAmbientPreset(7)
	assert.Equal(t, AmbientDay, m.Get().AmbientPreset)

	m.SetAmbientPreset(-2)
	assert.Equal(t, AmbientScene, m.Get().AmbientPreset)
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewManager(nil, nil)
	s := m.Get()
	s.ShowHUD = false
	assert.True(t, m.Get().ShowHUD)
}

func TestSaveAndReload(t *testing.T) {
	store := openStore(t)

	m1 := NewManager(store, logging.Nop{})
	assert.True(t, m1.Persistent())
	m1.SetAmbientPreset(AmbientNight)
	m1.SetShowHUD(false)
	m1.SetDebug(true)
	m1.SetLastScene("courtyard")
	require.NoError(t, m1.Save())

	m2 := NewManager(store, logging.Nop{})
	assert.Equal(t, Settings{
		AmbientPreset: AmbientNight,
		ShowHUD:       false,
		Debug:         true,
		LastScene:     "courtyard",
	}, m2.Get())
}

func TestLoadCorruptDataFallsBack(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SaveObjectProp(settingsObject, settingsProperty, []byte("showHud: [")))

	m := &Manager{store: store, settings: Defaults(), log: logging.Nop{}}
	err := m.Load()
	require.Error(t, err)
	assert.Equal(t, *Defaults(), m.Get())
}

func TestLoadClampsSavedPreset(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SaveObjectProp(settingsObject, settingsProperty, []byte("ambientPreset: 9\n")))

	m := NewManager(store, logging.Nop{})
	assert.Equal(t, AmbientDay, m.Get().AmbientPreset)
	assert.True(t, m.Get().ShowHUD)
}
