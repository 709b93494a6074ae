package session

import (
	"context"
	"sync"
)

const (
	MinSpeed = 1.0
	MaxSpeed = 5.0
)

// Settings are the player preferences applied to playback.
type Settings struct {
	// Speed scales playback and subtitle timing.
	Speed  float64
	Volume float64
	// MenuMusic unmutes clips whose name contains "Menu" or "Still".
	MenuMusic bool
	Subtitles bool
	// Highlight preselects the first button for controller navigation.
	Highlight bool
}

func DefaultSettings() Settings {
	return Settings{
		Speed:     1,
		Volume:    1,
		MenuMusic: true,
		Subtitles: false,
		Highlight: false,
	}
}

// Normalized clamps speed and volume into their supported ranges.
func (s Settings) Normalized() Settings {
	s.Speed = min(max(s.Speed, MinSpeed), MaxSpeed)
	s.Volume = min(max(s.Volume, 0), 1)
	return s
}

// MemorySettings keeps settings in memory, starting from the defaults.
type MemorySettings struct {
	mu       sync.Mutex
	settings Settings
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{settings: DefaultSettings()} //nolint:exhaustruct // zero mutex
}

func (m *MemorySettings) LoadSettings(_ context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *MemorySettings) SaveSettings(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}
