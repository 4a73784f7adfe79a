package game

import (
	"fmt"
	"log"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/ImXico/Cyberpunk/pkg/camera"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

// TransitionFade is the UserSettings.Transition value selecting a fade.
// Any other value is a slide motion name such as "right-left".
const TransitionFade = "fade"

// UserSettings are the player-adjustable options persisted between runs.
type UserSettings struct {
	// Audio
	MusicVolume  float64 `yaml:"musicVolume"`  // 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"`  // 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"` // music on/off
	SoundEnabled bool    `yaml:"soundEnabled"` // sound effects on/off

	// Screens
	Transition string `yaml:"transition"` // "fade", "right-left" or "left-right"

	// Display
	Fullscreen bool   `yaml:"fullscreen"` // start in fullscreen
	Viewport   string `yaml:"viewport"`   // "stretch", "fit" or "extend"; empty uses the app config
}

// DefaultSettings returns the settings used when nothing has been saved yet.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,
		Transition:   TransitionFade,
		Fullscreen:   false,
	}
}

// SettingsManager loads, holds and saves UserSettings.
//
// Persistence goes through gdata, which picks a per-platform data directory. With a nil
// gdata manager the settings live in memory only.
type SettingsManager struct {
	gdataManager *gdata.Manager // may be nil (in-memory mode)
	settings     *UserSettings
}

// Storage keys
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager creates a settings manager and loads any saved settings.
//
// Parameters:
//   - gdataManager: gdata storage manager, may be nil (in-memory mode)
//
// Returns:
//   - *SettingsManager: the manager; defaults are used if loading fails
//   - error: always nil; load failures are logged
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load reads the saved settings. Without a gdata manager or saved data the defaults
// are used.
//
// Returns:
//   - error: if the stored data cannot be read or parsed (defaults are kept)
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	if name, err := normalizeTransition(loaded.Transition); err != nil {
		log.Printf("[SettingsManager] Warning: %v (using %s)", err, TransitionFade)
		loaded.Transition = TransitionFade
	} else {
		loaded.Transition = name
	}
	if loaded.Viewport != "" {
		if _, err := camera.ParseMode(loaded.Viewport); err != nil {
			log.Printf("[SettingsManager] Warning: %v (using app config)", err)
			loaded.Viewport = ""
		}
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save writes the settings through gdata. In in-memory mode it does nothing.
//
// Returns:
//   - error: if encoding or writing fails
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// Persistent reports whether settings are saved to disk.
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings returns the current settings. Setters below only change memory; call Save to persist.
func (sm *SettingsManager) GetSettings() *UserSettings {
	return sm.settings
}

// SetMusicVolume sets the music volume, clamped to [0, 1].
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetSoundVolume sets the sound effect volume, clamped to [0, 1].
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetMusicEnabled turns music on or off.
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetSoundEnabled turns sound effects on or off.
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen sets whether the game starts in fullscreen.
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetTransition sets the preferred screen transition: TransitionFade or a slide
// motion name accepted by transition.ParseMotion.
//
// Returns:
//   - error: if name is neither; the preference is left unchanged
func (sm *SettingsManager) SetTransition(name string) error {
	normalized, err := normalizeTransition(name)
	if err != nil {
		return err
	}
	sm.settings.Transition = normalized
	return nil
}

// SlideMotion returns the preferred slide motion. ok is false when the preference is a fade.
func (sm *SettingsManager) SlideMotion() (motion transition.Motion, ok bool) {
	if sm.settings.Transition == TransitionFade {
		return transition.RightLeft, false
	}
	motion, err := transition.ParseMotion(sm.settings.Transition)
	return motion, err == nil
}

// SetViewportMode stores the preferred viewport mode.
func (sm *SettingsManager) SetViewportMode(mode camera.Mode) {
	sm.settings.Viewport = mode.String()
}

// ViewportMode returns the stored viewport mode, or fallback when none is stored.
func (sm *SettingsManager) ViewportMode(fallback camera.Mode) camera.Mode {
	if sm.settings.Viewport == "" {
		return fallback
	}
	mode, err := camera.ParseMode(sm.settings.Viewport)
	if err != nil {
		return fallback
	}
	return mode
}

func normalizeTransition(name string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == TransitionFade || trimmed == "" {
		return TransitionFade, nil
	}
	motion, err := transition.ParseMotion(trimmed)
	if err != nil {
		return "", fmt.Errorf("unknown transition %q", name)
	}
	return motion.String(), nil
}

// clampVolume limits volume to [0, 1].
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
