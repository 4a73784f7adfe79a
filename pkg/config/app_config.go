// Package config loads the YAML application configuration.
package config

import (
	"fmt"
	"io/fs"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ImXico/Cyberpunk/pkg/camera"
	"github.com/ImXico/Cyberpunk/pkg/physics"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

// Defaults applied to zero values.
const (
	DefaultTitle        = "Cyberpunk"
	DefaultWorldWidth   = 800
	DefaultWorldHeight  = 480
	DefaultViewportMode = "fit"
	DefaultSampleRate   = 48000
	DefaultManifestPath = "config/manifest.yaml"
	DefaultSlideMotion  = "right-left"
)

// supportedSampleRates lists the rates ebiten's decoders resample to reliably.
var supportedSampleRates = []int{22050, 44100, 48000}

// AppConfig is the application configuration.
//
// Configuration file location: assets/config/app.yaml
type AppConfig struct {
	// Title is the window title.
	Title string `yaml:"title"`

	// World describes the virtual world the viewport maps onto the window.
	World WorldConfig `yaml:"world"`

	// Transition holds the defaults for screen transitions.
	Transition TransitionConfig `yaml:"transition"`

	// Physics configures demo physics worlds.
	Physics physics.Config `yaml:"physics"`

	// Audio configures the shared audio context.
	Audio AudioConfig `yaml:"audio"`

	// Manifest is the asset manifest path, relative to the assets root.
	Manifest string `yaml:"manifest"`

	// Verbose enables logging.
	Verbose bool `yaml:"verbose"`
}

// WorldConfig describes the world size and how it is fitted to the window.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Viewport is one of "stretch", "fit" or "extend". Empty means "fit".
	Viewport string `yaml:"viewport"`
}

// TransitionConfig holds the parameters of the built-in transitions.
type TransitionConfig struct {
	// FadeSpeed scales the fade's per-frame alpha step.
	FadeSpeed float64 `yaml:"fadeSpeed"`

	// SlideLerp is the fraction of the remaining distance a slide covers per frame, in (0, 1].
	SlideLerp float64 `yaml:"slideLerp"`

	// SlideMotion is "right-left" or "left-right".
	SlideMotion string `yaml:"slideMotion"`
}

// AudioConfig configures audio playback.
type AudioConfig struct {
	SampleRate int `yaml:"sampleRate"`

	// MenuMusic is the music track id played by the menu screen. Empty disables it.
	MenuMusic string `yaml:"menuMusic"`

	// ClickSound is the sound id played on menu input. Empty disables it.
	ClickSound string `yaml:"clickSound"`
}

// DefaultAppConfig returns the configuration used when no file is given.
func DefaultAppConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

// ParseAppConfig decodes YAML data, fills in defaults and validates the result.
func ParseAppConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}
	return &cfg, nil
}

// LoadAppConfig loads an application configuration from fsys.
//
// Parameters:
//   - fsys: file system holding the configuration (usually the embedded assets)
//   - path: configuration file path (e.g. "config/app.yaml")
//
// Returns:
//   - *AppConfig: the loaded configuration with defaults applied
//   - error: returned if the file cannot be read, parsed or validated
func LoadAppConfig(fsys fs.FS, path string) (*AppConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app config: %w", err)
	}
	return ParseAppConfig(data)
}

func (c *AppConfig) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.World.Width == 0 {
		c.World.Width = DefaultWorldWidth
	}
	if c.World.Height == 0 {
		c.World.Height = DefaultWorldHeight
	}
	if c.World.Viewport == "" {
		c.World.Viewport = DefaultViewportMode
	}
	if c.Transition.FadeSpeed == 0 {
		c.Transition.FadeSpeed = transition.DefaultFadeSpeed
	}
	if c.Transition.SlideLerp == 0 {
		c.Transition.SlideLerp = transition.DefaultLerp
	}
	if c.Transition.SlideMotion == "" {
		c.Transition.SlideMotion = DefaultSlideMotion
	}
	c.Physics = c.Physics.WithDefaults()
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = DefaultSampleRate
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifestPath
	}
}

// Validate checks that the configuration values are usable:
//   - the world size is positive
//   - the viewport mode and slide motion are known names
//   - the fade speed is positive and the slide lerp lies in (0, 1]
//   - the physics settings can be simulated
//   - the sample rate is one ebiten decodes reliably
//
// Returns:
//   - error: the first problem found, or nil
func (c *AppConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if _, err := camera.ParseMode(c.World.Viewport); err != nil {
		return err
	}

	if c.Transition.FadeSpeed <= 0 || math.IsNaN(c.Transition.FadeSpeed) || math.IsInf(c.Transition.FadeSpeed, 0) {
		return fmt.Errorf("fade speed must be positive, got %v", c.Transition.FadeSpeed)
	}
	if !(c.Transition.SlideLerp > 0 && c.Transition.SlideLerp <= 1) {
		return fmt.Errorf("slide lerp must be in (0, 1], got %v", c.Transition.SlideLerp)
	}
	if _, err := transition.ParseMotion(c.Transition.SlideMotion); err != nil {
		return err
	}

	if err := c.Physics.Validate(); err != nil {
		return err
	}

	supported := false
	for _, rate := range supportedSampleRates {
		if c.Audio.SampleRate == rate {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported sample rate %d", c.Audio.SampleRate)
	}

	if strings.TrimSpace(c.Manifest) == "" {
		return fmt.Errorf("manifest path is empty")
	}
	return nil
}

// ViewportMode returns the parsed viewport mode.
func (c *AppConfig) ViewportMode() camera.Mode {
	mode, _ := camera.ParseMode(c.World.Viewport)
	return mode
}

// SlideMotion returns the parsed slide motion.
func (c *AppConfig) SlideMotion() transition.Motion {
	motion, _ := transition.ParseMotion(c.Transition.SlideMotion)
	return motion
}
