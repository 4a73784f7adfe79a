// Package demo contains the screens of the demo application: a menu and a physics
// playground, switched through fade and slide transitions.
package demo

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ImXico/Cyberpunk/pkg/config"
	"github.com/ImXico/Cyberpunk/pkg/game"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
	"github.com/ImXico/Cyberpunk/pkg/layout"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

// Font sizes in world units.
const (
	TitleFontSize = 48
	BodyFontSize  = 18
)

// Env is what the demo screens share.
type Env struct {
	Manager *game.StateManager
	Config  *config.AppConfig
	Audio   *game.AudioManager // may be nil
	Atlases *game.AtlasManager // may be nil
	Text    *layout.TextMeasurer

	// Settings holds the preferred transition; nil always fades.
	Settings *game.SettingsManager

	TitleFace text.Face
	BodyFace  text.Face
}

// NewEnv creates the shared screen environment.
//
// Parameters:
//   - manager: state manager the screens switch through (required)
//   - cfg: application configuration; nil uses the defaults
//   - audio: audio manager, may be nil (silent mode)
//   - atlases: atlas manager, may be nil (shapes are drawn without sprites)
//
// Returns:
//   - *Env: the environment
//   - error: if manager is nil or the fonts cannot be loaded
func NewEnv(manager *game.StateManager, cfg *config.AppConfig, audio *game.AudioManager, atlases *game.AtlasManager) (*Env, error) {
	if manager == nil {
		return nil, fmt.Errorf("failed to create demo env: %w", game.ErrNotInitialized)
	}
	if cfg == nil {
		cfg = config.DefaultAppConfig()
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	measurer, err := layout.NewTextMeasurer(layout.DefaultMeasureCacheSize)
	if err != nil {
		return nil, err
	}

	return &Env{
		Manager:   manager,
		Config:    cfg,
		Audio:     audio,
		Atlases:   atlases,
		Text:      measurer,
		TitleFace: &text.GoTextFace{Source: src, Size: TitleFontSize},
		BodyFace:  &text.GoTextFace{Source: src, Size: BodyFontSize},
	}, nil
}

// WorldSize returns the visible world size.
func (e *Env) WorldSize() (float64, float64) {
	if vp := e.Manager.Viewport(); vp != nil {
		return vp.WorldSize()
	}
	return float64(e.Config.World.Width), float64(e.Config.World.Height)
}

// Fade returns a fade with the configured speed.
func (e *Env) Fade() transition.Transition {
	return transition.NewFade(e.Config.Transition.FadeSpeed)
}

// Slide returns a horizontal slide across the world width.
func (e *Env) Slide(motion transition.Motion) transition.Transition {
	w, _ := e.WorldSize()
	return transition.NewHorizontalSlide(motion, w, e.Config.Transition.SlideLerp)
}

// transitionCycle is the order CycleTransition walks through.
var transitionCycle = []string{game.TransitionFade, transition.RightLeft.String(), transition.LeftRight.String()}

// Preferred returns the transition chosen in the settings.
func (e *Env) Preferred() transition.Transition {
	if e.Settings != nil {
		if motion, ok := e.Settings.SlideMotion(); ok {
			return e.Slide(motion)
		}
	}
	return e.Fade()
}

// PreferredName returns the name of the preferred transition.
func (e *Env) PreferredName() string {
	if e.Settings == nil {
		return game.TransitionFade
	}
	return e.Settings.GetSettings().Transition
}

// CycleTransition advances the preferred transition and returns its name.
// Without settings it stays on the fade.
func (e *Env) CycleTransition() string {
	if e.Settings == nil {
		return game.TransitionFade
	}
	current := e.PreferredName()
	next := transitionCycle[0]
	for i, name := range transitionCycle {
		if name == current {
			next = transitionCycle[(i+1)%len(transitionCycle)]
			break
		}
	}
	if err := e.Settings.SetTransition(next); err != nil {
		log.Printf("[Demo] Warning: %v", err)
	}
	log.Printf("[Demo] Preferred transition: %s", next)
	return next
}

// GoTo switches screens, logging failures.
func (e *Env) GoTo(screen game.Screen, t transition.Transition) {
	if err := e.Manager.GoTo(screen, t); err != nil {
		log.Printf("[Demo] Warning: Failed to switch screen: %v", err)
		screen.Dispose()
	}
}

// Region looks up a sprite in the default atlas.
func (e *Env) Region(name string) (graphics.Region, bool) {
	if e.Atlases == nil {
		return graphics.Region{}, false
	}
	return e.Atlases.Take(name)
}

// PlaySound plays a sound effect if one is configured and loaded.
func (e *Env) PlaySound(id string) {
	if e.Audio == nil || id == "" || !e.Audio.Sounds().Has(id) {
		return
	}
	if _, err := e.Audio.Sounds().Play(id); err != nil {
		log.Printf("[Demo] Warning: Failed to play sound %s: %v", id, err)
	}
}

// PlayMusic starts a looping music track if one is configured and loaded.
func (e *Env) PlayMusic(id string) {
	if e.Audio == nil || id == "" {
		return
	}
	music := e.Audio.Music()
	if music.Current() == id && music.IsPlaying(id) {
		return
	}
	if err := music.Play(id, 1); err != nil {
		log.Printf("[Demo] Warning: Failed to play music %s: %v", id, err)
	}
}
