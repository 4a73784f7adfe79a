package game

import (
	"github.com/ImXico/Cyberpunk/pkg/graphics"
	"github.com/ImXico/Cyberpunk/pkg/input"
)

// Screen is one mode of application content (a menu, a level, ...).
//
// Once handed to the StateManager a screen is owned by it and disposed exactly once.
// Screens may additionally implement Resizer, Pauser, Hider and input.Processor;
// the manager discovers those by type assertion. Embed ScreenAdapter to get no-op
// versions of all of them.
type Screen interface {
	// Update advances the screen by delta seconds.
	Update(delta float64)

	// Draw renders the screen. The batch is already bound to its destination
	// (the window or an offscreen target) with the viewport projection applied.
	Draw(batch *graphics.Batch)

	// Dispose releases the screen's resources.
	Dispose()
}

// Resizer is implemented by screens that react to window size changes.
type Resizer interface {
	Resize(width, height int)
}

// Pauser is implemented by screens that react to the application losing or regaining focus.
type Pauser interface {
	Pause()
	Resume()
}

// Hider is implemented by screens that want a notification before being disposed.
type Hider interface {
	Hide()
}

// ScreenAdapter provides no-op implementations of every optional screen capability.
// All input handlers report the event as not consumed.
type ScreenAdapter struct {
	input.Adapter
}

func (ScreenAdapter) Resize(width, height int) {}
func (ScreenAdapter) Pause()                   {}
func (ScreenAdapter) Resume()                  {}
func (ScreenAdapter) Hide()                    {}

var (
	_ Resizer         = ScreenAdapter{}
	_ Pauser          = ScreenAdapter{}
	_ Hider           = ScreenAdapter{}
	_ input.Processor = ScreenAdapter{}
)
