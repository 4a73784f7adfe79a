// Package transition implements the visual effects used when the state manager
// switches screens, and the offscreen compositor that renders both screens into
// textures for them.
package transition

import (
	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// Transition blends the outgoing and incoming screens' frames.
//
// A transition is started once by the state manager, updated every frame while
// Running, and finished when the manager observes Completed. It is not reused.
type Transition interface {
	// Start marks the transition as running and resets its effect state.
	Start()
	// Finish marks the transition as no longer running.
	Finish()
	// Running reports whether Update still advances the effect.
	Running() bool
	// Completed reports whether the incoming screen can take over. Variants decide
	// this themselves; it is not necessarily the negation of Running.
	Completed() bool
	// Update advances the effect by one frame.
	Update(delta float64)
	// Composite draws both frames into the batch's bound target at full viewport size.
	// The transition owns the whole frame: it clears the target before drawing.
	Composite(batch *graphics.Batch, current, next graphics.Region)
}

// Base holds the running flag shared by all transitions. Completed defaults to !Running.
type Base struct {
	running bool
}

// Start sets the running flag.
func (b *Base) Start() {
	b.running = true
}

// Finish clears the running flag.
func (b *Base) Finish() {
	b.running = false
}

// Running reports the running flag.
func (b *Base) Running() bool {
	return b.running
}

// Completed reports whether the transition is no longer running.
func (b *Base) Completed() bool {
	return !b.running
}
