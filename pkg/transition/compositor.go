package transition

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// Target identifies one of the compositor's render targets.
type Target int

const (
	// TargetCurrent receives the outgoing (active) screen.
	TargetCurrent Target = iota
	// TargetNext receives the incoming (pending) screen.
	TargetNext
)

func (t Target) String() string {
	switch t {
	case TargetCurrent:
		return "current"
	case TargetNext:
		return "next"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Compositor owns the two offscreen render targets used while a transition is in flight.
//
// Targets always match the last size passed to NewCompositor or Resize. Views returned
// by Views are only valid until the next Resize or Dispose; callers fetch them again
// every frame.
//
// ebiten render targets are sampled in the same orientation they are drawn in, so the
// views are not flipped.
type Compositor struct {
	targets [2]*ebiten.Image
	views   [2]graphics.Region
	width   int
	height  int
}

// NewCompositor allocates both targets at w x h pixels (at least 1 x 1).
func NewCompositor(w, h int) *Compositor {
	c := &Compositor{}
	c.allocate(w, h)
	return c
}

func (c *Compositor) allocate(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.width, c.height = w, h
	for i := range c.targets {
		c.targets[i] = ebiten.NewImage(w, h)
		c.views[i] = graphics.NewRegion(c.targets[i])
	}
}

func (c *Compositor) release() {
	for i, img := range c.targets {
		if img != nil {
			img.Deallocate()
		}
		c.targets[i] = nil
		c.views[i] = graphics.Region{}
	}
}

// Resize releases both targets and reallocates them at the new size.
func (c *Compositor) Resize(w, h int) {
	c.release()
	c.allocate(w, h)
	log.Printf("[Compositor] Render targets reallocated at %dx%d", c.width, c.height)
}

// Dispose releases both targets. RenderInto is a no-op afterwards until Resize.
func (c *Compositor) Dispose() {
	c.release()
}

// Disposed reports whether the targets have been released.
func (c *Compositor) Disposed() bool {
	return c.targets[TargetCurrent] == nil
}

// Size returns the targets' pixel size.
func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

// Target returns the image behind id, or nil once disposed.
func (c *Compositor) Target(id Target) *ebiten.Image {
	if id != TargetCurrent && id != TargetNext {
		return nil
	}
	return c.targets[id]
}

// RenderInto clears target id, binds it to batch and runs draw, then unbinds it.
// The visible framebuffer is never touched.
func (c *Compositor) RenderInto(id Target, batch *graphics.Batch, draw func(*graphics.Batch)) {
	img := c.Target(id)
	if img == nil {
		return
	}
	img.Clear()
	batch.Begin(img)
	defer batch.End()
	draw(batch)
	c.views[id] = graphics.NewRegion(img)
}

// Views returns the texture views of the current and next targets.
func (c *Compositor) Views() (current, next graphics.Region) {
	return c.views[TargetCurrent], c.views[TargetNext]
}
