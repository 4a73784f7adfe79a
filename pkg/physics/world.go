package physics

import (
	"fmt"
	"log"

	"github.com/ByteArena/box2d"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// World owns a Box2D world and steps it with a fixed Config.
//
// Draw renders the bodies with a Debugger while DebugMode is set.
type World struct {
	world    *box2d.B2World
	config   Config
	debugger *Debugger
	disposed bool

	// DebugMode enables Draw. It is on by default.
	DebugMode bool
}

// NewWorld creates a world whose debug view covers worldWidth x worldHeight pixels.
//
// Parameters:
//   - worldWidth, worldHeight: world size in pixels
//   - cfg: simulation settings; zero timestep and iteration counts take the defaults
//
// Returns:
//   - *World: the new world
//   - error: if cfg is invalid after defaults are applied
func NewWorld(worldWidth, worldHeight int, cfg Config) (*World, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create physics world: %w", err)
	}

	w := box2d.MakeB2World(box2d.MakeB2Vec2(cfg.Gravity.X, cfg.Gravity.Y))
	return &World{
		world:     &w,
		config:    cfg,
		debugger:  NewDebugger(worldWidth, worldHeight),
		DebugMode: true,
	}, nil
}

// Box2D returns the underlying Box2D world.
func (w *World) Box2D() *box2d.B2World {
	return w.world
}

// Config returns the settings the world steps with.
func (w *World) Config() Config {
	return w.config
}

// Debugger returns the world's debug renderer.
func (w *World) Debugger() *Debugger {
	return w.debugger
}

// Step advances the simulation by one timestep. Disposed worlds do nothing.
func (w *World) Step() {
	if w.disposed {
		return
	}
	w.world.Step(w.config.Timestep, w.config.VelocityIterations, w.config.PositionIterations)
}

// Resize updates the debug view after the screen size changes.
func (w *World) Resize(width, height int) {
	w.debugger.Resize(width, height)
}

// Draw renders every body through the debugger when DebugMode is set. proj maps world
// pixels to the screen and may be nil, in which case the world is stretched over the
// last size given to Resize.
func (w *World) Draw(dst *ebiten.Image, proj graphics.Projector) {
	if !w.DebugMode || w.disposed || dst == nil {
		return
	}
	w.debugger.Draw(dst, w, proj)
}

// CreateBody adds a body built from def.
func (w *World) CreateBody(def *box2d.B2BodyDef) *box2d.B2Body {
	return w.world.CreateBody(def)
}

// DestroyBody removes a body and its fixtures.
func (w *World) DestroyBody(body *box2d.B2Body) {
	if w.disposed || body == nil {
		return
	}
	w.world.DestroyBody(body)
}

// BodyCount returns the number of bodies in the world.
func (w *World) BodyCount() int {
	if w.disposed {
		return 0
	}
	return w.world.GetBodyCount()
}

// Bodies calls fn for every body.
func (w *World) Bodies(fn func(*box2d.B2Body)) {
	if w.disposed {
		return
	}
	for b := w.world.GetBodyList(); b != nil; b = b.GetNext() {
		fn(b)
	}
}

// Dispose destroys every body. The world must not be used afterwards; further calls to
// Step, Draw and BodyCount are no-ops.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	n := 0
	for b := w.world.GetBodyList(); b != nil; {
		next := b.GetNext()
		w.world.DestroyBody(b)
		b = next
		n++
	}
	w.disposed = true
	log.Printf("[PhysicsWorld] Disposed (%d bodies destroyed)", n)
}

// Disposed reports whether Dispose has been called.
func (w *World) Disposed() bool {
	return w.disposed
}
