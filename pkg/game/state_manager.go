package game

import (
	"errors"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/camera"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
	"github.com/ImXico/Cyberpunk/pkg/input"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

var (
	// ErrNotInitialized is returned by GoTo before Initialize (or after Dispose).
	ErrNotInitialized = errors.New("state manager not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("state manager already initialized")
	// ErrDisposed is returned by Initialize after Dispose.
	ErrDisposed = errors.New("state manager disposed")
	// ErrNilScreen is returned when GoTo is given a nil screen.
	ErrNilScreen = errors.New("screen is nil")
	// ErrNilViewport is returned when Initialize is given no viewport.
	ErrNilViewport = errors.New("viewport is nil")
	// ErrScreenInUse is returned when GoTo is given the active or pending screen.
	ErrScreenInUse = errors.New("screen is already active or pending")
)

// StateManager decides what is on screen.
//
// It holds exactly one active screen, at most one pending screen and at most one
// transition. A screen change with a transition keeps drawing the outgoing screen
// into an offscreen target until the transition completes; completion is detected by
// polling the transition in Render, which then promotes the pending screen and
// disposes the previous one.
//
// All methods must be called from the game loop goroutine. Calling GoTo from inside
// a screen's Draw is not supported.
type StateManager struct {
	camera     *camera.Camera
	viewport   *camera.Viewport
	batch      *graphics.Batch
	compositor *transition.Compositor
	router     *input.Router

	active     Screen
	pending    Screen
	transition transition.Transition

	initialized bool
	disposed    bool

	screenshot     io.Writer
	screenshotDone func(error)
}

// NewStateManager creates an uninitialized manager. Input is polled from ebiten.
func NewStateManager() *StateManager {
	return NewStateManagerWithInput(nil)
}

// NewStateManagerWithInput creates an uninitialized manager fed by src. A nil src polls ebiten.
func NewStateManagerWithInput(src input.Source) *StateManager {
	return &StateManager{
		batch:  graphics.NewBatch(),
		router: input.NewRouter(src),
	}
}

// Initialize binds the camera and viewport, allocates the compositor at the viewport's
// screen size and, if initial is non-nil, makes it the active screen.
//
// Parameters:
//   - cam: camera used by the viewport; nil uses the viewport's own camera
//   - vp: viewport that projects the world onto the window (required)
//   - initial: first active screen, may be nil
//
// Returns:
//   - error: ErrDisposed, ErrAlreadyInitialized, ErrNilViewport, or an error from GoTo
func (m *StateManager) Initialize(cam *camera.Camera, vp *camera.Viewport, initial Screen) error {
	if m.disposed {
		return ErrDisposed
	}
	if m.initialized {
		return ErrAlreadyInitialized
	}
	if vp == nil {
		return ErrNilViewport
	}
	if cam == nil {
		cam = vp.Camera()
	}

	m.camera = cam
	m.viewport = vp
	m.batch.SetProjection(vp)
	w, h := vp.ScreenSize()
	m.compositor = transition.NewCompositor(w, h)
	m.initialized = true
	log.Printf("[StateManager] Initialized (screen %dx%d)", w, h)

	if initial == nil {
		return nil
	}
	return m.GoTo(initial, nil)
}

// GoTo changes the active screen, optionally through a transition.
//
// Without an active screen, screen becomes active at once. Without a transition, the
// active screen is disposed and replaced at once. With a transition, screen becomes
// pending, input is detached until the transition completes, and the outgoing screen
// keeps being drawn until then; it is disposed when Render promotes screen.
//
// A GoTo issued while another transition is in flight finishes that transition and
// disposes the pending screen it was bringing in.
//
// Every call ends with a resize pass at the viewport's current screen size.
func (m *StateManager) GoTo(screen Screen, t transition.Transition) error {
	if !m.initialized || m.disposed {
		return ErrNotInitialized
	}
	if screen == nil {
		return ErrNilScreen
	}
	if screen == m.active || screen == m.pending {
		return ErrScreenInUse
	}

	switch {
	case m.active == nil:
		if t != nil {
			log.Printf("[StateManager] No active screen to transition from; switching directly")
		}
		m.active = screen
		m.router.SetProcessor(processorOf(screen))

	case t == nil:
		m.abortTransition()
		m.router.SetProcessor(nil)
		disposeScreen(m.active)
		m.active = screen
		m.router.SetProcessor(processorOf(screen))

	default:
		m.abortTransition()
		m.router.SetProcessor(nil)
		m.pending = screen
		m.transition = t
		t.Start()
	}

	m.Resize(m.viewport.ScreenSize())
	return nil
}

// abortTransition discards an in-flight transition and the screen it was bringing in.
func (m *StateManager) abortTransition() {
	if m.transition != nil {
		m.transition.Finish()
		m.transition = nil
	}
	if m.pending != nil {
		log.Printf("[StateManager] Superseding in-flight transition; disposing pending screen")
		disposeScreen(m.pending)
		m.pending = nil
	}
}

// Update advances the active screen, then the transition while it is running.
func (m *StateManager) Update(delta float64) {
	if m.disposed || m.active == nil {
		return
	}
	m.active.Update(delta)
	if m.transition != nil && m.transition.Running() {
		m.transition.Update(delta)
	}
}

// Render draws the current frame into dst.
//
// With no pending screen the active screen is drawn directly. If the transition
// reports completion, the pending screen is promoted first and drawn directly.
// Otherwise both screens are drawn into the compositor and the transition blends them
// into dst.
func (m *StateManager) Render(dst *ebiten.Image) {
	if m.disposed || m.active == nil || dst == nil {
		return
	}

	switch {
	case m.pending == nil:
		m.drawDirect(dst)

	case m.transition == nil || m.transition.Completed():
		m.promote()
		m.drawDirect(dst)

	default:
		m.compositor.RenderInto(transition.TargetCurrent, m.batch, m.active.Draw)
		m.compositor.RenderInto(transition.TargetNext, m.batch, m.pending.Draw)
		current, next := m.compositor.Views()
		m.batch.Begin(dst)
		m.transition.Composite(m.batch, current, next)
		m.batch.End()
	}

	m.captureScreenshot(dst)
}

func (m *StateManager) drawDirect(dst *ebiten.Image) {
	m.batch.Begin(dst)
	m.active.Draw(m.batch)
	m.batch.End()
}

func (m *StateManager) promote() {
	previous := m.active
	m.active = m.pending
	m.pending = nil
	if m.transition != nil {
		m.transition.Finish()
		m.transition = nil
	}
	disposeScreen(previous)
	m.router.SetProcessor(processorOf(m.active))
}

// Resize updates the viewport and projection, forwards the size to the held screens
// and reallocates the compositor. Non-positive sizes are ignored.
func (m *StateManager) Resize(width, height int) {
	if !m.initialized || m.disposed {
		log.Printf("[StateManager] Resize(%d, %d) ignored: not initialized", width, height)
		return
	}
	if width <= 0 || height <= 0 {
		return
	}

	m.viewport.Update(width, height)
	m.batch.SetProjection(m.viewport)
	if r, ok := m.active.(Resizer); ok {
		r.Resize(width, height)
	}
	if r, ok := m.pending.(Resizer); ok {
		r.Resize(width, height)
	}
	m.compositor.Resize(width, height)
}

// Pause forwards to the held screens.
func (m *StateManager) Pause() {
	if p, ok := m.active.(Pauser); ok {
		p.Pause()
	}
	if p, ok := m.pending.(Pauser); ok {
		p.Pause()
	}
}

// Resume forwards to the held screens.
func (m *StateManager) Resume() {
	if p, ok := m.active.(Pauser); ok {
		p.Resume()
	}
	if p, ok := m.pending.(Pauser); ok {
		p.Resume()
	}
}

// Dispose disposes the held screens and releases the compositor. Further calls are no-ops.
func (m *StateManager) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.router.SetProcessor(nil)

	disposeScreen(m.active)
	disposeScreen(m.pending)
	m.active, m.pending = nil, nil
	if m.transition != nil {
		m.transition.Finish()
		m.transition = nil
	}
	if m.compositor != nil {
		m.compositor.Dispose()
	}
	log.Printf("[StateManager] Disposed")
}

// RequestScreenshot captures the next rendered frame as PNG into w. done, if non-nil,
// receives the result.
func (m *StateManager) RequestScreenshot(w io.Writer, done func(error)) {
	m.screenshot = w
	m.screenshotDone = done
}

func (m *StateManager) captureScreenshot(dst *ebiten.Image) {
	if m.screenshot == nil {
		return
	}
	w, done := m.screenshot, m.screenshotDone
	m.screenshot, m.screenshotDone = nil, nil

	err := graphics.Screenshot(dst, w)
	if err != nil {
		log.Printf("[StateManager] Screenshot failed: %v", err)
	}
	if done != nil {
		done(err)
	}
}

// Unproject maps screen pixels to world coordinates through the viewport.
func (m *StateManager) Unproject(sx, sy float64) (float64, float64) {
	if m.viewport == nil {
		return sx, sy
	}
	return m.viewport.Unproject(sx, sy)
}

// Active returns the active screen, or nil.
func (m *StateManager) Active() Screen {
	return m.active
}

// Pending returns the screen being transitioned to, or nil.
func (m *StateManager) Pending() Screen {
	return m.pending
}

// Transition returns the in-flight transition, or nil.
func (m *StateManager) Transition() transition.Transition {
	return m.transition
}

// Transitioning reports whether a screen change is in flight.
func (m *StateManager) Transitioning() bool {
	return m.pending != nil
}

// Initialized reports whether Initialize has succeeded.
func (m *StateManager) Initialized() bool {
	return m.initialized
}

// Camera returns the bound camera.
func (m *StateManager) Camera() *camera.Camera {
	return m.camera
}

// Viewport returns the bound viewport.
func (m *StateManager) Viewport() *camera.Viewport {
	return m.viewport
}

// Compositor returns the offscreen compositor, or nil before Initialize.
func (m *StateManager) Compositor() *transition.Compositor {
	return m.compositor
}

// Input returns the router that delivers input to the active screen.
func (m *StateManager) Input() *input.Router {
	return m.router
}

// Batch returns the shared draw context.
func (m *StateManager) Batch() *graphics.Batch {
	return m.batch
}

func processorOf(s Screen) input.Processor {
	if p, ok := s.(input.Processor); ok {
		return p
	}
	return nil
}

func disposeScreen(s Screen) {
	if s == nil {
		return
	}
	if h, ok := s.(Hider); ok {
		h.Hide()
	}
	s.Dispose()
}
