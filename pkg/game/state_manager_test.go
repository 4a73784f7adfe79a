package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImXico/Cyberpunk/pkg/camera"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
	"github.com/ImXico/Cyberpunk/pkg/input"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

// MockScreen records every lifecycle call it receives.
type MockScreen struct {
	ScreenAdapter
	name string
	log  *[]string

	updates  int
	draws    int
	disposes int
	hides    int
	resizes  int
	pauses   int
	resumes  int
	keysDown int

	lastWidth  int
	lastHeight int
	lastDelta  float64
	drawTarget *ebiten.Image
}

func newMockScreen(name string, log *[]string) *MockScreen {
	return &MockScreen{name: name, log: log}
}

func (m *MockScreen) record(event string) {
	if m.log != nil {
		*m.log = append(*m.log, m.name+"."+event)
	}
}

func (m *MockScreen) Update(delta float64) {
	m.updates++
	m.lastDelta = delta
	m.record("Update")
}

func (m *MockScreen) Draw(batch *graphics.Batch) {
	m.draws++
	m.drawTarget = batch.Target()
	m.record("Draw")
}

func (m *MockScreen) Dispose() {
	m.disposes++
	m.record("Dispose")
}

func (m *MockScreen) Hide() {
	m.hides++
	m.record("Hide")
}

func (m *MockScreen) Resize(w, h int) {
	m.resizes++
	m.lastWidth, m.lastHeight = w, h
}

func (m *MockScreen) Pause()  { m.pauses++ }
func (m *MockScreen) Resume() { m.resumes++ }

func (m *MockScreen) KeyDown(ebiten.Key) bool {
	m.keysDown++
	return true
}

// BareScreen implements only the required methods.
type BareScreen struct {
	disposes int
}

func (b *BareScreen) Update(float64)       {}
func (b *BareScreen) Draw(*graphics.Batch) {}
func (b *BareScreen) Dispose()             { b.disposes++ }

// MockTransition is a transition whose completion is controlled by the test.
type MockTransition struct {
	transition.Base
	log *[]string

	starts     int
	finishes   int
	updates    int
	composites int
	done       bool

	lastCurrent graphics.Region
	lastNext    graphics.Region
}

func (m *MockTransition) Start() {
	m.starts++
	m.Base.Start()
}

func (m *MockTransition) Finish() {
	m.finishes++
	m.Base.Finish()
}

func (m *MockTransition) Completed() bool {
	return m.done
}

func (m *MockTransition) Update(float64) {
	m.updates++
	if m.log != nil {
		*m.log = append(*m.log, "transition.Update")
	}
}

func (m *MockTransition) Composite(batch *graphics.Batch, current, next graphics.Region) {
	m.composites++
	m.lastCurrent, m.lastNext = current, next
}

// stubSource feeds a fixed list of events on every poll.
type stubSource struct {
	events []input.Event
}

func (s *stubSource) Poll() []input.Event {
	return s.events
}

func newTestManager(t *testing.T, initial Screen) *StateManager {
	t.Helper()
	cam := camera.NewCamera(800, 600)
	vp := camera.NewViewport(camera.Fit, 800, 600, cam)
	sm := NewStateManagerWithInput(&stubSource{events: []input.Event{{Kind: input.KeyDown, Key: ebiten.KeySpace}}})
	require.NoError(t, sm.Initialize(cam, vp, initial))
	return sm
}

func TestStateManager_GoToBeforeInitialize(t *testing.T) {
	sm := NewStateManager()
	err := sm.GoTo(newMockScreen("a", nil), nil)
	assert.ErrorIs(t, err, ErrNotInitialized)

	// Frame calls are silent no-ops before initialization.
	sm.Update(0.016)
	sm.Render(ebiten.NewImage(10, 10))
	sm.Resize(100, 100)
	sm.Pause()
	sm.Resume()
	assert.Nil(t, sm.Active())
}

func TestStateManager_Initialize(t *testing.T) {
	first := newMockScreen("first", nil)
	sm := newTestManager(t, first)

	assert.True(t, sm.Initialized())
	assert.Same(t, first, sm.Active())
	assert.Nil(t, sm.Pending())
	assert.Same(t, first, sm.Input().Processor())
	assert.NotNil(t, sm.Camera())
	assert.NotNil(t, sm.Viewport())

	w, h := sm.Compositor().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 1, first.resizes, "GoTo ends with a resize pass")

	err := sm.Initialize(sm.Camera(), sm.Viewport(), nil)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestStateManager_InitializeValidates(t *testing.T) {
	sm := NewStateManager()
	assert.ErrorIs(t, sm.Initialize(nil, nil, nil), ErrNilViewport)

	vp := camera.NewViewport(camera.Stretch, 320, 240, nil)
	require.NoError(t, sm.Initialize(nil, vp, nil))
	assert.Same(t, vp.Camera(), sm.Camera(), "nil camera uses the viewport's")
	assert.Nil(t, sm.Active())
}

func TestStateManager_GoToRejectsNilAndInUseScreens(t *testing.T) {
	a := newMockScreen("a", nil)
	sm := newTestManager(t, a)

	assert.ErrorIs(t, sm.GoTo(nil, nil), ErrNilScreen)
	assert.ErrorIs(t, sm.GoTo(a, nil), ErrScreenInUse)

	b := newMockScreen("b", nil)
	require.NoError(t, sm.GoTo(b, &MockTransition{}))
	assert.ErrorIs(t, sm.GoTo(b, nil), ErrScreenInUse)
	assert.Zero(t, a.disposes)
}

func TestStateManager_GoToWithoutTransition(t *testing.T) {
	sm := newTestManager(t, nil)

	screens := []*MockScreen{
		newMockScreen("s0", nil),
		newMockScreen("s1", nil),
		newMockScreen("s2", nil),
		newMockScreen("s3", nil),
	}
	for i, s := range screens {
		require.NoError(t, sm.GoTo(s, nil))

		assert.Same(t, s, sm.Active())
		assert.Nil(t, sm.Pending())
		assert.False(t, sm.Transitioning())
		assert.Same(t, s, sm.Input().Processor())
		if i > 0 {
			assert.Equal(t, 1, screens[i-1].disposes, "previous screen disposed exactly once")
			assert.Equal(t, 1, screens[i-1].hides)
		}
	}
	for _, s := range screens[:len(screens)-1] {
		assert.Equal(t, 1, s.disposes)
	}
	assert.Zero(t, screens[len(screens)-1].disposes)
}

func TestStateManager_GoToWithTransition(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	tr := &MockTransition{}

	require.NoError(t, sm.GoTo(next, tr))

	assert.Same(t, next, sm.Pending())
	assert.Same(t, old, sm.Active())
	assert.True(t, tr.Running())
	assert.Equal(t, 1, tr.starts)
	assert.True(t, sm.Transitioning())
	assert.Nil(t, sm.Input().Processor(), "input detached while transitioning")
	assert.Zero(t, old.disposes, "outgoing screen disposed on promotion")
	assert.Equal(t, 1, next.resizes)
}

func TestStateManager_FirstGoToIgnoresTransition(t *testing.T) {
	sm := newTestManager(t, nil)
	s := newMockScreen("s", nil)
	tr := &MockTransition{}

	require.NoError(t, sm.GoTo(s, tr))

	assert.Same(t, s, sm.Active())
	assert.Nil(t, sm.Pending())
	assert.Nil(t, sm.Transition())
	assert.Zero(t, tr.starts)
}

func TestStateManager_UpdateOrder(t *testing.T) {
	var calls []string
	old := newMockScreen("old", &calls)
	sm := newTestManager(t, old)
	tr := &MockTransition{log: &calls}
	require.NoError(t, sm.GoTo(newMockScreen("next", &calls), tr))

	sm.Update(0.5)
	assert.Equal(t, []string{"old.Update", "transition.Update"}, calls)
	assert.Equal(t, 0.5, old.lastDelta)

	// A stopped transition is no longer advanced.
	tr.Base.Finish()
	calls = nil
	sm.Update(0.5)
	assert.Equal(t, []string{"old.Update"}, calls)
}

func TestStateManager_RenderWhileTransitioning(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	tr := &MockTransition{}
	require.NoError(t, sm.GoTo(next, tr))

	dst := ebiten.NewImage(800, 600)
	for i := 0; i < 3; i++ {
		sm.Render(dst)
	}

	assert.Same(t, old, sm.Active(), "render must not promote before completion")
	assert.Same(t, next, sm.Pending())
	assert.Equal(t, 3, tr.composites)
	assert.Equal(t, 3, old.draws)
	assert.Equal(t, 3, next.draws)
	assert.Same(t, sm.Compositor().Target(transition.TargetCurrent), old.drawTarget)
	assert.Same(t, sm.Compositor().Target(transition.TargetNext), next.drawTarget)
	assert.Same(t, sm.Compositor().Target(transition.TargetCurrent), tr.lastCurrent.Image)
	assert.Same(t, sm.Compositor().Target(transition.TargetNext), tr.lastNext.Image)
	assert.Zero(t, tr.finishes)
	assert.Zero(t, old.disposes)
}

func TestStateManager_RenderPromotesOnCompletion(t *testing.T) {
	var calls []string
	old := newMockScreen("old", &calls)
	sm := newTestManager(t, old)
	next := newMockScreen("next", &calls)
	tr := &MockTransition{}
	require.NoError(t, sm.GoTo(next, tr))

	dst := ebiten.NewImage(800, 600)
	sm.Render(dst)
	tr.done = true
	calls = nil
	sm.Render(dst)

	assert.Same(t, next, sm.Active())
	assert.Nil(t, sm.Pending())
	assert.Nil(t, sm.Transition())
	assert.Equal(t, 1, tr.finishes)
	assert.Equal(t, 1, old.disposes)
	assert.Equal(t, 1, tr.composites, "completed frame is drawn directly")
	assert.Same(t, dst, next.drawTarget)
	assert.Same(t, next, sm.Input().Processor())
	assert.Equal(t, []string{"old.Hide", "old.Dispose", "next.Draw"}, calls)

	// Further renders keep drawing the new screen without disposing anything again.
	sm.Render(dst)
	assert.Equal(t, 1, old.disposes)
	assert.Equal(t, 1, tr.finishes)
}

func TestStateManager_InputFollowsActiveScreen(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)

	assert.Equal(t, 1, sm.Input().Poll())
	assert.Equal(t, 1, old.keysDown)

	next := newMockScreen("next", nil)
	tr := &MockTransition{}
	require.NoError(t, sm.GoTo(next, tr))
	assert.Equal(t, 0, sm.Input().Poll(), "no screen receives input mid-transition")

	tr.done = true
	sm.Render(ebiten.NewImage(800, 600))
	assert.Equal(t, 1, sm.Input().Poll())
	assert.Equal(t, 1, next.keysDown)
	assert.Equal(t, 1, old.keysDown)
}

func TestStateManager_ScreensWithoutInputGetNoProcessor(t *testing.T) {
	bare := &BareScreen{}
	sm := newTestManager(t, bare)
	assert.Nil(t, sm.Input().Processor())

	// Optional capabilities are skipped silently.
	sm.Resize(1024, 768)
	sm.Pause()
	sm.Resume()
	require.NoError(t, sm.GoTo(newMockScreen("m", nil), nil))
	assert.Equal(t, 1, bare.disposes)
}

func TestStateManager_SupersedeInFlightTransition(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	discarded := newMockScreen("discarded", nil)
	first := &MockTransition{}
	require.NoError(t, sm.GoTo(discarded, first))

	final := newMockScreen("final", nil)
	second := &MockTransition{}
	require.NoError(t, sm.GoTo(final, second))

	assert.Equal(t, 1, discarded.disposes, "discarded pending screen is disposed")
	assert.Equal(t, 1, first.finishes, "superseded transition is finished")
	assert.Same(t, old, sm.Active())
	assert.Same(t, final, sm.Pending())
	assert.Same(t, second, sm.Transition())
	assert.Zero(t, old.disposes)

	second.done = true
	sm.Render(ebiten.NewImage(800, 600))
	assert.Equal(t, 1, old.disposes)
	assert.Equal(t, 1, discarded.disposes)
	assert.Same(t, final, sm.Active())
}

func TestStateManager_GoToWithoutTransitionCancelsInFlight(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	pending := newMockScreen("pending", nil)
	tr := &MockTransition{}
	require.NoError(t, sm.GoTo(pending, tr))

	now := newMockScreen("now", nil)
	require.NoError(t, sm.GoTo(now, nil))

	assert.Same(t, now, sm.Active())
	assert.Nil(t, sm.Pending())
	assert.Nil(t, sm.Transition())
	assert.Equal(t, 1, old.disposes)
	assert.Equal(t, 1, pending.disposes)
	assert.Equal(t, 1, tr.finishes)
}

func TestStateManager_ResizeWithoutScreens(t *testing.T) {
	sm := newTestManager(t, nil)

	assert.NotPanics(t, func() { sm.Resize(1280, 720) })

	w, h := sm.Compositor().Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	img := sm.Compositor().Target(transition.TargetNext)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())

	sw, sh := sm.Viewport().ScreenSize()
	assert.Equal(t, 1280, sw)
	assert.Equal(t, 720, sh)
}

func TestStateManager_ResizeForwardsToHeldScreens(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	require.NoError(t, sm.GoTo(next, &MockTransition{}))

	sm.Resize(1024, 768)
	assert.Equal(t, 1024, old.lastWidth)
	assert.Equal(t, 768, next.lastHeight)

	before := old.resizes
	sm.Resize(0, 768)
	assert.Equal(t, before, old.resizes, "degenerate sizes are ignored")
}

func TestStateManager_PauseResume(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	require.NoError(t, sm.GoTo(next, &MockTransition{}))

	sm.Pause()
	sm.Resume()
	sm.Pause()

	assert.Equal(t, 2, old.pauses)
	assert.Equal(t, 1, old.resumes)
	assert.Equal(t, 2, next.pauses)
	assert.Equal(t, 1, next.resumes)
}

func TestStateManager_Dispose(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	tr := &MockTransition{}
	require.NoError(t, sm.GoTo(next, tr))

	sm.Dispose()
	sm.Dispose()

	assert.Equal(t, 1, old.disposes)
	assert.Equal(t, 1, next.disposes)
	assert.Equal(t, 1, old.hides, "shutdown hides before disposing")
	assert.Equal(t, 1, next.hides)
	assert.Equal(t, 1, tr.finishes)
	assert.True(t, sm.Compositor().Disposed())
	assert.Nil(t, sm.Active())
	assert.Nil(t, sm.Pending())

	assert.ErrorIs(t, sm.GoTo(newMockScreen("late", nil), nil), ErrNotInitialized)
	sm.Update(1)
	sm.Render(ebiten.NewImage(8, 8))
}

func TestStateManager_DisposeHidesBeforeDisposing(t *testing.T) {
	var events []string
	sm := newTestManager(t, newMockScreen("menu", &events))

	sm.Dispose()
	assert.Equal(t, []string{"menu.Hide", "menu.Dispose"}, events)
}

func TestStateManager_InitializeAfterDispose(t *testing.T) {
	sm := NewStateManagerWithInput(&stubSource{})
	sm.Dispose()

	vp := camera.NewViewport(camera.Fit, 64, 48, nil)
	vp.Update(64, 48)
	assert.ErrorIs(t, sm.Initialize(nil, vp, newMockScreen("late", nil)), ErrDisposed)
	assert.False(t, sm.Initialized())
	assert.Nil(t, sm.Active())
}

func TestStateManager_FadeRunsToCompletion(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	fade := transition.NewFade(transition.DefaultFadeSpeed)
	require.NoError(t, sm.GoTo(next, fade))

	dst := ebiten.NewImage(800, 600)
	frames := 0
	for sm.Transitioning() {
		sm.Update(1.0 / 60)
		sm.Render(dst)
		frames++
		require.Less(t, frames, 100)
	}

	// 20 updates reach full opacity; the render in that same frame promotes.
	assert.Equal(t, 20, frames)
	assert.Same(t, next, sm.Active())
	assert.Equal(t, 1, old.disposes)
	assert.Zero(t, next.disposes)
}

func TestStateManager_SlideRunsToCompletion(t *testing.T) {
	old := newMockScreen("old", nil)
	sm := newTestManager(t, old)
	next := newMockScreen("next", nil)
	ww, _ := sm.Viewport().WorldSize()
	slide := transition.NewHorizontalSlide(transition.RightLeft, ww, transition.DefaultLerp)
	require.NoError(t, sm.GoTo(next, slide))

	dst := ebiten.NewImage(800, 600)
	for i := 0; sm.Transitioning(); i++ {
		require.Less(t, i, 1000)
		sm.Update(1.0 / 60)
		sm.Render(dst)
	}
	assert.Same(t, next, sm.Active())
	assert.Equal(t, 1, old.disposes)
}

func TestStateManager_Unproject(t *testing.T) {
	sm := NewStateManager()
	x, y := sm.Unproject(12, 34)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 34.0, y)

	sm = newTestManager(t, nil)
	sm.Resize(1600, 1200)
	x, y = sm.Unproject(1600, 1200)
	assert.InDelta(t, 800, x, 1e-6)
	assert.InDelta(t, 600, y, 1e-6)
}

func TestScreenAdapter_ConsumesNothing(t *testing.T) {
	var a ScreenAdapter
	assert.False(t, a.KeyDown(ebiten.KeyA))
	assert.False(t, a.TouchDown(1, 2, 0, ebiten.MouseButtonLeft))
	assert.False(t, a.Scrolled(0, 1))
	assert.NotPanics(t, func() {
		a.Resize(1, 1)
		a.Pause()
		a.Resume()
		a.Hide()
	})
}
