package transition

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImXico/Cyberpunk/pkg/camera"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

func TestBase_CompletedIsNotRunning(t *testing.T) {
	var b Base
	assert.False(t, b.Running())
	assert.True(t, b.Completed())

	b.Start()
	assert.True(t, b.Running())
	assert.False(t, b.Completed())

	b.Finish()
	assert.False(t, b.Running())
	assert.True(t, b.Completed())
}

func TestNewFade_Step(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		wantStep float64
	}{
		{"default speed", DefaultFadeSpeed, DefaultAlphaIncrement},
		{"double speed", 3, 0.1},
		{"half speed", 0.75, 0.025},
		{"zero falls back", 0, DefaultAlphaIncrement},
		{"negative falls back", -2, DefaultAlphaIncrement},
		{"NaN falls back", math.NaN(), DefaultAlphaIncrement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFade(tt.speed)
			assert.InDelta(t, tt.wantStep, f.Step(), 1e-12)
		})
	}
}

func TestFade_CompletesAfterCeilOneOverStepUpdates(t *testing.T) {
	for _, speed := range []float64{0.5, 0.75, 1, 1.5, 2, 3, 7} {
		f := NewFade(speed)
		f.Start()
		n := int(math.Ceil(1/f.Step() - 1e-9))

		for i := 1; i < n; i++ {
			f.Update(1.0 / 60)
			require.True(t, f.Running(), "speed %v: still running after %d of %d updates", speed, i, n)
			require.False(t, f.Completed())
			require.Less(t, f.Alpha(), 1.0)
		}

		// The update that reaches full opacity stops the fade in the same call.
		f.Update(1.0 / 60)
		assert.False(t, f.Running(), "speed %v", speed)
		assert.True(t, f.Completed(), "speed %v", speed)
		assert.GreaterOrEqual(t, f.Alpha(), 1.0-1e-9)
	}
}

func TestFade_UpdateIsNoOpWhenNotRunning(t *testing.T) {
	f := NewFade(DefaultFadeSpeed)
	f.Update(1)
	assert.Zero(t, f.Alpha())

	f.Start()
	f.Update(1)
	f.Finish()
	alpha := f.Alpha()
	f.Update(1)
	assert.Equal(t, alpha, f.Alpha())
}

func TestFade_StartResetsAlpha(t *testing.T) {
	f := NewFade(3)
	f.Start()
	for f.Running() {
		f.Update(0)
	}
	require.NotZero(t, f.Alpha())

	f.Start()
	assert.Zero(t, f.Alpha())
	assert.True(t, f.Running())
}

func TestFade_IgnoresDelta(t *testing.T) {
	a, b := NewFade(1.5), NewFade(1.5)
	a.Start()
	b.Start()
	a.Update(0.001)
	b.Update(10)
	assert.Equal(t, a.Alpha(), b.Alpha())
}

func TestHorizontalSlide_StartPositions(t *testing.T) {
	tests := []struct {
		motion      Motion
		wantCurrent float64
		wantNext    float64
	}{
		{RightLeft, 0, 800},
		{LeftRight, 0, -800},
	}
	for _, tt := range tests {
		t.Run(tt.motion.String(), func(t *testing.T) {
			s := NewHorizontalSlide(tt.motion, 800, DefaultLerp)
			s.Start()
			cur, next := s.Positions()
			assert.Equal(t, tt.wantCurrent, cur)
			assert.Equal(t, tt.wantNext, next)
			assert.False(t, s.Completed())
		})
	}
}

func TestHorizontalSlide_RightLeftConvergesWithinMargin(t *testing.T) {
	s := NewHorizontalSlide(RightLeft, 800, DefaultLerp)
	s.Start()

	updates := 0
	for !s.Completed() {
		_, next := s.Positions()
		require.Greater(t, math.Abs(next), SlideErrorMargin, "completed must not lag the threshold")
		s.Update(1.0 / 60)
		updates++
		require.Less(t, updates, 1000, "slide never converged")
	}

	cur, next := s.Positions()
	assert.LessOrEqual(t, math.Abs(next), SlideErrorMargin)
	assert.InDelta(t, -800, cur, 1)
	// 800 * 0.9^n <= 0.15 first holds at n = 82.
	assert.Equal(t, 82, updates)
	// Completion does not depend on the running flag.
	assert.True(t, s.Running())
}

func TestHorizontalSlide_LeftRightMovesTheOtherWay(t *testing.T) {
	s := NewHorizontalSlide(LeftRight, 640, 0.5)
	s.Start()
	s.Update(0)

	cur, next := s.Positions()
	assert.InDelta(t, 320, cur, 1e-9)
	assert.InDelta(t, -320, next, 1e-9)
}

func TestHorizontalSlide_UpdateIsNoOpWhenNotRunning(t *testing.T) {
	s := NewHorizontalSlide(RightLeft, 800, DefaultLerp)
	s.Update(0)
	_, next := s.Positions()
	assert.Equal(t, 800.0, next)
}

func TestHorizontalSlide_InvalidLerpFallsBack(t *testing.T) {
	for _, lerp := range []float64{0, -1, 1.5, math.NaN()} {
		s := NewHorizontalSlide(RightLeft, 100, lerp)
		s.Start()
		s.Update(0)
		_, next := s.Positions()
		assert.InDelta(t, 90, next, 1e-9, "lerp %v", lerp)
	}
}

func TestParseMotion(t *testing.T) {
	m, err := ParseMotion("left-right")
	require.NoError(t, err)
	assert.Equal(t, LeftRight, m)

	m, err = ParseMotion("RIGHT_LEFT")
	require.NoError(t, err)
	assert.Equal(t, RightLeft, m)

	_, err = ParseMotion("up-down")
	assert.Error(t, err)
}

// recordDraws collects every image draw the batch issues.
func recordDraws(batch *graphics.Batch) *[]graphics.DrawOp {
	var ops []graphics.DrawOp
	batch.SetObserver(func(op graphics.DrawOp) { ops = append(ops, op) })
	return &ops
}

func translation(op graphics.DrawOp) (float64, float64) {
	return op.Options.GeoM.Element(0, 2), op.Options.GeoM.Element(1, 2)
}

func TestComposite_OwnsTheFrame(t *testing.T) {
	dst := ebiten.NewImage(64, 48)
	cur := graphics.NewRegion(ebiten.NewImage(64, 48))
	next := graphics.NewRegion(ebiten.NewImage(64, 48))

	for _, tr := range []Transition{NewFade(DefaultFadeSpeed), NewHorizontalSlide(RightLeft, 64, DefaultLerp)} {
		batch := graphics.NewBatch()
		tr.Start()
		tr.Update(0)

		batch.Begin(dst)
		tr.Composite(batch, cur, next)
		assert.Equal(t, 2, batch.DrawCalls())
		batch.End()
	}
}

func TestFade_CompositeDrawsOutgoingThenIncoming(t *testing.T) {
	dst := ebiten.NewImage(64, 48)
	cur := graphics.NewRegion(ebiten.NewImage(64, 48))
	next := graphics.NewRegion(ebiten.NewImage(64, 48))

	f := NewFade(DefaultFadeSpeed)
	f.Start()
	for i := 0; i < 5; i++ {
		f.Update(0)
	}
	a := f.Alpha()
	require.InDelta(t, 0.25, a, 1e-9)

	batch := graphics.NewBatch()
	ops := recordDraws(batch)
	batch.Begin(dst)
	f.Composite(batch, cur, next)
	batch.End()

	require.Len(t, *ops, 2)
	assert.Same(t, cur.Image, (*ops)[0].Image, "outgoing frame first")
	assert.Same(t, next.Image, (*ops)[1].Image, "incoming frame on top")
	assert.InDelta(t, 1-a, (*ops)[0].Options.ColorScale.A(), 1e-6)
	assert.InDelta(t, a, (*ops)[1].Options.ColorScale.A(), 1e-6)
	for _, op := range *ops {
		x, y := translation(op)
		assert.Zero(t, x)
		assert.Zero(t, y)
		assert.Equal(t, ebiten.BlendSourceOver, op.Options.Blend)
	}
}

func TestHorizontalSlide_CompositeOffsets(t *testing.T) {
	dst := ebiten.NewImage(64, 48)
	cur := graphics.NewRegion(ebiten.NewImage(64, 48))
	next := graphics.NewRegion(ebiten.NewImage(64, 48))

	// World 32 wide rendered into 64 pixel targets.
	s := NewHorizontalSlide(RightLeft, 32, 0.5)
	s.Start()

	batch := graphics.NewBatch()
	ops := recordDraws(batch)
	for frame := 0; frame < 3; frame++ {
		*ops = (*ops)[:0]
		batch.Begin(dst)
		s.Composite(batch, cur, next)
		batch.End()

		cx, nx := s.Positions()
		require.Len(t, *ops, 2)
		x0, _ := translation((*ops)[0])
		x1, _ := translation((*ops)[1])
		assert.InDelta(t, cx*2, x0, 1e-9, "frame %d", frame)
		assert.InDelta(t, nx*2, x1, 1e-9, "frame %d", frame)
		assert.Equal(t, ebiten.BlendCopy, (*ops)[1].Options.Blend)
		assert.InDelta(t, 1, (*ops)[1].Options.ColorScale.A(), 1e-6, "slides are opaque")

		s.Update(0)
	}
}

func TestHorizontalSlide_StartsOneTargetWidthAwayWhenLetterboxed(t *testing.T) {
	vp := camera.NewViewport(camera.Fit, 800, 480, nil)
	vp.Update(1000, 480)
	ox, _ := vp.ScreenOffset()
	require.Equal(t, 100.0, ox, "fit adds side bars")

	c := NewCompositor(vp.ScreenSize())
	defer c.Dispose()
	cur, next := c.Views()

	batch := graphics.NewBatch()
	batch.SetProjection(vp)
	ops := recordDraws(batch)

	for _, tt := range []struct {
		motion       Motion
		wantCurrent  float64
		wantIncoming float64
	}{
		{RightLeft, 0, 1000},
		{LeftRight, 0, -1000},
	} {
		*ops = (*ops)[:0]
		s := NewHorizontalSlide(tt.motion, 800, DefaultLerp)
		s.Start()

		batch.Begin(ebiten.NewImage(1000, 480))
		s.Composite(batch, cur, next)
		batch.End()

		require.Len(t, *ops, 2)
		x0, _ := translation((*ops)[0])
		x1, _ := translation((*ops)[1])
		assert.InDelta(t, tt.wantCurrent, x0, 1e-9, tt.motion.String())
		assert.InDelta(t, tt.wantIncoming, x1, 1e-9, tt.motion.String())
	}
}

func TestHorizontalSlide_PixelPositions(t *testing.T) {
	s := NewHorizontalSlide(LeftRight, 400, DefaultLerp)
	s.Start()
	cx, nx := s.PixelPositions(1000)
	assert.Equal(t, 0.0, cx)
	assert.Equal(t, -1000.0, nx)

	zero := NewHorizontalSlide(RightLeft, 0, DefaultLerp)
	cx, nx = zero.PixelPositions(1000)
	assert.Zero(t, cx)
	assert.Zero(t, nx)
}

func TestComposite_RequiresBoundBatch(t *testing.T) {
	r := graphics.NewRegion(ebiten.NewImage(4, 4))
	assert.Panics(t, func() { NewFade(1).Composite(graphics.NewBatch(), r, r) })
}
