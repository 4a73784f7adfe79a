package transition

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

const (
	// DefaultFadeSpeed is the speed at which a fade advances by DefaultAlphaIncrement per frame.
	DefaultFadeSpeed = 1.5
	// DefaultAlphaIncrement is the per-frame alpha step at DefaultFadeSpeed.
	DefaultAlphaIncrement = 0.05

	maxAlpha = 1.0
	// alphaEpsilon absorbs float accumulation so that ceil(1/step) frames always complete.
	alphaEpsilon = 1e-9
)

// Fade cross-blends the outgoing frame into the incoming one.
//
// Alpha advances by a fixed step per Update regardless of delta, scaled linearly by
// speed: step = speed * DefaultAlphaIncrement / DefaultFadeSpeed. The Update that
// brings alpha to full opacity also stops the transition.
type Fade struct {
	Base
	speed  float64
	step   float64
	frames int
	alpha  float64
}

var _ Transition = (*Fade)(nil)

// NewFade creates a fade. A non-positive speed uses DefaultFadeSpeed.
func NewFade(speed float64) *Fade {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = DefaultFadeSpeed
	}
	return &Fade{
		speed: speed,
		step:  speed * DefaultAlphaIncrement / DefaultFadeSpeed,
	}
}

// Start resets alpha to zero and starts the fade.
func (f *Fade) Start() {
	f.frames = 0
	f.alpha = 0
	f.Base.Start()
}

// Update advances alpha by one step while running.
func (f *Fade) Update(delta float64) {
	if !f.Running() {
		return
	}
	f.frames++
	// Computed from the frame count so rounding does not accumulate.
	f.alpha = float64(f.frames) * f.step
	if f.alpha >= maxAlpha-alphaEpsilon {
		f.Finish()
	}
}

// Alpha returns the incoming frame's opacity. It may slightly exceed 1 on the last frame.
func (f *Fade) Alpha() float64 {
	return f.alpha
}

// Speed returns the fade speed.
func (f *Fade) Speed() float64 {
	return f.speed
}

// Step returns the per-frame alpha increment.
func (f *Fade) Step() float64 {
	return f.step
}

// Composite clears the target, then draws the outgoing frame at 1-alpha and the incoming
// frame at alpha on top of it with source-over blending.
func (f *Fade) Composite(batch *graphics.Batch, current, next graphics.Region) {
	a := math.Min(math.Max(f.alpha, 0), maxAlpha)

	batch.Clear()
	batch.SetBlend(ebiten.BlendSourceOver)
	batch.DrawView(current, 0, 0, float32(1-a))
	batch.DrawView(next, 0, 0, float32(a))
}
