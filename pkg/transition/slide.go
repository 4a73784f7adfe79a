package transition

import (
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

const (
	// DefaultLerp is the fraction of the remaining distance a slide covers per frame.
	DefaultLerp = 0.1
	// SlideErrorMargin is how close, in world units, the incoming frame must get to its
	// resting position for the slide to count as completed.
	SlideErrorMargin = 0.15
)

// Motion is the direction of a horizontal slide.
type Motion int

const (
	// RightLeft pushes the outgoing frame off to the left; the incoming one enters from the right.
	RightLeft Motion = iota
	// LeftRight pushes the outgoing frame off to the right; the incoming one enters from the left.
	LeftRight
)

func (m Motion) String() string {
	switch m {
	case RightLeft:
		return "right-left"
	case LeftRight:
		return "left-right"
	}
	return fmt.Sprintf("Motion(%d)", int(m))
}

// ParseMotion parses "right-left" or "left-right".
func ParseMotion(s string) (Motion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right-left", "rightleft", "right_left":
		return RightLeft, nil
	case "left-right", "leftright", "left_right":
		return LeftRight, nil
	}
	return RightLeft, fmt.Errorf("unknown slide motion %q", s)
}

// endpoints returns the start and end x positions of both frames for a world width.
func (m Motion) endpoints(width float64) (currentStart, nextStart, currentEnd, nextEnd float64) {
	if m == LeftRight {
		return 0, -width, width, 0
	}
	return 0, width, -width, 0
}

// HorizontalSlide pushes the outgoing frame out of view while the incoming one slides in.
//
// Each Update moves both frames a fixed fraction of their remaining distance, so the
// approach decelerates and never lands exactly. Completed therefore checks the
// incoming frame against SlideErrorMargin instead of the running flag.
type HorizontalSlide struct {
	Base
	motion Motion
	width  float64
	lerp   float64

	currentX float64
	nextX    float64
}

var _ Transition = (*HorizontalSlide)(nil)

// NewHorizontalSlide creates a slide across a world width wide. A lerp outside (0, 1]
// uses DefaultLerp.
func NewHorizontalSlide(motion Motion, width, lerp float64) *HorizontalSlide {
	if !(lerp > 0 && lerp <= 1) {
		lerp = DefaultLerp
	}
	s := &HorizontalSlide{
		motion: motion,
		width:  width,
		lerp:   lerp,
	}
	s.reset()
	return s
}

// Start moves both frames to their starting positions and starts the slide.
func (s *HorizontalSlide) Start() {
	s.reset()
	s.Base.Start()
}

func (s *HorizontalSlide) reset() {
	s.currentX, s.nextX, _, _ = s.motion.endpoints(s.width)
}

// Update moves both frames towards their resting positions while running.
func (s *HorizontalSlide) Update(delta float64) {
	if !s.Running() {
		return
	}
	_, _, currentEnd, nextEnd := s.motion.endpoints(s.width)
	s.currentX += (currentEnd - s.currentX) * s.lerp
	s.nextX += (nextEnd - s.nextX) * s.lerp
}

// Completed reports whether the incoming frame is within SlideErrorMargin of its resting position.
func (s *HorizontalSlide) Completed() bool {
	_, _, _, nextEnd := s.motion.endpoints(s.width)
	return math.Abs(s.nextX-nextEnd) <= SlideErrorMargin
}

// Positions returns the current x offsets of the outgoing and incoming frames in world units.
func (s *HorizontalSlide) Positions() (current, next float64) {
	return s.currentX, s.nextX
}

// Motion returns the slide direction.
func (s *HorizontalSlide) Motion() Motion {
	return s.motion
}

// PixelPositions converts Positions to pixel offsets for frames targetWidth pixels
// wide, so that sliding one world width moves a frame exactly one target width.
func (s *HorizontalSlide) PixelPositions(targetWidth int) (current, next float64) {
	if s.width <= 0 {
		return s.currentX, s.nextX
	}
	k := float64(targetWidth) / s.width
	return s.currentX * k, s.nextX * k
}

// Composite clears the target and copies both frames at their current offsets, opaque.
func (s *HorizontalSlide) Composite(batch *graphics.Batch, current, next graphics.Region) {
	w, _ := current.Size()
	cx, nx := s.PixelPositions(w)

	batch.Clear()
	batch.SetBlend(ebiten.BlendCopy)
	batch.DrawView(current, cx, 0, 1)
	batch.DrawView(next, nx, 0, 1)
}
