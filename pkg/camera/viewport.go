package camera

import (
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Mode selects how a Viewport maps its world onto the screen.
type Mode int

const (
	// Stretch scales the world to cover the screen exactly, ignoring aspect ratio.
	Stretch Mode = iota
	// Fit keeps the aspect ratio and letterboxes the remaining space.
	Fit
	// Extend keeps the aspect ratio and grows the visible world along the short side.
	Extend
)

// String returns the lowercase name used in configuration files.
func (m Mode) String() string {
	switch m {
	case Stretch:
		return "stretch"
	case Fit:
		return "fit"
	case Extend:
		return "extend"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name as written in configuration files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stretch":
		return Stretch, nil
	case "fit", "":
		return Fit, nil
	case "extend":
		return Extend, nil
	}
	return Fit, fmt.Errorf("unknown viewport mode %q", s)
}

// Viewport maps a camera's world view onto a screen of a given pixel size.
//
// It implements graphics.Projector, so a Batch can draw in world units.
type Viewport struct {
	mode   Mode
	camera *Camera

	baseWorldWidth  float64
	baseWorldHeight float64

	worldWidth  float64
	worldHeight float64

	screenWidth  int
	screenHeight int

	scaleX, scaleY   float64
	offsetX, offsetY float64
}

// NewViewport creates a viewport showing a worldWidth x worldHeight world through cam.
// The viewport starts with a screen of the same size as the world; call Update with the
// real window size.
func NewViewport(mode Mode, worldWidth, worldHeight float64, cam *Camera) *Viewport {
	if cam == nil {
		cam = NewCamera(worldWidth, worldHeight)
	}
	v := &Viewport{
		mode:            mode,
		camera:          cam,
		baseWorldWidth:  worldWidth,
		baseWorldHeight: worldHeight,
	}
	v.Update(int(math.Round(worldWidth)), int(math.Round(worldHeight)))
	return v
}

// Mode returns the scaling mode.
func (v *Viewport) Mode() Mode {
	return v.mode
}

// SetMode switches the scaling mode and recomputes the mapping for the last screen size.
func (v *Viewport) SetMode(mode Mode) {
	v.mode = mode
	v.Update(v.screenWidth, v.screenHeight)
}

// Camera returns the camera the viewport projects through.
func (v *Viewport) Camera() *Camera {
	return v.camera
}

// Update recomputes the mapping for a screen of screenWidth x screenHeight pixels.
// Non-positive sizes are ignored.
func (v *Viewport) Update(screenWidth, screenHeight int) {
	if screenWidth <= 0 || screenHeight <= 0 || v.baseWorldWidth <= 0 || v.baseWorldHeight <= 0 {
		return
	}
	v.screenWidth = screenWidth
	v.screenHeight = screenHeight

	sw, sh := float64(screenWidth), float64(screenHeight)
	v.worldWidth = v.baseWorldWidth
	v.worldHeight = v.baseWorldHeight
	v.offsetX, v.offsetY = 0, 0

	switch v.mode {
	case Stretch:
		v.scaleX = sw / v.baseWorldWidth
		v.scaleY = sh / v.baseWorldHeight
	case Fit:
		s := math.Min(sw/v.baseWorldWidth, sh/v.baseWorldHeight)
		v.scaleX, v.scaleY = s, s
		v.offsetX = (sw - v.baseWorldWidth*s) / 2
		v.offsetY = (sh - v.baseWorldHeight*s) / 2
	case Extend:
		s := math.Min(sw/v.baseWorldWidth, sh/v.baseWorldHeight)
		v.scaleX, v.scaleY = s, s
		v.worldWidth = sw / s
		v.worldHeight = sh / s
	}

	v.camera.SetViewportSize(v.worldWidth, v.worldHeight)
}

// Projection returns the world-to-screen transform: camera view, viewport scale,
// then letterbox offset.
func (v *Viewport) Projection() ebiten.GeoM {
	g := v.camera.View()
	g.Scale(v.scaleX, v.scaleY)
	g.Translate(v.offsetX, v.offsetY)
	return g
}

// Scale returns the number of screen pixels per world unit on the X axis.
func (v *Viewport) Scale() float64 {
	return v.scaleX
}

// Project maps a world position to screen pixels.
func (v *Viewport) Project(wx, wy float64) (float64, float64) {
	g := v.Projection()
	return g.Apply(wx, wy)
}

// Unproject maps a screen position (e.g. the cursor) to world coordinates.
// A degenerate projection returns the input unchanged.
func (v *Viewport) Unproject(sx, sy float64) (float64, float64) {
	g := v.Projection()
	if !g.IsInvertible() {
		return sx, sy
	}
	g.Invert()
	return g.Apply(sx, sy)
}

// WorldSize returns the visible world size in world units. In Extend mode this may
// exceed the configured world size.
func (v *Viewport) WorldSize() (float64, float64) {
	return v.worldWidth, v.worldHeight
}

// ScreenSize returns the last screen size passed to Update.
func (v *Viewport) ScreenSize() (int, int) {
	return v.screenWidth, v.screenHeight
}

// ScreenOffset returns the letterbox offset in screen pixels.
func (v *Viewport) ScreenOffset() (float64, float64) {
	return v.offsetX, v.offsetY
}
