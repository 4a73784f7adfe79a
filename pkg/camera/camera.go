// Package camera provides an orthographic 2D camera with follow styles and a
// viewport that maps the camera's world view onto the window.
//
// Coordinates are y-down, matching ebiten: the camera position is the world point
// drawn at the centre of the viewport.
package camera

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Camera is a 2D orthographic camera.
type Camera struct {
	X, Y float64
	// Zoom multiplies world distances; 1 means one world unit per viewport unit.
	Zoom float64

	viewportWidth  float64
	viewportHeight float64
}

// NewCamera creates a camera whose view is viewportWidth x viewportHeight world units,
// positioned so the world origin sits at the top-left corner of the view.
func NewCamera(viewportWidth, viewportHeight float64) *Camera {
	c := &Camera{Zoom: 1}
	c.SetViewportSize(viewportWidth, viewportHeight)
	c.X = viewportWidth / 2
	c.Y = viewportHeight / 2
	return c
}

// SetViewportSize sets the size of the camera's view in world units.
// The viewport calls this whenever it recomputes its world dimensions.
func (c *Camera) SetViewportSize(w, h float64) {
	c.viewportWidth = w
	c.viewportHeight = h
}

// ViewportSize returns the size of the camera's view in world units.
func (c *Camera) ViewportSize() (float64, float64) {
	return c.viewportWidth, c.viewportHeight
}

// Position returns the camera position.
func (c *Camera) Position() (float64, float64) {
	return c.X, c.Y
}

// View returns the world-to-view transform: the camera position is moved to the
// centre of the view and distances are scaled by Zoom.
func (c *Camera) View() ebiten.GeoM {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	var g ebiten.GeoM
	g.Translate(-c.X, -c.Y)
	g.Scale(zoom, zoom)
	g.Translate(c.viewportWidth/2, c.viewportHeight/2)
	return g
}

// Center places the camera in the middle of a worldWidth x worldHeight world.
func (c *Camera) Center(worldWidth, worldHeight float64) {
	c.X = worldWidth / 2
	c.Y = worldHeight / 2
}

// LockOn makes the camera follow the target rigidly.
func (c *Camera) LockOn(x, y float64) {
	c.X = x
	c.Y = y
}

// LockOnX follows the target rigidly on the horizontal axis and keeps the camera
// yOffset away from it vertically.
func (c *Camera) LockOnX(x, y, yOffset float64) {
	c.X = x
	c.Y = y + yOffset
}

// LockOnY follows the target rigidly on the vertical axis and keeps the camera
// xOffset away from it horizontally.
func (c *Camera) LockOnY(x, y, xOffset float64) {
	c.X = x + xOffset
	c.Y = y
}

// LerpTo moves the camera a fraction of the way towards the target.
//
// Parameters:
//   - x, y: target position
//   - lerp: fraction of the remaining distance covered this call, in (0, 1];
//     lower values follow more smoothly and more slowly
//   - xOffset, yOffset: added to the new position after interpolating
func (c *Camera) LerpTo(x, y, lerp, xOffset, yOffset float64) {
	c.X += (x-c.X)*lerp + xOffset
	c.Y += (y-c.Y)*lerp + yOffset
}
