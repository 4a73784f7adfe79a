// Package physics is a thin facade over github.com/ByteArena/box2d: a World that steps
// with a fixed configuration, builders for bodies and fixtures that take pixel units,
// and a debug renderer drawing shapes with ebiten's vector package.
//
// Box2D works in meters; everything in this package that takes or returns pixels says
// so, and converts with PPM.
package physics

import (
	"math"

	"github.com/ByteArena/box2d"
)

// PPM is the number of pixels per Box2D meter.
const PPM = 100.0

// ToBox2D converts pixels to meters.
func ToBox2D(px float64) float64 {
	return px / PPM
}

// ToPixels converts meters to pixels.
func ToPixels(m float64) float64 {
	return m * PPM
}

// VecToBox2D converts a pixel position to a Box2D vector.
func VecToBox2D(x, y float64) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(ToBox2D(x), ToBox2D(y))
}

// VecToPixels converts a Box2D vector to a pixel position.
func VecToPixels(v box2d.B2Vec2) (float64, float64) {
	return ToPixels(v.X), ToPixels(v.Y)
}

// Angle returns a body's rotation in radians, normalized to [-π, π).
func Angle(body *box2d.B2Body) float64 {
	a := math.Mod(body.GetAngle()+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Position returns a body's position in pixels.
func Position(body *box2d.B2Body) (float64, float64) {
	return VecToPixels(body.GetPosition())
}
