// Package layout computes positions for centering images and text, in world units with
// the origin at the top-left corner and y growing downwards.
package layout

// Vec2 is a position in world units.
type Vec2 struct {
	X, Y float64
}

// Center returns the position that centers a width x height box in the world.
func Center(width, height float64, worldWidth, worldHeight int) Vec2 {
	return Vec2{
		X: (float64(worldWidth) - width) / 2,
		Y: (float64(worldHeight) - height) / 2,
	}
}

// CenterX centers a box of the given width horizontally, keeping y.
func CenterX(width float64, worldWidth int, y float64) Vec2 {
	return Vec2{X: (float64(worldWidth) - width) / 2, Y: y}
}

// CenterY centers a box of the given height vertically, keeping x.
func CenterY(height float64, worldHeight int, x float64) Vec2 {
	return Vec2{X: x, Y: (float64(worldHeight) - height) / 2}
}

// CenterOnImage centers a width x height box inside an otherWidth x otherHeight box
// located at otherPosition.
func CenterOnImage(width, height, otherWidth, otherHeight float64, otherPosition Vec2) Vec2 {
	return Vec2{
		X: otherPosition.X + (otherWidth-width)/2,
		Y: otherPosition.Y + (otherHeight-height)/2,
	}
}

// CenterOnSquare is CenterOnImage for square boxes.
func CenterOnSquare(size, otherSize float64, otherPosition Vec2) Vec2 {
	return CenterOnImage(size, size, otherSize, otherSize, otherPosition)
}
