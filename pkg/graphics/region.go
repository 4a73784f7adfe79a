// Package graphics provides the thin drawing layer shared by screens and transitions:
// a begin/end bracketed Batch that applies the viewport projection, flippable texture
// views (Region), and frame helpers such as ClearScreen and Screenshot.
package graphics

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Region is a view over an image, optionally mirrored on either axis.
//
// Atlas regions and the compositor's render-target views are both Regions, so
// screens and transitions draw them through the same code path.
type Region struct {
	Image *ebiten.Image
	FlipX bool
	FlipY bool
}

// NewRegion returns an unflipped view covering the whole image.
func NewRegion(img *ebiten.Image) Region {
	return Region{Image: img}
}

// Valid reports whether the region points at an image.
func (r Region) Valid() bool {
	return r.Image != nil
}

// Size returns the region's pixel dimensions, or zeros for an invalid region.
func (r Region) Size() (int, int) {
	if r.Image == nil {
		return 0, 0
	}
	b := r.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Flip toggles mirroring on the given axes and returns the new view.
// The receiver is left untouched.
func (r Region) Flip(x, y bool) Region {
	if x {
		r.FlipX = !r.FlipX
	}
	if y {
		r.FlipY = !r.FlipY
	}
	return r
}

// SubRegion returns a view on the rectangle (x, y, w, h), expressed relative to the
// region's own top-left corner. Flip flags are inherited.
func (r Region) SubRegion(x, y, w, h int) Region {
	if r.Image == nil {
		return r
	}
	min := r.Image.Bounds().Min
	rect := image.Rect(min.X+x, min.Y+y, min.X+x+w, min.Y+y+h)
	sub, ok := r.Image.SubImage(rect).(*ebiten.Image)
	if !ok {
		return Region{}
	}
	return Region{Image: sub, FlipX: r.FlipX, FlipY: r.FlipY}
}

// GeoM returns the transform that maps the region into a w x h box whose top-left
// corner sits at the origin, mirroring it first when flipped.
func (r Region) GeoM(w, h float64) ebiten.GeoM {
	var g ebiten.GeoM
	sw, sh := r.Size()
	if sw == 0 || sh == 0 {
		return g
	}
	if r.FlipX {
		g.Scale(-1, 1)
		g.Translate(float64(sw), 0)
	}
	if r.FlipY {
		g.Scale(1, -1)
		g.Translate(0, float64(sh))
	}
	g.Scale(w/float64(sw), h/float64(sh))
	return g
}
