package graphics

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Projector supplies the world-to-screen transform used by a Batch.
// camera.Viewport implements it.
type Projector interface {
	// Projection maps world coordinates to screen pixels.
	Projection() ebiten.GeoM
	// Scale is the number of screen pixels per world unit on the X axis.
	Scale() float64
}

// DrawOp describes one image draw issued by a Batch.
type DrawOp struct {
	Image   *ebiten.Image
	Options ebiten.DrawImageOptions
}

// Batch is the draw context handed to screens and transitions.
//
// Every draw call must be bracketed by Begin and End, mirroring the engine's
// sprite batches: Begin binds the destination image and snapshots the projection,
// End unbinds it. Calling Begin twice, or drawing or calling End outside a
// Begin/End pair, is a programming error and panics.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	target     *ebiten.Image
	projector  Projector
	projection ebiten.GeoM
	observer   func(DrawOp)
	color      ebiten.ColorScale
	blend      ebiten.Blend
	filter     ebiten.Filter
	drawing    bool
	drawCalls  int
}

// NewBatch creates a Batch with an identity projection.
func NewBatch() *Batch {
	b := &Batch{
		blend:  ebiten.BlendSourceOver,
		filter: ebiten.FilterLinear,
	}
	b.color.Reset()
	return b
}

// SetProjection sets the projector consulted on the next Begin.
// A nil projector restores the identity projection.
func (b *Batch) SetProjection(p Projector) {
	b.projector = p
	if b.drawing {
		b.snapshotProjection()
	}
}

// SetObserver registers fn to receive every image draw after it is issued.
// A nil fn removes the observer.
func (b *Batch) SetObserver(fn func(DrawOp)) {
	b.observer = fn
}

// Projection returns the transform currently applied to world-space draws.
func (b *Batch) Projection() ebiten.GeoM {
	if !b.drawing {
		b.snapshotProjection()
	}
	return b.projection
}

// Begin binds dst as the destination for subsequent draw calls.
func (b *Batch) Begin(dst *ebiten.Image) {
	if b.drawing {
		panic("graphics: Batch.Begin called while already drawing; call End first")
	}
	if dst == nil {
		panic("graphics: Batch.Begin called with a nil destination")
	}
	b.target = dst
	b.drawing = true
	b.drawCalls = 0
	b.snapshotProjection()
}

// End unbinds the destination image and resets the tint.
func (b *Batch) End() {
	if !b.drawing {
		panic("graphics: Batch.End called before Batch.Begin")
	}
	b.target = nil
	b.drawing = false
	b.color.Reset()
	b.blend = ebiten.BlendSourceOver
}

// Drawing reports whether the batch is between Begin and End.
func (b *Batch) Drawing() bool {
	return b.drawing
}

// Target returns the bound destination, or nil outside Begin/End.
func (b *Batch) Target() *ebiten.Image {
	return b.target
}

// DrawCalls returns the number of draw calls issued since the last Begin.
func (b *Batch) DrawCalls() int {
	return b.drawCalls
}

// SetColor sets the tint applied to subsequent draws. Components are
// straight (non-premultiplied) values in [0, 1].
func (b *Batch) SetColor(r, g, bl, a float32) {
	b.color.Reset()
	b.color.Scale(r*a, g*a, bl*a, a)
}

// ResetColor restores the neutral white tint.
func (b *Batch) ResetColor() {
	b.color.Reset()
}

// SetBlend sets the blend mode used by subsequent draws until End.
func (b *Batch) SetBlend(blend ebiten.Blend) {
	b.blend = blend
}

// SetFilter sets the sampling filter used by subsequent draws.
func (b *Batch) SetFilter(filter ebiten.Filter) {
	b.filter = filter
}

// Clear clears the bound destination to transparent black.
func (b *Batch) Clear() {
	b.mustDraw("Clear")
	b.target.Clear()
}

// Fill fills the bound destination with a solid color.
func (b *Batch) Fill(clr color.Color) {
	b.mustDraw("Fill")
	b.target.Fill(clr)
}

// Draw draws img into the world-space rectangle (x, y, w, h).
func (b *Batch) Draw(img *ebiten.Image, x, y, w, h float64) {
	b.DrawRegion(NewRegion(img), x, y, w, h)
}

// DrawRegion draws r into the world-space rectangle (x, y, w, h), honouring its flips.
func (b *Batch) DrawRegion(r Region, x, y, w, h float64) {
	b.mustDraw("DrawRegion")
	if !r.Valid() {
		return
	}
	op := b.options()
	op.GeoM = r.GeoM(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(b.projection)
	b.drawImage(r.Image, op)
}

// DrawView draws r at its natural pixel size in screen space, offset by (x, y)
// target pixels. The projection is not applied, so transitions can move full-frame
// render targets regardless of viewport scaling. alpha multiplies the current tint.
func (b *Batch) DrawView(r Region, x, y float64, alpha float32) {
	b.mustDraw("DrawView")
	if !r.Valid() {
		return
	}
	w, h := r.Size()
	op := b.options()
	op.GeoM = r.GeoM(float64(w), float64(h))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	b.drawImage(r.Image, op)
}

func (b *Batch) drawImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	b.target.DrawImage(img, op)
	b.drawCalls++
	if b.observer != nil {
		b.observer(DrawOp{Image: img, Options: *op})
	}
}

func (b *Batch) options() *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.ColorScale = b.color
	op.Blend = b.blend
	op.Filter = b.filter
	return op
}

func (b *Batch) snapshotProjection() {
	b.projection = ebiten.GeoM{}
	if b.projector != nil {
		b.projection = b.projector.Projection()
	}
}

func (b *Batch) mustDraw(op string) {
	if !b.drawing {
		panic("graphics: Batch." + op + " called outside Begin/End")
	}
}
