package graphics

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DrawText draws s with face, its top-left corner at the world position (x, y).
// Lines are separated by the face's natural line height. A nil face draws nothing.
func (b *Batch) DrawText(s string, face text.Face, x, y float64) {
	b.mustDraw("DrawText")
	if face == nil || s == "" {
		return
	}
	m := face.Metrics()

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(b.projection)
	op.ColorScale = b.color
	op.Blend = b.blend
	op.Filter = b.filter
	op.LineSpacing = m.HAscent + m.HDescent + m.HLineGap
	text.Draw(b.target, s, face, op)
	b.drawCalls++
}
