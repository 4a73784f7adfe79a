package physics

import (
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// Outline colors, following Box2D's own debug draw.
var (
	colorStatic    = color.RGBA{R: 128, G: 230, B: 128, A: 255}
	colorKinematic = color.RGBA{R: 128, G: 128, B: 230, A: 255}
	colorDynamic   = color.RGBA{R: 230, G: 179, B: 179, A: 255}
	colorAsleep    = color.RGBA{R: 153, G: 153, B: 153, A: 255}
	colorInactive  = color.RGBA{R: 128, G: 128, B: 77, A: 255}
)

// Debugger draws body outlines. Without a projector it stretches the world over the
// screen size given to Resize.
type Debugger struct {
	worldWidth, worldHeight   int
	screenWidth, screenHeight int

	// StrokeWidth is the outline width in screen pixels.
	StrokeWidth float32
}

// NewDebugger creates a debugger for a world of the given pixel size. The screen size
// starts equal to the world size.
func NewDebugger(worldWidth, worldHeight int) *Debugger {
	return &Debugger{
		worldWidth:   worldWidth,
		worldHeight:  worldHeight,
		screenWidth:  worldWidth,
		screenHeight: worldHeight,
		StrokeWidth:  1,
	}
}

// Resize records the screen size. Non-positive sizes are ignored.
func (d *Debugger) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.screenWidth, d.screenHeight = width, height
}

// transform returns the world-pixel to screen mapping and its horizontal scale.
func (d *Debugger) transform(proj graphics.Projector) (ebiten.GeoM, float64) {
	if proj != nil {
		return proj.Projection(), proj.Scale()
	}
	var g ebiten.GeoM
	sx, sy := 1.0, 1.0
	if d.worldWidth > 0 && d.worldHeight > 0 {
		sx = float64(d.screenWidth) / float64(d.worldWidth)
		sy = float64(d.screenHeight) / float64(d.worldHeight)
	}
	g.Scale(sx, sy)
	return g, sx
}

// Draw outlines every fixture of every body in w.
func (d *Debugger) Draw(dst *ebiten.Image, w *World, proj graphics.Projector) {
	geo, scale := d.transform(proj)
	w.Bodies(func(body *box2d.B2Body) {
		clr := bodyColor(body)
		xf := body.GetTransform()
		for f := body.GetFixtureList(); f != nil; f = f.GetNext() {
			d.drawShape(dst, f.GetShape(), xf, geo, scale, clr)
		}
	})
}

func (d *Debugger) drawShape(dst *ebiten.Image, shape box2d.B2ShapeInterface, xf box2d.B2Transform, geo ebiten.GeoM, scale float64, clr color.Color) {
	switch s := shape.(type) {
	case *box2d.B2CircleShape:
		cx, cy := toScreen(geo, xf, s.M_p)
		r := float32(ToPixels(s.M_radius) * scale)
		vector.StrokeCircle(dst, cx, cy, r, d.StrokeWidth, clr, true)
		// radius line shows the rotation
		ex, ey := toScreen(geo, xf, box2d.MakeB2Vec2(s.M_p.X+s.M_radius, s.M_p.Y))
		vector.StrokeLine(dst, cx, cy, ex, ey, d.StrokeWidth, clr, true)
	case *box2d.B2PolygonShape:
		d.strokePath(dst, s.M_vertices[:s.M_count], true, xf, geo, clr)
	case *box2d.B2ChainShape:
		d.strokePath(dst, s.M_vertices[:s.M_count], false, xf, geo, clr)
	case *box2d.B2EdgeShape:
		d.strokePath(dst, []box2d.B2Vec2{s.M_vertex1, s.M_vertex2}, false, xf, geo, clr)
	}
}

func (d *Debugger) strokePath(dst *ebiten.Image, vertices []box2d.B2Vec2, closed bool, xf box2d.B2Transform, geo ebiten.GeoM, clr color.Color) {
	n := len(vertices)
	if n < 2 {
		return
	}
	segments := n - 1
	if closed {
		segments = n
	}
	for i := 0; i < segments; i++ {
		x0, y0 := toScreen(geo, xf, vertices[i])
		x1, y1 := toScreen(geo, xf, vertices[(i+1)%n])
		vector.StrokeLine(dst, x0, y0, x1, y1, d.StrokeWidth, clr, true)
	}
}

// toScreen maps a body-local point in meters to screen pixels.
func toScreen(geo ebiten.GeoM, xf box2d.B2Transform, local box2d.B2Vec2) (float32, float32) {
	wx, wy := VecToPixels(box2d.B2TransformVec2Mul(xf, local))
	sx, sy := geo.Apply(wx, wy)
	return float32(sx), float32(sy)
}

func bodyColor(body *box2d.B2Body) color.Color {
	switch {
	case !body.IsActive():
		return colorInactive
	case body.GetType() == box2d.B2BodyType.B2_staticBody:
		return colorStatic
	case body.GetType() == box2d.B2BodyType.B2_kinematicBody:
		return colorKinematic
	case !body.IsAwake():
		return colorAsleep
	default:
		return colorDynamic
	}
}
