package physics

import (
	"math"
	"testing"

	"github.com/ByteArena/box2d"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProjector struct {
	geo   ebiten.GeoM
	scale float64
}

func (p fixedProjector) Projection() ebiten.GeoM { return p.geo }
func (p fixedProjector) Scale() float64         { return p.scale }

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(800, 600, DefaultConfig())
	require.NoError(t, err)
	return w
}

func TestUnitConversion(t *testing.T) {
	assert.Equal(t, 1.5, ToBox2D(150))
	assert.Equal(t, 150.0, ToPixels(1.5))
	assert.InDelta(t, 42.0, ToPixels(ToBox2D(42)), 1e-12)

	v := VecToBox2D(200, -50)
	assert.Equal(t, 2.0, v.X)
	assert.Equal(t, -0.5, v.Y)
	x, y := VecToPixels(v)
	assert.Equal(t, 200.0, x)
	assert.Equal(t, -50.0, y)
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, Vec{X: 0, Y: 9.8}, c.Gravity)
	assert.InDelta(t, 1.0/60.0, c.Timestep, 1e-12)
	assert.Equal(t, 6, c.VelocityIterations)
	assert.Equal(t, 2, c.PositionIterations)
	assert.NoError(t, c.Validate())
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{Gravity: Vec{}}.WithDefaults()
	assert.Equal(t, Vec{}, c.Gravity, "zero gravity is kept")
	assert.Equal(t, DefaultTimestep, c.Timestep)
	assert.Equal(t, DefaultVelocityIterations, c.VelocityIterations)
	assert.Equal(t, DefaultPositionIterations, c.PositionIterations)

	c = Config{Timestep: 0.01, VelocityIterations: 8, PositionIterations: 3}.WithDefaults()
	assert.Equal(t, 0.01, c.Timestep)
	assert.Equal(t, 8, c.VelocityIterations)
	assert.Equal(t, 3, c.PositionIterations)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative timestep", Config{Timestep: -1, VelocityIterations: 1, PositionIterations: 1}},
		{"infinite timestep", Config{Timestep: math.Inf(1), VelocityIterations: 1, PositionIterations: 1}},
		{"no velocity iterations", Config{Timestep: 1, VelocityIterations: 0, PositionIterations: 1}},
		{"no position iterations", Config{Timestep: 1, VelocityIterations: 1, PositionIterations: -2}},
		{"NaN gravity", Config{Gravity: Vec{X: math.NaN()}, Timestep: 1, VelocityIterations: 1, PositionIterations: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}

	_, err := NewWorld(10, 10, Config{Timestep: -1})
	assert.Error(t, err)
}

func TestBodyTypeString(t *testing.T) {
	assert.Equal(t, "static", Static.String())
	assert.Equal(t, "kinematic", Kinematic.String())
	assert.Equal(t, "dynamic", Dynamic.String())
	assert.Equal(t, "BodyType(7)", BodyType(7).String())
}

func TestBodyDefBuilderResetsAfterBuild(t *testing.T) {
	b := NewBodyDefBuilder()
	def := b.Type(Dynamic).
		Position(100, 200).
		Angle(0.5).
		LinearVelocity(50, 0).
		AngularVelocity(2).
		LinearDamping(0.1).
		AngularDamping(0.05).
		AllowSleep(false).
		Awake(true).
		FixedRotation(true).
		Bullet(true).
		Active(true).
		GravityScale(0.5).
		Build()

	assert.Equal(t, box2d.B2BodyType.B2_dynamicBody, def.Type)
	assert.Equal(t, 1.0, def.Position.X)
	assert.Equal(t, 2.0, def.Position.Y)
	assert.Equal(t, 0.5, def.Angle)
	assert.Equal(t, 0.5, def.LinearVelocity.X)
	assert.Equal(t, 2.0, def.AngularVelocity)
	assert.Equal(t, 0.1, def.LinearDamping)
	assert.Equal(t, 0.05, def.AngularDamping)
	assert.False(t, def.AllowSleep)
	assert.True(t, def.FixedRotation)
	assert.True(t, def.Bullet)
	assert.Equal(t, 0.5, def.GravityScale)

	fresh := b.Build()
	assert.Equal(t, box2d.MakeB2BodyDef(), fresh)
}

func TestFixtureDefBuilder(t *testing.T) {
	b := NewFixtureDefBuilder()
	def, err := b.Circle(50).Friction(0.4).Restitution(0.3).Density(2).Sensor().Filter(0x2, 0xfffd, -1).Build()
	require.NoError(t, err)

	circle, ok := def.Shape.(*box2d.B2CircleShape)
	require.True(t, ok)
	assert.Equal(t, 0.5, circle.M_radius)
	assert.Equal(t, 0.4, def.Friction)
	assert.Equal(t, 0.3, def.Restitution)
	assert.Equal(t, 2.0, def.Density)
	assert.True(t, def.IsSensor)
	assert.Equal(t, uint16(0x2), def.Filter.CategoryBits)
	assert.Equal(t, uint16(0xfffd), def.Filter.MaskBits)
	assert.Equal(t, int16(-1), def.Filter.GroupIndex)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrNoShape, "builder was reset")
}

func TestFixtureDefBuilderShapes(t *testing.T) {
	b := NewFixtureDefBuilder()

	def, err := b.Box(200, 100).Build()
	require.NoError(t, err)
	poly := def.Shape.(*box2d.B2PolygonShape)
	assert.Equal(t, 4, poly.M_count)
	assert.InDelta(t, 1.0, math.Abs(poly.M_vertices[0].X), 1e-9)
	assert.InDelta(t, 0.5, math.Abs(poly.M_vertices[0].Y), 1e-9)

	def, err = b.Polygon([]Vec{{0, 0}, {100, 0}, {0, 100}}).Build()
	require.NoError(t, err)
	assert.Equal(t, 3, def.Shape.(*box2d.B2PolygonShape).M_count)

	def, err = b.Chain([]Vec{{0, 0}, {100, 0}, {200, 50}}).Build()
	require.NoError(t, err)
	assert.Equal(t, 3, def.Shape.(*box2d.B2ChainShape).M_count)
}

func TestFixtureDefBuilderErrors(t *testing.T) {
	b := NewFixtureDefBuilder()

	_, err := b.Circle(0).Build()
	assert.Error(t, err)
	_, err = b.Box(10, -1).Build()
	assert.Error(t, err)
	_, err = b.Polygon([]Vec{{0, 0}, {1, 1}}).Build()
	assert.Error(t, err)
	_, err = b.Polygon(make([]Vec, 9)).Build()
	assert.Error(t, err)
	_, err = b.Chain([]Vec{{0, 0}}).Build()
	assert.Error(t, err)

	_, err = b.Circle(10).Build()
	assert.NoError(t, err, "errors do not outlive Build")
}

func TestBodyBuilderBuild(t *testing.T) {
	w := newTestWorld(t)
	bb := NewBodyBuilder(w)

	body, err := bb.
		WithBodyDef(NewBodyDefBuilder().Type(Dynamic).Position(100, 100)).
		WithFixtureDef(NewFixtureDefBuilder().Circle(10).Density(1), "wheel").
		WithFixtureDef(NewFixtureDefBuilder().Box(20, 20).Density(1), nil).
		UserData("hero").
		Build()
	require.NoError(t, err)
	require.NotNil(t, body)

	assert.Equal(t, 1, w.BodyCount())
	assert.Equal(t, "hero", body.GetUserData())

	fixtures := 0
	var data []interface{}
	for f := body.GetFixtureList(); f != nil; f = f.GetNext() {
		fixtures++
		data = append(data, f.GetUserData())
	}
	assert.Equal(t, 2, fixtures)
	assert.Contains(t, data, "wheel")

	x, y := Position(body)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)

	second, err := bb.WithFixtureDef(NewFixtureDefBuilder().Circle(5), nil).Build()
	require.NoError(t, err)
	assert.Nil(t, second.GetUserData(), "user data was reset")
	assert.Equal(t, box2d.B2BodyType.B2_staticBody, second.GetType(), "body def was reset")
}

func TestBodyBuilderErrors(t *testing.T) {
	w := newTestWorld(t)
	bb := NewBodyBuilder(w)

	_, err := bb.WithFixtureDef(NewFixtureDefBuilder().Circle(-1), nil).Build()
	assert.Error(t, err)
	assert.Zero(t, w.BodyCount())

	_, err = bb.Build()
	assert.NoError(t, err, "fixture error was reset")

	w.Dispose()
	_, err = bb.Build()
	assert.Error(t, err)

	_, err = NewBodyBuilder(nil).Build()
	assert.Error(t, err)
}

func TestBodyBuilderChangeWorld(t *testing.T) {
	a := newTestWorld(t)
	b := newTestWorld(t)
	bb := NewBodyBuilder(a)

	old := bb.ChangeWorld(b)
	assert.Same(t, a, old)
	assert.Same(t, b, bb.World())

	_, err := bb.Build()
	require.NoError(t, err)
	assert.Zero(t, a.BodyCount())
	assert.Equal(t, 1, b.BodyCount())

	bb.DisposeWorld()
	assert.True(t, b.Disposed())
	assert.False(t, a.Disposed())
}

func TestWorldStepMovesDynamicBodies(t *testing.T) {
	w := newTestWorld(t)
	bb := NewBodyBuilder(w)

	ball, err := bb.
		WithBodyDef(NewBodyDefBuilder().Type(Dynamic).Position(100, 100)).
		WithFixtureDef(NewFixtureDefBuilder().Circle(10).Density(1), nil).
		Build()
	require.NoError(t, err)
	ground, err := bb.
		WithBodyDef(NewBodyDefBuilder().Type(Static).Position(400, 590)).
		WithFixtureDef(NewFixtureDefBuilder().Box(800, 20), nil).
		Build()
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		w.Step()
	}

	x, y := Position(ball)
	assert.InDelta(t, 100, x, 1e-6)
	assert.Greater(t, y, 100.0, "gravity pulls down the screen")

	gx, gy := Position(ground)
	assert.Equal(t, 400.0, gx)
	assert.Equal(t, 590.0, gy)
}

func TestWorldDestroyAndDispose(t *testing.T) {
	w := newTestWorld(t)
	bb := NewBodyBuilder(w)

	a, err := bb.Build()
	require.NoError(t, err)
	_, err = bb.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, w.BodyCount())

	w.DestroyBody(a)
	assert.Equal(t, 1, w.BodyCount())
	w.DestroyBody(nil)

	w.Dispose()
	assert.True(t, w.Disposed())
	assert.Zero(t, w.BodyCount())
	assert.NotPanics(t, func() {
		w.Step()
		w.Dispose()
		w.Draw(ebiten.NewImage(10, 10), nil)
	})
}

func TestAngleNormalization(t *testing.T) {
	w := newTestWorld(t)
	body, err := NewBodyBuilder(w).WithBodyDef(NewBodyDefBuilder().Angle(3 * math.Pi / 2)).Build()
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi/2, Angle(body), 1e-9)
}

func TestDebuggerTransform(t *testing.T) {
	d := NewDebugger(400, 300)
	geo, scale := d.transform(nil)
	x, y := geo.Apply(400, 300)
	assert.Equal(t, 400.0, x)
	assert.Equal(t, 300.0, y)
	assert.Equal(t, 1.0, scale)

	d.Resize(800, 900)
	d.Resize(0, 10)
	geo, scale = d.transform(nil)
	x, y = geo.Apply(400, 300)
	assert.Equal(t, 800.0, x)
	assert.Equal(t, 900.0, y)
	assert.Equal(t, 2.0, scale)

	var g ebiten.GeoM
	g.Translate(5, 5)
	geo, scale = d.transform(fixedProjector{geo: g, scale: 3})
	x, _ = geo.Apply(0, 0)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 3.0, scale)
}

func TestWorldDrawDebugMode(t *testing.T) {
	w := newTestWorld(t)
	bb := NewBodyBuilder(w)
	_, err := bb.WithBodyDef(NewBodyDefBuilder().Type(Dynamic).Position(50, 50)).
		WithFixtureDef(NewFixtureDefBuilder().Circle(10), nil).
		WithFixtureDef(NewFixtureDefBuilder().Box(10, 10), nil).
		WithFixtureDef(NewFixtureDefBuilder().Chain([]Vec{{0, 0}, {20, 0}}), nil).
		Build()
	require.NoError(t, err)

	dst := ebiten.NewImage(100, 100)
	assert.True(t, w.DebugMode)
	assert.NotPanics(t, func() { w.Draw(dst, nil) })

	w.DebugMode = false
	assert.NotPanics(t, func() { w.Draw(dst, fixedProjector{scale: 1}) })
	assert.NotPanics(t, func() { w.Draw(nil, nil) })
	w.Resize(200, 200)
}
