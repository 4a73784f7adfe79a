package physics

import (
	"errors"
	"fmt"

	"github.com/ByteArena/box2d"
)

// maxPolygonVertices is Box2D's limit on convex polygon vertices.
const maxPolygonVertices = 8

// ErrNoShape is returned when a fixture is built without a shape.
var ErrNoShape = errors.New("fixture has no shape")

// BodyType selects how a body takes part in the simulation.
type BodyType int

const (
	// Static bodies never move.
	Static BodyType = iota
	// Kinematic bodies move by velocity and ignore forces.
	Kinematic
	// Dynamic bodies are fully simulated.
	Dynamic
)

// String returns the lowercase name of the body type.
func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", int(t))
	}
}

func (t BodyType) b2() uint8 {
	switch t {
	case Kinematic:
		return box2d.B2BodyType.B2_kinematicBody
	case Dynamic:
		return box2d.B2BodyType.B2_dynamicBody
	default:
		return box2d.B2BodyType.B2_staticBody
	}
}

// BodyDefBuilder builds Box2D body definitions with pixel positions and velocities.
// Build returns the definition and resets the builder, so one builder can be reused.
type BodyDefBuilder struct {
	def box2d.B2BodyDef
}

// NewBodyDefBuilder returns a builder holding Box2D's default body definition.
func NewBodyDefBuilder() *BodyDefBuilder {
	return &BodyDefBuilder{def: box2d.MakeB2BodyDef()}
}

// Type sets the body type.
func (b *BodyDefBuilder) Type(t BodyType) *BodyDefBuilder {
	b.def.Type = t.b2()
	return b
}

// Position sets the initial position in pixels.
func (b *BodyDefBuilder) Position(x, y float64) *BodyDefBuilder {
	b.def.Position = VecToBox2D(x, y)
	return b
}

// Angle sets the initial angle in radians.
func (b *BodyDefBuilder) Angle(radians float64) *BodyDefBuilder {
	b.def.Angle = radians
	return b
}

// LinearVelocity sets the initial velocity in pixels per second.
func (b *BodyDefBuilder) LinearVelocity(x, y float64) *BodyDefBuilder {
	b.def.LinearVelocity = VecToBox2D(x, y)
	return b
}

// AngularVelocity sets the initial angular velocity in radians per second.
func (b *BodyDefBuilder) AngularVelocity(v float64) *BodyDefBuilder {
	b.def.AngularVelocity = v
	return b
}

// LinearDamping slows linear motion. Usually in [0, 0.1].
func (b *BodyDefBuilder) LinearDamping(d float64) *BodyDefBuilder {
	b.def.LinearDamping = d
	return b
}

// AngularDamping slows rotation. Usually in [0, 0.1].
func (b *BodyDefBuilder) AngularDamping(d float64) *BodyDefBuilder {
	b.def.AngularDamping = d
	return b
}

// AllowSleep lets the body sleep when it comes to rest.
func (b *BodyDefBuilder) AllowSleep(allow bool) *BodyDefBuilder {
	b.def.AllowSleep = allow
	return b
}

// Awake sets whether the body starts awake.
func (b *BodyDefBuilder) Awake(awake bool) *BodyDefBuilder {
	b.def.Awake = awake
	return b
}

// FixedRotation prevents the body from rotating.
func (b *BodyDefBuilder) FixedRotation(fixed bool) *BodyDefBuilder {
	b.def.FixedRotation = fixed
	return b
}

// Bullet enables continuous collision detection against dynamic bodies.
func (b *BodyDefBuilder) Bullet(bullet bool) *BodyDefBuilder {
	b.def.Bullet = bullet
	return b
}

// Active sets whether the body starts active.
func (b *BodyDefBuilder) Active(active bool) *BodyDefBuilder {
	b.def.Active = active
	return b
}

// GravityScale scales the world gravity for this body.
func (b *BodyDefBuilder) GravityScale(scale float64) *BodyDefBuilder {
	b.def.GravityScale = scale
	return b
}

// Build returns the definition and resets the builder.
func (b *BodyDefBuilder) Build() box2d.B2BodyDef {
	def := b.def
	b.def = box2d.MakeB2BodyDef()
	return def
}

// FixtureDefBuilder builds Box2D fixture definitions with pixel shapes.
// Build returns the definition and resets the builder.
type FixtureDefBuilder struct {
	def box2d.B2FixtureDef
	err error
}

// NewFixtureDefBuilder returns a builder holding Box2D's default fixture definition.
func NewFixtureDefBuilder() *FixtureDefBuilder {
	return &FixtureDefBuilder{def: box2d.MakeB2FixtureDef()}
}

// Circle sets a circle shape of the given radius in pixels, centered on the body.
func (b *FixtureDefBuilder) Circle(radius float64) *FixtureDefBuilder {
	if radius <= 0 {
		b.err = fmt.Errorf("circle radius must be positive, got %v", radius)
		return b
	}
	shape := box2d.MakeB2CircleShape()
	shape.M_radius = ToBox2D(radius)
	b.def.Shape = &shape
	return b
}

// Box sets a box shape of width x height pixels, centered on the body.
func (b *FixtureDefBuilder) Box(width, height float64) *FixtureDefBuilder {
	if width <= 0 || height <= 0 {
		b.err = fmt.Errorf("box size must be positive, got %vx%v", width, height)
		return b
	}
	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(ToBox2D(width/2), ToBox2D(height/2))
	b.def.Shape = &shape
	return b
}

// Polygon sets a convex polygon shape from 3 to 8 vertices in pixels.
func (b *FixtureDefBuilder) Polygon(vertices []Vec) *FixtureDefBuilder {
	if len(vertices) < 3 || len(vertices) > maxPolygonVertices {
		b.err = fmt.Errorf("polygon needs 3 to %d vertices, got %d", maxPolygonVertices, len(vertices))
		return b
	}
	shape := box2d.MakeB2PolygonShape()
	shape.Set(toBox2DVertices(vertices), len(vertices))
	b.def.Shape = &shape
	return b
}

// Chain sets an open chain shape through at least 2 vertices in pixels.
func (b *FixtureDefBuilder) Chain(vertices []Vec) *FixtureDefBuilder {
	if len(vertices) < 2 {
		b.err = fmt.Errorf("chain needs at least 2 vertices, got %d", len(vertices))
		return b
	}
	shape := box2d.MakeB2ChainShape()
	shape.CreateChain(toBox2DVertices(vertices), len(vertices))
	b.def.Shape = &shape
	return b
}

// Friction sets the friction coefficient, usually in [0, 1]. Box2D's default is 0.2.
func (b *FixtureDefBuilder) Friction(f float64) *FixtureDefBuilder {
	b.def.Friction = f
	return b
}

// Restitution sets the bounciness, usually in [0, 1].
func (b *FixtureDefBuilder) Restitution(r float64) *FixtureDefBuilder {
	b.def.Restitution = r
	return b
}

// Density sets the density in kg/m².
func (b *FixtureDefBuilder) Density(d float64) *FixtureDefBuilder {
	b.def.Density = d
	return b
}

// Sensor makes the fixture report contacts without a collision response.
func (b *FixtureDefBuilder) Sensor() *FixtureDefBuilder {
	b.def.IsSensor = true
	return b
}

// Filter sets the collision filtering data.
func (b *FixtureDefBuilder) Filter(category, mask uint16, group int16) *FixtureDefBuilder {
	b.def.Filter.CategoryBits = category
	b.def.Filter.MaskBits = mask
	b.def.Filter.GroupIndex = group
	return b
}

// Build returns the definition and resets the builder.
//
// Returns:
//   - box2d.B2FixtureDef: the definition
//   - error: the first invalid shape argument, or ErrNoShape
func (b *FixtureDefBuilder) Build() (box2d.B2FixtureDef, error) {
	def, err := b.def, b.err
	b.def = box2d.MakeB2FixtureDef()
	b.err = nil
	if err != nil {
		return def, err
	}
	if def.Shape == nil {
		return def, ErrNoShape
	}
	return def, nil
}

func toBox2DVertices(vertices []Vec) []box2d.B2Vec2 {
	out := make([]box2d.B2Vec2, len(vertices))
	for i, v := range vertices {
		out[i] = VecToBox2D(v.X, v.Y)
	}
	return out
}

type fixtureProps struct {
	def      box2d.B2FixtureDef
	userData interface{}
}

// BodyBuilder creates bodies with one or more fixtures in a World.
//
// Usage:
//
//	body, err := physics.NewBodyBuilder(world).
//	    WithBodyDef(physics.NewBodyDefBuilder().Type(physics.Dynamic).Position(100, 50)).
//	    WithFixtureDef(physics.NewFixtureDefBuilder().Circle(16).Density(1), nil).
//	    Build()
type BodyBuilder struct {
	world    *World
	def      box2d.B2BodyDef
	fixtures []fixtureProps
	userData interface{}
	err      error
}

// NewBodyBuilder returns a builder adding bodies to world.
func NewBodyBuilder(world *World) *BodyBuilder {
	return &BodyBuilder{world: world, def: box2d.MakeB2BodyDef()}
}

// ChangeWorld makes later bodies go into newWorld and returns the previous world.
func (b *BodyBuilder) ChangeWorld(newWorld *World) *World {
	old := b.world
	b.world = newWorld
	return old
}

// World returns the world bodies are added to.
func (b *BodyBuilder) World() *World {
	return b.world
}

// DisposeWorld disposes the current world.
func (b *BodyBuilder) DisposeWorld() {
	if b.world != nil {
		b.world.Dispose()
	}
}

// WithBodyDef sets the body definition from a builder, which is reset.
func (b *BodyBuilder) WithBodyDef(builder *BodyDefBuilder) *BodyBuilder {
	b.def = builder.Build()
	return b
}

// WithFixtureDef adds a fixture from a builder, which is reset. userData, if not nil,
// is attached to the created fixture.
func (b *BodyBuilder) WithFixtureDef(builder *FixtureDefBuilder, userData interface{}) *BodyBuilder {
	def, err := builder.Build()
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.fixtures = append(b.fixtures, fixtureProps{def: def, userData: userData})
	return b
}

// UserData attaches data to the body.
func (b *BodyBuilder) UserData(data interface{}) *BodyBuilder {
	b.userData = data
	return b
}

// Build creates the body and its fixtures in the current world and resets the builder,
// whether or not it succeeds.
//
// Returns:
//   - *box2d.B2Body: the new body
//   - error: a fixture error recorded while building, or if there is no usable world
func (b *BodyBuilder) Build() (*box2d.B2Body, error) {
	defer b.reset()

	if b.err != nil {
		return nil, fmt.Errorf("failed to build body: %w", b.err)
	}
	if b.world == nil || b.world.Disposed() {
		return nil, fmt.Errorf("failed to build body: no world")
	}

	body := b.world.CreateBody(&b.def)
	if body == nil {
		return nil, fmt.Errorf("failed to build body: world is locked")
	}
	for i := range b.fixtures {
		fixture := body.CreateFixtureFromDef(&b.fixtures[i].def)
		if fixture != nil && b.fixtures[i].userData != nil {
			fixture.SetUserData(b.fixtures[i].userData)
		}
	}
	if b.userData != nil {
		body.SetUserData(b.userData)
	}
	return body, nil
}

func (b *BodyBuilder) reset() {
	b.def = box2d.MakeB2BodyDef()
	b.fixtures = nil
	b.userData = nil
	b.err = nil
}
