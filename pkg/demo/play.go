package demo

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ByteArena/box2d"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/game"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
	"github.com/ImXico/Cyberpunk/pkg/physics"
	"github.com/ImXico/Cyberpunk/pkg/profiler"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

const (
	// BallRadius is the radius of spawned balls in world units.
	BallRadius = 16
	// MaxBalls caps the number of dynamic bodies; the oldest ball is removed first.
	MaxBalls = 64
	// maxStepsPerUpdate bounds the catch-up after a long frame.
	maxStepsPerUpdate = 5
	initialBalls      = 3
)

var playBackground = color.RGBA{R: 0x08, G: 0x10, B: 0x1c, A: 0xff}

// ball is attached as user data to every spawned body.
type ball struct {
	radius float64
}

// Play is a physics playground: balls fall into a box and can be spawned with
// clicks, taps or the space key.
type Play struct {
	game.ScreenAdapter
	env *Env

	world   *physics.World
	builder *physics.BodyBuilder
	balls   []*box2d.B2Body
	sprite  graphics.Region
	step    *profiler.Counter

	accumulator float64
	spawned     int
	paused      bool
	leaving     bool
}

// NewPlay creates the playground with a static box around the world and a few balls.
func NewPlay(env *Env) (*Play, error) {
	w, h := env.WorldSize()
	world, err := physics.NewWorld(int(w), int(h), env.Config.Physics)
	if err != nil {
		return nil, fmt.Errorf("failed to create playground world: %w", err)
	}

	p := &Play{
		env:     env,
		world:   world,
		builder: physics.NewBodyBuilder(world),
		step:    profiler.NewCounter("physics step"),
	}
	p.sprite, _ = env.Region("ball")

	box := []physics.Vec{{X: 0, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}, {X: w, Y: 0}}
	_, err = p.builder.
		WithBodyDef(physics.NewBodyDefBuilder().Type(physics.Static)).
		WithFixtureDef(physics.NewFixtureDefBuilder().Chain(box).Friction(0.6), nil).
		Build()
	if err != nil {
		world.Dispose()
		return nil, fmt.Errorf("failed to create playground walls: %w", err)
	}

	for i := 0; i < initialBalls; i++ {
		if err := p.Spawn(w/2+float64(i-1)*3*BallRadius, h/4); err != nil {
			world.Dispose()
			return nil, err
		}
	}
	log.Printf("[Play] Created (%d bodies)", world.BodyCount())
	return p, nil
}

// World returns the playground's physics world.
func (p *Play) World() *physics.World {
	return p.world
}

// Counter returns the physics step timings.
func (p *Play) Counter() *profiler.Counter {
	return p.step
}

// Balls returns the number of live balls.
func (p *Play) Balls() int {
	return len(p.balls)
}

// Spawn drops a ball at the world position (x, y). Past MaxBalls the oldest ball
// is removed.
func (p *Play) Spawn(x, y float64) error {
	body, err := p.builder.
		WithBodyDef(physics.NewBodyDefBuilder().
			Type(physics.Dynamic).
			Position(x, y).
			AngularVelocity(float64(p.spawned%3-1))).
		WithFixtureDef(physics.NewFixtureDefBuilder().
			Circle(BallRadius).
			Density(1).
			Friction(0.3).
			Restitution(0.6), nil).
		UserData(&ball{radius: BallRadius}).
		Build()
	if err != nil {
		return fmt.Errorf("failed to spawn ball: %w", err)
	}
	p.spawned++
	p.balls = append(p.balls, body)

	if len(p.balls) > MaxBalls {
		p.world.DestroyBody(p.balls[0])
		p.balls = p.balls[1:]
	}
	return nil
}

// Update steps the simulation at its fixed timestep.
func (p *Play) Update(delta float64) {
	if p.paused {
		return
	}
	timestep := p.world.Config().Timestep
	p.accumulator += delta
	for steps := 0; p.accumulator >= timestep; steps++ {
		if steps == maxStepsPerUpdate {
			p.accumulator = 0
			break
		}
		p.step.Profile(p.world.Step)
		p.accumulator -= timestep
	}
}

// Draw draws the balls, the debug shapes and a status line.
func (p *Play) Draw(batch *graphics.Batch) {
	batch.Fill(playBackground)

	if p.sprite.Valid() {
		for _, body := range p.balls {
			b, ok := body.GetUserData().(*ball)
			if !ok {
				continue
			}
			x, y := physics.Position(body)
			batch.DrawRegion(p.sprite, x-b.radius, y-b.radius, 2*b.radius, 2*b.radius)
		}
	}
	p.world.Draw(batch.Target(), p.env.Manager.Viewport())

	status := fmt.Sprintf("balls %d  step avg %v  [D]ebug [P]rofile [ESC] menu", len(p.balls), p.step.Average())
	batch.DrawText(status, p.env.BodyFace, 8, 8)
}

// KeyDown handles the playground keys.
func (p *Play) KeyDown(key ebiten.Key) bool {
	switch key {
	case ebiten.KeyEscape, ebiten.KeyBackspace:
		p.back()
	case ebiten.KeySpace:
		w, _ := p.env.WorldSize()
		if err := p.Spawn(w/2, BallRadius*2); err != nil {
			log.Printf("[Play] Warning: %v", err)
		}
	case ebiten.KeyD:
		p.world.DebugMode = !p.world.DebugMode
	case ebiten.KeyP:
		p.step.PrettyPrint()
	case ebiten.KeyR:
		p.step.Reset()
	default:
		return false
	}
	return true
}

// TouchDown spawns a ball under the pointer.
func (p *Play) TouchDown(x, y, pointer int, button ebiten.MouseButton) bool {
	wx, wy := p.env.Manager.Unproject(float64(x), float64(y))
	if err := p.Spawn(wx, wy); err != nil {
		log.Printf("[Play] Warning: %v", err)
	}
	return true
}

func (p *Play) back() {
	if p.leaving {
		return
	}
	p.leaving = true
	p.env.PlaySound(p.env.Config.Audio.ClickSound)
	p.env.GoTo(NewMenu(p.env), p.env.Slide(transition.LeftRight))
}

// Resize keeps the debug view in step with the screen.
func (p *Play) Resize(width, height int) {
	p.world.Resize(width, height)
}

// Pause stops the simulation.
func (p *Play) Pause() {
	p.paused = true
}

// Resume restarts the simulation without catching up on the paused time.
func (p *Play) Resume() {
	p.paused = false
	p.accumulator = 0
}

// Paused reports whether the simulation is paused.
func (p *Play) Paused() bool {
	return p.paused
}

// Dispose destroys the world.
func (p *Play) Dispose() {
	if p.step.Count() > 0 {
		p.step.PrettyPrint()
	}
	p.balls = nil
	p.builder.DisposeWorld()
	log.Printf("[Play] Disposed")
}
