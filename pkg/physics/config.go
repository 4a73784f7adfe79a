package physics

import (
	"fmt"
	"math"
)

// Default simulation settings. Gravity points down the screen (y grows downwards).
const (
	DefaultGravityX           = 0.0
	DefaultGravityY           = 9.8
	DefaultTimestep           = 1.0 / 60.0
	DefaultVelocityIterations = 6
	DefaultPositionIterations = 2
)

// Vec is a plain 2D vector used in configuration files.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Config holds the parameters of a World. It is fixed once the world is created.
type Config struct {
	Gravity            Vec     `yaml:"gravity"`            // m/s²
	Timestep           float64 `yaml:"timestep"`           // seconds simulated per Step
	VelocityIterations int     `yaml:"velocityIterations"` // velocity constraint solver passes
	PositionIterations int     `yaml:"positionIterations"` // position constraint solver passes
}

// DefaultConfig returns the default simulation settings.
func DefaultConfig() Config {
	return Config{
		Gravity:            Vec{X: DefaultGravityX, Y: DefaultGravityY},
		Timestep:           DefaultTimestep,
		VelocityIterations: DefaultVelocityIterations,
		PositionIterations: DefaultPositionIterations,
	}
}

// WithDefaults returns c with zero timestep and iteration counts replaced by the
// defaults. Zero gravity is a valid setting and is kept.
func (c Config) WithDefaults() Config {
	if c.Timestep == 0 {
		c.Timestep = DefaultTimestep
	}
	if c.VelocityIterations == 0 {
		c.VelocityIterations = DefaultVelocityIterations
	}
	if c.PositionIterations == 0 {
		c.PositionIterations = DefaultPositionIterations
	}
	return c
}

// Validate reports settings the solver cannot run with.
func (c Config) Validate() error {
	if c.Timestep <= 0 || math.IsNaN(c.Timestep) || math.IsInf(c.Timestep, 0) {
		return fmt.Errorf("physics timestep must be positive, got %v", c.Timestep)
	}
	if c.VelocityIterations < 1 {
		return fmt.Errorf("physics velocity iterations must be at least 1, got %d", c.VelocityIterations)
	}
	if c.PositionIterations < 1 {
		return fmt.Errorf("physics position iterations must be at least 1, got %d", c.PositionIterations)
	}
	if math.IsNaN(c.Gravity.X) || math.IsNaN(c.Gravity.Y) {
		return fmt.Errorf("physics gravity must be a number")
	}
	return nil
}
