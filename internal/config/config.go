// Package config provides YAML-based simulation configuration loading,
// parameter bounds, validation and presets.
package config

import "time"

// SimConfig contains every tunable parameter of a ball simulation.
type SimConfig struct {
	Space   SpaceConfig   `yaml:"space"`
	Balls   BallsConfig   `yaml:"balls"`
	Terrain TerrainConfig `yaml:"terrain"`
	Physics PhysicsConfig `yaml:"physics"`
	Run     RunConfig     `yaml:"run"`
}

// SpaceConfig defines the simulation space in simulation units.
type SpaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BallsConfig defines the ball population and its initial spread.
type BallsConfig struct {
	Count          int    `yaml:"count"`
	Diameter       int    `yaml:"diameter"`
	Color          string `yaml:"color"`
	Spread         int    `yaml:"spread"`          // Spread of initial positions
	VelocitySpread int    `yaml:"velocity_spread"` // Spread of initial velocities
}

// TerrainConfig defines the step platforms.
type TerrainConfig struct {
	Platforms int    `yaml:"platforms"`
	Color     string `yaml:"color"`
}

// PhysicsConfig defines the forces acting on every ball.
type PhysicsConfig struct {
	Gravity           float64 `yaml:"gravity"`
	Hysteresis        float64 `yaml:"hysteresis"`         // 0 = elastic, 1 = no rebound
	AirResistance     float64 `yaml:"air_resistance"`     // Horizontal drag coefficient
	RollingResistance float64 `yaml:"rolling_resistance"` // Damping while in floor contact
	Wind              float64 `yaml:"wind"`               // Rightwards acceleration
	TimeStep          float64 `yaml:"time_step"`
}

// RunConfig defines pacing and termination policy.
type RunConfig struct {
	Speed           float64 `yaml:"speed"`             // Pacing factor, higher is faster
	HaltWhenStopped bool    `yaml:"halt_when_stopped"` // Stop the loop once every ball rests
	Seed            int64   `yaml:"seed"`
}

// baseTickDelay is the pacing delay at speed 1.0.
const baseTickDelay = 8 * time.Millisecond

// TickInterval converts the speed factor into the delay between ticks.
func (c SimConfig) TickInterval() time.Duration {
	speed := c.Run.Speed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(baseTickDelay) / speed)
}
