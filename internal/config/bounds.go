package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/ballsim/ballsim/internal/core"
)

// IntBound is the closed range accepted for an integer parameter.
type IntBound struct {
	Min, Max int
}

// FloatBound is the closed range accepted for a float parameter.
type FloatBound struct {
	Min, Max float64
}

// Parameter bounds. Loaded files are clamped into them and Validate
// rejects anything still outside.
var (
	WidthBound             = IntBound{200, 2000}
	HeightBound            = IntBound{200, 2000}
	BallCountBound         = IntBound{1, 500}
	PlatformCountBound     = IntBound{1, 100}
	DiameterBound          = IntBound{1, 50}
	SpreadBound            = IntBound{1, 10000}
	HysteresisBound        = FloatBound{0, 1}
	GravityBound           = FloatBound{0, 20}
	AirResistanceBound     = FloatBound{0, 1}
	RollingResistanceBound = FloatBound{0, 1}
	WindBound              = FloatBound{0, 100}
	TimeStepBound          = FloatBound{0.01, 1}
	SpeedBound             = FloatBound{0.125, 8}
)

// Clamp restricts v to the bound.
func (b IntBound) Clamp(v int) int {
	return core.Clamp(v, b.Min, b.Max)
}

// Clamp restricts v to the bound.
func (b FloatBound) Clamp(v float64) float64 {
	return core.ClampF(v, b.Min, b.Max)
}

// ConfigError reports a configuration the simulation cannot be built from.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Clamp forces every bounded parameter into its range.
func (c *SimConfig) Clamp() {
	c.Space.Width = WidthBound.Clamp(c.Space.Width)
	c.Space.Height = HeightBound.Clamp(c.Space.Height)
	c.Balls.Count = BallCountBound.Clamp(c.Balls.Count)
	c.Balls.Diameter = DiameterBound.Clamp(c.Balls.Diameter)
	c.Balls.Spread = SpreadBound.Clamp(c.Balls.Spread)
	c.Balls.VelocitySpread = SpreadBound.Clamp(c.Balls.VelocitySpread)
	c.Terrain.Platforms = PlatformCountBound.Clamp(c.Terrain.Platforms)
	c.Physics.Hysteresis = HysteresisBound.Clamp(c.Physics.Hysteresis)
	c.Physics.Gravity = GravityBound.Clamp(c.Physics.Gravity)
	c.Physics.AirResistance = AirResistanceBound.Clamp(c.Physics.AirResistance)
	c.Physics.RollingResistance = RollingResistanceBound.Clamp(c.Physics.RollingResistance)
	c.Physics.Wind = WindBound.Clamp(c.Physics.Wind)
	c.Physics.TimeStep = TimeStepBound.Clamp(c.Physics.TimeStep)
	c.Run.Speed = SpeedBound.Clamp(c.Run.Speed)
}

// Validate checks the invariants a simulation needs before it can be built.
// Unlike Clamp it never rewrites values; the first violation is returned as
// a *ConfigError.
func (c SimConfig) Validate() error {
	switch {
	case c.Space.Width <= 0:
		return &ConfigError{"space.width", c.Space.Width, "must be positive"}
	case c.Space.Height <= 0:
		return &ConfigError{"space.height", c.Space.Height, "must be positive"}
	case c.Balls.Count <= 0:
		return &ConfigError{"balls.count", c.Balls.Count, "must be positive"}
	case c.Balls.Diameter <= 0:
		return &ConfigError{"balls.diameter", c.Balls.Diameter, "must be positive"}
	case c.Balls.Spread <= 0:
		return &ConfigError{"balls.spread", c.Balls.Spread, "must be positive"}
	case c.Balls.VelocitySpread <= 0:
		return &ConfigError{"balls.velocity_spread", c.Balls.VelocitySpread, "must be positive"}
	case c.Terrain.Platforms <= 0:
		return &ConfigError{"terrain.platforms", c.Terrain.Platforms, "must be positive"}
	case c.Terrain.Platforms > c.Space.Width:
		return &ConfigError{"terrain.platforms", c.Terrain.Platforms, "more platforms than columns"}
	case c.Balls.Diameter >= c.Space.Width/2:
		return &ConfigError{"balls.diameter", c.Balls.Diameter, "ball does not fit the space"}
	case c.Physics.TimeStep <= 0:
		return &ConfigError{"physics.time_step", c.Physics.TimeStep, "must be positive"}
	case c.Run.Speed <= 0:
		return &ConfigError{"run.speed", c.Run.Speed, "must be positive"}
	}

	if err := c.checkBounds(); err != nil {
		return err
	}

	palette := "unknown color, want one of " + strings.Join(core.PaletteNames(), ", ")
	if _, ok := core.ParseColor(c.Balls.Color); !ok {
		return &ConfigError{"balls.color", c.Balls.Color, palette}
	}
	if _, ok := core.ParseColor(c.Terrain.Color); !ok {
		return &ConfigError{"terrain.color", c.Terrain.Color, palette}
	}
	return nil
}

// checkBounds rejects any parameter outside its bound. Out-of-range physics
// can push a ball left of the terrain, so it is refused here rather than
// failing mid-run.
func (c SimConfig) checkBounds() error {
	ints := []struct {
		field string
		v     int
		b     IntBound
	}{
		{"space.width", c.Space.Width, WidthBound},
		{"space.height", c.Space.Height, HeightBound},
		{"balls.count", c.Balls.Count, BallCountBound},
		{"balls.diameter", c.Balls.Diameter, DiameterBound},
		{"balls.spread", c.Balls.Spread, SpreadBound},
		{"balls.velocity_spread", c.Balls.VelocitySpread, SpreadBound},
		{"terrain.platforms", c.Terrain.Platforms, PlatformCountBound},
	}
	for _, p := range ints {
		if p.v < p.b.Min || p.v > p.b.Max {
			return &ConfigError{p.field, p.v, fmt.Sprintf("must be within [%d, %d]", p.b.Min, p.b.Max)}
		}
	}

	floats := []struct {
		field string
		v     float64
		b     FloatBound
	}{
		{"physics.gravity", c.Physics.Gravity, GravityBound},
		{"physics.hysteresis", c.Physics.Hysteresis, HysteresisBound},
		{"physics.air_resistance", c.Physics.AirResistance, AirResistanceBound},
		{"physics.rolling_resistance", c.Physics.RollingResistance, RollingResistanceBound},
		{"physics.wind", c.Physics.Wind, WindBound},
		{"physics.time_step", c.Physics.TimeStep, TimeStepBound},
		{"run.speed", c.Run.Speed, SpeedBound},
	}
	for _, p := range floats {
		if math.IsNaN(p.v) || p.v < p.b.Min || p.v > p.b.Max {
			return &ConfigError{p.field, p.v, fmt.Sprintf("must be within [%g, %g]", p.b.Min, p.b.Max)}
		}
	}
	return nil
}

// DoubleSpeed returns the next faster speed factor, saturating at the bound.
func DoubleSpeed(speed float64) float64 {
	return SpeedBound.Clamp(speed * 2)
}

// HalveSpeed returns the next slower speed factor, saturating at the bound.
func HalveSpeed(speed float64) float64 {
	return SpeedBound.Clamp(speed / 2)
}
