package config

import (
	_ "embed"
)

//go:embed defaults/ballsim.yaml
var defaultYAML []byte

// Default returns the built-in simulation configuration.
func Default() SimConfig {
	return SimConfig{
		Space: SpaceConfig{
			Width:  900,
			Height: 600,
		},
		Balls: BallsConfig{
			Count:          20,
			Diameter:       10,
			Color:          "green",
			Spread:         1000,
			VelocitySpread: 1000,
		},
		Terrain: TerrainConfig{
			Platforms: 5,
			Color:     "cyan",
		},
		Physics: PhysicsConfig{
			Gravity:           6.0,
			Hysteresis:        0.3,
			AirResistance:     0.001,
			RollingResistance: 0.01,
			Wind:              0.0,
			TimeStep:          0.2,
		},
		Run: RunConfig{
			Speed:           1.0,
			HaltWhenStopped: false,
			Seed:            50,
		},
	}
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultYAML
}
