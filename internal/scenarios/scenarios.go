// Package scenarios contains the built-in simulation setups.
// Importing the package registers them with the registry.
package scenarios

import (
	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/registry"
)

// scenario is a registry.Scenario defined by a configuration tweak.
type scenario struct {
	id          string
	title       string
	description string
	configure   func(cfg *config.SimConfig)
}

func (s scenario) ID() string          { return s.id }
func (s scenario) Title() string       { return s.title }
func (s scenario) Description() string { return s.description }

func (s scenario) Configure(cfg *config.SimConfig) {
	if s.configure != nil {
		s.configure(cfg)
	}
}

func register(s scenario) {
	registry.Register(s.id, func() registry.Scenario { return s })
}

// DefaultID is the scenario used when none is named.
const DefaultID = "stairs"

func init() {
	register(scenario{
		id:          DefaultID,
		title:       "Stairs",
		description: "Balls tumble down descending steps and wrap around",
	})

	register(scenario{
		id:          "flat",
		title:       "Flat Floor",
		description: "A single platform across the whole width",
		configure: func(cfg *config.SimConfig) {
			cfg.Terrain.Platforms = 1
		},
	})

	register(scenario{
		id:          "cascade",
		title:       "Cascade",
		description: "Many narrow steps and a crowd of small balls",
		configure: func(cfg *config.SimConfig) {
			cfg.Terrain.Platforms = 20
			cfg.Balls.Count = 60
			cfg.Balls.Diameter = 6
			cfg.Balls.Color = "yellow"
		},
	})

	register(scenario{
		id:          "gale",
		title:       "Gale",
		description: "Strong wind keeps the balls wrapping",
		configure: func(cfg *config.SimConfig) {
			config.ApplyPreset(cfg, config.PresetWindy)
			cfg.Balls.Color = "white"
			cfg.Terrain.Color = "blue"
		},
	})

	register(scenario{
		id:          "settle",
		title:       "Settle",
		description: "Heavy damping, the run halts once every ball rests",
		configure: func(cfg *config.SimConfig) {
			config.ApplyPreset(cfg, config.PresetDamped)
			cfg.Run.HaltWhenStopped = true
			cfg.Balls.Color = "pink"
		},
	})

	register(scenario{
		id:          "drop",
		title:       "Single Drop",
		description: "One ball bouncing on a flat floor until it rests",
		configure: func(cfg *config.SimConfig) {
			cfg.Balls.Count = 1
			cfg.Terrain.Platforms = 1
			cfg.Physics.Gravity = 10
			cfg.Physics.Hysteresis = 0.5
			cfg.Physics.RollingResistance = 0.5
			cfg.Run.HaltWhenStopped = true
			cfg.Balls.Color = "red"
		},
	})
}
