package scenarios

import (
	"time"

	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/registry"
	"github.com/ballsim/ballsim/internal/sim"
)

// Configure returns base adjusted by the named scenario. A non-zero seed
// overrides the configured one; a zero seed after that is replaced by a
// time based seed.
func Configure(id string, base config.SimConfig, seed int64) (config.SimConfig, error) {
	cfg := base
	if err := registry.Apply(id, &cfg); err != nil {
		return cfg, err
	}
	if seed != 0 {
		cfg.Run.Seed = seed
	}
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

// Build configures the named scenario and creates its simulation.
func Build(id string, base config.SimConfig, seed int64) (*sim.Simulation, error) {
	cfg, err := Configure(id, base, seed)
	if err != nil {
		return nil, err
	}
	return sim.New(cfg)
}
