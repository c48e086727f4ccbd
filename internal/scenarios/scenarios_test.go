package scenarios

import (
	"testing"

	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/registry"
	"github.com/ballsim/ballsim/internal/sim"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range []string{DefaultID, "flat", "cascade", "gale", "settle", "drop"} {
		if !registry.Exists(id) {
			t.Errorf("scenario %q not registered", id)
		}
	}
}

func TestScenariosBuildValidSimulations(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			if info.Title == "" || info.Description == "" {
				t.Error("missing title or description")
			}

			cfg := config.Default()
			if err := registry.Apply(info.ID, &cfg); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			s, err := sim.New(cfg)
			if err != nil {
				t.Fatalf("sim.New: %v", err)
			}
			for i := 0; i < 200; i++ {
				if _, err := s.Tick(); err != nil {
					t.Fatalf("tick %d: %v", i+1, err)
				}
			}
		})
	}
}

func TestSettleScenarioHalts(t *testing.T) {
	for _, id := range []string{"settle", "drop"} {
		cfg := config.Default()
		if err := registry.Apply(id, &cfg); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		s, err := sim.New(cfg)
		if err != nil {
			t.Fatalf("sim.New: %v", err)
		}

		for tick := 1; tick <= 20000 && !s.ShouldHalt(); tick++ {
			if _, err := s.Tick(); err != nil {
				t.Fatalf("%s: tick %d: %v", id, tick, err)
			}
		}
		if !s.ShouldHalt() {
			t.Errorf("%s: %d of %d balls stopped after 20000 ticks", id, s.Stats().Stopped, s.Stats().Total)
		}
	}
}

func TestFlatScenarioSinglePlatform(t *testing.T) {
	cfg := config.Default()
	if err := registry.Apply("flat", &cfg); err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	platforms := s.Terrain().Platforms()
	if len(platforms) != 1 || platforms[0].Length != cfg.Space.Width {
		t.Errorf("unexpected platforms %+v", platforms)
	}
	if h, _ := s.Terrain().HeightAt(0); h != 300-cfg.Balls.Diameter {
		t.Errorf("floor %d, want %d", h, 300-cfg.Balls.Diameter)
	}
}

func TestConfigureSeed(t *testing.T) {
	base := config.Default()

	cfg, err := Configure(DefaultID, base, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Seed != base.Run.Seed {
		t.Errorf("seed %d, want configured %d", cfg.Run.Seed, base.Run.Seed)
	}

	cfg, err = Configure(DefaultID, base, 777)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Seed != 777 {
		t.Errorf("seed override ignored: %d", cfg.Run.Seed)
	}

	base.Run.Seed = 0
	cfg, err = Configure(DefaultID, base, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Seed == 0 {
		t.Error("zero seed not resolved")
	}
}

func TestBuild(t *testing.T) {
	s, err := Build("cascade", config.Default(), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.BallCount() != 60 {
		t.Errorf("got %d balls, want 60", s.BallCount())
	}

	if _, err := Build("nope", config.Default(), 0); err == nil {
		t.Error("expected error for unknown scenario")
	}
}
