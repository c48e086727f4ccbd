package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ballsim/ballsim/internal/config"
)

func newTestSim(t *testing.T, cfg config.SimConfig) *Simulation {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func tickN(t *testing.T, s *Simulation, n int) TickResult {
	t.Helper()
	var res TickResult
	for i := 0; i < n; i++ {
		var err error
		res, err = s.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
	}
	return res
}

// fastSettling returns a config in which every ball stops within a few
// dozen ticks.
func fastSettling() config.SimConfig {
	cfg := config.Default()
	cfg.Physics.Hysteresis = 1
	cfg.Physics.AirResistance = 1
	cfg.Physics.RollingResistance = 1
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.SimConfig)
	}{
		{"no balls", func(c *config.SimConfig) { c.Balls.Count = 0 }},
		{"no platforms", func(c *config.SimConfig) { c.Terrain.Platforms = 0 }},
		{"zero width", func(c *config.SimConfig) { c.Space.Width = 0 }},
		{"bad color", func(c *config.SimConfig) { c.Balls.Color = "mauve" }},
		{"negative wind", func(c *config.SimConfig) { c.Physics.Wind = -50 }},
		{"air resistance above one", func(c *config.SimConfig) { c.Physics.AirResistance = 20 }},
		{"negative gravity", func(c *config.SimConfig) { c.Physics.Gravity = -10 }},
		{"huge time step", func(c *config.SimConfig) { c.Physics.TimeStep = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			s, err := New(cfg)
			if s != nil {
				t.Error("expected no simulation")
			}
			var cfgErr *config.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *config.ConfigError, got %v", err)
			}
		})
	}
}

func TestNewInitialState(t *testing.T) {
	cfg := config.Default()
	s := newTestSim(t, cfg)

	stats := s.Stats()
	if stats.Total != cfg.Balls.Count || stats.OnScreen != cfg.Balls.Count {
		t.Errorf("unexpected initial stats %+v", stats)
	}
	if s.BallCount() != cfg.Balls.Count {
		t.Errorf("got %d balls, want %d", s.BallCount(), cfg.Balls.Count)
	}
	if s.Running() {
		t.Error("new simulation should not be running")
	}
	if s.Ball(-1) != nil || s.Ball(s.BallCount()) != nil {
		t.Error("out of range Ball() should be nil")
	}

	for i := 0; i < s.BallCount(); i++ {
		b := s.Ball(i)
		if b.X() < 100 || b.X() > 100+0.025*float64(cfg.Balls.Spread) {
			t.Errorf("ball %d x=%v outside spawn range", i, b.X())
		}
		if b.VX() < 8 {
			t.Errorf("ball %d vx=%v below spawn minimum", i, b.VX())
		}
	}
}

func TestSpawnFitsNarrowSpace(t *testing.T) {
	cfg := config.Default()
	cfg.Space.Width = 200
	cfg.Space.Height = 200
	cfg.Balls.Spread = 10000
	s := newTestSim(t, cfg)

	limit := float64(cfg.Space.Width - 1 - cfg.Balls.Diameter)
	for i := 0; i < s.BallCount(); i++ {
		if x := s.Ball(i).X(); x < 0 || x > limit {
			t.Errorf("ball %d spawned at x=%v, outside [0, %v]", i, x, limit)
		}
	}
	tickN(t, s, 500)
}

func TestTickResult(t *testing.T) {
	cfg := config.Default()
	s := newTestSim(t, cfg)

	res := tickN(t, s, 1)
	if res.Tick != 1 || res.Stats.Ticks != 1 {
		t.Errorf("tick %d, stats ticks %d, want 1", res.Tick, res.Stats.Ticks)
	}
	if len(res.Draws) != cfg.Balls.Count {
		t.Fatalf("got %d draws, want %d", len(res.Draws), cfg.Balls.Count)
	}
	for i, d := range res.Draws {
		b := s.Ball(i)
		if d.Index != i || d.X != b.X() || d.Y != b.Y() {
			t.Errorf("draw %d does not match ball state", i)
		}
		if d.Diameter != cfg.Balls.Diameter || d.Color != s.BallColor() {
			t.Errorf("draw %d has wrong appearance", i)
		}
	}

	res = tickN(t, s, 1)
	if res.Tick != 2 {
		t.Errorf("second tick numbered %d", res.Tick)
	}
}

func TestSimulationDeterminism(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.Wind = 3

	s1 := newTestSim(t, cfg)
	s2 := newTestSim(t, cfg)
	tickN(t, s1, 400)
	tickN(t, s2, 400)

	snap1, snap2 := s1.Snapshot(), s2.Snapshot()
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Tick != 400 {
		t.Errorf("snapshot tick %d, want 400", snap1.Tick)
	}

	cfg.Run.Seed++
	s3 := newTestSim(t, cfg)
	tickN(t, s3, 400)
	snap3 := s3.Snapshot()
	if snap3.Hash() == snap1.Hash() {
		t.Error("different seeds produced identical runs")
	}
}

func TestCounterConsistency(t *testing.T) {
	cfg := config.Default()
	cfg.Space.Width = 300
	cfg.Physics.Hysteresis = 0.1
	cfg.Physics.Wind = 2
	s := newTestSim(t, cfg)

	prevStopped := 0
	for tick := 1; tick <= 1500; tick++ {
		res := tickN(t, s, 1)
		st := res.Stats
		if st.OnScreen+st.OffScreen != st.Total {
			t.Fatalf("tick %d: on %d + off %d != total %d", tick, st.OnScreen, st.OffScreen, st.Total)
		}
		if st.OnScreen < 0 || st.OffScreen < 0 {
			t.Fatalf("tick %d: negative counter %+v", tick, st)
		}
		if st.Stopped < prevStopped || st.Stopped > st.Total {
			t.Fatalf("tick %d: stopped %d after %d", tick, st.Stopped, prevStopped)
		}

		stoppedNow := 0
		for _, be := range res.Events {
			if be.Event.Stopped {
				stoppedNow++
			}
		}
		if stoppedNow != st.Stopped-prevStopped {
			t.Fatalf("tick %d: %d stop events for %d new stops", tick, stoppedNow, st.Stopped-prevStopped)
		}
		prevStopped = st.Stopped

		offScreen := 0
		for i := 0; i < s.BallCount(); i++ {
			if s.Ball(i).OffScreen() {
				offScreen++
			}
		}
		if offScreen != st.OffScreen {
			t.Fatalf("tick %d: %d balls off-screen, counter says %d", tick, offScreen, st.OffScreen)
		}
		if st != s.Stats() {
			t.Fatalf("tick %d: result stats differ from simulation stats", tick)
		}
	}
}

func TestStoppedCountMatchesBalls(t *testing.T) {
	s := newTestSim(t, fastSettling())
	tickN(t, s, 300)

	stopped := 0
	for i := 0; i < s.BallCount(); i++ {
		if s.Ball(i).Stopped() {
			stopped++
		}
	}
	if stopped != s.Stats().Stopped {
		t.Errorf("%d balls stopped, counter says %d", stopped, s.Stats().Stopped)
	}
	if !s.AllStopped() {
		t.Errorf("expected every ball to settle, %d of %d stopped", stopped, s.BallCount())
	}
}

func TestHaltPolicy(t *testing.T) {
	cfg := fastSettling()
	s := newTestSim(t, cfg)
	tickN(t, s, 300)
	if !s.AllStopped() {
		t.Fatal("expected every ball to settle")
	}
	if s.ShouldHalt() {
		t.Error("halt_when_stopped is off, ShouldHalt must be false")
	}

	cfg.Run.HaltWhenStopped = true
	s = newTestSim(t, cfg)
	if s.ShouldHalt() {
		t.Error("fresh simulation should not halt")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Run(ctx, 0, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !s.AllStopped() || !s.ShouldHalt() {
		t.Error("Run returned before every ball stopped")
	}
	if s.Running() {
		t.Error("run flag still set after Run returned")
	}
}

func TestRunStopFlag(t *testing.T) {
	s := newTestSim(t, config.Default())

	ticks := 0
	err := s.Run(context.Background(), 0, func(res TickResult) {
		ticks++
		if !s.Running() {
			t.Error("run flag not set during Run")
		}
		if res.Tick == 10 {
			s.Stop()
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ticks != 10 || s.Stats().Ticks != 10 {
		t.Errorf("ran %d ticks (stats %d), want 10", ticks, s.Stats().Ticks)
	}
}

func TestRunContextCancelled(t *testing.T) {
	s := newTestSim(t, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, time.Millisecond, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if s.Stats().Ticks != 0 {
		t.Errorf("cancelled run ticked %d times", s.Stats().Ticks)
	}
}

func TestRunPaced(t *testing.T) {
	s := newTestSim(t, config.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Run(ctx, 10*time.Millisecond, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline, got %v", err)
	}
	if n := s.Stats().Ticks; n < 1 || n > 10 {
		t.Errorf("paced run ticked %d times in 50ms", n)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	cfg := config.Default()
	s := newTestSim(t, cfg)
	initial := s.Snapshot()

	tickN(t, s, 250)
	if s.Snapshot().Hash() == initial.Hash() {
		t.Fatal("ticking did not change state")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	after := s.Snapshot()
	if after.Hash() != initial.Hash() {
		t.Error("reset state differs from the initial state")
	}
	if s.Stats() != NewStats(cfg.Balls.Count) {
		t.Errorf("stats after reset %+v", s.Stats())
	}
}

func TestReconfigure(t *testing.T) {
	s := newTestSim(t, config.Default())
	tickN(t, s, 10)
	before := s.Snapshot()

	bad := config.Default()
	bad.Balls.Count = 0
	if err := s.Reconfigure(bad); err == nil {
		t.Fatal("expected error")
	}
	if s.Snapshot().Hash() != before.Hash() {
		t.Error("failed reconfigure changed the simulation")
	}

	cfg := config.Default()
	cfg.Balls.Count = 3
	cfg.Physics.Gravity = 12
	if err := s.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if s.BallCount() != 3 || s.Stats().Total != 3 {
		t.Errorf("got %d balls after reconfigure", s.BallCount())
	}
	for i := 0; i < s.BallCount(); i++ {
		if s.Ball(i).params != &s.params || s.params.Gravity != 12 {
			t.Errorf("ball %d does not share the new parameters", i)
		}
	}
}

func TestSpeedControl(t *testing.T) {
	s := newTestSim(t, config.Default())
	base := s.TickInterval()

	s.SetSpeed(2)
	if got := s.TickInterval(); got != base/2 {
		t.Errorf("interval at 2x = %v, want %v", got, base/2)
	}
	s.SetSpeed(1000)
	if s.Config().Run.Speed != config.SpeedBound.Max {
		t.Errorf("speed not clamped: %v", s.Config().Run.Speed)
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.Wind = 1

	s1 := newTestSim(t, cfg)
	tickN(t, s1, 60)
	mid := s1.Snapshot()
	tickN(t, s1, 60)
	want := s1.Snapshot()

	s2 := newTestSim(t, cfg)
	if err := s2.Restore(mid); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	tickN(t, s2, 60)
	got := s2.Snapshot()
	if got.Hash() != want.Hash() {
		t.Error("restored simulation diverged")
	}

	small := config.Default()
	small.Balls.Count = 2
	s3 := newTestSim(t, small)
	if err := s3.Restore(mid); err == nil {
		t.Error("expected ball count mismatch error")
	}
}

func TestTickErrorAbortsRun(t *testing.T) {
	s := newTestSim(t, config.Default())
	s.Ball(0).x = -50
	s.Ball(0).vx = 0

	err := s.Run(context.Background(), 0, nil)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if s.Running() {
		t.Error("run flag still set after failed tick")
	}
	if s.Stats().Ticks != 0 {
		t.Error("failed tick was counted")
	}
}
