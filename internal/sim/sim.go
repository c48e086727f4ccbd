// Package sim implements the ball physics simulation: the terrain height
// map, the per-ball integrator and the tick driver that aggregates events.
// It has no knowledge of terminals or rendering.
package sim

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/core"
)

// Spawn area of the initial ball population.
const (
	spawnX        = 100.0
	spawnY        = 20.0
	spawnXScale   = 0.025
	spawnYScale   = 0.02
	spawnVX       = 8.0
	velocityScale = 0.01
)

// DrawRequest tells the renderer where one ball is after a tick.
type DrawRequest struct {
	Index    int
	X, Y     float64
	Diameter int
	Color    core.Color
	Visible  bool
	Stopped  bool
}

// BallEvent is an event attributed to a ball.
type BallEvent struct {
	Index int
	Event Event
}

// TickResult is everything observable about one tick.
type TickResult struct {
	Tick   int
	Events []BallEvent
	Draws  []DrawRequest
	Stats  Stats
}

// Simulation drives a set of balls over a terrain.
// Tick and the mutating methods must be called from a single goroutine;
// Stop and Running may be called from anywhere.
type Simulation struct {
	cfg     config.SimConfig
	params  Params
	terrain *Terrain
	balls   []*Ball
	stats   Stats
	rng     *SimpleRNG

	ballColor     core.Color
	platformColor core.Color

	running atomic.Bool
}

// New validates cfg and builds the terrain and ball population.
// A configuration error is returned as a *config.ConfigError.
func New(cfg config.SimConfig) (*Simulation, error) {
	s := &Simulation{}
	if err := s.build(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) build(cfg config.SimConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	platforms, err := LayoutPlatforms(cfg.Terrain.Platforms, cfg.Space.Width, cfg.Space.Height)
	if err != nil {
		return err
	}
	terrain, err := NewTerrain(platforms, cfg.Space.Width, cfg.Balls.Diameter)
	if err != nil {
		return err
	}

	ballColor, _ := core.ParseColor(cfg.Balls.Color)
	platformColor, _ := core.ParseColor(cfg.Terrain.Color)

	s.cfg = cfg
	s.terrain = terrain
	s.ballColor = ballColor
	s.platformColor = platformColor
	s.params = Params{
		Diameter:          float64(cfg.Balls.Diameter),
		Gravity:           cfg.Physics.Gravity,
		Hysteresis:        cfg.Physics.Hysteresis,
		AirResistance:     cfg.Physics.AirResistance,
		RollingResistance: cfg.Physics.RollingResistance,
		Wind:              cfg.Physics.Wind,
	}
	s.rng = NewSimpleRNG(cfg.Run.Seed)
	s.spawnBalls()
	s.stats.Reset(len(s.balls))
	return nil
}

// spawnBalls creates the population from the seeded RNG. Initial x is
// folded into the span where the wrap rule applies.
func (s *Simulation) spawnBalls() {
	n := s.cfg.Balls.Count
	spread := s.cfg.Balls.Spread
	velSpread := s.cfg.Balls.VelocitySpread
	span := float64(s.cfg.Space.Width - 1 - s.cfg.Balls.Diameter)

	s.balls = make([]*Ball, n)
	for i := range s.balls {
		x := spawnX + spawnXScale*float64(s.rng.Intn(spread))
		y := spawnY + spawnYScale*float64(s.rng.Intn(spread))
		vx := spawnVX + velocityScale*float64(s.rng.Intn(velSpread))
		vy := velocityScale * float64(s.rng.Intn(velSpread))
		if x > span {
			x = math.Mod(x, span)
		}
		s.balls[i] = NewBall(x, y, vx, vy, &s.params)
	}
}

// Tick advances every ball by one time step, then evaluates visibility and
// produces draw requests. Any ball error aborts the tick; the simulation
// should not be ticked again after that.
func (s *Simulation) Tick() (TickResult, error) {
	result := TickResult{Tick: s.stats.Ticks + 1}
	dt := s.cfg.Physics.TimeStep

	for i, b := range s.balls {
		ev, err := b.Advance(dt, s.terrain)
		if err != nil {
			s.running.Store(false)
			return result, fmt.Errorf("sim: tick %d, ball %d: %w", result.Tick, i, err)
		}
		if ev.Any() {
			s.stats.Apply(ev)
			result.Events = append(result.Events, BallEvent{Index: i, Event: ev})
		}
	}

	width := s.terrain.Width()
	for i, b := range s.balls {
		if ev := b.UpdateVisibility(width); ev.Any() {
			s.stats.Apply(ev)
			result.Events = append(result.Events, BallEvent{Index: i, Event: ev})
		}
	}

	result.Draws = s.Draws()
	s.stats.Ticks++
	result.Stats = s.stats
	return result, nil
}

// Draws returns draw requests for the current ball positions.
func (s *Simulation) Draws() []DrawRequest {
	draws := make([]DrawRequest, len(s.balls))
	for i, b := range s.balls {
		draws[i] = DrawRequest{
			Index:    i,
			X:        b.X(),
			Y:        b.Y(),
			Diameter: s.cfg.Balls.Diameter,
			Color:    s.ballColor,
			Visible:  !b.OffScreen(),
			Stopped:  b.Stopped(),
		}
	}
	return draws
}

// AllStopped reports whether every ball has come to rest.
func (s *Simulation) AllStopped() bool {
	return s.stats.AllStopped()
}

// ShouldHalt applies the configured termination policy.
func (s *Simulation) ShouldHalt() bool {
	return s.cfg.Run.HaltWhenStopped && s.AllStopped()
}

// Start sets the run flag.
func (s *Simulation) Start() {
	s.running.Store(true)
}

// Stop clears the run flag. A loop in Run notices it before its next tick.
func (s *Simulation) Stop() {
	s.running.Store(false)
}

// Running reports the run flag.
func (s *Simulation) Running() bool {
	return s.running.Load()
}

// Reset rebuilds terrain and balls from the current configuration and
// restores the initial tallies. The RNG is reseeded, so the new run is
// identical to the first one.
func (s *Simulation) Reset() error {
	return s.Reconfigure(s.cfg)
}

// Reconfigure rebuilds the simulation from cfg. On error the current
// simulation is left untouched.
func (s *Simulation) Reconfigure(cfg config.SimConfig) error {
	next := &Simulation{}
	if err := next.build(cfg); err != nil {
		return err
	}
	s.cfg = next.cfg
	s.params = next.params
	s.terrain = next.terrain
	s.ballColor = next.ballColor
	s.platformColor = next.platformColor
	s.rng = next.rng
	s.stats = next.stats
	s.balls = next.balls
	for _, b := range s.balls {
		b.params = &s.params
	}
	return nil
}

// Run ticks the simulation every interval until the run flag is cleared,
// ctx is cancelled, a tick fails, or the halt policy triggers.
// onTick may be nil.
func (s *Simulation) Run(ctx context.Context, interval time.Duration, onTick func(TickResult)) error {
	s.Start()
	defer s.Stop()

	var timer *time.Timer
	if interval > 0 {
		timer = time.NewTimer(interval)
		defer timer.Stop()
	}

	for {
		if !s.Running() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := s.Tick()
		if err != nil {
			return err
		}
		if onTick != nil {
			onTick(res)
		}
		if s.ShouldHalt() {
			return nil
		}

		if timer == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(interval)
		}
	}
}

// SetSpeed changes the pacing factor, clamped to its bound.
func (s *Simulation) SetSpeed(speed float64) {
	s.cfg.Run.Speed = config.SpeedBound.Clamp(speed)
}

// TickInterval returns the pacing delay for the current speed.
func (s *Simulation) TickInterval() time.Duration {
	return s.cfg.TickInterval()
}

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() config.SimConfig { return s.cfg }

// Terrain returns the terrain.
func (s *Simulation) Terrain() *Terrain { return s.terrain }

// Stats returns the current tallies.
func (s *Simulation) Stats() Stats { return s.stats }

// BallCount returns the number of balls.
func (s *Simulation) BallCount() int { return len(s.balls) }

// Ball returns the i-th ball, or nil if out of range.
func (s *Simulation) Ball(i int) *Ball {
	if i < 0 || i >= len(s.balls) {
		return nil
	}
	return s.balls[i]
}

// PlatformColor returns the terrain color.
func (s *Simulation) PlatformColor() core.Color { return s.platformColor }

// BallColor returns the ball color.
func (s *Simulation) BallColor() core.Color { return s.ballColor }
