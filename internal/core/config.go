package core

// RuntimeConfig contains configuration passed by the platform layer when a
// simulation is started. It describes the viewport, not the physics.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Upper bound on redraws per second
	Seed     int64 // RNG seed override (0 = keep the configured seed)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// Counters is the aggregate data panel shown next to a running simulation.
type Counters struct {
	Ticks     int // Elapsed simulation ticks
	Stopped   int // Balls permanently at rest
	OnScreen  int // Balls inside the simulation bounds
	OffScreen int // Balls outside the simulation bounds
	Total     int // Number of balls in the run
}
