package sim

import (
	"fmt"
	"math"
)

// ballFlags bit layout.
const (
	flagStoppedX = 1 << iota
	flagStoppedY
	flagStopped
	flagRolling
	flagOffScreen
)

// Snapshot contains the complete simulation state for replay and
// determinism checks. Configuration is not included; a snapshot can only be
// restored into a simulation built from the same configuration.
type Snapshot struct {
	Tick      uint64
	Stopped   int
	OnScreen  int
	OffScreen int

	// Ball kinematics (each ball is 4 floats: X, Y, VX, VY)
	BallCount int
	BallData  []float64
	// One bit set per ball, see the flag constants
	BallFlags []int

	RNGState uint64
}

// Snapshot returns the current state.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      uint64(s.stats.Ticks), //#nosec G115 -- tick count is never negative
		Stopped:   s.stats.Stopped,
		OnScreen:  s.stats.OnScreen,
		OffScreen: s.stats.OffScreen,
		BallCount: len(s.balls),
		BallData:  make([]float64, 0, len(s.balls)*4),
		BallFlags: make([]int, 0, len(s.balls)),
		RNGState:  s.rng.state,
	}

	for _, b := range s.balls {
		snap.BallData = append(snap.BallData, b.x, b.y, b.vx, b.vy)
		flags := 0
		if b.stoppedX {
			flags |= flagStoppedX
		}
		if b.stoppedY {
			flags |= flagStoppedY
		}
		if b.stopped {
			flags |= flagStopped
		}
		if b.rolling {
			flags |= flagRolling
		}
		if b.offScreen {
			flags |= flagOffScreen
		}
		snap.BallFlags = append(snap.BallFlags, flags)
	}
	return snap
}

// Restore overwrites ball state and tallies from a snapshot.
func (s *Simulation) Restore(snap Snapshot) error {
	if snap.BallCount != len(s.balls) || len(snap.BallData) != snap.BallCount*4 || len(snap.BallFlags) != snap.BallCount {
		return fmt.Errorf("sim: snapshot holds %d balls, simulation has %d", snap.BallCount, len(s.balls))
	}

	for i, b := range s.balls {
		d := snap.BallData[i*4 : i*4+4]
		b.x, b.y, b.vx, b.vy = d[0], d[1], d[2], d[3]
		f := snap.BallFlags[i]
		b.stoppedX = f&flagStoppedX != 0
		b.stoppedY = f&flagStoppedY != 0
		b.stopped = f&flagStopped != 0
		b.rolling = f&flagRolling != 0
		b.offScreen = f&flagOffScreen != 0
	}

	s.stats = Stats{
		Ticks:     int(snap.Tick), //#nosec G115 -- round trip of a non-negative count
		Stopped:   snap.Stopped,
		OnScreen:  snap.OnScreen,
		OffScreen: snap.OffScreen,
		Total:     snap.BallCount,
	}
	s.rng.state = snap.RNGState
	return nil
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Stopped)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.OnScreen)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.OffScreen) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallCount) //#nosec G115 -- hash computation

	for _, v := range snap.BallData {
		h = h*31 + math.Float64bits(v)
	}

	for _, v := range snap.BallFlags {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	h = h*31 + snap.RNGState

	return h
}
