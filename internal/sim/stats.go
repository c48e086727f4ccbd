package sim

import "github.com/ballsim/ballsim/internal/core"

// Stats aggregates ball transitions over a run. It is only ever mutated
// from events returned by the balls, never by the balls themselves.
type Stats struct {
	Ticks     int
	Stopped   int
	OnScreen  int
	OffScreen int
	Total     int
}

// NewStats returns the initial tallies for total balls, all counted on-screen.
func NewStats(total int) Stats {
	return Stats{OnScreen: total, Total: total}
}

// Apply folds one ball event into the tallies.
func (s *Stats) Apply(ev Event) {
	if ev.Stopped {
		s.Stopped++
	}
	if ev.WentOffScreen {
		s.OnScreen--
		s.OffScreen++
	}
	if ev.CameOnScreen {
		s.OffScreen--
		s.OnScreen++
	}
}

// Reset restores the initial tallies.
func (s *Stats) Reset(total int) {
	*s = NewStats(total)
}

// AllStopped reports whether every ball has come to rest.
func (s Stats) AllStopped() bool {
	return s.Stopped == s.Total
}

// Counters converts the tallies for the data panel.
func (s Stats) Counters() core.Counters {
	return core.Counters{
		Ticks:     s.Ticks,
		Stopped:   s.Stopped,
		OnScreen:  s.OnScreen,
		OffScreen: s.OffScreen,
		Total:     s.Total,
	}
}
