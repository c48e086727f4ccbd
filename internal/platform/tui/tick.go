// Package tui provides the Bubble Tea integration for the simulator.
// It handles the terminal UI loop, input mapping, scene rendering and the
// SSH front end.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a frame of one frame loop.
type TickMsg struct {
	Time time.Time
	Loop int64
}

// loopIDs hands out frame loop identities. A model only reacts to ticks of
// its own loop, so a tick still in flight from a discarded model never
// starts a second loop.
var loopIDs atomic.Int64

func newLoopID() int64 {
	return loopIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends a tick message for loop after interval.
func tickCmd(loop int64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}

// frameInterval is the redraw period for a tick rate.
func frameInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}

// pacing decides how many simulation ticks run per frame so the terminal is
// never redrawn faster than tickRate while the simulation keeps its own
// tick interval. It returns the frame delay and the ticks per frame.
func pacing(tickInterval time.Duration, tickRate int) (time.Duration, int) {
	frame := frameInterval(tickRate)
	if tickInterval <= 0 {
		return frame, 1
	}
	if tickInterval >= frame {
		return tickInterval, 1
	}
	n := int(frame / tickInterval)
	return time.Duration(n) * tickInterval, n
}
