package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ballsim/ballsim/internal/core"
)

// Data panel layout
const (
	panelWidth       = 34  // Width of the side panel including border
	minWidthForPanel = 90  // Minimum terminal width to show the side panel
	settleCapacity   = 600 // Samples kept for the settle curve
	settleEvery      = 10  // Ticks between settle curve samples
	graphWidth       = 26
	graphHeight      = 5
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1).
	Width(panelWidth - 1)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).MarginTop(1)
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// settleCurve records the number of stopped balls over time.
type settleCurve struct {
	samples []float64
}

// record samples counters every settleEvery ticks.
func (c *settleCurve) record(counters core.Counters) {
	if counters.Ticks%settleEvery != 0 {
		return
	}
	c.samples = append(c.samples, float64(counters.Stopped))
	if len(c.samples) > settleCapacity {
		c.samples = c.samples[len(c.samples)-settleCapacity:]
	}
}

func (c *settleCurve) reset() {
	c.samples = nil
}

// plot renders the curve, or "" with fewer than two samples.
func (c settleCurve) plot(width, height int, caption string) string {
	if len(c.samples) < 2 {
		return ""
	}
	return asciigraph.Plot(c.samples,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// panelLine renders one label/value row.
func panelLine(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value)) + "\n"
}

// renderPanel renders the data panel shown beside the scene.
func renderPanel(title, status string, counters core.Counters, speed float64, curve settleCurve, height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(title)) + "\n")
	b.WriteString(statusStyle.Render(status) + "\n\n")

	b.WriteString(panelLine("Sim time", counters.Ticks))
	b.WriteString(panelLine("Stopped", fmt.Sprintf("%d / %d", counters.Stopped, counters.Total)))
	b.WriteString(panelLine("On screen", counters.OnScreen))
	b.WriteString(panelLine("Off screen", counters.OffScreen))
	b.WriteString(panelLine("Speed", formatSpeed(speed)))

	if chart := curve.plot(graphWidth, graphHeight, "stopped balls"); chart != "" {
		b.WriteString(graphStyle.Render(chart))
	}

	return panelStyle.Height(height).Render(b.String())
}

// statusLine renders the one-line summary used when the panel does not fit.
func statusLine(title, status string, counters core.Counters, speed float64) string {
	return statusStyle.Render(status) + "  " + valueStyle.Render(fmt.Sprintf(
		"%s  t=%d  stopped %d/%d  on %d  off %d  %s",
		title, counters.Ticks, counters.Stopped, counters.Total, counters.OnScreen, counters.OffScreen, formatSpeed(speed),
	))
}

func formatSpeed(speed float64) string {
	return fmt.Sprintf("%gx", speed)
}
