package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ballsim/ballsim/internal/core"
	"github.com/ballsim/ballsim/internal/sim"
)

// Scene glyphs.
const (
	ballRune     = '●'
	restingRune  = '•'
	platformRune = '▀'
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorPink:          lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// scaleToCells maps a simulation coordinate onto a cell index.
func scaleToCells(v float64, cells, span int) int {
	if span <= 0 {
		return 0
	}
	return int(math.Floor(v * float64(cells) / float64(span)))
}

// DrawScene draws the balls of draws and then the platforms of s into dst,
// scaling the simulation space to the screen. Balls are placed in the cell
// just above the one holding their lower edge, so a resting ball sits on
// its platform line.
func DrawScene(dst *core.Screen, s *sim.Simulation, draws []sim.DrawRequest) {
	cfg := s.Config()
	w, h := dst.Width(), dst.Height()

	for _, d := range draws {
		if !d.Visible {
			continue
		}
		r := float64(d.Diameter) / 2
		col := scaleToCells(d.X+r, w, cfg.Space.Width)
		row := scaleToCells(d.Y+float64(d.Diameter), h, cfg.Space.Height) - 1

		glyph := ballRune
		if d.Stopped {
			glyph = restingRune
		}
		dst.SetColored(col, row, glyph, d.Color)
	}

	for _, p := range s.Terrain().Platforms() {
		row := scaleToCells(float64(p.Y), h, cfg.Space.Height)
		x0 := scaleToCells(float64(p.X), w, cfg.Space.Width)
		x1 := scaleToCells(float64(p.End()), w, cfg.Space.Width)
		dst.DrawHLine(x0, row, x1-x0, platformRune, s.PlatformColor())
	}
}
