package core

import "strings"

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for simulation elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorPink
)

// paletteNames maps the user-facing palette to cell colors.
var paletteNames = map[string]Color{
	"green":  ColorBrightGreen,
	"cyan":   ColorBrightCyan,
	"red":    ColorBrightRed,
	"yellow": ColorBrightYellow,
	"blue":   ColorBrightBlue,
	"white":  ColorBrightWhite,
	"pink":   ColorPink,
}

// PaletteNames returns the names accepted by ParseColor, in display order.
func PaletteNames() []string {
	return []string{"green", "cyan", "red", "yellow", "blue", "white", "pink"}
}

// ParseColor resolves a palette name (case-insensitive).
func ParseColor(name string) (Color, bool) {
	c, ok := paletteNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
