package sim

import (
	"github.com/ballsim/ballsim/internal/config"
)

// Platform is one horizontal step of the terrain.
type Platform struct {
	X      int // Left end, inclusive
	Length int // Span in columns
	Y      int // Surface height (y grows downwards)
}

// End returns the first column after the platform.
func (p Platform) End() int {
	return p.X + p.Length
}

// LayoutPlatforms generates n descending steps across the space.
// Every platform has the nominal length width/n; NewTerrain lets the last
// one absorb the remainder.
func LayoutPlatforms(n, width, height int) ([]Platform, error) {
	if n <= 0 {
		return nil, &config.ConfigError{Field: "terrain.platforms", Value: n, Reason: "must be positive"}
	}
	if width <= 0 || height <= 0 {
		return nil, &config.ConfigError{Field: "space", Value: [2]int{width, height}, Reason: "dimensions must be positive"}
	}
	length := width / n
	if length < 1 {
		return nil, &config.ConfigError{Field: "terrain.platforms", Value: n, Reason: "more platforms than columns"}
	}

	top := int(0.5 * float64(height))
	vertShift := int(0.5 * float64(height) / float64(n))

	platforms := make([]Platform, n)
	for i := range platforms {
		platforms[i] = Platform{
			X:      i * length,
			Length: length,
			Y:      top + i*vertShift,
		}
	}
	return platforms, nil
}

// Terrain maps every column of the space to the height a ball's reference
// point rests at. It is immutable once built and safe to share.
type Terrain struct {
	heights   []int
	platforms []Platform
}

// NewTerrain builds the height map from platforms given in increasing x
// order. Platforms must be contiguous from column 0; the last one is
// extended to the right edge. Each column rests a ball one diameter above
// the platform surface.
func NewTerrain(platforms []Platform, width, diameter int) (*Terrain, error) {
	if len(platforms) == 0 {
		return nil, &config.ConfigError{Field: "terrain.platforms", Value: 0, Reason: "must be positive"}
	}
	if width <= 0 {
		return nil, &config.ConfigError{Field: "space.width", Value: width, Reason: "must be positive"}
	}

	segments := make([]Platform, len(platforms))
	copy(segments, platforms)

	next := 0
	for i, p := range segments {
		if p.X != next || p.Length <= 0 {
			return nil, &config.ConfigError{Field: "terrain.platforms", Value: i, Reason: "platforms must tile the width without gaps"}
		}
		next = p.End()
	}
	if next > width {
		return nil, &config.ConfigError{Field: "terrain.platforms", Value: next, Reason: "platforms extend past the width"}
	}
	segments[len(segments)-1].Length += width - next

	heights := make([]int, width)
	for _, p := range segments {
		for x := p.X; x < p.End(); x++ {
			heights[x] = p.Y - diameter
		}
	}

	return &Terrain{heights: heights, platforms: segments}, nil
}

// Width returns the number of columns.
func (t *Terrain) Width() int {
	return len(t.heights)
}

// HeightAt returns the resting height for column x.
func (t *Terrain) HeightAt(x int) (int, error) {
	if x < 0 || x >= len(t.heights) {
		return 0, &IndexError{X: x, Width: len(t.heights)}
	}
	return t.heights[x], nil
}

// Platforms returns the platform segments as laid into the height map.
func (t *Terrain) Platforms() []Platform {
	out := make([]Platform, len(t.platforms))
	copy(out, t.platforms)
	return out
}
