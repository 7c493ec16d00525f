// Package tiling converts physical surface and tile sizes into texture
// repeat factors and tile counts.
package tiling

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// MetersToFeet converts model units (meters) to feet.
const MetersToFeet float32 = 3.28084

// ErrDegenerateDimensions is returned when a floor or tile size cannot
// produce a finite, positive repeat.
var ErrDegenerateDimensions = errors.New("degenerate dimensions")

// Repeat holds per-axis texture repeat factors.
type Repeat struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// One is the neutral repeat used when no physical size is known.
var One = Repeat{X: 1, Y: 1}

func (r Repeat) String() string {
	return fmt.Sprintf("%g×%g", r.X, r.Y)
}

// TileSize is a physical tile size in feet.
type TileSize struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Area returns the tile's area in square feet.
func (t TileSize) Area() float32 {
	return t.Width * t.Height
}

// FloorRepeat returns how many tiles span the floor along each axis.
// Both arguments must use the same unit. Fractional repeats are kept as-is:
// they render the partial tile at the floor edge.
func FloorRepeat(floor geometry.Dimensions, tile TileSize) (Repeat, error) {
	if tile.Width <= 0 || tile.Height <= 0 {
		return Repeat{}, fmt.Errorf("%w: tile %gx%g", ErrDegenerateDimensions, tile.Width, tile.Height)
	}
	if floor.Width <= 0 || floor.Length <= 0 {
		return Repeat{}, fmt.Errorf("%w: floor %gx%g", ErrDegenerateDimensions, floor.Width, floor.Length)
	}
	r := Repeat{X: floor.Width / tile.Width, Y: floor.Length / tile.Height}
	if math32.IsInf(r.X, 0) || math32.IsInf(r.Y, 0) || math32.IsNaN(r.X) || math32.IsNaN(r.Y) {
		return Repeat{}, fmt.Errorf("%w: repeat %v", ErrDegenerateDimensions, r)
	}
	return r, nil
}

// RepeatTable is an immutable surface type to default repeat lookup.
type RepeatTable struct {
	repeats map[surface.Type]Repeat
}

// NewRepeatTable copies repeats into a new table.
func NewRepeatTable(repeats map[surface.Type]Repeat) RepeatTable {
	m := make(map[surface.Type]Repeat, len(repeats))
	for t, r := range repeats {
		m[t] = r
	}
	return RepeatTable{repeats: m}
}

// DefaultRepeats returns the built-in repeats. Floors have no entry because
// their repeat is always computed from the tile size.
func DefaultRepeats() map[surface.Type]Repeat {
	return map[surface.Type]Repeat{
		surface.Wall:    {X: 2, Y: 2},
		surface.Sofa:    {X: 1, Y: 1},
		surface.Curtain: {X: 5, Y: 5},
	}
}

// DefaultRepeatTable returns a table built from DefaultRepeats.
func DefaultRepeatTable() RepeatTable {
	return NewRepeatTable(DefaultRepeats())
}

// Default returns the repeat for t, or One for unmapped types.
func (rt RepeatTable) Default(t surface.Type) Repeat {
	if r, ok := rt.repeats[t]; ok {
		return r
	}
	return One
}

// ToFeet converts a measurement in meters to feet.
func ToFeet(m geometry.Measurement) geometry.Measurement {
	return Convert(m, MetersToFeet)
}

// Convert scales a measurement by a linear unit factor k. Areas scale by k².
func Convert(m geometry.Measurement, k float32) geometry.Measurement {
	return geometry.Measurement{
		Area:       m.Area * k * k,
		Dimensions: m.Dimensions.Scale(k),
	}
}
