package tiling

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/tilecraft/internal/geometry"
)

// Report describes a floor tiling for display. All values are in feet.
type Report struct {
	Repeat      Repeat
	Floor       geometry.Dimensions
	Tile        TileSize
	TilesNeeded int
	TotalArea   float32
	TilesArea   float32
	Unit        string
}

// NewReport builds a Report for a computed floor repeat.
//
// TilesNeeded rounds each axis up, so it always covers the floor. TilesArea
// uses the unrounded repeats and can come out slightly below the true floor
// area. The two are intentionally computed differently.
func NewReport(floor geometry.Dimensions, tile TileSize, r Repeat, totalArea float32) Report {
	return Report{
		Repeat:      r,
		Floor:       floor,
		Tile:        tile,
		TilesNeeded: TilesNeeded(r),
		TotalArea:   totalArea,
		TilesArea:   r.X * r.Y * tile.Area(),
		Unit:        "feet",
	}
}

// TilesNeeded returns ceil(X) × ceil(Y).
func TilesNeeded(r Repeat) int {
	return int(math32.Ceil(r.X)) * int(math32.Ceil(r.Y))
}

// Estimate is a rough tile count from area alone, used when listing floor
// designs before one is applied.
type Estimate struct {
	Total  int
	Across int
	Down   int
}

// EstimateFromArea estimates tiles for a floor of the given area in square feet.
// It assumes a footprint with the tile's aspect ratio.
func EstimateFromArea(area float32, tile TileSize) (Estimate, error) {
	if tile.Width <= 0 || tile.Height <= 0 || area <= 0 {
		return Estimate{}, ErrDegenerateDimensions
	}
	total := int(math32.Ceil(area / tile.Area()))
	across := int(math32.Ceil(math32.Sqrt(area / (tile.Height / tile.Width))))
	if across == 0 {
		across = 1
	}
	down := (total + across - 1) / across
	return Estimate{Total: total, Across: across, Down: down}, nil
}
