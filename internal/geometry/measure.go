package geometry

import "github.com/chewxy/math32"

// Dimensions is a horizontal footprint: Width along X, Length along Z.
type Dimensions struct {
	Width  float32 `yaml:"width"`
	Length float32 `yaml:"length"`
}

// Scale returns the dimensions multiplied by k, e.g. for a unit conversion.
func (d Dimensions) Scale(k float32) Dimensions {
	return Dimensions{Width: d.Width * k, Length: d.Length * k}
}

// Measurement bundles a surface's footprint area and bounding extents.
type Measurement struct {
	Area float32
	Dimensions
}

// MeasureArea sums the area of every triangle projected onto the XZ plane.
// It is a footprint, not a 3D surface area, so only near-horizontal surfaces
// measure correctly; vertical faces contribute nothing and a closed slab
// counts both its top and bottom.
func MeasureArea(g *Geometry) float32 {
	var area float32
	for i := 0; i < g.TriangleCount(); i++ {
		tri := g.Triangle(i)
		a := g.Position(tri[0]).XZ()
		ab := g.Position(tri[1]).XZ().Sub(a)
		ac := g.Position(tri[2]).XZ().Sub(a)
		area += math32.Abs(ab.Cross(ac)) / 2
	}
	return area
}

// MeasureDimensions returns the X and Z extents of the bounding box.
// Non-rectangular footprints are over-estimated by their bounding rectangle.
func MeasureDimensions(g *Geometry) Dimensions {
	size := g.BoundingBox().Size()
	return Dimensions{Width: size.X, Length: size.Z}
}

// Measure computes both the footprint area and dimensions.
func Measure(g *Geometry) Measurement {
	return Measurement{
		Area:       MeasureArea(g),
		Dimensions: MeasureDimensions(g),
	}
}
