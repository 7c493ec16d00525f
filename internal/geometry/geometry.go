// Package geometry holds triangle buffers and the footprint measurements
// derived from them.
package geometry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/tilecraft/pkg/math"
)

// ErrBadGroups is returned when material groups do not cover every triangle
// exactly once.
var ErrBadGroups = errors.New("groups do not partition the triangles")

// Group binds a contiguous run of the index buffer to one material slot.
// Start and Count are in indices (three per triangle), like a GPU draw range.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

// FirstTriangle returns the index of the first triangle covered by the group.
func (g Group) FirstTriangle() int {
	return g.Start / 3
}

// TriangleCount returns how many triangles the group covers.
func (g Group) TriangleCount() int {
	return g.Count / 3
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min   math.Vec3
	Max   math.Vec3
	Empty bool
}

// Size returns the box extent along each axis. Empty boxes have zero size.
func (b Bounds) Size() math.Vec3 {
	if b.Empty {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Geometry is a triangle buffer with optional normals and index list.
// Without indices, every three consecutive positions form a triangle.
type Geometry struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Groups    []Group

	bounds *Bounds
}

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Indexed reports whether the geometry has an explicit index buffer.
func (g *Geometry) Indexed() bool {
	return len(g.Indices) > 0
}

// HasNormals reports whether every position carries a normal.
func (g *Geometry) HasNormals() bool {
	return len(g.Normals) > 0 && len(g.Normals) == len(g.Positions)
}

// IndexCount returns the number of draw indices, implicit or explicit.
func (g *Geometry) IndexCount() int {
	if g.Indexed() {
		return len(g.Indices)
	}
	return len(g.Positions)
}

// TriangleCount returns the number of complete triangles.
func (g *Geometry) TriangleCount() int {
	return g.IndexCount() / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) [3]uint32 {
	base := i * 3
	if g.Indexed() {
		return [3]uint32{g.Indices[base], g.Indices[base+1], g.Indices[base+2]}
	}
	return [3]uint32{uint32(base), uint32(base + 1), uint32(base + 2)}
}

// Position returns vertex i as a vector.
func (g *Geometry) Position(i uint32) math.Vec3 {
	return math.V3(g.Positions[i])
}

// Normal returns the normal of vertex i as a vector.
func (g *Geometry) Normal(i uint32) math.Vec3 {
	return math.V3(g.Normals[i])
}

// ClearGroups removes all material groups.
func (g *Geometry) ClearGroups() {
	g.Groups = nil
}

// AddGroup appends a material group covering count indices from start.
func (g *Geometry) AddGroup(start, count, materialIndex int) {
	g.Groups = append(g.Groups, Group{Start: start, Count: count, MaterialIndex: materialIndex})
}

// ValidateGroups checks that the groups, in start order, tile the whole index
// range with no gaps or overlaps and only cover whole triangles.
func (g *Geometry) ValidateGroups() error {
	groups := slices.Clone(g.Groups)
	slices.SortFunc(groups, func(a, b Group) int { return a.Start - b.Start })

	next := 0
	for _, grp := range groups {
		if grp.Start%3 != 0 || grp.Count%3 != 0 || grp.Count <= 0 {
			return fmt.Errorf("%w: group [%d, %d) is not whole triangles", ErrBadGroups, grp.Start, grp.Start+grp.Count)
		}
		if grp.Start != next {
			return fmt.Errorf("%w: expected group at %d, got %d", ErrBadGroups, next, grp.Start)
		}
		next += grp.Count
	}
	if want := g.TriangleCount() * 3; next != want {
		return fmt.Errorf("%w: groups cover %d of %d indices", ErrBadGroups, next, want)
	}
	return nil
}

// BoundingBox returns the cached bounding box, computing it first if absent.
func (g *Geometry) BoundingBox() Bounds {
	if g.bounds == nil {
		g.ComputeBoundingBox()
	}
	return *g.bounds
}

// ComputeBoundingBox recomputes the bounding box from all positions.
// Call it after editing Positions in place.
func (g *Geometry) ComputeBoundingBox() {
	b := Bounds{Empty: len(g.Positions) == 0}
	for i, p := range g.Positions {
		v := math.V3(p)
		if i == 0 {
			b.Min, b.Max = v, v
			continue
		}
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
	}
	g.bounds = &b
}

// Clone returns a deep copy of the buffers and groups.
func (g *Geometry) Clone() (*Geometry, error) {
	clone := &Geometry{}
	if err := copier.CopyWithOption(clone, g, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("cloning geometry: %w", err)
	}
	if g.bounds != nil {
		b := *g.bounds
		clone.bounds = &b
	}
	return clone, nil
}
