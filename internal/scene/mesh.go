package scene

import (
	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/material"
	"github.com/Faultbox/tilecraft/pkg/math"
)

// Transform places a mesh in the world.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Matrix returns the model matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Rotation, t.Scale)
}

// Mesh is a named surface in the scene: geometry, bound materials and placement.
// When the geometry has groups, Materials is indexed by Group.MaterialIndex;
// otherwise Materials[0] covers the whole mesh.
type Mesh struct {
	Name          string
	Geometry      *geometry.Geometry
	Materials     []*material.Material
	Transform     Transform
	CastShadow    bool
	ReceiveShadow bool
}

// NewMesh creates a mesh with an identity transform and a plain white material.
func NewMesh(name string, g *geometry.Geometry) *Mesh {
	return &Mesh{
		Name:      name,
		Geometry:  g,
		Materials: []*material.Material{material.Opaque(name)},
		Transform: IdentityTransform(),
	}
}

// WorldBounds returns the mesh's bounding box in world space.
// The second result is false for a mesh with no positions.
func (m *Mesh) WorldBounds() (AABB, bool) {
	b := m.Geometry.BoundingBox()
	if b.Empty {
		return AABB{}, false
	}
	return TransformAABB(AABB{Min: b.Min, Max: b.Max}, m.Transform.Matrix()), true
}

// Intersect returns the distance to the nearest triangle of m hit by r.
func (m *Mesh) Intersect(r Ray) (float32, bool) {
	box, ok := m.WorldBounds()
	if !ok {
		return 0, false
	}
	if _, hit := r.IntersectAABB(box); !hit {
		return 0, false
	}

	g := m.Geometry
	mat := m.Transform.Matrix()
	best, found := float32(0), false
	for i := 0; i < g.TriangleCount(); i++ {
		tri := g.Triangle(i)
		a := mat.TransformPoint(g.Position(tri[0]))
		b := mat.TransformPoint(g.Position(tri[1]))
		c := mat.TransformPoint(g.Position(tri[2]))
		if t, hit := r.IntersectTriangle(a, b, c); hit && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}
