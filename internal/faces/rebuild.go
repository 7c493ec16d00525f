package faces

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tilecraft/internal/material"
	"github.com/Faultbox/tilecraft/internal/scene"
)

// ErrClassificationMismatch is returned when a classification does not
// describe the mesh it is applied to.
var ErrClassificationMismatch = errors.New("classification does not match mesh")

// Material slots of a rebuilt mesh.
const (
	TopSlot  = 0
	SideSlot = 1
)

// Rebuild returns a copy of m whose index buffer lists the top triangles
// first and all others after, each in classification order, with one
// material group per non-empty run bound to top and side respectively.
// Vertex buffers are copied unchanged, so the rebuilt mesh renders the same
// triangles. Name, transform and shadow flags carry over. m is not modified.
func Rebuild(m *scene.Mesh, c Classification, top, side *material.Material) (*scene.Mesh, error) {
	src := m.Geometry
	n := src.TriangleCount()
	if c.Len() != n {
		return nil, fmt.Errorf("%w: %s has %d triangles, classified %d", ErrClassificationMismatch, m.Name, n, c.Len())
	}

	g, err := src.Clone()
	if err != nil {
		return nil, err
	}

	seen := make([]bool, n)
	indices := make([]uint32, 0, n*3)
	for _, list := range [][]int{c.Top, c.Other} {
		for _, i := range list {
			if i < 0 || i >= n || seen[i] {
				return nil, fmt.Errorf("%w: %s triangle %d listed twice or out of range", ErrClassificationMismatch, m.Name, i)
			}
			seen[i] = true
			tri := src.Triangle(i)
			indices = append(indices, tri[0], tri[1], tri[2])
		}
	}
	g.Indices = indices

	g.ClearGroups()
	if len(c.Top) > 0 {
		g.AddGroup(0, len(c.Top)*3, TopSlot)
	}
	if len(c.Other) > 0 {
		g.AddGroup(len(c.Top)*3, len(c.Other)*3, SideSlot)
	}

	return &scene.Mesh{
		Name:          m.Name,
		Geometry:      g,
		Materials:     []*material.Material{top, side},
		Transform:     m.Transform,
		CastShadow:    m.CastShadow,
		ReceiveShadow: m.ReceiveShadow,
	}, nil
}
