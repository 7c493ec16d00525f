// Package faces splits a mesh's triangles by orientation and regroups the
// mesh so its top and remaining faces take separate materials.
package faces

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tilecraft/internal/geometry"
)

// TopThreshold is the minimum Y of a triangle's averaged vertex normal for
// it to count as top-facing.
const TopThreshold = 0.5

// Classification errors.
var (
	ErrNoNormals     = errors.New("geometry has no vertex normals")
	ErrNotContiguous = errors.New("face list is not a contiguous run")
)

// Classification lists triangle indices by orientation, each in ascending order.
// Together Top and Other cover every triangle exactly once.
type Classification struct {
	Top   []int
	Other []int
}

// Len returns the number of classified triangles.
func (c Classification) Len() int {
	return len(c.Top) + len(c.Other)
}

// Classify sorts every triangle of g into top-facing and other, in ascending
// triangle order. A triangle is top-facing when the average of its three
// vertex normals has Y above TopThreshold.
func Classify(g *geometry.Geometry) (Classification, error) {
	n := g.TriangleCount()
	cls := Classification{
		Top:   make([]int, 0, n),
		Other: make([]int, 0, n),
	}
	if n == 0 {
		return cls, nil
	}
	if !g.HasNormals() {
		return Classification{}, ErrNoNormals
	}

	for i := 0; i < n; i++ {
		tri := g.Triangle(i)
		avgY := (g.Normals[tri[0]][1] + g.Normals[tri[1]][1] + g.Normals[tri[2]][1]) / 3
		if avgY > TopThreshold {
			cls.Top = append(cls.Top, i)
		} else {
			cls.Other = append(cls.Other, i)
		}
	}
	return cls, nil
}

// ContiguousGroups returns material groups for geometry whose top and other
// triangles already form one run each, without touching the index buffer:
// top gets material 0 and the rest material 1. Empty lists yield no group.
func ContiguousGroups(c Classification) ([]geometry.Group, error) {
	var groups []geometry.Group
	for mat, list := range [][]int{c.Top, c.Other} {
		if len(list) == 0 {
			continue
		}
		if !contiguous(list) {
			return nil, fmt.Errorf("%w: material %d starts at triangle %d", ErrNotContiguous, mat, list[0])
		}
		groups = append(groups, geometry.Group{
			Start:         list[0] * 3,
			Count:         len(list) * 3,
			MaterialIndex: mat,
		})
	}
	return groups, nil
}

func contiguous(list []int) bool {
	for i := 1; i < len(list); i++ {
		if list[i] != list[i-1]+1 {
			return false
		}
	}
	return true
}
