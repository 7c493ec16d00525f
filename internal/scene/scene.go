// Package scene is an in-memory scene graph of named meshes with ray picking.
// It stands in for a renderer's scene: traversal, picking and the atomic
// mesh swap the designer relies on.
package scene

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/material"
	"github.com/Faultbox/tilecraft/pkg/formats"
	"github.com/Faultbox/tilecraft/pkg/math"
)

// Scene errors.
var (
	ErrMeshNotFound  = errors.New("mesh not in scene")
	ErrDuplicateMesh = errors.New("mesh name already in scene")
	ErrMaterialSlot  = errors.New("material slot out of range")
)

// Hit is a mesh intersected by a pick ray.
type Hit struct {
	Mesh     *Mesh
	Distance float32
}

// Graph holds the scene's meshes. All methods are safe for concurrent use.
type Graph struct {
	mu     sync.RWMutex
	meshes []*Mesh
}

// New creates an empty scene graph.
func New() *Graph {
	return &Graph{}
}

// Add appends meshes to the scene. Mesh names must be unique.
func (g *Graph) Add(meshes ...*Mesh) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, m := range meshes {
		if g.find(m.Name) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateMesh, m.Name)
		}
		// Bounds are filled before the mesh is shared so readers never write.
		m.Geometry.ComputeBoundingBox()
		g.meshes = append(g.meshes, m)
	}
	return nil
}

// Len returns the number of meshes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.meshes)
}

// Meshes returns a snapshot of the scene's meshes in insertion order.
func (g *Graph) Meshes() []*Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.meshes)
}

// Traverse calls fn for every mesh. The scene is read-locked for the whole
// traversal, so fn must not modify the graph.
func (g *Graph) Traverse(fn func(*Mesh)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, m := range g.meshes {
		fn(m)
	}
}

// Find returns the mesh with the given name, or nil.
func (g *Graph) Find(name string) *Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.find(name)
}

func (g *Graph) find(name string) *Mesh {
	for _, m := range g.meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Replace swaps old for repl at the same position in a single step.
// No traversal ever sees both meshes or neither.
func (g *Graph) Replace(old, repl *Mesh) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := slices.Index(g.meshes, old)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMeshNotFound, old.Name)
	}
	repl.Geometry.ComputeBoundingBox()
	g.meshes[i] = repl
	return nil
}

// SetMaterial binds mat to material slot 0 of m, dropping any other slots
// and groups so mat covers the whole mesh.
func (g *Graph) SetMaterial(m *Mesh, mat *material.Material) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !slices.Contains(g.meshes, m) {
		return fmt.Errorf("%w: %s", ErrMeshNotFound, m.Name)
	}
	m.Materials = []*material.Material{mat}
	m.Geometry.ClearGroups()
	return nil
}

// MaterialAt returns material slot i of m, read under the scene lock.
func (g *Graph) MaterialAt(m *Mesh, i int) (*material.Material, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if i < 0 || i >= len(m.Materials) {
		return nil, fmt.Errorf("%w: %d of %d", ErrMaterialSlot, i, len(m.Materials))
	}
	return m.Materials[i], nil
}

// Pick returns every mesh hit by r, nearest first.
func (g *Graph) Pick(r Ray) []Hit {
	var hits []Hit
	g.Traverse(func(m *Mesh) {
		if t, ok := m.Intersect(r); ok {
			hits = append(hits, Hit{Mesh: m, Distance: t})
		}
	})
	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}

// FromRoom builds a scene from a parsed room file.
func FromRoom(room *formats.Room) (*Graph, error) {
	g := New()
	for i := range room.Meshes {
		if err := g.Add(MeshFromRoom(&room.Meshes[i])); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MeshFromRoom converts one room mesh, copying its buffers.
func MeshFromRoom(rm *formats.RoomMesh) *Mesh {
	geo := &geometry.Geometry{
		Positions: slices.Clone(rm.Positions),
		Normals:   slices.Clone(rm.Normals),
		Indices:   slices.Clone(rm.Indices),
	}

	m := NewMesh(rm.Name, geo)
	m.Transform.Position = math.V3(rm.Position)
	if rm.Rotation != nil {
		r := *rm.Rotation
		m.Transform.Rotation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}
	}
	if rm.Scale != nil {
		m.Transform.Scale = math.V3(*rm.Scale)
	}
	m.CastShadow = rm.CastShadow
	m.ReceiveShadow = rm.ReceiveShadow
	return m
}
