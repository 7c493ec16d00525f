package scene

import (
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/material"
	"github.com/Faultbox/tilecraft/pkg/formats"
	"github.com/Faultbox/tilecraft/pkg/math"
)

func loadRoom(t *testing.T) *Graph {
	t.Helper()
	room, err := formats.LoadRoom("../../testdata/room.yaml")
	require.NoError(t, err)
	g, err := FromRoom(room)
	require.NoError(t, err)
	return g
}

func quad(name string, y float32) *Mesh {
	return NewMesh(name, &geometry.Geometry{
		Positions: [][3]float32{{0, y, 0}, {1, y, 0}, {1, y, 1}, {0, y, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	})
}

func TestFromRoom(t *testing.T) {
	g := loadRoom(t)
	assert.Equal(t, 5, g.Len())

	floor := g.Find("Cube017")
	require.NotNil(t, floor)
	assert.True(t, floor.ReceiveShadow)
	assert.False(t, floor.CastShadow)
	assert.Len(t, floor.Materials, 1)
	assert.Equal(t, 12, floor.Geometry.TriangleCount())

	assert.Nil(t, g.Find("Cube999"))
}

func TestMeshFromRoomTransform(t *testing.T) {
	rot := [4]float32{0, 0, 0, 1}
	scale := [3]float32{2, 1, 2}
	m := MeshFromRoom(&formats.RoomMesh{
		Name:      "Cube017",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}},
		Position:  [3]float32{10, 0, 0},
		Rotation:  &rot,
		Scale:     &scale,
	})

	box, ok := m.WorldBounds()
	require.True(t, ok)
	assert.InDelta(t, 10, box.Min.X, 1e-5)
	assert.InDelta(t, 12, box.Max.X, 1e-5)
	assert.InDelta(t, 2, box.Max.Z, 1e-5)
}

func TestAddDuplicate(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(quad("a", 0)))
	assert.ErrorIs(t, g.Add(quad("a", 1)), ErrDuplicateMesh)
}

func TestPickOrdersByDistance(t *testing.T) {
	g := loadRoom(t)

	// Straight down through the sofa onto the floor.
	hits := g.Pick(NewRay(math.Vec3{X: 0, Y: 5, Z: -0.8}, math.Vec3{Y: -1}))
	require.Len(t, hits, 2)
	assert.Equal(t, "Cube001", hits[0].Mesh.Name)
	assert.InDelta(t, 4.2, hits[0].Distance, 1e-4)
	assert.Equal(t, "Cube017", hits[1].Mesh.Name)
	assert.InDelta(t, 5, hits[1].Distance, 1e-4)

	// Open floor.
	hits = g.Pick(NewRay(math.Vec3{X: 1.5, Y: 5, Z: 1}, math.Vec3{Y: -1}))
	require.Len(t, hits, 1)
	assert.Equal(t, "Cube017", hits[0].Mesh.Name)

	// Pointing at the sky.
	assert.Empty(t, g.Pick(NewRay(math.Vec3{Y: 5}, math.Vec3{Y: 1})))
}

func TestIntersectAABB(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		distT float32
	}{
		{"front", NewRay(math.Vec3{Z: -5}, math.Vec3{Z: 1}), true, 4},
		{"inside", NewRay(math.Vec3{}, math.Vec3{X: 1}), true, 1},
		{"behind", NewRay(math.Vec3{Z: 5}, math.Vec3{Z: 1}), false, 0},
		{"miss parallel", NewRay(math.Vec3{X: 3, Z: -5}, math.Vec3{Z: 1}), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := tt.ray.IntersectAABB(box)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.distT, d, 1e-5)
			}
		})
	}
}

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: 0, Z: 0}
	b := math.Vec3{X: 1, Z: 0}
	c := math.Vec3{X: 0, Z: 1}

	d, hit := NewRay(math.Vec3{X: 0.2, Y: 2, Z: 0.2}, math.Vec3{Y: -1}).IntersectTriangle(a, b, c)
	assert.True(t, hit)
	assert.InDelta(t, 2, d, 1e-5)

	// Back side counts too.
	_, hit = NewRay(math.Vec3{X: 0.2, Y: -2, Z: 0.2}, math.Vec3{Y: 1}).IntersectTriangle(a, b, c)
	assert.True(t, hit)

	_, hit = NewRay(math.Vec3{X: 0.9, Y: 2, Z: 0.9}, math.Vec3{Y: -1}).IntersectTriangle(a, b, c)
	assert.False(t, hit)

	_, hit = NewRay(math.Vec3{X: 0.2, Y: 2, Z: 0.2}, math.Vec3{X: 1}).IntersectTriangle(a, b, c)
	assert.False(t, hit, "parallel ray")
}

func TestScreenToRay(t *testing.T) {
	view := math.LookAt(math.Vec3{Y: 5}, math.Vec3{}, math.Vec3{Z: -1})
	proj := math.Perspective(1, 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 300, 800, 600, inv)
	assert.InDelta(t, 0, r.Direction.X, 1e-3)
	assert.InDelta(t, -1, r.Direction.Y, 1e-3)
	assert.InDelta(t, 0, r.Direction.Z, 1e-3)
	assert.InDelta(t, 4.9, r.Origin.Y, 1e-2)
}

func TestCameraRay(t *testing.T) {
	g := loadRoom(t)
	cam := NewCamera(math.Vec3{Y: 5, Z: 3}, math.Vec3{Y: 0.4, Z: -0.8})

	// The center pixel looks straight at the target.
	r := cam.Ray(400, 300, 800, 600)
	want := cam.Target.Sub(cam.Eye).Normalize()
	assert.InDelta(t, want.X, r.Direction.X, 1e-3)
	assert.InDelta(t, want.Y, r.Direction.Y, 1e-3)
	assert.InDelta(t, want.Z, r.Direction.Z, 1e-3)

	hits := g.Pick(r)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Cube001", hits[0].Mesh.Name)
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera(math.Vec3{X: 2, Y: 1}, math.Vec3{Y: 1})

	quarter := cam.Orbit(math32.Pi / 2)
	assert.InDelta(t, 0, quarter.Eye.X, 1e-4)
	assert.InDelta(t, 1, quarter.Eye.Y, 1e-4)
	assert.InDelta(t, -2, quarter.Eye.Z, 1e-4)
	assert.Equal(t, cam.Target, quarter.Target)
	assert.Equal(t, math.Vec3{X: 2, Y: 1}, cam.Eye, "receiver unchanged")
}

func TestReplace(t *testing.T) {
	g := New()
	a, b := quad("a", 0), quad("b", 1)
	require.NoError(t, g.Add(a, b))

	a2 := quad("a", 2)
	require.NoError(t, g.Replace(a, a2))
	assert.Equal(t, []*Mesh{a2, b}, g.Meshes(), "position preserved")

	assert.ErrorIs(t, g.Replace(a, quad("a", 3)), ErrMeshNotFound, "old mesh is gone")
}

func TestReplaceIsAtomic(t *testing.T) {
	g := New()
	cur := quad("floor", 0)
	require.NoError(t, g.Add(cur, quad("wall", 1)))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			floors := 0
			g.Traverse(func(m *Mesh) {
				if m.Name == "floor" {
					floors++
				}
			})
			if floors != 1 {
				t.Errorf("traversal saw %d floor meshes", floors)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		next := quad("floor", float32(i))
		require.NoError(t, g.Replace(cur, next))
		cur = next
	}
	close(stop)
	wg.Wait()
}

func TestSetMaterial(t *testing.T) {
	g := New()
	m := quad("wall", 0)
	m.Geometry.AddGroup(0, 6, 0)
	require.NoError(t, g.Add(m))

	mat := material.Opaque("wall")
	require.NoError(t, g.SetMaterial(m, mat))

	got, err := g.MaterialAt(m, 0)
	require.NoError(t, err)
	assert.Same(t, mat, got)
	assert.Empty(t, m.Geometry.Groups)

	_, err = g.MaterialAt(m, 1)
	assert.ErrorIs(t, err, ErrMaterialSlot)

	assert.ErrorIs(t, g.SetMaterial(quad("other", 0), mat), ErrMeshNotFound)
}
