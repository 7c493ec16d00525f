package designer

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/logger"
	"github.com/Faultbox/tilecraft/internal/scene"
	"github.com/Faultbox/tilecraft/internal/texture"
	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// Options configures a Controller. Zero values fall back to the built-in tables.
type Options struct {
	Surfaces  *surface.Table
	Repeats   *tiling.RepeatTable
	Catalog   *catalog.Catalog
	UnitScale float32 // Model units to feet, tiling.MetersToFeet when zero
	Listener  Listener
}

// Controller tracks the selected surface and applies designs to it.
// All methods are safe for concurrent use.
type Controller struct {
	scene    Scene
	synth    *texture.Synthesizer
	surfaces surface.Table
	repeats  tiling.RepeatTable
	catalog  catalog.Catalog
	scale    float32
	listener Listener

	mu       sync.Mutex
	selected *scene.Mesh
	selType  surface.Type
	floors   map[string]geometry.Measurement // Feet, by mesh name
	lastID   uint64
	inflight *Job
}

// New creates a controller over s that builds textures with synth.
func New(s Scene, synth *texture.Synthesizer, opts Options) *Controller {
	c := &Controller{
		scene:    s,
		synth:    synth,
		surfaces: surface.DefaultTable(),
		repeats:  tiling.DefaultRepeatTable(),
		catalog:  catalog.Default(),
		scale:    tiling.MetersToFeet,
		listener: NopListener{},
		floors:   make(map[string]geometry.Measurement),
	}
	if opts.Surfaces != nil {
		c.surfaces = *opts.Surfaces
	}
	if opts.Repeats != nil {
		c.repeats = *opts.Repeats
	}
	if opts.Catalog != nil {
		c.catalog = *opts.Catalog
	}
	if opts.UnitScale > 0 {
		c.scale = opts.UnitScale
	}
	if opts.Listener != nil {
		c.listener = opts.Listener
	}
	return c
}

// State returns the current selection state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.inflight != nil:
		return Applying
	case c.selected != nil:
		return Selected
	default:
		return Idle
	}
}

// Selection returns the selected mesh and its type, or nil and Unknown.
func (c *Controller) Selection() (*scene.Mesh, surface.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selType
}

// MeasureFloors measures every floor mesh in the scene once, converts the
// result to feet and caches it for later applies. Call it after scene load.
func (c *Controller) MeasureFloors() map[string]geometry.Measurement {
	measured := make(map[string]geometry.Measurement)
	c.scene.Traverse(func(m *scene.Mesh) {
		if c.surfaces.Resolve(m.Name) != surface.Floor {
			return
		}
		measured[m.Name] = tiling.Convert(geometry.Measure(m.Geometry), c.scale)
	})

	c.mu.Lock()
	for name, m := range measured {
		c.floors[name] = m
	}
	c.mu.Unlock()

	for name, m := range measured {
		logger.Info("measured floor",
			zap.String("mesh", name),
			zap.Float32("area_sqft", m.Area),
			zap.Float32("width_ft", m.Width),
			zap.Float32("length_ft", m.Length),
		)
		c.listener.FloorMeasured(name, m)
	}
	return measured
}

// Measurement returns the cached measurement of a floor mesh, in feet.
func (c *Controller) Measurement(name string) (geometry.Measurement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.floors[name]
	return m, ok
}

// OnMeshPicked selects m if its name maps to a known surface type and opens
// the design picker. Anything else clears the selection.
func (c *Controller) OnMeshPicked(m *scene.Mesh) {
	t := c.surfaces.Resolve(m.Name)

	c.mu.Lock()
	if !t.Known() {
		c.selected, c.selType = nil, surface.Unknown
	} else {
		c.selected, c.selType = m, t
	}
	c.mu.Unlock()

	if !t.Known() {
		logger.Debug("ignoring pick on unmapped mesh", zap.String("mesh", m.Name))
		c.listener.DesignSurfaceClosed()
		return
	}
	logger.Debug("selected surface", zap.String("mesh", m.Name), zap.Stringer("type", t))
	c.listener.DesignSurfaceOpened(t, c.catalog.ForType(t))
}

// PickRay picks the nearest mesh along r. It reports whether anything was hit;
// a miss leaves the selection unchanged.
func (c *Controller) PickRay(r scene.Ray) bool {
	hits := c.scene.Pick(r)
	if len(hits) == 0 {
		return false
	}
	c.OnMeshPicked(hits[0].Mesh)
	return true
}

// Estimate returns a rough tile count for a floor design on the selected
// floor, from its cached area.
func (c *Controller) Estimate(d catalog.Design) (tiling.Estimate, error) {
	c.mu.Lock()
	mesh, t := c.selected, c.selType
	var m geometry.Measurement
	ok := false
	if mesh != nil {
		m, ok = c.floors[mesh.Name]
	}
	c.mu.Unlock()

	switch {
	case mesh == nil:
		return tiling.Estimate{}, ErrNoSelection
	case t != surface.Floor || d.TileSize == nil:
		return tiling.Estimate{}, fmt.Errorf("%s: no tile size for %s", d.Name, t)
	case !ok:
		return tiling.Estimate{}, fmt.Errorf("%s: floor not measured", mesh.Name)
	}
	return tiling.EstimateFromArea(m.Area, *d.TileSize)
}

// Close cancels any in-flight job.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != nil {
		c.inflight.cancel()
	}
}
