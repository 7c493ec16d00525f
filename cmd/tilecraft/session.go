package main

import (
	"fmt"

	"github.com/Faultbox/tilecraft/internal/assets"
	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/config"
	"github.com/Faultbox/tilecraft/internal/designer"
	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/logger"
	"github.com/Faultbox/tilecraft/internal/scene"
	"github.com/Faultbox/tilecraft/internal/texture"
	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/formats"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// session wires a room scene to a design controller.
type session struct {
	cfg     *config.Config
	assets  *assets.Manager
	catalog catalog.Catalog
	scene   *scene.Graph
	ctrl    *designer.Controller

	watchers []*assets.Watcher
	changes  chan string // Keys of changed assets, when watching
}

func newSession(cfg *config.Config, roomPath string) (*session, error) {
	room, err := formats.LoadRoom(roomPath)
	if err != nil {
		return nil, err
	}
	if room.Units != "m" {
		logger.Sugar.Warnf("room %s uses units %q, measurements assume meters", room.Name, room.Units)
	}
	graph, err := scene.FromRoom(room)
	if err != nil {
		return nil, err
	}

	mgr := assets.NewManager()
	for _, dir := range cfg.Assets.Roots {
		if err := mgr.AddDir(dir); err != nil {
			logger.Sugar.Warnf("skipping asset root: %v", err)
		}
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		mgr.Close()
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		assets:  mgr,
		catalog: cat,
		scene:   graph,
		changes: make(chan string, 16),
	}
	if cfg.Assets.Watch {
		s.watch()
	}
	surfaces := cfg.SurfaceTable()
	repeats := cfg.RepeatTable()
	s.ctrl = designer.New(graph, texture.NewSynthesizer(mgr, cfg.TextureOptions()), designer.Options{
		Surfaces:  &surfaces,
		Repeats:   &repeats,
		Catalog:   &cat,
		UnitScale: cfg.Units.MetersToFeet,
		Listener:  printListener{},
	})
	return s, nil
}

// watch invalidates cached images changed under any asset root and reports
// their keys on s.changes. Roots that cannot be watched are skipped.
func (s *session) watch() {
	for _, dir := range s.cfg.Assets.Roots {
		w, err := s.assets.Watch(dir, func(key string) {
			select {
			case s.changes <- key:
			default:
			}
		})
		if err != nil {
			logger.Sugar.Warnf("not watching %s: %v", dir, err)
			continue
		}
		s.watchers = append(s.watchers, w)
	}
}

func (s *session) close() {
	for _, w := range s.watchers {
		w.Close()
	}
	s.ctrl.Close()
	s.assets.Close()
}

// selectDesign picks mesh and looks up design among its type's options.
func (s *session) selectDesign(meshName, designName string) (*scene.Mesh, catalog.Design, error) {
	mesh := s.scene.Find(meshName)
	if mesh == nil {
		return nil, catalog.Design{}, fmt.Errorf("mesh %s not in room", meshName)
	}
	s.ctrl.OnMeshPicked(mesh)

	_, typ := s.ctrl.Selection()
	if !typ.Known() {
		return nil, catalog.Design{}, fmt.Errorf("mesh %s is not a designable surface", meshName)
	}
	d, ok := s.catalog.Find(typ, designName)
	if !ok {
		return nil, catalog.Design{}, fmt.Errorf("no %s design named %q", typ, designName)
	}
	return mesh, d, nil
}

// texture returns the texture currently bound to the named mesh's design slot.
func (s *session) texture(meshName string) (*texture.Texture, error) {
	mesh := s.scene.Find(meshName)
	if mesh == nil {
		return nil, fmt.Errorf("mesh %s not in room", meshName)
	}
	mat, err := s.scene.MaterialAt(mesh, 0)
	if err != nil {
		return nil, err
	}
	if mat.Texture == nil {
		return nil, fmt.Errorf("mesh %s has no texture", meshName)
	}
	return mat.Texture, nil
}

// printListener reports controller events on stdout.
type printListener struct{}

func (printListener) DesignSurfaceOpened(t surface.Type, options []catalog.Design) {
	fmt.Printf("Selected %s (%d designs)\n", t, len(options))
}

func (printListener) DesignSurfaceClosed() {}

func (printListener) FloorMeasured(name string, m geometry.Measurement) {
	fmt.Printf("Floor %s: %.2f sq ft, %.2f x %.2f ft\n", name, m.Area, m.Width, m.Length)
}

func (printListener) TilesComputed(name string, r tiling.Report) {
	fmt.Printf("Tiling %s: repeat %s, %d tiles needed (%.2f sq ft of tile)\n", name, r.Repeat, r.TilesNeeded, r.TilesArea)
}

func (printListener) ApplyFinished(id uint64, err error) {
	if err != nil {
		fmt.Printf("Job %d failed: %v\n", id, err)
		return
	}
	fmt.Printf("Job %d applied\n", id)
}
