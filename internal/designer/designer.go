// Package designer implements the selection and design application flow:
// a picked mesh is resolved to a surface type, the design picker is offered
// its catalog options, and the chosen design is applied as a bordered,
// physically tiled texture.
package designer

import (
	"errors"

	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/material"
	"github.com/Faultbox/tilecraft/internal/scene"
	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// Controller errors.
var (
	ErrNoSelection = errors.New("no surface selected")
	ErrSuperseded  = errors.New("superseded by a newer design request")
)

// State is the controller's selection state.
type State int

const (
	Idle     State = iota // Nothing selected
	Selected              // A known surface is selected
	Applying              // A design job is in flight
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Applying:
		return "applying"
	default:
		return "unknown"
	}
}

// Scene is the part of the scene graph the controller drives.
type Scene interface {
	// Traverse visits every mesh; the scene must not change during the visit.
	Traverse(fn func(*scene.Mesh))

	// Pick returns meshes hit by r, nearest first.
	Pick(r scene.Ray) []scene.Hit

	// Replace atomically swaps old for repl.
	Replace(old, repl *scene.Mesh) error

	// SetMaterial binds a single material to the whole mesh.
	SetMaterial(m *scene.Mesh, mat *material.Material) error
}

// Listener receives controller notifications, typically a UI.
// Calls are made without the controller lock held, so listeners may call
// back into the controller.
type Listener interface {
	// DesignSurfaceOpened asks the UI to show options for a selected surface.
	DesignSurfaceOpened(t surface.Type, options []catalog.Design)

	// DesignSurfaceClosed asks the UI to hide the design picker.
	DesignSurfaceClosed()

	// FloorMeasured reports a floor's footprint, in feet, after scene load.
	FloorMeasured(name string, m geometry.Measurement)

	// TilesComputed reports the tiling of a floor design being applied.
	TilesComputed(name string, r tiling.Report)

	// ApplyFinished reports the outcome of a design job.
	ApplyFinished(id uint64, err error)
}

// NopListener ignores all notifications.
type NopListener struct{}

func (NopListener) DesignSurfaceOpened(surface.Type, []catalog.Design) {}
func (NopListener) DesignSurfaceClosed() {}
func (NopListener) FloorMeasured(string, geometry.Measurement) {}
func (NopListener) TilesComputed(string, tiling.Report) {}
func (NopListener) ApplyFinished(uint64, error) {}
