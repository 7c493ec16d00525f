package designer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/faces"
	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/logger"
	"github.com/Faultbox/tilecraft/internal/material"
	"github.com/Faultbox/tilecraft/internal/scene"
	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// Job is one design application. Only the most recent job may change the
// scene; older ones finish with ErrSuperseded.
type Job struct {
	ID     uint64
	Mesh   string
	Design catalog.Design

	cancel context.CancelFunc
	done   chan struct{}
	err    error
	target *scene.Mesh // Mesh the job last applied to, guarded by Controller.mu
}

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the job's result. It is only meaningful after Done is closed.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// Wait blocks until the job finishes or ctx ends, and returns the job's result.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts the job if it has not committed yet. A canceled job never
// changes the scene.
func (j *Job) Cancel() {
	j.cancel()
}

// request is what a job captured from the controller when it started.
type request struct {
	mesh     *scene.Mesh
	typ      surface.Type
	design   catalog.Design
	floor    geometry.Measurement
	measured bool
}

// ApplyDesign closes the design picker and starts applying d to the selected
// surface in the background. Any earlier in-flight job is canceled. The job
// also ends if ctx does. It fails with ErrNoSelection when nothing is selected.
//
// When the latest job finishes the controller returns to Idle, unless another
// surface was picked while it ran.
func (c *Controller) ApplyDesign(ctx context.Context, d catalog.Design) (*Job, error) {
	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return nil, ErrNoSelection
	}

	req := request{mesh: c.selected, typ: c.selType, design: d}
	if req.typ == surface.Floor {
		req.floor, req.measured = c.floors[req.mesh.Name]
	}

	if c.inflight != nil {
		c.inflight.cancel()
	}
	jobCtx, cancel := context.WithCancel(ctx)
	c.lastID++
	job := &Job{
		ID:     c.lastID,
		Mesh:   req.mesh.Name,
		Design: d,
		cancel: cancel,
		done:   make(chan struct{}),
		target: req.mesh,
	}
	c.inflight = job
	c.mu.Unlock()

	c.listener.DesignSurfaceClosed()
	logger.Info("applying design",
		zap.Uint64("job", job.ID),
		zap.String("mesh", job.Mesh),
		zap.Stringer("type", req.typ),
		zap.String("design", d.Name),
	)

	go c.run(jobCtx, job, req)
	return job, nil
}

func (c *Controller) run(ctx context.Context, job *Job, req request) {
	err := c.apply(ctx, job, req)
	job.cancel()

	c.mu.Lock()
	if c.inflight == job {
		c.inflight = nil
		// The latest job ends the apply; a surface picked meanwhile stays selected.
		if c.selected == job.target {
			c.selected, c.selType = nil, surface.Unknown
		}
	} else if errors.Is(err, context.Canceled) {
		err = ErrSuperseded
	}
	c.mu.Unlock()

	if err != nil {
		logger.Warn("design job failed", zap.Uint64("job", job.ID), zap.Error(err))
	} else {
		logger.Info("design applied", zap.Uint64("job", job.ID), zap.String("mesh", job.Mesh))
	}
	c.listener.ApplyFinished(job.ID, err)

	job.err = err
	close(job.done)
}

func (c *Controller) apply(ctx context.Context, job *Job, req request) error {
	if req.typ == surface.Floor {
		return c.applyFloor(ctx, job, req)
	}

	tex, err := c.synth.Build(ctx, req.design.Image, c.repeats.Default(req.typ))
	if err != nil {
		return err
	}
	mat, err := material.ForType(req.typ, tex)
	if err != nil {
		return err
	}
	return c.commit(ctx, job, func() error {
		return c.scene.SetMaterial(req.mesh, mat)
	})
}

func (c *Controller) applyFloor(ctx context.Context, job *Job, req request) error {
	repeat, err := c.floorRepeat(req)
	if err != nil {
		return err
	}

	tex, err := c.synth.Build(ctx, req.design.Image, repeat)
	if err != nil {
		return err
	}

	cls, err := faces.Classify(req.mesh.Geometry)
	if err != nil {
		return fmt.Errorf("classifying %s: %w", req.mesh.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("regrouping %s: %w", req.mesh.Name, err)
	}
	rebuilt, err := faces.Rebuild(req.mesh, cls, material.FloorTop(tex), material.FloorSide())
	if err != nil {
		return err
	}
	logger.Debug("regrouped floor",
		zap.String("mesh", req.mesh.Name),
		zap.Int("top", len(cls.Top)),
		zap.Int("other", len(cls.Other)),
	)

	return c.commit(ctx, job, func() error {
		if err := c.scene.Replace(req.mesh, rebuilt); err != nil {
			return err
		}
		if c.selected == req.mesh {
			c.selected = rebuilt
		}
		job.target = rebuilt
		return nil
	})
}

// floorRepeat computes how often the design's tile repeats across the floor.
// A floor that was never measured, or a design without a tile size, falls
// back to a single repeat.
func (c *Controller) floorRepeat(req request) (tiling.Repeat, error) {
	d := req.design
	switch {
	case !req.measured:
		logger.Warn("floor not measured, using 1×1 repeat", zap.String("mesh", req.mesh.Name))
		return tiling.One, nil
	case d.TileSize == nil:
		logger.Warn("floor design has no tile size, using 1×1 repeat", zap.String("design", d.Name))
		return tiling.One, nil
	}

	repeat, err := tiling.FloorRepeat(req.floor.Dimensions, *d.TileSize)
	if err != nil {
		return tiling.Repeat{}, fmt.Errorf("tiling %s with %s: %w", req.mesh.Name, d.Name, err)
	}
	c.listener.TilesComputed(req.mesh.Name, tiling.NewReport(req.floor.Dimensions, *d.TileSize, repeat, req.floor.Area))
	return repeat, nil
}

// commit runs fn under the controller lock if job is still the latest
// request and ctx has not ended.
func (c *Controller) commit(ctx context.Context, job *Job, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != job {
		return ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("committing job %d: %w", job.ID, err)
	}
	return fn()
}
