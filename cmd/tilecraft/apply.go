package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/Faultbox/tilecraft/internal/assets"
	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/designer"
	"github.com/Faultbox/tilecraft/internal/logger"
)

func cmdApply(args []string) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	output := fs.String("o", "", "Write the applied texture to this PNG file")
	cfg := setup(fs, args)
	if fs.NArg() < 3 {
		fail("Usage: tilecraft apply [-o out.png] <room.yaml> <mesh> <design>")
	}

	s, err := newSession(cfg, fs.Arg(0))
	if err != nil {
		fail("Error: %v", err)
	}
	defer s.close()

	s.ctrl.MeasureFloors()
	_, d, err := s.selectDesign(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fail("Error: %v", err)
	}

	if err := s.apply(context.Background(), d, fs.Arg(1), *output); err != nil {
		fail("Error: %v", err)
	}
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	output := fs.String("o", "preview.png", "PNG file rewritten after every apply")
	cfg := setup(fs, args)
	if fs.NArg() < 3 {
		fail("Usage: tilecraft preview [-o out.png] <room.yaml> <mesh> <design>")
	}

	cfg.Assets.Watch = true
	s, err := newSession(cfg, fs.Arg(0))
	if err != nil {
		fail("Error: %v", err)
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.ctrl.MeasureFloors()
	meshName := fs.Arg(1)
	_, d, err := s.selectDesign(meshName, fs.Arg(2))
	if err != nil {
		fail("Error: %v", err)
	}

	if err := s.apply(ctx, d, meshName, *output); err != nil {
		logger.Sugar.Errorf("apply %s: %v", d.Name, err)
	}
	want := assets.Key(d.Image)
	fmt.Printf("Watching %s, press Ctrl+C to stop\n", want)

	for {
		select {
		case <-ctx.Done():
			return
		case key := <-s.changes:
			if key != want {
				continue
			}
			if err := s.apply(ctx, d, meshName, *output); err != nil {
				logger.Sugar.Errorf("apply %s: %v", d.Name, err)
			}
		}
	}
}

// apply runs one design job to completion and optionally saves the texture.
func (s *session) apply(ctx context.Context, d catalog.Design, meshName, output string) error {
	// A finished apply leaves the controller idle; pick the surface again.
	if s.ctrl.State() == designer.Idle {
		s.ctrl.OnMeshPicked(s.scene.Find(meshName))
	}
	job, err := s.ctrl.ApplyDesign(ctx, d)
	if err != nil {
		return err
	}
	if err := job.Wait(ctx); err != nil {
		return err
	}
	if output == "" {
		return nil
	}

	tex, err := s.texture(meshName)
	if err != nil {
		return err
	}
	if err := imgio.Save(output, tex.Image, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("saving %s: %w", output, err)
	}
	w, h := tex.Size()
	fmt.Printf("Wrote %s (%dx%d, repeat %s)\n", output, w, h, tex.Repeat)
	return nil
}
