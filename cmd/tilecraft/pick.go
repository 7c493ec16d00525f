package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/tilecraft/internal/scene"
	"github.com/Faultbox/tilecraft/pkg/math"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

func cmdPick(args []string) {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	eyeArg := fs.String("eye", "0,1.6,3", "Camera position x,y,z")
	atArg := fs.String("at", "0,0,0", "Point the camera looks at, x,y,z")
	screenArg := fs.String("screen", "", "Pixel to pick, px,py (defaults to the viewport center)")
	sizeArg := fs.String("size", "800x600", "Viewport size in pixels, WxH")
	fov := fs.Float64("fov", 50, "Vertical field of view in degrees")
	orbit := fs.Float64("orbit", 0, "Rotate the camera around the target by this many degrees")
	cfg := setup(fs, args)
	if fs.NArg() < 1 {
		fail("Usage: tilecraft pick [-eye x,y,z] [-at x,y,z] [-screen px,py] [-size WxH] <room.yaml>")
	}

	eye, err := parseVec3(*eyeArg)
	if err != nil {
		fail("Error: -eye: %v", err)
	}
	at, err := parseVec3(*atArg)
	if err != nil {
		fail("Error: -at: %v", err)
	}
	w, h, err := parseSize(*sizeArg)
	if err != nil || w <= 0 || h <= 0 {
		fail("Error: -size: expected positive WxH, got %q", *sizeArg)
	}
	px, py := w/2, h/2
	if *screenArg != "" {
		xs, ys, ok := strings.Cut(*screenArg, ",")
		if !ok {
			fail("Error: -screen: expected px,py, got %q", *screenArg)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 32)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 32)
		if errX != nil || errY != nil {
			fail("Error: -screen: expected px,py, got %q", *screenArg)
		}
		px, py = float32(x), float32(y)
	}

	s, err := newSession(cfg, fs.Arg(0))
	if err != nil {
		fail("Error: %v", err)
	}
	defer s.close()
	s.ctrl.MeasureFloors()

	cam := scene.NewCamera(eye, at)
	cam.FovY = float32(*fov) * math32.Pi / 180
	if *orbit != 0 {
		cam = cam.Orbit(float32(*orbit) * math32.Pi / 180)
	}
	ray := cam.Ray(px, py, w, h)

	hits := s.scene.Pick(ray)
	fmt.Printf("Ray from (%.2f, %.2f, %.2f) toward (%.3f, %.3f, %.3f): %d hits\n",
		ray.Origin.X, ray.Origin.Y, ray.Origin.Z,
		ray.Direction.X, ray.Direction.Y, ray.Direction.Z, len(hits))
	for _, hit := range hits {
		fmt.Printf("  %-20s %8.3f\n", hit.Mesh.Name, hit.Distance)
	}

	if !s.ctrl.PickRay(ray) {
		fmt.Println("Nothing picked")
		return
	}
	mesh, typ := s.ctrl.Selection()
	if mesh == nil {
		fmt.Printf("Picked %s, not a designable surface\n", hits[0].Mesh.Name)
		return
	}
	if typ != surface.Floor {
		return
	}
	for _, d := range s.catalog.ForType(typ) {
		est, err := s.ctrl.Estimate(d)
		if err != nil {
			fmt.Printf("  %-24s %v\n", d.Name, err)
			continue
		}
		fmt.Printf("  %-24s ~%d tiles (%d across, %d down)\n", d.Name, est.Total, est.Across, est.Down)
	}
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	return math.V3(v), nil
}
