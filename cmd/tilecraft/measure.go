package main

import (
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Faultbox/tilecraft/internal/faces"
	"github.com/Faultbox/tilecraft/internal/geometry"
	"github.com/Faultbox/tilecraft/internal/tiling"
)

func cmdMeasure(args []string) {
	fs := flag.NewFlagSet("measure", flag.ExitOnError)
	cfg := setup(fs, args)
	if fs.NArg() < 1 {
		fail("Usage: tilecraft measure <room.yaml>")
	}

	s, err := newSession(cfg, fs.Arg(0))
	if err != nil {
		fail("Error: %v", err)
	}
	defer s.close()

	floors := s.ctrl.MeasureFloors()
	if len(floors) == 0 {
		fmt.Println("No floor meshes in room")
		return
	}

	names := lo.Keys(floors)
	slices.Sort(names)

	fmt.Printf("%-20s %12s %10s %10s\n", "Mesh", "Area (sqft)", "Width", "Length")
	fmt.Println(strings.Repeat("-", 55))
	for _, name := range names {
		m := floors[name]
		fmt.Printf("%-20s %12.2f %10.2f %10.2f\n", name, m.Area, m.Width, m.Length)
	}
}

func cmdClassify(args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	cfg := setup(fs, args)
	if fs.NArg() < 2 {
		fail("Usage: tilecraft classify <room.yaml> <mesh>")
	}

	s, err := newSession(cfg, fs.Arg(0))
	if err != nil {
		fail("Error: %v", err)
	}
	defer s.close()

	mesh := s.scene.Find(fs.Arg(1))
	if mesh == nil {
		fail("Error: mesh %s not in room", fs.Arg(1))
	}

	c, err := faces.Classify(mesh.Geometry)
	if err != nil {
		fail("Error: %v", err)
	}

	fmt.Printf("Mesh:      %s\n", mesh.Name)
	fmt.Printf("Triangles: %d\n", c.Len())
	fmt.Printf("Top:       %d %v\n", len(c.Top), c.Top)
	fmt.Printf("Other:     %d\n", len(c.Other))

	if _, err := faces.ContiguousGroups(c); err != nil {
		fmt.Println("Layout:    scattered (index buffer is rebuilt on apply)")
	} else {
		fmt.Println("Layout:    contiguous")
	}
}

func cmdRepeat(args []string) {
	fs := flag.NewFlagSet("repeat", flag.ExitOnError)
	floorArg := fs.String("floor", "", "Floor size in feet, WxL")
	tileArg := fs.String("tile", "", "Tile size in feet, WxH")
	areaArg := fs.Float64("area", 0, "Floor area in sq ft (defaults to W*L)")
	setup(fs, args)

	if *floorArg == "" || *tileArg == "" {
		fail("Usage: tilecraft repeat -floor WxL -tile WxH [-area sqft]")
	}

	fw, fl, err := parseSize(*floorArg)
	if err != nil {
		fail("Error: -floor: %v", err)
	}
	tw, th, err := parseSize(*tileArg)
	if err != nil {
		fail("Error: -tile: %v", err)
	}

	floor := geometry.Dimensions{Width: fw, Length: fl}
	tile := tiling.TileSize{Width: tw, Height: th}
	area := float32(*areaArg)
	if area <= 0 {
		area = fw * fl
	}

	r, err := tiling.FloorRepeat(floor, tile)
	if err != nil {
		fail("Error: %v", err)
	}
	report := tiling.NewReport(floor, tile, r, area)

	fmt.Printf("Floor:        %.2f x %.2f %s (%.2f sq %s)\n", fw, fl, report.Unit, area, report.Unit)
	fmt.Printf("Tile:         %.2f x %.2f %s\n", tw, th, report.Unit)
	fmt.Printf("Repeat:       %s\n", r)
	fmt.Printf("Tiles needed: %d\n", report.TilesNeeded)
	fmt.Printf("Tile area:    %.2f sq %s\n", report.TilesArea, report.Unit)

	if est, err := tiling.EstimateFromArea(area, tile); err == nil {
		fmt.Printf("Estimate:     %d (%d across, %d down)\n", est.Total, est.Across, est.Down)
	}
}

// parseSize parses "WxH" into two positive numbers.
func parseSize(s string) (float32, float32, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WxH, got %q", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return float32(w), float32(h), nil
}
