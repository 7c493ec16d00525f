package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/samber/lo"

	"github.com/Faultbox/tilecraft/internal/assets"
	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/logger"
	"github.com/Faultbox/tilecraft/internal/texture"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

func cmdCatalog(args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	thumbs := fs.String("thumbs", "", "Write design thumbnails into this directory")
	cfg := setup(fs, args)

	cat, err := cfg.LoadCatalog()
	if err != nil {
		fail("Error: %v", err)
	}

	types := cat.Types()
	if fs.NArg() > 0 {
		t, err := surface.ParseType(fs.Arg(0))
		if err != nil {
			fail("Error: %v", err)
		}
		types = []surface.Type{t}
	}

	var designs []catalog.Design
	for _, t := range types {
		options := cat.ForType(t)
		fmt.Printf("%s (%d)\n", t, len(options))
		for _, d := range options {
			size := ""
			if d.TileSize != nil {
				size = fmt.Sprintf("  %gx%g ft", d.TileSize.Width, d.TileSize.Height)
			}
			fmt.Printf("  %-24s %s%s\n", d.Name, d.Image, size)
		}
		designs = append(designs, options...)
	}

	if *thumbs == "" {
		return
	}

	mgr := assets.NewManager()
	defer mgr.Close()
	for _, dir := range cfg.Assets.Roots {
		if err := mgr.AddDir(dir); err != nil {
			logger.Sugar.Warnf("skipping asset root: %v", err)
		}
	}

	paths := lo.Uniq(lo.Map(designs, func(d catalog.Design, _ int) string { return d.Image }))
	previews, err := texture.Thumbnails(context.Background(), mgr, paths, texture.ThumbnailSize)
	if err != nil {
		fail("Error: %v", err)
	}

	if err := os.MkdirAll(*thumbs, 0755); err != nil {
		fail("Error: %v", err)
	}
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) + ".png"
		out := filepath.Join(*thumbs, name)
		if err := imgio.Save(out, previews[p], imgio.PNGEncoder()); err != nil {
			fail("Error: saving %s: %v", out, err)
		}
	}
	fmt.Printf("Wrote %d thumbnails to %s\n", len(paths), *thumbs)
}
