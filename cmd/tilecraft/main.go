// tilecraft is a CLI for measuring room meshes and applying tile designs to them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/tilecraft/internal/config"
	"github.com/Faultbox/tilecraft/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "measure":
		cmdMeasure(args)
	case "classify":
		cmdClassify(args)
	case "repeat":
		cmdRepeat(args)
	case "apply":
		cmdApply(args)
	case "preview":
		cmdPreview(args)
	case "pick":
		cmdPick(args)
	case "catalog", "ls":
		cmdCatalog(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tilecraft - physically tiled surface designs for room meshes

Usage:
  tilecraft <command> [options]

Commands:
  measure <room.yaml>                     Show floor area and dimensions in feet
  classify <room.yaml> <mesh>             Count top-facing and other triangles
  repeat -floor WxL -tile WxH             Compute texture repeats and tile counts (feet)
  apply [-o out.png] <room.yaml> <mesh> <design>
                                          Apply a design and export its texture
  preview [-o out.png] <room.yaml> <mesh> <design>
                                          Like apply, re-applying when the image changes
  pick [-eye x,y,z] [-at x,y,z] [-screen px,py] [-size WxH] [-orbit deg] <room.yaml>
                                          Pick a surface through a camera pixel
  catalog [-thumbs dir] [type]            List designs, optionally writing thumbnails

Common options:
  -config, -debug, -assets, -catalog, -border, -decode-timeout, -save-config

Examples:
  tilecraft measure testdata/room.yaml
  tilecraft repeat -floor 13.1x9.8 -tile 2x4
  tilecraft pick -eye 0,5,3 -at 0,0.4,-0.8 testdata/room.yaml
  tilecraft apply -assets ./public -o floor.png testdata/room.yaml Cube017 Wood
  tilecraft catalog -thumbs ./thumbs floor`)
}

// setup parses a subcommand's flags, loads the config and starts logging.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fail("Error: %v", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail("Error initializing logger: %v", err)
	}
	return cfg
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	logger.Sync()
	os.Exit(1)
}
