// sketchc is a command-line front end for sketch scripts and documents:
// it reports regions, extrudes sketches to meshes and renders previews.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/chazu/sketchcad/internal/config"
	"github.com/chazu/sketchcad/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// command is one sketchc subcommand.
type command func(env *cmdEnv, path string) error

var commands = map[string]command{
	"regions": cmdRegions,
	"extrude": cmdExtrude,
	"preview": cmdPreview,
	"dump":    cmdDump,
}

// cmdEnv carries what every subcommand needs.
type cmdEnv struct {
	cfg    *config.Config
	log    *zap.Logger
	stdout io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	name := args[0]
	switch name {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", name)
		printUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: sketchc %s [flags] <file>\n", name)
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	env := &cmdEnv{cfg: cfg, log: logger.Named(name), stdout: stdout}
	if err := cmd(env, fs.Arg(0)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `sketchc - planar sketch regions and extrusion

Usage:
  sketchc <command> [flags] <file>

Commands:
  regions <file>   Print the regions of every sketch
  extrude <file>   Write one STL per extruded sketch to -out
  preview <file>   Write one SVG region preview per sketch to -out
  dump <file>      Print the sketches as a YAML document

Input files are sketch scripts (.lisp, .sketch) or sketch documents
(.yaml, .yml, .json).

Flags:
  -config path   config file (default ./sketchc.yaml or the user config dir)
  -kernel name   prism, sdfx or manifold
  -grid size     snap script sketches to a grid
  -segments n    circle sampling segments
  -cells n       marching cubes cells (sdfx)
  -out dir       output directory
  -log path      also log to a rotated file
  -debug         debug logging

Examples:
  sketchc regions examples/bracket.lisp
  sketchc extrude -out build examples/bracket.lisp
  sketchc preview -out build examples/plate.yaml`)
}
