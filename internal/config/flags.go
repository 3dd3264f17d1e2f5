package config

import "flag"

// Flags holds the command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	config   *string
	debug    *bool
	grid     *float64
	kernel   *string
	segments *int
	cells    *int
	out      *string
	logFile  *string
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:   fs.String("config", "", "Path to config file"),
		debug:    fs.Bool("debug", false, "Enable debug logging"),
		grid:     fs.Float64("grid", 0, "Snap script sketches to this grid size"),
		kernel:   fs.String("kernel", "", "Extrusion kernel: prism, sdfx or manifold"),
		segments: fs.Int("segments", 0, "Circle sampling segments"),
		cells:    fs.Int("cells", 0, "Marching cubes cells (sdfx kernel)"),
		out:      fs.String("out", "", "Output directory"),
		logFile:  fs.String("log", "", "Also log to this file (rotated)"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.grid > 0 {
		cfg.Sketch.Grid = *f.grid
	}
	if *f.kernel != "" {
		cfg.Kernel.Backend = *f.kernel
	}
	if *f.segments > 0 {
		cfg.Kernel.Segments = *f.segments
	}
	if *f.cells > 0 {
		cfg.Kernel.Cells = *f.cells
	}
	if *f.out != "" {
		cfg.Output.Dir = *f.out
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
}
