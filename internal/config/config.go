// Package config handles sketchc configuration loading and management.
package config

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/sketchcad/pkg/extrude"
)

// Config holds all tool settings.
type Config struct {
	Sketch  SketchConfig  `yaml:"sketch"`
	Kernel  KernelConfig  `yaml:"kernel"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SketchConfig holds sketch input settings.
type SketchConfig struct {
	Grid float64 `yaml:"grid"` // snap size for script sketches, 0 disables
}

// KernelConfig selects and tunes the extrusion kernel.
type KernelConfig struct {
	Backend  string `yaml:"backend"`  // prism, sdfx or manifold
	Segments int    `yaml:"segments"` // circle sampling
	Cells    int    `yaml:"cells"`    // marching cubes resolution (sdfx)
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Dir      string  `yaml:"dir"`
	SVGScale float64 `yaml:"svg_scale"` // pixels per sketch unit
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sketch: SketchConfig{
			Grid: 0,
		},
		Kernel: KernelConfig{
			Backend:  "prism",
			Segments: 64,
			Cells:    200,
		},
		Output: OutputConfig{
			Dir:      ".",
			SVGScale: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Sketch.Grid < 0 {
		return fmt.Errorf("sketch.grid must not be negative, got %g", c.Sketch.Grid)
	}
	if !lo.Contains(extrude.Backends, c.Kernel.Backend) {
		return fmt.Errorf("kernel.backend %q is not one of %v", c.Kernel.Backend, extrude.Backends)
	}
	if c.Kernel.Segments < 3 {
		return fmt.Errorf("kernel.segments must be at least 3, got %d", c.Kernel.Segments)
	}
	if c.Kernel.Cells < 1 {
		return fmt.Errorf("kernel.cells must be positive, got %d", c.Kernel.Cells)
	}
	if c.Output.SVGScale <= 0 {
		return fmt.Errorf("output.svg_scale must be positive, got %g", c.Output.SVGScale)
	}
	return nil
}
