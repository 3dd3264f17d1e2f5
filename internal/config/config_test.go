package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Kernel.Backend != "prism" {
		t.Errorf("expected backend prism, got %s", cfg.Kernel.Backend)
	}
	if cfg.Kernel.Segments != 64 {
		t.Errorf("expected 64 segments, got %d", cfg.Kernel.Segments)
	}
	if cfg.Kernel.Cells != 200 {
		t.Errorf("expected 200 cells, got %d", cfg.Kernel.Cells)
	}
	if cfg.Sketch.Grid != 0 {
		t.Errorf("expected grid disabled, got %g", cfg.Sketch.Grid)
	}
	if cfg.Output.Dir != "." {
		t.Errorf("expected output dir '.', got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sketch:
  grid: 0.5
kernel:
  backend: sdfx
  cells: 80
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Sketch.Grid != 0.5 {
		t.Errorf("expected grid 0.5, got %g", cfg.Sketch.Grid)
	}
	if cfg.Kernel.Backend != "sdfx" {
		t.Errorf("expected backend sdfx, got %s", cfg.Kernel.Backend)
	}
	if cfg.Kernel.Cells != 80 {
		t.Errorf("expected 80 cells, got %d", cfg.Kernel.Cells)
	}
	// Values absent from the file keep their defaults.
	if cfg.Kernel.Segments != 64 {
		t.Errorf("expected default segments 64, got %d", cfg.Kernel.Segments)
	}
}

func TestLoadPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("kernel:\n  backend: sdfx\n  segments: 16\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", path, "-kernel", "prism", "-out", "build", "-debug"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Kernel.Backend != "prism" {
		t.Errorf("flag should override file backend, got %s", cfg.Kernel.Backend)
	}
	if cfg.Kernel.Segments != 16 {
		t.Errorf("file should override default segments, got %d", cfg.Kernel.Segments)
	}
	if cfg.Output.Dir != "build" {
		t.Errorf("expected output dir build, got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative grid", func(c *Config) { c.Sketch.Grid = -1 }},
		{"unknown backend", func(c *Config) { c.Kernel.Backend = "brep" }},
		{"too few segments", func(c *Config) { c.Kernel.Segments = 2 }},
		{"zero cells", func(c *Config) { c.Kernel.Cells = 0 }},
		{"zero svg scale", func(c *Config) { c.Output.SVGScale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Kernel.Backend = "sdfx"
	cfg.Sketch.Grid = 2
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Kernel.Backend != "sdfx" || loaded.Sketch.Grid != 2 {
		t.Errorf("saved config not restored: %+v", loaded)
	}
}
