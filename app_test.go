package main

import (
	"os"
	"testing"

	"github.com/chazu/sketchcad/pkg/sketch"
)

// TestE2EBracketExample exercises the full pipeline: Lisp source → engine →
// design → extrude → meshes. This is the same path that the Wails Evaluate
// binding takes, but without the Wails runtime.
func TestE2EBracketExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/bracket.lisp")
	if err != nil {
		t.Fatalf("failed to read bracket.lisp: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Expect 2 meshes: the bracket plate with its holes, and the rib.
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}

	expected := map[string]bool{
		"bracket": false,
		"rib":     false,
	}

	for _, m := range result.Meshes {
		if _, ok := expected[m.Name]; !ok {
			t.Errorf("unexpected mesh name: %q", m.Name)
			continue
		}
		expected[m.Name] = true

		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 {
			t.Errorf("mesh %q: no vertices", m.Name)
		}
		if len(m.Normals) != len(m.Vertices) {
			t.Errorf("mesh %q: %d normals for %d vertices", m.Name, len(m.Normals), len(m.Vertices))
		}
		if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
			t.Errorf("mesh %q: bad index count %d", m.Name, len(m.Indices))
		}

		// Must have a color and an identity.
		if m.Color == "" {
			t.Errorf("mesh %q: no color assigned", m.Name)
		}
		if m.ID == "" {
			t.Errorf("mesh %q: no id", m.Name)
		}
		if m.Origin != "sketch-extrude" {
			t.Errorf("mesh %q: origin = %q, want sketch-extrude", m.Name, m.Origin)
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("missing mesh for sketch %q", name)
		}
	}
}

// TestE2EPlateExample drives the interactive bindings with every sketch of
// the YAML example.
func TestE2EPlateExample(t *testing.T) {
	app := NewApp()

	data, err := os.ReadFile("examples/plate.yaml")
	if err != nil {
		t.Fatalf("failed to read plate.yaml: %v", err)
	}
	docs, err := sketch.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 sketches, got %d", len(docs))
	}

	wantRegions := map[string]int{"plate": 2, "gusset": 1}
	for _, d := range docs {
		spec := sketch.DocumentSpecOf(d)
		req := SketchRequest{Plane: spec.Plane, Entities: spec.Entities}

		regions := app.Regions(req)
		if regions.Error != nil {
			t.Fatalf("%s: regions error: %s", d.Name, regions.Error.Message)
		}
		if len(regions.Regions) != wantRegions[d.Name] {
			t.Errorf("%s: expected %d regions, got %d", d.Name, wantRegions[d.Name], len(regions.Regions))
		}

		res := app.Extrude(ExtrudeRequest{SketchRequest: req, Height: d.Height})
		if res.Error != nil {
			t.Fatalf("%s: extrude error: %s", d.Name, res.Error.Message)
		}
		if len(res.Meshes) != wantRegions[d.Name] {
			t.Errorf("%s: expected %d meshes, got %d", d.Name, wantRegions[d.Name], len(res.Meshes))
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures syntax errors are reported, not panicked.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(sketch \"broken\" (rect (pt 0 0) (pt 1 1))")

	if len(result.Errors) == 0 {
		t.Error("expected errors for unbalanced parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleSketch checks the simplest extruded sketch.
func TestE2ESingleSketch(t *testing.T) {
	app := NewApp()
	source := `(extrude (sketch "plate" (rect (pt 0 0) (pt 10 10))) 5)`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.Name != "plate" {
		t.Errorf("expected mesh name 'plate', got %q", m.Name)
	}
	// Two triangles per cap and two per wall.
	if len(m.Indices) != 36 {
		t.Errorf("expected 36 indices, got %d", len(m.Indices))
	}
	for i := 2; i < len(m.Vertices); i += 3 {
		if z := m.Vertices[i]; z != 0 && z != 5 {
			t.Fatalf("vertex z = %f, want 0 or 5", z)
		}
	}
}
