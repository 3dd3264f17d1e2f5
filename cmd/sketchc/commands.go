package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/sketchcad/pkg/engine"
	"github.com/chazu/sketchcad/pkg/export"
	"github.com/chazu/sketchcad/pkg/extrude"
	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/sketch"
)

// loadDocuments reads sketches from a script or a document file.
func loadDocuments(env *cmdEnv, path string) ([]*sketch.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		docs, err := sketch.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return docs, nil
	case ".lisp", ".sketch":
		eng := engine.NewEngine(engine.WithLogger(env.log), engine.WithGrid(env.cfg.Sketch.Grid))
		d, evalErrs, err := eng.Evaluate(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(evalErrs) > 0 {
			msgs := make([]string, len(evalErrs))
			for i, e := range evalErrs {
				msgs[i] = e.Error()
			}
			return nil, fmt.Errorf("%s: %s", path, strings.Join(msgs, "; "))
		}
		for _, w := range engine.Warnings(d) {
			env.log.Warn(w.Message, zap.String("sketch", w.Sketch))
		}
		return d.Sketches, nil
	}
	return nil, fmt.Errorf("%s: unknown input type, expected .lisp, .sketch, .yaml, .yml or .json", path)
}

func cmdRegions(env *cmdEnv, path string) error {
	docs, err := loadDocuments(env, path)
	if err != nil {
		return err
	}
	for _, d := range docs {
		a, err := region.Analyze(d.Entities)
		if err != nil {
			return fmt.Errorf("sketch %q: %w", d.Name, err)
		}
		n := d.Frame.Normal
		fmt.Fprintf(env.stdout, "%s: %d entities, %d contours, %d regions, normal (%g, %g, %g)\n",
			d.Name, len(d.Entities), len(a.Contours), len(a.Regions), n.X, n.Y, n.Z)
		for i, r := range a.Regions {
			fmt.Fprintf(env.stdout, "  region %d: %s outer, depth %d, %d holes, area %.4f\n",
				i, r.Outer.Kind, r.Depth, len(r.Holes), r.Area())
		}
		for _, diag := range region.Diagnose(d.Entities) {
			fmt.Fprintf(env.stdout, "  %s\n", diag)
		}
	}
	return nil
}

func cmdExtrude(env *cmdEnv, path string) error {
	docs, err := loadDocuments(env, path)
	if err != nil {
		return err
	}
	k, err := extrude.NewKernel(env.cfg.Kernel.Backend, env.cfg.Kernel.Segments, env.cfg.Kernel.Cells)
	if err != nil {
		return err
	}
	x := extrude.New(k, extrude.WithLogger(env.log))
	parts, err := x.Documents(docs)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("%s: no sketch has an extrusion height", path)
	}

	if err := os.MkdirAll(env.cfg.Output.Dir, 0755); err != nil {
		return err
	}
	for _, p := range parts {
		out := filepath.Join(env.cfg.Output.Dir, p.Sketch+".stl")
		meshes := extrude.Meshes([]extrude.Part{p})
		if err := export.SaveSTL(out, meshes...); err != nil {
			return err
		}
		var tris int
		for _, m := range meshes {
			tris += m.TriangleCount()
		}
		env.log.Info("wrote mesh",
			zap.String("path", out),
			zap.String("kernel", k.Name()),
			zap.Int("solids", len(p.Solids)),
			zap.Int("triangles", tris))
		fmt.Fprintln(env.stdout, out)
	}
	return nil
}

func cmdPreview(env *cmdEnv, path string) error {
	docs, err := loadDocuments(env, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(env.cfg.Output.Dir, 0755); err != nil {
		return err
	}

	opts := export.DefaultSVGOptions()
	opts.Scale = env.cfg.Output.SVGScale
	opts.Segments = env.cfg.Kernel.Segments
	for _, d := range docs {
		out := filepath.Join(env.cfg.Output.Dir, d.Name+".svg")
		if err := writePreview(out, d, opts); err != nil {
			return err
		}
		env.log.Info("wrote preview", zap.String("path", out))
		fmt.Fprintln(env.stdout, out)
	}
	return nil
}

func writePreview(path string, d *sketch.Document, opts export.SVGOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteSketchSVG(f, d, opts)
}

func cmdDump(env *cmdEnv, path string) error {
	docs, err := loadDocuments(env, path)
	if err != nil {
		return err
	}
	data, err := sketch.Encode(docs)
	if err != nil {
		return err
	}
	_, err = env.stdout.Write(data)
	return err
}
