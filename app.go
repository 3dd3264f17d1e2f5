package main

import (
	"context"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/chazu/sketchcad/internal/config"
	"github.com/chazu/sketchcad/pkg/engine"
	"github.com/chazu/sketchcad/pkg/extrude"
	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/sketch"
	"github.com/chazu/sketchcad/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to solids.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	engine   *engine.Engine
	extruder *extrude.Extruder
	segments int
	log      *zap.Logger
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	ID       string    `json:"id"`
	Origin   string    `json:"origin"`
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Sketch  string `json:"sketch,omitempty"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// SketchRequest carries the sketch being edited: its plane and entities.
type SketchRequest struct {
	Plane    sketch.PlaneSpec    `json:"plane"`
	Entities []sketch.EntitySpec `json:"entities"`
}

// RegionData is one fillable region as world-space outlines.
type RegionData struct {
	Outer [][3]float64   `json:"outer"`
	Holes [][][3]float64 `json:"holes"`
	Depth int            `json:"depth"`
	Area  float64        `json:"area"`
}

// RegionsResult is returned by Regions.
type RegionsResult struct {
	Regions  []RegionData    `json:"regions"`
	Warnings []EvalErrorData `json:"warnings"`
	Error    *ErrorData      `json:"error,omitempty"`
}

// ExtrudeRequest asks for the extrusion of a sketch.
type ExtrudeRequest struct {
	SketchRequest
	Height float64 `json:"height"`
}

// ErrorData is a typed failure for the frontend.
type ErrorData struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ExtrudeResult is returned by Extrude.
type ExtrudeResult struct {
	Meshes []MeshData `json:"meshes"`
	Error  *ErrorData `json:"error,omitempty"`
}

// PickRequest converts a 3D pick point into sketch coordinates.
type PickRequest struct {
	Plane sketch.PlaneSpec `json:"plane"`
	Point sketch.Vec3Spec  `json:"point"`
	Grid  float64          `json:"grid"`
}

// PickResult is returned by Pick.
type PickResult struct {
	Point sketch.PointSpec `json:"point"`
	World sketch.Vec3Spec  `json:"world"`
	Error *ErrorData       `json:"error,omitempty"`
}

// NewApp creates a new App from the default configuration.
func NewApp() *App {
	app, err := NewAppWithConfig(config.Default(), zap.NewNop())
	if err != nil {
		// The defaults always validate.
		panic(err)
	}
	return app
}

// NewAppWithConfig creates an App using the configured kernel and grid.
func NewAppWithConfig(cfg *config.Config, log *zap.Logger) (*App, error) {
	k, err := extrude.NewKernel(cfg.Kernel.Backend, cfg.Kernel.Segments, cfg.Kernel.Cells)
	if err != nil {
		return nil, err
	}
	return &App{
		engine:   engine.NewEngine(engine.WithLogger(log.Named("engine")), engine.WithGrid(cfg.Sketch.Grid)),
		extruder: extrude.New(k, extrude.WithLogger(log.Named("extrude"))),
		segments: cfg.Kernel.Segments,
		log:      log,
	}, nil
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate takes Lisp source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a design.
	res := a.engine.Run(source)
	for _, e := range res.Errors {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if len(result.Errors) > 0 {
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
			Sketch:  w.Sketch,
		})
	}

	// Step 2: Extrude every sketch that has a height, one at a time so a
	// failing sketch does not hide the others.
	var solids []extrude.Solid
	for _, d := range res.Design.Extruded() {
		parts, err := a.extruder.Documents([]*sketch.Document{d})
		if err != nil {
			a.log.Warn("extrusion failed", zap.String("sketch", d.Name), zap.Error(err))
			result.Errors = append(result.Errors, EvalErrorData{
				Message: err.Error(),
				Kind:    kindName(err),
				Sketch:  d.Name,
			})
			continue
		}
		for _, p := range parts {
			solids = append(solids, p.Solids...)
		}
	}

	// Step 3: Convert kernel meshes to the frontend MeshData format.
	result.Meshes = meshData(solids)
	return result
}

// Regions returns the fillable regions of a sketch in world space, for the
// filled preview of the sketch being edited.
func (a *App) Regions(req SketchRequest) RegionsResult {
	result := RegionsResult{Regions: []RegionData{}, Warnings: []EvalErrorData{}}

	f, entities, err := req.resolve()
	if err != nil {
		result.Error = &ErrorData{Kind: "InvalidSketch", Message: err.Error()}
		return result
	}
	regions, err := region.BuildRegions(entities)
	if err != nil {
		result.Error = &ErrorData{Kind: extrude.MalformedHierarchy.String(), Message: err.Error()}
		return result
	}

	toWorld := func(c region.Contour) [][3]float64 {
		return lo.Map(tessellate.Outline(c, a.segments), func(p v2.Vec, _ int) [3]float64 {
			return vec3Array(f.LocalToWorld(p))
		})
	}
	for _, r := range regions {
		rd := RegionData{
			Outer: toWorld(r.Outer),
			Holes: [][][3]float64{},
			Depth: r.Depth,
			Area:  r.Area(),
		}
		for _, h := range r.Holes {
			rd.Holes = append(rd.Holes, toWorld(h))
		}
		result.Regions = append(result.Regions, rd)
	}
	for _, d := range region.Diagnose(entities) {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: d.String()})
	}
	return result
}

// Extrude extrudes the sketch being edited and returns one mesh per region,
// or a typed error.
func (a *App) Extrude(req ExtrudeRequest) ExtrudeResult {
	result := ExtrudeResult{Meshes: []MeshData{}}

	f, entities, err := req.resolve()
	if err != nil {
		result.Error = &ErrorData{Kind: "InvalidSketch", Message: err.Error()}
		return result
	}
	solids, err := a.extruder.Extrude(f, entities, req.Height)
	if err != nil {
		result.Error = &ErrorData{Kind: kindName(err), Message: err.Error()}
		return result
	}
	result.Meshes = meshData(solids)
	return result
}

// Pick converts a world point into plane coordinates, snapped to the grid
// when Grid is positive, and returns the snapped world point as well.
func (a *App) Pick(req PickRequest) PickResult {
	f, err := req.Plane.Frame()
	if err != nil {
		return PickResult{Error: &ErrorData{Kind: "InvalidSketch", Message: err.Error()}}
	}
	p := f.WorldToLocal(v3.Vec{X: req.Point.X, Y: req.Point.Y, Z: req.Point.Z})
	if req.Grid > 0 {
		p = f.Snap(p, req.Grid)
	}
	w := f.LocalToWorld(p)
	return PickResult{
		Point: sketch.PointSpec{X: p.X, Y: p.Y},
		World: sketch.Vec3Spec{X: w.X, Y: w.Y, Z: w.Z},
	}
}

func (r SketchRequest) resolve() (plane.Frame, []sketch.Entity, error) {
	f, err := r.Plane.Frame()
	if err != nil {
		return plane.Frame{}, nil, err
	}
	entities, err := sketch.Entities(r.Entities)
	if err != nil {
		return plane.Frame{}, nil, err
	}
	return f, entities, nil
}

// kindName names the error kind of err for the frontend.
func kindName(err error) string {
	if k, ok := extrude.KindOf(err); ok {
		return k.String()
	}
	return "KernelError"
}

func meshData(solids []extrude.Solid) []MeshData {
	return lo.Map(solids, func(s extrude.Solid, i int) MeshData {
		return toMeshData(s.Mesh, s, colorPalette[i%len(colorPalette)])
	})
}

func toMeshData(m *kernel.Mesh, s extrude.Solid, color string) MeshData {
	return MeshData{
		ID:       s.ID.String(),
		Origin:   string(s.Origin),
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		Name:     m.Name,
		Color:    color,
	}
}

func vec3Array(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
