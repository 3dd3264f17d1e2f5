package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/sketchcad/pkg/extrude"
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms sketch script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: base-plate -> base_plate
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a plane-local point.
type sexpPoint struct {
	p v2.Vec
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a world-space vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPlane wraps a plane frame.
type sexpPlane struct {
	frame plane.Frame
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string {
	o, n := p.frame.Origin, p.frame.Normal
	return fmt.Sprintf("(plane :origin (vec3 %g %g %g) :normal (vec3 %g %g %g))", o.X, o.Y, o.Z, n.X, n.Y, n.Z)
}
func (p *sexpPlane) Type() *zygo.RegisteredType { return nil }

// sexpEntity wraps a single sketch entity.
type sexpEntity struct {
	e sketch.Entity
}

func (e *sexpEntity) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", e.e.Kind())
}
func (e *sexpEntity) Type() *zygo.RegisteredType { return nil }

// sexpEntities wraps a group of entities, such as the lines of a polygon.
type sexpEntities struct {
	es []sketch.Entity
}

func (e *sexpEntities) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(entities %d)", len(e.es))
}
func (e *sexpEntities) Type() *zygo.RegisteredType { return nil }

// sexpSketch references a sketch document registered in the design.
type sexpSketch struct {
	doc *sketch.Document
}

func (s *sexpSketch) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sketch %q)", s.doc.Name)
}
func (s *sexpSketch) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// ---------------------------------------------------------------------------
// Value helpers
// ---------------------------------------------------------------------------

// toPoint extracts a plane-local point from a sexpPoint.
func toPoint(s zygo.Sexp) (v2.Vec, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return v2.Vec{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a world vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toFrame extracts a plane frame from a sexpPlane or a baseline keyword.
func toFrame(s zygo.Sexp) (plane.Frame, error) {
	if p, ok := s.(*sexpPlane); ok {
		return p.frame, nil
	}
	if _, ok := s.(*zygo.SexpStr); ok {
		name, err := toKeywordString(s)
		if err != nil {
			return plane.Frame{}, err
		}
		id, err := plane.ParseID(name)
		if err != nil {
			return plane.Frame{}, err
		}
		return plane.Baseline(id), nil
	}
	return plane.Frame{}, fmt.Errorf("expected plane, got %T (%s)", s, s.SexpString(nil))
}

// toEntities collects sketch entities from s, flattening lists and arrays.
func toEntities(s zygo.Sexp) ([]sketch.Entity, error) {
	switch v := s.(type) {
	case *sexpEntity:
		return []sketch.Entity{v.e}, nil
	case *sexpEntities:
		return v.es, nil
	case *zygo.SexpPair, *zygo.SexpArray, *zygo.SexpSentinel:
		items, err := sexpListToSlice(s)
		if err != nil {
			return nil, err
		}
		var out []sketch.Entity
		for _, it := range items {
			es, err := toEntities(it)
			if err != nil {
				return nil, err
			}
			out = append(out, es...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected entity, got %T (%s)", s, s.SexpString(nil))
}

// twoPoints reads the two positional point arguments of line and rect.
func twoPoints(fn string, args []zygo.Sexp) (v2.Vec, v2.Vec, error) {
	if len(args) != 2 {
		return v2.Vec{}, v2.Vec{}, fmt.Errorf("%s requires 2 points, got %d arguments", fn, len(args))
	}
	a, err := toPoint(args[0])
	if err != nil {
		return v2.Vec{}, v2.Vec{}, fmt.Errorf("%s: first point: %w", fn, err)
	}
	b, err := toPoint(args[1])
	if err != nil {
		return v2.Vec{}, v2.Vec{}, fmt.Errorf("%s: second point: %w", fn, err)
	}
	return a, b, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all sketch DSL builtins into a zygomys
// environment. The builtins populate the provided Design during evaluation.
// grid is the default snap size for sketches; zero disables snapping.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, d *Design, grid float64) {

	// -----------------------------------------------------------------------
	// (pt 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires 2 arguments (x y), got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: sketch.Pt(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires 3 arguments (x y z), got %d", len(args))
		}
		var vals [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: arg %d: %w", i, err)
			}
			vals[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :xy)
	// (plane :origin (vec3 0 0 5) :normal (vec3 0 0 1))
	// (plane :origin (vec3 0 0 0) :u (vec3 1 0 0) :v (vec3 0 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 1 {
			f, err := toFrame(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: %w", err)
			}
			return &sexpPlane{frame: f}, nil
		}

		pa := parseArgs(args)
		var origin v3.Vec
		if v, ok := pa.kw["origin"]; ok {
			o, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: origin: %w", err)
			}
			origin = o
		}

		if v, ok := pa.kw["normal"]; ok {
			n, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
			}
			f, err := plane.FromNormal(origin, n)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: %w", err)
			}
			return &sexpPlane{frame: f}, nil
		}

		uv, uok := pa.kw["u"]
		vv, vok := pa.kw["v"]
		if !uok || !vok {
			return zygo.SexpNull, fmt.Errorf("plane requires a baseline (:xy, :yz, :zx), :normal, or both :u and :v")
		}
		u, err := toVec3(uv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: u: %w", err)
		}
		v, err := toVec3(vv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: v: %w", err)
		}
		f, err := plane.New(origin, u, v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		return &sexpPlane{frame: f}, nil
	})

	// -----------------------------------------------------------------------
	// (line (pt 0 0) (pt 10 0))
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := twoPoints("line", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpEntity{e: sketch.Line{A: a, B: b}}, nil
	})

	// -----------------------------------------------------------------------
	// (rect (pt 0 0) (pt 10 10))
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := twoPoints("rect", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpEntity{e: sketch.Rect{A: a, B: b}}, nil
	})

	// -----------------------------------------------------------------------
	// (circle (pt 5 5) 2)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("circle requires a center and a radius, got %d arguments", len(args))
		}
		c, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
		}
		return &sexpEntity{e: sketch.Circle{C: c, R: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (pt 0 0) (pt 10 0) (pt 0 10))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("polygon requires at least 3 points, got %d", len(args))
		}
		pts := make([]v2.Vec, len(args))
		for i, a := range args {
			p, err := toPoint(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
			}
			pts[i] = p
		}
		return &sexpEntities{es: sketch.Polygon(pts...)}, nil
	})

	// -----------------------------------------------------------------------
	// (sketch "base" :on (plane :xy) :snap 0.5 (rect ...) (circle ...))
	// -----------------------------------------------------------------------
	env.AddFunction("sketch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		frame := plane.Baseline(plane.XY)
		if v, ok := pa.kw["on"]; ok {
			f, err := toFrame(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sketch: on: %w", err)
			}
			frame = f
		}

		snap := grid
		if v, ok := pa.kw["snap"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sketch: snap: %w", err)
			}
			if f < 0 {
				return zygo.SexpNull, fmt.Errorf("sketch: snap must not be negative, got %g", f)
			}
			snap = f
		}

		body := pa.positional
		sketchName := fmt.Sprintf("sketch-%d", len(d.Sketches)+1)
		if len(body) > 0 {
			if s, ok := body[0].(*zygo.SexpStr); ok {
				sketchName = s.S
				body = body[1:]
			}
		}

		doc := sketch.NewDocument(sketchName, frame)
		for i, b := range body {
			es, err := toEntities(b)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sketch %q: arg %d: %w", sketchName, i, err)
			}
			doc.Add(es...)
		}
		if snap > 0 {
			doc.Entities = sketch.Map(doc.Entities, func(p v2.Vec) v2.Vec {
				return plane.Snap(p, snap)
			})
		}

		if err := d.add(doc); err != nil {
			return zygo.SexpNull, fmt.Errorf("sketch: %w", err)
		}
		return &sexpSketch{doc: doc}, nil
	})

	// -----------------------------------------------------------------------
	// (extrude base 5)
	// (extrude "base" :height 5)
	// -----------------------------------------------------------------------
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("extrude requires a sketch and a height")
		}

		var doc *sketch.Document
		switch s := pa.positional[0].(type) {
		case *sexpSketch:
			doc = s.doc
		case *zygo.SexpStr:
			n, err := toString(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
			}
			doc = d.Lookup(n)
			if doc == nil {
				return zygo.SexpNull, fmt.Errorf("extrude: unknown sketch %q", n)
			}
		default:
			return zygo.SexpNull, fmt.Errorf("extrude: expected sketch or sketch name, got %T", s)
		}

		hv, ok := pa.kw["height"]
		if !ok {
			if len(pa.positional) < 2 {
				return zygo.SexpNull, fmt.Errorf("extrude %q: missing height", doc.Name)
			}
			hv = pa.positional[1]
		}
		h, err := toFloat64(hv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude %q: height: %w", doc.Name, err)
		}
		if err := extrude.CheckHeight(h); err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude %q: %w", doc.Name, err)
		}

		doc.Height = h
		return &sexpSketch{doc: doc}, nil
	})
}
