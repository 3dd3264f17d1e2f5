package sketch

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sketchcad/pkg/plane"
)

// ---------------------------------------------------------------------------
// Wire types shared by the YAML sketch files and the desktop binding
// ---------------------------------------------------------------------------

// PointSpec is a plane-local point. In YAML it may also be written as a
// two-element sequence: [x, y].
type PointSpec struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// UnmarshalYAML accepts both the mapping and the sequence form.
func (p *PointSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	}
	type plain PointSpec
	return value.Decode((*plain)(p))
}

func (p PointSpec) vec() v2.Vec { return v2.Vec{X: p.X, Y: p.Y} }

func pointSpecOf(v v2.Vec) *PointSpec { return &PointSpec{X: v.X, Y: v.Y} }

// Vec3Spec is a world-space vector.
type Vec3Spec struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

func (v Vec3Spec) vec() v3.Vec { return v3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func vec3SpecOf(v v3.Vec) *Vec3Spec { return &Vec3Spec{X: v.X, Y: v.Y, Z: v.Z} }

// EntitySpec is the tagged wire form of an Entity.
type EntitySpec struct {
	Type string     `yaml:"type" json:"type"`
	A    *PointSpec `yaml:"a,omitempty" json:"a,omitempty"`
	B    *PointSpec `yaml:"b,omitempty" json:"b,omitempty"`
	C    *PointSpec `yaml:"c,omitempty" json:"c,omitempty"`
	R    float64    `yaml:"r,omitempty" json:"r,omitempty"`
}

// Entity converts the wire form into an Entity.
func (s EntitySpec) Entity() (Entity, error) {
	switch strings.ToLower(s.Type) {
	case "line", "rect":
		if s.A == nil || s.B == nil {
			return nil, fmt.Errorf("%s needs points a and b", s.Type)
		}
		if strings.EqualFold(s.Type, "line") {
			return Line{A: s.A.vec(), B: s.B.vec()}, nil
		}
		return Rect{A: s.A.vec(), B: s.B.vec()}, nil
	case "circle":
		if s.C == nil {
			return nil, fmt.Errorf("circle needs center c")
		}
		return Circle{C: s.C.vec(), R: s.R}, nil
	}
	return nil, fmt.Errorf("unknown entity type %q", s.Type)
}

// SpecOf returns the wire form of e.
func SpecOf(e Entity) EntitySpec {
	switch e := e.(type) {
	case Line:
		return EntitySpec{Type: "line", A: pointSpecOf(e.A), B: pointSpecOf(e.B)}
	case Rect:
		return EntitySpec{Type: "rect", A: pointSpecOf(e.A), B: pointSpecOf(e.B)}
	case Circle:
		return EntitySpec{Type: "circle", C: pointSpecOf(e.C), R: e.R}
	}
	return EntitySpec{Type: "unknown"}
}

// Entities converts a list of wire entities, failing on the first bad one.
func Entities(specs []EntitySpec) ([]Entity, error) {
	out := make([]Entity, 0, len(specs))
	for i, s := range specs {
		e, err := s.Entity()
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// PlaneSpec names a baseline plane by ID, or gives an explicit frame by
// origin plus either a normal or both in-plane axes.
type PlaneSpec struct {
	ID     string    `yaml:"id,omitempty" json:"id,omitempty"`
	Origin *Vec3Spec `yaml:"origin,omitempty" json:"origin,omitempty"`
	Normal *Vec3Spec `yaml:"normal,omitempty" json:"normal,omitempty"`
	U      *Vec3Spec `yaml:"u,omitempty" json:"u,omitempty"`
	V      *Vec3Spec `yaml:"v,omitempty" json:"v,omitempty"`
}

// Frame resolves the spec. An empty spec is the XY plane.
func (s PlaneSpec) Frame() (plane.Frame, error) {
	if s.ID != "" {
		id, err := plane.ParseID(s.ID)
		if err != nil {
			return plane.Frame{}, err
		}
		return plane.Baseline(id), nil
	}

	var origin v3.Vec
	if s.Origin != nil {
		origin = s.Origin.vec()
	}
	switch {
	case s.U != nil && s.V != nil:
		return plane.New(origin, s.U.vec(), s.V.vec())
	case s.Normal != nil:
		return plane.FromNormal(origin, s.Normal.vec())
	case s.U != nil || s.V != nil:
		return plane.Frame{}, fmt.Errorf("plane: both u and v are required")
	}
	f := plane.Baseline(plane.XY)
	f.Origin = origin
	return f, nil
}

// PlaneSpecOf returns the wire form of f, using a baseline ID when f is
// one of the baseline planes.
func PlaneSpecOf(f plane.Frame) PlaneSpec {
	for _, id := range []plane.ID{plane.XY, plane.YZ, plane.ZX} {
		if f == plane.Baseline(id) {
			return PlaneSpec{ID: strings.ToLower(string(id))}
		}
	}
	return PlaneSpec{Origin: vec3SpecOf(f.Origin), U: vec3SpecOf(f.U), V: vec3SpecOf(f.V)}
}

// DocumentSpec is the wire form of a Document.
type DocumentSpec struct {
	Name     string       `yaml:"name,omitempty" json:"name,omitempty"`
	Plane    PlaneSpec    `yaml:"plane" json:"plane"`
	Entities []EntitySpec `yaml:"entities" json:"entities"`
	Height   float64      `yaml:"height,omitempty" json:"height,omitempty"`
}

// Document resolves the spec into a Document.
func (s DocumentSpec) Document() (*Document, error) {
	f, err := s.Plane.Frame()
	if err != nil {
		return nil, fmt.Errorf("sketch %q: %w", s.Name, err)
	}
	entities, err := Entities(s.Entities)
	if err != nil {
		return nil, fmt.Errorf("sketch %q: %w", s.Name, err)
	}
	return &Document{Name: s.Name, Frame: f, Entities: entities, Height: s.Height}, nil
}

// DocumentSpecOf returns the wire form of d.
func DocumentSpecOf(d *Document) DocumentSpec {
	specs := make([]EntitySpec, len(d.Entities))
	for i, e := range d.Entities {
		specs[i] = SpecOf(e)
	}
	return DocumentSpec{
		Name:     d.Name,
		Plane:    PlaneSpecOf(d.Frame),
		Entities: specs,
		Height:   d.Height,
	}
}

// fileSpec is the top level of a sketch file.
type fileSpec struct {
	Sketches []DocumentSpec `yaml:"sketches"`
}

// ---------------------------------------------------------------------------
// File codec
// ---------------------------------------------------------------------------

// Decode parses a sketch file. The file either lists documents under a
// top-level "sketches" key or is a single document. JSON input is accepted
// since it is valid YAML.
func Decode(data []byte) ([]*Document, error) {
	var fs fileSpec
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("sketch: decode: %w", err)
	}
	if len(fs.Sketches) == 0 {
		var single DocumentSpec
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("sketch: decode: %w", err)
		}
		if single.Name == "" && len(single.Entities) == 0 {
			return nil, nil
		}
		fs.Sketches = []DocumentSpec{single}
	}

	docs := make([]*Document, 0, len(fs.Sketches))
	for i, s := range fs.Sketches {
		if s.Name == "" {
			s.Name = fmt.Sprintf("sketch-%d", i+1)
		}
		d, err := s.Document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Encode writes documents in the file format read by Decode.
func Encode(docs []*Document) ([]byte, error) {
	fs := fileSpec{Sketches: make([]DocumentSpec, len(docs))}
	for i, d := range docs {
		fs.Sketches[i] = DocumentSpecOf(d)
	}
	return yaml.Marshal(fs)
}
