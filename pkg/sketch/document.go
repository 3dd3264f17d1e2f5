package sketch

import (
	"github.com/chazu/sketchcad/pkg/plane"
)

// Document is one sketch session: the plane it was drawn on, the entities in
// insertion order and an optional extrusion height. A zero Height means the
// sketch is not extruded.
type Document struct {
	Name     string
	Frame    plane.Frame
	Entities []Entity
	Height   float64
}

// NewDocument returns an empty sketch on the given frame.
func NewDocument(name string, f plane.Frame) *Document {
	return &Document{Name: name, Frame: f}
}

// Add appends entities and returns the document for chaining.
func (d *Document) Add(entities ...Entity) *Document {
	d.Entities = append(d.Entities, entities...)
	return d
}

// Extruded reports whether the sketch carries an extrusion height.
func (d *Document) Extruded() bool {
	return d.Height != 0
}
