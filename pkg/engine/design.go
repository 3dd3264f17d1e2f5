package engine

import (
	"fmt"

	"github.com/chazu/sketchcad/pkg/sketch"
)

// Design is the result of evaluating a sketch script: the sketches it
// declared, in declaration order.
type Design struct {
	Sketches []*sketch.Document
}

// NewDesign returns an empty design.
func NewDesign() *Design {
	return &Design{}
}

// Lookup returns the sketch with the given name, or nil.
func (d *Design) Lookup(name string) *sketch.Document {
	for _, s := range d.Sketches {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Extruded returns the sketches that carry an extrusion height.
func (d *Design) Extruded() []*sketch.Document {
	var out []*sketch.Document
	for _, s := range d.Sketches {
		if s.Extruded() {
			out = append(out, s)
		}
	}
	return out
}

func (d *Design) add(doc *sketch.Document) error {
	if d.Lookup(doc.Name) != nil {
		return fmt.Errorf("duplicate sketch name %q", doc.Name)
	}
	d.Sketches = append(d.Sketches, doc)
	return nil
}
