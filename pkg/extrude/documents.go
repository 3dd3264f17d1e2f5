package extrude

import (
	"fmt"

	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/sketch"
)

// Part is the extrusion of one sketch document.
type Part struct {
	Sketch string
	Solids []Solid
}

// Documents extrudes every document that carries a height, in order.
// Documents without a height are skipped. Meshes are named after their
// sketch, with a region suffix when a sketch yields several solids.
func (x *Extruder) Documents(docs []*sketch.Document) ([]Part, error) {
	var parts []Part
	for _, d := range docs {
		if d == nil || !d.Extruded() {
			continue
		}
		solids, err := x.Extrude(d.Frame, d.Entities, d.Height)
		if err != nil {
			return nil, fmt.Errorf("sketch %q: %w", d.Name, err)
		}
		for i := range solids {
			if len(solids) == 1 {
				solids[i].Mesh.Name = d.Name
			} else {
				solids[i].Mesh.Name = fmt.Sprintf("%s-%d", d.Name, solids[i].Region)
			}
		}
		parts = append(parts, Part{Sketch: d.Name, Solids: solids})
	}
	return parts, nil
}

// Meshes flattens the meshes of parts in order.
func Meshes(parts []Part) []*kernel.Mesh {
	var out []*kernel.Mesh
	for _, p := range parts {
		for _, s := range p.Solids {
			out = append(out, s.Mesh)
		}
	}
	return out
}
