// Package kernel defines the abstract geometry kernel interface.
// Implementations (prism, sdfx, manifold) sweep planar regions into
// solids behind this interface, so the extruder can swap backends without
// changing the rest of the system.
package kernel

import (
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/region"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the world-space axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Extrude sweeps a region drawn on frame along the frame normal by
	// height, which the caller guarantees to be positive and finite.
	Extrude(frame plane.Frame, r region.Region, height float64) (Solid, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
