// Package prism implements the kernel.Kernel interface with exact capped
// prisms: a triangulated bottom cap, a top cap and one wall quad per
// boundary edge, every vertex mapped through the plane frame.
package prism

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"

	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/tessellate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*PrismKernel)(nil)

// triangle is one world-space face triangle with its flat outward normal.
type triangle struct {
	v [3]v3.Vec
	n v3.Vec
}

// prismSolid holds the world-space triangles of one prism.
type prismSolid struct {
	tris     []triangle
	min, max v3.Vec
}

// BoundingBox returns the axis-aligned bounding box.
func (s *prismSolid) BoundingBox() (min, max [3]float64) {
	min = [3]float64{s.min.X, s.min.Y, s.min.Z}
	max = [3]float64{s.max.X, s.max.Y, s.max.Z}
	return min, max
}

// PrismKernel implements kernel.Kernel by building prisms directly.
type PrismKernel struct {
	segments int
}

// New returns a PrismKernel that samples circles into segments points.
// Values below 3 use tessellate.DefaultSegments.
func New(segments int) *PrismKernel {
	if segments < 3 {
		segments = tessellate.DefaultSegments
	}
	return &PrismKernel{segments: segments}
}

// Name returns "prism".
func (k *PrismKernel) Name() string { return "prism" }

// Extrude builds the capped prism of r on frame f.
func (k *PrismKernel) Extrude(f plane.Frame, r region.Region, height float64) (kernel.Solid, error) {
	face, err := tessellate.Region(r, k.segments)
	if err != nil {
		return nil, errors.Wrap(err, "prism: triangulate region")
	}

	tr := f.Transform()
	at := func(p v2.Vec, z float64) v3.Vec {
		return tr.Apply(v3.Vec{X: p.X, Y: p.Y, Z: z})
	}
	up := tr.Rotate(v3.Vec{Z: 1})
	down := up.Neg()

	s := &prismSolid{
		min: v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		max: v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}

	for _, t := range face.Triangles {
		a, b, c := face.Points[t[0]], face.Points[t[1]], face.Points[t[2]]
		s.add(triangle{v: [3]v3.Vec{at(a, 0), at(c, 0), at(b, 0)}, n: down})
		s.add(triangle{v: [3]v3.Vec{at(a, height), at(b, height), at(c, height)}, n: up})
	}

	// Walls. Outer rings run counter-clockwise and holes clockwise, so the
	// material is always on the left of an edge and (dy, -dx) points out.
	for _, ring := range face.Rings {
		for i := range ring {
			a := face.Points[ring[i]]
			b := face.Points[ring[(i+1)%len(ring)]]
			d := b.Sub(a)
			l := d.Length()
			if l == 0 {
				continue
			}
			n := tr.Rotate(v3.Vec{X: d.Y / l, Y: -d.X / l})
			a0, b0, a1, b1 := at(a, 0), at(b, 0), at(a, height), at(b, height)
			s.add(triangle{v: [3]v3.Vec{a0, b0, b1}, n: n})
			s.add(triangle{v: [3]v3.Vec{a0, b1, a1}, n: n})
		}
	}
	return s, nil
}

func (s *prismSolid) add(t triangle) {
	s.tris = append(s.tris, t)
	for _, v := range t.v {
		s.min = s.min.Min(v)
		s.max = s.max.Max(v)
	}
}

// ToMesh flattens the prism into a mesh. Every face gets its own vertices
// so that normals stay flat.
func (k *PrismKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ps, ok := s.(*prismSolid)
	if !ok {
		return nil, errors.Errorf("prism: unsupported solid %T", s)
	}

	numVerts := len(ps.tris) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range ps.tris {
		for j := 0; j < 3; j++ {
			v := tri.v[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, float32(tri.n.X), float32(tri.n.Y), float32(tri.n.Z))
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
