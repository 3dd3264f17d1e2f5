// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/region"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel meshing with the given number of marching
// cubes cells along the longest axis. Values below 1 use DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells < 1 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Name returns "sdfx".
func (k *SdfxKernel) Name() string { return "sdfx" }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("sdfx: unsupported solid %T", s)
	}
	return ss.s, nil
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Extrude builds the region as a 2D SDF, extrudes it and places it on the
// frame. sdf.Extrude3D centers the profile on z=0, so the solid is first
// shifted up by half the height.
func (k *SdfxKernel) Extrude(f plane.Frame, r region.Region, height float64) (kernel.Solid, error) {
	profile, err := contour2D(r.Outer)
	if err != nil {
		return nil, fmt.Errorf("sdfx: outer contour: %w", err)
	}
	if len(r.Holes) > 0 {
		holes := make([]sdf.SDF2, 0, len(r.Holes))
		for i, h := range r.Holes {
			hs, err := contour2D(h)
			if err != nil {
				return nil, fmt.Errorf("sdfx: hole %d: %w", i, err)
			}
			holes = append(holes, hs)
		}
		profile = sdf.Difference2D(profile, sdf.Union2D(holes...))
	}

	s := sdf.Extrude3D(profile, height)
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))
	return wrap(&framed{s: s, t: f.Transform()}), nil
}

// contour2D converts a contour into a 2D SDF.
func contour2D(c region.Contour) (sdf.SDF2, error) {
	if c.Kind == region.KindCircle {
		s, err := sdf.Circle2D(c.Radius)
		if err != nil {
			return nil, err
		}
		return sdf.Transform2D(s, sdf.Translate2d(c.Center)), nil
	}
	pts := make([]v2.Vec, len(c.Points))
	copy(pts, c.Points)
	return sdf.Polygon2D(pts)
}

// framed places a frame-local SDF3 in world space. The frame transform is
// rigid, so distances carry over unchanged.
type framed struct {
	s sdf.SDF3
	t plane.Transform
}

// Evaluate returns the distance from a world point to the surface.
func (f *framed) Evaluate(p v3.Vec) float64 {
	return f.s.Evaluate(f.t.Inverse(p))
}

// BoundingBox returns the world box enclosing the transformed local box.
func (f *framed) BoundingBox() sdf.Box3 {
	bb := f.s.BoundingBox()
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < 8; i++ {
		c := bb.Min
		if i&1 != 0 {
			c.X = bb.Max.X
		}
		if i&2 != 0 {
			c.Y = bb.Max.Y
		}
		if i&4 != 0 {
			c.Z = bb.Max.Z
		}
		w := f.t.Apply(c)
		lo = lo.Min(w)
		hi = hi.Max(w)
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
