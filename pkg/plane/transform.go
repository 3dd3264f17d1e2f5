package plane

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform maps frame-local 3D coordinates (u, v, n) to world space. The
// rotation columns are the frame's U, V and Normal axes; the translation is
// the frame origin.
type Transform struct {
	cols [3]v3.Vec
	t    v3.Vec
}

// Transform returns the frame-to-world transform of f.
func (f Frame) Transform() Transform {
	return Transform{cols: [3]v3.Vec{f.U, f.V, f.Normal}, t: f.Origin}
}

// Apply transforms a local point (x along U, y along V, z along Normal).
func (t Transform) Apply(p v3.Vec) v3.Vec {
	return t.t.Add(t.Rotate(p))
}

// Rotate transforms a direction; the translation is not applied.
func (t Transform) Rotate(d v3.Vec) v3.Vec {
	return t.cols[0].MulScalar(d.X).Add(t.cols[1].MulScalar(d.Y)).Add(t.cols[2].MulScalar(d.Z))
}

// Inverse maps a world point back into frame-local coordinates. For an
// orthonormal frame the inverse rotation is the transpose.
func (t Transform) Inverse(p v3.Vec) v3.Vec {
	d := p.Sub(t.t)
	return v3.Vec{X: d.Dot(t.cols[0]), Y: d.Dot(t.cols[1]), Z: d.Dot(t.cols[2])}
}

// Columns returns the rotation columns (U, V, Normal) and the translation.
func (t Transform) Columns() (u, v, n, origin v3.Vec) {
	return t.cols[0], t.cols[1], t.cols[2], t.t
}
