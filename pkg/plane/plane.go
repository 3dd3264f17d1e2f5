// Package plane defines the oriented coordinate frame a sketch lives on and
// converts points between plane-local 2D coordinates and 3D world space.
package plane

import (
	"errors"
	"fmt"
	"math"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// orthoTolerance bounds the dot products and length deviations accepted
// when validating a frame.
const orthoTolerance = 1e-9

// ErrNotOrthonormal is returned when frame axes are not unit length or not
// mutually perpendicular.
var ErrNotOrthonormal = errors.New("plane: axes are not orthonormal")

// ErrZeroNormal is returned by FromNormal for a zero-length normal.
var ErrZeroNormal = errors.New("plane: normal has zero length")

// Frame is an orthonormal, right-handed coordinate system embedded in 3D.
// Normal always equals U × V. Frames are immutable values.
type Frame struct {
	Origin v3.Vec `json:"origin"`
	Normal v3.Vec `json:"normal"`
	U      v3.Vec `json:"u"`
	V      v3.Vec `json:"v"`
}

// New builds a frame from an origin and two in-plane axes. The axes must
// already be unit length and perpendicular; the normal is derived as u × v.
func New(origin, u, v v3.Vec) (Frame, error) {
	if math.Abs(u.Length()-1) > orthoTolerance || math.Abs(v.Length()-1) > orthoTolerance {
		return Frame{}, fmt.Errorf("%w: |u|=%g |v|=%g", ErrNotOrthonormal, u.Length(), v.Length())
	}
	if d := u.Dot(v); math.Abs(d) > orthoTolerance {
		return Frame{}, fmt.Errorf("%w: u·v=%g", ErrNotOrthonormal, d)
	}
	return Frame{Origin: origin, Normal: u.Cross(v), U: u, V: v}, nil
}

// MustNew is like New but panics on an invalid frame.
func MustNew(origin, u, v v3.Vec) Frame {
	f, err := New(origin, u, v)
	if err != nil {
		panic(err)
	}
	return f
}

// FromNormal builds a frame for a planar face given a point on it and its
// normal. The u axis is the projection of a helper world axis onto the
// plane, so the result is stable for a given normal.
func FromNormal(origin, normal v3.Vec) (Frame, error) {
	l := normal.Length()
	if l < orthoTolerance {
		return Frame{}, ErrZeroNormal
	}
	n := normal.MulScalar(1 / l)

	helper := v3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		helper = v3.Vec{Y: 1}
	}
	u := helper.Sub(n.MulScalar(helper.Dot(n)))
	u = u.MulScalar(1 / u.Length())
	v := n.Cross(u)

	return Frame{Origin: origin, Normal: n, U: u, V: v}, nil
}

// Validate reports whether f is orthonormal and right-handed.
func (f Frame) Validate() error {
	if _, err := New(f.Origin, f.U, f.V); err != nil {
		return err
	}
	c := f.U.Cross(f.V)
	if c.Sub(f.Normal).Length() > 1e-6 {
		return fmt.Errorf("%w: normal is not u×v", ErrNotOrthonormal)
	}
	return nil
}

// WorldToLocal projects p onto the plane and returns its (u, v)
// coordinates. The out-of-plane component is dropped silently.
func (f Frame) WorldToLocal(p v3.Vec) v2.Vec {
	d := p.Sub(f.Origin)
	return v2.Vec{X: d.Dot(f.U), Y: d.Dot(f.V)}
}

// LocalToWorld maps plane coordinates to a world point on the plane.
func (f Frame) LocalToWorld(p v2.Vec) v3.Vec {
	return f.Origin.Add(f.U.MulScalar(p.X)).Add(f.V.MulScalar(p.Y))
}

// Snap rounds p to the grid of the frame. See Snap.
func (f Frame) Snap(p v2.Vec, gridSize float64) v2.Vec {
	return Snap(p, gridSize)
}

// Snap rounds each coordinate of p to the nearest multiple of gridSize.
// gridSize must be positive; it is not re-validated here.
func Snap(p v2.Vec, gridSize float64) v2.Vec {
	return v2.Vec{
		X: math.Round(p.X/gridSize) * gridSize,
		Y: math.Round(p.Y/gridSize) * gridSize,
	}
}

// ---------------------------------------------------------------------------
// Baseline planes
// ---------------------------------------------------------------------------

// ID names one of the baseline reference planes through the world origin.
type ID string

const (
	XY ID = "XY" // normal +Z
	YZ ID = "YZ" // normal +X
	ZX ID = "ZX" // normal +Y
)

// ParseID converts a case-insensitive plane name into an ID.
func ParseID(s string) (ID, error) {
	switch ID(strings.ToUpper(strings.TrimSpace(s))) {
	case XY:
		return XY, nil
	case YZ:
		return YZ, nil
	case ZX:
		return ZX, nil
	}
	return "", fmt.Errorf("plane: unknown baseline plane %q, expected xy, yz or zx", s)
}

// Baseline returns the frame of a baseline plane. Unknown IDs yield XY.
func Baseline(id ID) Frame {
	switch id {
	case YZ:
		return Frame{Normal: v3.Vec{X: 1}, U: v3.Vec{Y: 1}, V: v3.Vec{Z: 1}}
	case ZX:
		return Frame{Normal: v3.Vec{Y: 1}, U: v3.Vec{Z: 1}, V: v3.Vec{X: 1}}
	default:
		return Frame{Normal: v3.Vec{Z: 1}, U: v3.Vec{X: 1}, V: v3.Vec{Y: 1}}
	}
}

// Baselines returns the three baseline planes keyed by ID.
func Baselines() map[ID]Frame {
	return map[ID]Frame{XY: Baseline(XY), YZ: Baseline(YZ), ZX: Baseline(ZX)}
}
