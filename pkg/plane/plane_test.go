package plane

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertVec3(t *testing.T, want, got v3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "X")
	assert.InDelta(t, want.Y, got.Y, eps, "Y")
	assert.InDelta(t, want.Z, got.Z, eps, "Z")
}

func TestBaselinesAreRightHanded(t *testing.T) {
	for id, f := range Baselines() {
		t.Run(string(id), func(t *testing.T) {
			require.NoError(t, f.Validate())
			assertVec3(t, f.Normal, f.U.Cross(f.V))
		})
	}
}

func TestBaselineAxes(t *testing.T) {
	tests := []struct {
		id     ID
		normal v3.Vec
		u, v   v3.Vec
	}{
		{XY, v3.Vec{Z: 1}, v3.Vec{X: 1}, v3.Vec{Y: 1}},
		{YZ, v3.Vec{X: 1}, v3.Vec{Y: 1}, v3.Vec{Z: 1}},
		{ZX, v3.Vec{Y: 1}, v3.Vec{Z: 1}, v3.Vec{X: 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			f := Baseline(tt.id)
			assert.Equal(t, tt.normal, f.Normal)
			assert.Equal(t, tt.u, f.U)
			assert.Equal(t, tt.v, f.V)
			assert.Equal(t, v3.Vec{}, f.Origin)
		})
	}
}

func TestParseID(t *testing.T) {
	for _, s := range []string{"xy", "XY", " Xy "} {
		id, err := ParseID(s)
		require.NoError(t, err)
		assert.Equal(t, XY, id)
	}
	id, err := ParseID("zx")
	require.NoError(t, err)
	assert.Equal(t, ZX, id)

	_, err = ParseID("xz")
	assert.Error(t, err)
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	f, err := FromNormal(v3.Vec{X: 3, Y: -2, Z: 7}, v3.Vec{X: 1, Y: 2, Z: 2})
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	p := v2.Vec{X: 12.5, Y: -4.25}
	w := f.LocalToWorld(p)
	back := f.WorldToLocal(w)
	assert.InDelta(t, p.X, back.X, eps)
	assert.InDelta(t, p.Y, back.Y, eps)
}

func TestWorldToLocalDropsOutOfPlane(t *testing.T) {
	f := Baseline(XY)
	got := f.WorldToLocal(v3.Vec{X: 4, Y: 5, Z: 99})
	assert.Equal(t, v2.Vec{X: 4, Y: 5}, got)
}

func TestLocalToWorldOnZX(t *testing.T) {
	f := Baseline(ZX)
	got := f.LocalToWorld(v2.Vec{X: 2, Y: 3})
	assert.Equal(t, v3.Vec{X: 3, Y: 0, Z: 2}, got)
}

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		in   v2.Vec
		grid float64
		want v2.Vec
	}{
		{"already on grid", v2.Vec{X: 10, Y: -5}, 5, v2.Vec{X: 10, Y: -5}},
		{"rounds to nearest", v2.Vec{X: 7.4, Y: 7.6}, 5, v2.Vec{X: 5, Y: 10}},
		{"negative", v2.Vec{X: -2.6, Y: -2.4}, 5, v2.Vec{X: -5, Y: 0}},
		{"fractional grid", v2.Vec{X: 0.26, Y: 0.74}, 0.5, v2.Vec{X: 0.5, Y: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snap(tt.in, tt.grid)
			assert.InDelta(t, tt.want.X, got.X, eps)
			assert.InDelta(t, tt.want.Y, got.Y, eps)
		})
	}
}

func TestNewRejectsSkewAxes(t *testing.T) {
	_, err := New(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 1, Y: 1}.Normalize())
	assert.ErrorIs(t, err, ErrNotOrthonormal)

	_, err = New(v3.Vec{}, v3.Vec{X: 2}, v3.Vec{Y: 1})
	assert.ErrorIs(t, err, ErrNotOrthonormal)
}

func TestNewDerivesNormal(t *testing.T) {
	f, err := New(v3.Vec{Z: 1}, v3.Vec{Y: 1}, v3.Vec{X: 1})
	require.NoError(t, err)
	assert.Equal(t, v3.Vec{Z: -1}, f.Normal)
}

func TestFromNormal(t *testing.T) {
	_, err := FromNormal(v3.Vec{}, v3.Vec{})
	assert.ErrorIs(t, err, ErrZeroNormal)

	for _, n := range []v3.Vec{{X: 1}, {Y: -1}, {Z: 5}, {X: 1, Y: 1, Z: 1}} {
		f, err := FromNormal(v3.Vec{}, n)
		require.NoError(t, err)
		require.NoError(t, f.Validate())
		assert.InDelta(t, 1, f.Normal.Length(), eps)
		assert.InDelta(t, 1, f.Normal.Dot(n)/n.Length(), eps)
	}
}

func TestTransform(t *testing.T) {
	f := Frame{
		Origin: v3.Vec{X: 1, Y: 2, Z: 3},
		Normal: v3.Vec{X: 1},
		U:      v3.Vec{Y: 1},
		V:      v3.Vec{Z: 1},
	}
	tr := f.Transform()

	p := v3.Vec{X: 4, Y: 5, Z: 6}
	got := tr.Apply(p)
	assertVec3(t, v3.Vec{X: 1 + 6, Y: 2 + 4, Z: 3 + 5}, got)
	assertVec3(t, p, tr.Inverse(got))
	assertVec3(t, v3.Vec{X: 1}, tr.Rotate(v3.Vec{Z: 1}))

	// The z=0 slice of the transform agrees with LocalToWorld.
	assertVec3(t, f.LocalToWorld(v2.Vec{X: 4, Y: 5}), tr.Apply(v3.Vec{X: 4, Y: 5}))
}
