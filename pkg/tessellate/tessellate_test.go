package tessellate_test

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/sketch"
	"github.com/chazu/sketchcad/pkg/tessellate"
)

var pt = sketch.Pt

// regionsOf runs the region pipeline for a test sketch.
func regionsOf(t *testing.T, entities ...sketch.Entity) []region.Region {
	t.Helper()
	regions, err := region.BuildRegions(entities)
	require.NoError(t, err)
	return regions
}

// assertCCW checks that every triangle has non-negative orientation.
func assertCCW(t *testing.T, f *tessellate.Face) {
	t.Helper()
	for i, tri := range f.Triangles {
		a, b, c := f.Points[tri[0]], f.Points[tri[1]], f.Points[tri[2]]
		cr := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		assert.GreaterOrEqual(t, cr, -1e-12, "triangle %d is clockwise", i)
	}
}

func TestTriangulateSquare(t *testing.T) {
	f, err := tessellate.Triangulate([]v2.Vec{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, nil)
	require.NoError(t, err)
	assert.Len(t, f.Triangles, 2)
	assert.InDelta(t, 100, f.Area(), 1e-9)
	assertCCW(t, f)
}

func TestTriangulateReversesClockwiseOuter(t *testing.T) {
	cw := []v2.Vec{pt(0, 10), pt(10, 10), pt(10, 0), pt(0, 0)}
	f, err := tessellate.Triangulate(cw, nil)
	require.NoError(t, err)
	assert.Greater(t, region.SignedArea(ringPoints(f, 0)), 0.0)
	assert.InDelta(t, 100, f.Area(), 1e-9)
	assertCCW(t, f)
}

func TestTriangulateConcave(t *testing.T) {
	u := []v2.Vec{pt(0, 0), pt(30, 0), pt(30, 30), pt(20, 30), pt(20, 10), pt(10, 10), pt(10, 30), pt(0, 30)}
	f, err := tessellate.Triangulate(u, nil)
	require.NoError(t, err)
	assert.Len(t, f.Triangles, len(u)-2)
	assert.InDelta(t, 700, f.Area(), 1e-9)
	assertCCW(t, f)
}

func TestTriangulateCollinearVertex(t *testing.T) {
	ring := []v2.Vec{pt(0, 0), pt(5, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	f, err := tessellate.Triangulate(ring, nil)
	require.NoError(t, err)
	assert.Len(t, f.Triangles, 3)
	assert.InDelta(t, 100, f.Area(), 1e-9)
}

func TestRegionWithCircleHole(t *testing.T) {
	regions := regionsOf(t,
		sketch.Rect{A: pt(0, 0), B: pt(20, 20)},
		sketch.Circle{C: pt(10, 10), R: 5},
	)
	require.Len(t, regions, 1)

	f, err := tessellate.Region(regions[0], 64)
	require.NoError(t, err)
	require.Len(t, f.Rings, 2)
	assert.Len(t, f.Rings[1], 64)
	assert.Less(t, region.SignedArea(ringPoints(f, 1)), 0.0, "holes run clockwise")

	// A polygon with holes has vertices + 2*holes - 2 triangles.
	assert.Len(t, f.Triangles, 68+2-2)

	hole := 0.5 * 64 * 25 * math.Sin(2*math.Pi/64)
	assert.InDelta(t, 400-hole, f.Area(), 1e-9)
	assertCCW(t, f)
}

func TestRegionWithSeveralHoles(t *testing.T) {
	regions := regionsOf(t,
		sketch.Rect{A: pt(0, 0), B: pt(40, 20)},
		sketch.Rect{A: pt(5, 5), B: pt(15, 15)},
		sketch.Rect{A: pt(25, 5), B: pt(35, 15)},
		sketch.Circle{C: pt(20, 10), R: 2},
	)
	require.Len(t, regions, 1)
	require.Len(t, regions[0].Holes, 3)

	f, err := tessellate.Region(regions[0], 16)
	require.NoError(t, err)
	hole := 0.5 * 16 * 4 * math.Sin(2*math.Pi/16)
	assert.InDelta(t, 800-200-hole, f.Area(), 1e-9)
	assertCCW(t, f)
}

func TestOutline(t *testing.T) {
	c := region.Contour{Kind: region.KindCircle, Center: pt(1, 2), Radius: 3}
	pts := tessellate.Outline(c, 0)
	require.Len(t, pts, tessellate.DefaultSegments)
	assert.InDelta(t, 4, pts[0].X, 1e-12)
	assert.InDelta(t, 2, pts[0].Y, 1e-12)
	for _, p := range pts {
		assert.InDelta(t, 3, p.Sub(c.Center).Length(), 1e-9)
	}

	sq := region.Contour{Kind: region.KindRect, Points: []v2.Vec{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}}
	out := tessellate.Outline(sq, 8)
	assert.Equal(t, sq.Points, out)
	out[0] = pt(9, 9)
	assert.Equal(t, pt(0, 0), sq.Points[0], "outline is a copy")
}

func TestTriangulateRejectsShortRings(t *testing.T) {
	_, err := tessellate.Triangulate([]v2.Vec{pt(0, 0), pt(1, 0)}, nil)
	assert.Error(t, err)

	sq := []v2.Vec{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	_, err = tessellate.Triangulate(sq, [][]v2.Vec{{pt(1, 1), pt(2, 2)}})
	assert.Error(t, err)
}

func ringPoints(f *tessellate.Face, r int) []v2.Vec {
	out := make([]v2.Vec, len(f.Rings[r]))
	for i, idx := range f.Rings[r] {
		out[i] = f.Points[idx]
	}
	return out
}
