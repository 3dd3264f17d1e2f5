// Package tessellate turns regions into flat triangulated faces. Circles are
// sampled into polygons, holes are bridged into the outer ring and the
// resulting simple polygon is ear-clipped.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/sketchcad/pkg/region"
)

// DefaultSegments is the number of points a circle is sampled into.
const DefaultSegments = 64

// ErrNoEar is returned when a ring cannot be ear-clipped, which happens for
// self-intersecting input.
var ErrNoEar = errors.New("tessellate: polygon has no ear")

// Face is a triangulated planar face. Points holds every ring vertex once;
// Rings lists the point indices of the outer ring (counter-clockwise)
// followed by the holes (clockwise). Triangles are counter-clockwise.
type Face struct {
	Points    []v2.Vec
	Rings     [][]int
	Triangles [][3]int
}

// Outline returns the boundary points of a contour in their stored order.
// Circles are sampled counter-clockwise into segments points; segments
// below 3 use DefaultSegments.
func Outline(c region.Contour, segments int) []v2.Vec {
	if c.Kind != region.KindCircle {
		out := make([]v2.Vec, len(c.Points))
		copy(out, c.Points)
		return out
	}
	if segments < 3 {
		segments = DefaultSegments
	}
	out := make([]v2.Vec, segments)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(segments)
		out[i] = v2.Vec{X: c.Center.X + c.Radius*math.Cos(a), Y: c.Center.Y + c.Radius*math.Sin(a)}
	}
	return out
}

// Region triangulates a region with its holes.
func Region(r region.Region, segments int) (*Face, error) {
	holes := make([][]v2.Vec, len(r.Holes))
	for i, h := range r.Holes {
		holes[i] = Outline(h, segments)
	}
	return Triangulate(Outline(r.Outer, segments), holes)
}

// Triangulate triangulates the polygon outer minus holes. The rings may be
// given in either orientation.
func Triangulate(outer []v2.Vec, holes [][]v2.Vec) (*Face, error) {
	if len(outer) < 3 {
		return nil, fmt.Errorf("tessellate: outer ring has %d points", len(outer))
	}
	f := &Face{}
	f.addRing(outer, true)
	for i, h := range holes {
		if len(h) < 3 {
			return nil, fmt.Errorf("tessellate: hole %d has %d points", i, len(h))
		}
		f.addRing(h, false)
	}

	poly, err := f.bridgeHoles()
	if err != nil {
		return nil, err
	}
	tris, err := earClip(f.Points, poly)
	if err != nil {
		return nil, err
	}
	f.Triangles = tris
	return f, nil
}

// addRing appends a ring, reversing it if needed so that the outer ring
// runs counter-clockwise and holes run clockwise.
func (f *Face) addRing(pts []v2.Vec, ccw bool) {
	reverse := (region.SignedArea(pts) > 0) != ccw
	ring := make([]int, len(pts))
	base := len(f.Points)
	for i := range pts {
		j := i
		if reverse {
			j = len(pts) - 1 - i
		}
		f.Points = append(f.Points, pts[j])
		ring[i] = base + i
	}
	f.Rings = append(f.Rings, ring)
}

// Area returns the total area of the triangles.
func (f *Face) Area() float64 {
	var a float64
	for _, t := range f.Triangles {
		a += cross(f.Points[t[0]], f.Points[t[1]], f.Points[t[2]]) / 2
	}
	return a
}

// cross is twice the signed area of triangle abc.
func cross(a, b, c v2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
