package tessellate

import (
	"fmt"
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

const flatEpsilon = 1e-12

// ---------------------------------------------------------------------------
// Hole bridging
// ---------------------------------------------------------------------------

// bridgeHoles merges every hole into the outer ring through a zero-width
// bridge between a hole vertex and a visible ring vertex. Holes are merged
// right to left by their rightmost vertex. The result is a single index ring
// in which the bridge vertices appear twice.
func (f *Face) bridgeHoles() ([]int, error) {
	poly := slices.Clone(f.Rings[0])
	holes := slices.Clone(f.Rings[1:])
	slices.SortStableFunc(holes, func(a, b []int) int {
		xa, xb := f.Points[a[f.rightmost(a)]].X, f.Points[b[f.rightmost(b)]].X
		switch {
		case xa > xb:
			return -1
		case xa < xb:
			return 1
		}
		return 0
	})

	for hi, h := range holes {
		m := f.rightmost(h)
		pos, ok := f.bridgeTarget(poly, h, m, holes[hi+1:])
		if !ok {
			return nil, fmt.Errorf("tessellate: hole %d has no visible vertex on the outer ring", hi)
		}

		merged := make([]int, 0, len(poly)+len(h)+2)
		merged = append(merged, poly[:pos+1]...)
		for k := 0; k <= len(h); k++ {
			merged = append(merged, h[(m+k)%len(h)])
		}
		merged = append(merged, poly[pos])
		merged = append(merged, poly[pos+1:]...)
		poly = merged
	}
	return poly, nil
}

func (f *Face) rightmost(ring []int) int {
	best := 0
	for i, idx := range ring {
		p, q := f.Points[idx], f.Points[ring[best]]
		if p.X > q.X || (p.X == q.X && p.Y < q.Y) {
			best = i
		}
	}
	return best
}

// bridgeTarget picks the position in poly of the nearest vertex that the
// hole vertex h[m] can see: the bridge enters the vertex's interior wedge
// and crosses no ring edge or vertex.
func (f *Face) bridgeTarget(poly, h []int, m int, rest [][]int) (int, bool) {
	mp := f.Points[h[m]]

	order := make([]int, len(poly))
	for i := range order {
		order[i] = i
	}
	dist := func(i int) float64 {
		d := f.Points[poly[i]].Sub(mp)
		return d.Dot(d)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		da, db := dist(a), dist(b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	rings := append([][]int{poly, h}, rest...)
	for _, i := range order {
		vp := f.Points[poly[i]]
		if vp == mp {
			continue
		}
		prev := f.Points[poly[(i+len(poly)-1)%len(poly)]]
		next := f.Points[poly[(i+1)%len(poly)]]
		if !locallyInside(prev, vp, next, mp) {
			continue
		}
		if f.blocked(vp, mp, rings) {
			continue
		}
		return i, true
	}
	return 0, false
}

// locallyInside reports whether b lies inside the interior wedge at a of a
// counter-clockwise ring.
func locallyInside(prev, a, next, b v2.Vec) bool {
	if cross(prev, a, next) > 0 {
		return cross(a, b, next) <= 0 && cross(a, prev, b) <= 0
	}
	return cross(a, b, prev) > 0 || cross(a, next, b) > 0
}

// blocked reports whether segment ab crosses an edge of rings or passes
// through one of their vertices.
func (f *Face) blocked(a, b v2.Vec, rings [][]int) bool {
	for _, ring := range rings {
		for i := range ring {
			p := f.Points[ring[i]]
			q := f.Points[ring[(i+1)%len(ring)]]
			if properCross(a, b, p, q) {
				return true
			}
			if p != a && p != b && onOpenSegment(a, b, p) {
				return true
			}
		}
	}
	return false
}

func properCross(p1, p2, q1, q2 v2.Vec) bool {
	d1, d2 := cross(q1, q2, p1), cross(q1, q2, p2)
	d3, d4 := cross(p1, p2, q1), cross(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func onOpenSegment(a, b, p v2.Vec) bool {
	if math.Abs(cross(a, b, p)) > flatEpsilon {
		return false
	}
	d := b.Sub(a)
	t := p.Sub(a).Dot(d) / d.Dot(d)
	return t > 0 && t < 1
}

// ---------------------------------------------------------------------------
// Ear clipping
// ---------------------------------------------------------------------------

// earClip triangulates a simple counter-clockwise ring given as indices
// into pts. When no convex ear is left a flat vertex is clipped instead,
// which emits a zero-area triangle and keeps the cap edges matched.
func earClip(pts []v2.Vec, ring []int) ([][3]int, error) {
	idx := slices.Clone(ring)
	tris := make([][3]int, 0, len(idx)-2)

	start := 0
	for len(idx) > 3 {
		n := len(idx)
		clipped := -1
		for k := 0; k < n; k++ {
			i := (start + k) % n
			if isEar(pts, idx, i) {
				clipped = i
				break
			}
		}
		if clipped < 0 {
			for i := range idx {
				a, b, c := pts[idx[(i+n-1)%n]], pts[idx[i]], pts[idx[(i+1)%n]]
				if math.Abs(cross(a, b, c)) <= flatEpsilon {
					clipped = i
					break
				}
			}
		}
		if clipped < 0 {
			return nil, fmt.Errorf("%w: %d vertices left", ErrNoEar, n)
		}

		tris = append(tris, [3]int{idx[(clipped+n-1)%n], idx[clipped], idx[(clipped+1)%n]})
		idx = slices.Delete(idx, clipped, clipped+1)
		start = clipped % len(idx)
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]}), nil
}

// isEar reports whether the vertex at position i of idx is convex and no
// reflex vertex of the ring lies in its triangle.
func isEar(pts []v2.Vec, idx []int, i int) bool {
	n := len(idx)
	a, b, c := pts[idx[(i+n-1)%n]], pts[idx[i]], pts[idx[(i+1)%n]]
	if cross(a, b, c) <= flatEpsilon {
		return false
	}
	for j := range idx {
		q := pts[idx[j]]
		if q == a || q == b || q == c {
			continue
		}
		qp, qn := pts[idx[(j+n-1)%n]], pts[idx[(j+1)%n]]
		if cross(qp, q, qn) > 0 {
			continue // convex vertices cannot be the only point inside
		}
		if cross(a, b, q) >= 0 && cross(b, c, q) >= 0 && cross(c, a, q) >= 0 {
			return false
		}
	}
	return true
}
