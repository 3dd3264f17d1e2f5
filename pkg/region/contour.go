// Package region derives closed contours from sketch entities, nests them
// into a containment hierarchy and assembles fillable regions with holes.
//
// Every call recomputes from the entity list it is given. Nothing is cached
// between calls, so the functions are safe to use from any goroutine.
package region

import (
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/sketchcad/pkg/sketch"
)

const (
	// degenerateTolerance is the minimum width and height of a rect.
	degenerateTolerance = 1e-6
	// minLoopArea is the smallest area a line loop may enclose.
	minLoopArea = 1e-4
	// circleEpsilon shrinks circles for the strict containment test.
	circleEpsilon = 1e-9
)

// Kind distinguishes the contour shapes.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Contour is a closed boundary derived from the sketch. Rects and polygons
// carry Points in boundary order (not repeated at the end); circles carry
// Center and Radius. Sample is a point strictly inside the contour.
type Contour struct {
	Kind   Kind
	Points []v2.Vec
	Center v2.Vec
	Radius float64
	Area   float64
	Sample v2.Vec
}

// Contains reports whether p lies strictly inside c. Points on the boundary
// may go either way.
func (c Contour) Contains(p v2.Vec) bool {
	if c.Kind == KindCircle {
		d := p.Sub(c.Center)
		return d.Dot(d) < c.Radius*c.Radius-circleEpsilon
	}
	return pointInPolygon(p, c.Points)
}

// Bounds returns the axis-aligned bounding box of c.
func (c Contour) Bounds() (lo, hi v2.Vec) {
	if c.Kind == KindCircle {
		r := v2.Vec{X: c.Radius, Y: c.Radius}
		return c.Center.Sub(r), c.Center.Add(r)
	}
	lo = v2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi = v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range c.Points {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Contours converts entities into closed contours. Rects and circles come
// first in entity order, followed by the loops closed by line entities.
// Degenerate rects, circles with a non-positive or non-finite radius and
// line pools that do not close are dropped without error.
func Contours(entities []sketch.Entity) []Contour {
	var out []Contour
	for _, e := range entities {
		switch e := e.(type) {
		case sketch.Rect:
			if c, ok := rectContour(e); ok {
				out = append(out, c)
			}
		case sketch.Circle:
			if c, ok := circleContour(e); ok {
				out = append(out, c)
			}
		}
	}

	for _, loop := range Loops(sketch.Lines(entities)) {
		area := polygonArea(loop)
		if area < minLoopArea {
			continue
		}
		out = append(out, Contour{
			Kind:   KindPolygon,
			Points: loop,
			Area:   area,
			Sample: interiorPoint(loop),
		})
	}
	return out
}

func rectContour(r sketch.Rect) (Contour, bool) {
	lo, hi := r.A.Min(r.B), r.A.Max(r.B)
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if !(w >= degenerateTolerance && h >= degenerateTolerance) {
		return Contour{}, false
	}
	return Contour{
		Kind: KindRect,
		Points: []v2.Vec{
			{X: lo.X, Y: lo.Y},
			{X: hi.X, Y: lo.Y},
			{X: hi.X, Y: hi.Y},
			{X: lo.X, Y: hi.Y},
		},
		Area:   math.Abs(w * h),
		Sample: lo.Add(hi).MulScalar(0.5),
	}, true
}

func circleContour(c sketch.Circle) (Contour, bool) {
	if math.IsNaN(c.R) || math.IsInf(c.R, 0) || c.R <= 0 {
		return Contour{}, false
	}
	return Contour{
		Kind:   KindCircle,
		Center: c.C,
		Radius: c.R,
		Area:   math.Pi * c.R * c.R,
		Sample: c.C,
	}, true
}

// ---------------------------------------------------------------------------
// Polygon helpers
// ---------------------------------------------------------------------------

// signedArea is the shoelace area; positive for counter-clockwise rings.
func signedArea(pts []v2.Vec) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// SignedArea returns the shoelace area of a ring, positive when the ring
// runs counter-clockwise.
func SignedArea(pts []v2.Vec) float64 { return signedArea(pts) }

func polygonArea(pts []v2.Vec) float64 {
	return math.Abs(signedArea(pts))
}

// pointInPolygon is the even-odd ray casting test.
func pointInPolygon(p v2.Vec, poly []v2.Vec) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// centroid is the area centroid of a simple polygon, or the vertex average
// when the area vanishes.
func centroid(pts []v2.Vec) v2.Vec {
	a := signedArea(pts)
	if math.Abs(a) < 1e-12 {
		var sum v2.Vec
		for _, p := range pts {
			sum = sum.Add(p)
		}
		return sum.DivScalar(float64(max(1, len(pts))))
	}
	var cx, cy float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		cross := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	return v2.Vec{X: cx / (6 * a), Y: cy / (6 * a)}
}

// interiorPoint returns a point strictly inside the polygon. The centroid is
// used when it qualifies; concave shapes fall back to the midpoint of the
// widest span along a horizontal scanline between two vertex heights.
func interiorPoint(pts []v2.Vec) v2.Vec {
	c := centroid(pts)
	if pointInPolygon(c, pts) {
		return c
	}

	ys := lo.Uniq(lo.Map(pts, func(p v2.Vec, _ int) float64 { return p.Y }))
	slices.Sort(ys)
	if len(ys) < 2 {
		return c
	}
	// Try scanlines starting near the middle of the shape.
	mid := len(ys) / 2
	order := []int{mid - 1}
	for d := 1; d < len(ys); d++ {
		if mid-1-d >= 0 {
			order = append(order, mid-1-d)
		}
		if mid-1+d < len(ys)-1 {
			order = append(order, mid-1+d)
		}
	}
	for _, k := range order {
		if k < 0 || k+1 >= len(ys) {
			continue
		}
		y := (ys[k] + ys[k+1]) / 2
		if p, ok := widestSpan(pts, y); ok {
			return p
		}
	}
	return c
}

// widestSpan intersects the polygon with the line at height y and returns
// the midpoint of the widest inside interval.
func widestSpan(pts []v2.Vec, y float64) (v2.Vec, bool) {
	var xs []float64
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) {
			xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
	}
	slices.Sort(xs)
	best, bestW := v2.Vec{}, 0.0
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > bestW {
			bestW = w
			best = v2.Vec{X: (xs[i] + xs[i+1]) / 2, Y: y}
		}
	}
	return best, bestW > 0
}
