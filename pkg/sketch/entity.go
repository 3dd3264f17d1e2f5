// Package sketch defines the 2D entities a user draws on a plane frame and
// the document that groups them into one sketch session.
package sketch

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Kind enumerates the entity variants.
type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Entity is an immutable sketch primitive in plane-local coordinates.
type Entity interface {
	Kind() Kind
	entity() // marker method restricting implementations to this package
}

// Line is a single segment. Lines only form contours when several of them
// close a loop.
type Line struct {
	A v2.Vec
	B v2.Vec
}

func (Line) Kind() Kind { return KindLine }
func (Line) entity()    {}

// Rect is an axis-aligned rectangle given by two opposite corners.
type Rect struct {
	A v2.Vec
	B v2.Vec
}

func (Rect) Kind() Kind { return KindRect }
func (Rect) entity()    {}

// Circle is given by its center and radius.
type Circle struct {
	C v2.Vec
	R float64
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) entity()    {}

// Pt is shorthand for a plane-local point.
func Pt(x, y float64) v2.Vec {
	return v2.Vec{X: x, Y: y}
}

// Polygon returns the closed chain of lines through pts. Fewer than two
// points yield no lines.
func Polygon(pts ...v2.Vec) []Entity {
	if len(pts) < 2 {
		return nil
	}
	lines := make([]Entity, 0, len(pts))
	for i := range pts {
		lines = append(lines, Line{A: pts[i], B: pts[(i+1)%len(pts)]})
	}
	return lines
}

// Lines filters the line entities out of a sketch, preserving order.
func Lines(entities []Entity) []Line {
	var out []Line
	for _, e := range entities {
		if l, ok := e.(Line); ok {
			out = append(out, l)
		}
	}
	return out
}

// Map applies fn to every point of every entity. Circle radii are kept.
func Map(entities []Entity, fn func(v2.Vec) v2.Vec) []Entity {
	out := make([]Entity, len(entities))
	for i, e := range entities {
		switch e := e.(type) {
		case Line:
			out[i] = Line{A: fn(e.A), B: fn(e.B)}
		case Rect:
			out[i] = Rect{A: fn(e.A), B: fn(e.B)}
		case Circle:
			out[i] = Circle{C: fn(e.C), R: e.R}
		default:
			out[i] = e
		}
	}
	return out
}
