package region

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/sketchcad/pkg/sketch"
)

// Severity grades a diagnostic. None of them stop the pipeline.
type Severity int

const (
	SeverityWarning Severity = iota // entity dropped from the geometry
	SeverityInfo                    // geometry kept, result may surprise
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// NoEntity marks a diagnostic that concerns the line pool or a contour
// rather than a single entity.
const NoEntity = -1

// Diagnostic is one finding about a sketch.
type Diagnostic struct {
	Entity   int // index into the entity list, or NoEntity
	Message  string
	Severity Severity
}

func (d Diagnostic) String() string {
	if d.Entity == NoEntity {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] entity %d: %s", d.Severity, d.Entity, d.Message)
}

// Diagnose explains which entities the region pipeline drops and why. It
// never changes the result of BuildRegions.
func Diagnose(entities []sketch.Entity) []Diagnostic {
	var out []Diagnostic
	out = append(out, diagnoseEntities(entities)...)
	out = append(out, diagnoseLinePool(entities)...)
	out = append(out, diagnoseAmbiguousNesting(Contours(entities))...)
	return out
}

func diagnoseEntities(entities []sketch.Entity) []Diagnostic {
	var out []Diagnostic
	for i, e := range entities {
		switch e := e.(type) {
		case sketch.Rect:
			d := e.B.Sub(e.A)
			if !(math.Abs(d.X) >= degenerateTolerance && math.Abs(d.Y) >= degenerateTolerance) {
				out = append(out, Diagnostic{
					Entity:   i,
					Message:  fmt.Sprintf("rect %.4gx%.4g is degenerate and is ignored", math.Abs(d.X), math.Abs(d.Y)),
					Severity: SeverityWarning,
				})
			}
		case sketch.Circle:
			if math.IsNaN(e.R) || math.IsInf(e.R, 0) || e.R <= 0 {
				out = append(out, Diagnostic{
					Entity:   i,
					Message:  fmt.Sprintf("circle radius %g must be positive and finite", e.R),
					Severity: SeverityWarning,
				})
			}
		case sketch.Line:
			if keyOf(e.A) == keyOf(e.B) {
				out = append(out, Diagnostic{
					Entity:   i,
					Message:  "line has zero length",
					Severity: SeverityWarning,
				})
			}
		}
	}
	return out
}

// diagnoseLinePool reports the vertices that keep the line pool from
// closing, and loops too small to count.
func diagnoseLinePool(entities []sketch.Entity) []Diagnostic {
	lines := sketch.Lines(entities)
	if len(lines) == 0 {
		return nil
	}
	g := newLineGraph(lines)
	bad := g.badVertices()
	if len(bad) > 0 {
		out := make([]Diagnostic, 0, len(bad))
		for _, v := range bad {
			out = append(out, Diagnostic{
				Entity: NoEntity,
				Message: fmt.Sprintf("%d line(s) meet at %s; every endpoint must join exactly 2 lines, so no line loops are closed",
					len(g.adj[v]), fmtPoint(g.pos[v])),
				Severity: SeverityWarning,
			})
		}
		return out
	}

	var out []Diagnostic
	for _, loop := range Loops(lines) {
		if a := polygonArea(loop); a < minLoopArea {
			out = append(out, Diagnostic{
				Entity:   NoEntity,
				Message:  fmt.Sprintf("line loop at %s encloses area %.3g and is ignored", fmtPoint(loop[0]), a),
				Severity: SeverityWarning,
			})
		}
	}
	return out
}

// diagnoseAmbiguousNesting flags contour pairs of equal area that contain
// each other's sample point. Their nesting is resolved by index only.
func diagnoseAmbiguousNesting(contours []Contour) []Diagnostic {
	var out []Diagnostic
	for i := range contours {
		for j := i + 1; j < len(contours); j++ {
			a, b := contours[i], contours[j]
			if math.Abs(a.Area-b.Area) > areaEpsilon {
				continue
			}
			if a.Contains(b.Sample) && b.Contains(a.Sample) {
				out = append(out, Diagnostic{
					Entity: NoEntity,
					Message: fmt.Sprintf("%s at %s and %s at %s overlap with equal area; neither is a hole of the other",
						a.Kind, fmtPoint(a.Sample), b.Kind, fmtPoint(b.Sample)),
					Severity: SeverityInfo,
				})
			}
		}
	}
	return out
}

func fmtPoint(p v2.Vec) string {
	return fmt.Sprintf("(%.4g, %.4g)", p.X, p.Y)
}
