package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/sketch"
	"github.com/chazu/sketchcad/pkg/tessellate"
)

// SVGOptions controls the region preview.
type SVGOptions struct {
	Scale    float64 // pixels per sketch unit
	Margin   int     // pixels around the drawing
	Segments int     // circle sampling
	Fill     string
	Stroke   string
	Title    string
}

// DefaultSVGOptions returns the preview defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Scale:    4,
		Margin:   10,
		Segments: tessellate.DefaultSegments,
		Fill:     "#9ec5e8",
		Stroke:   "#1f4e79",
	}
}

// WriteSVG draws every region as one filled path with the even-odd rule, so
// holes are punched out and islands inside holes are filled again. Sketch
// coordinates are flipped so +v points up.
func WriteSVG(w io.Writer, regions []region.Region, opts SVGOptions) error {
	return writeSVG(w, regions, nil, opts)
}

// WriteSketchSVG draws the regions of doc and strokes its lines on top, so
// open chains that form no region stay visible.
func WriteSketchSVG(w io.Writer, doc *sketch.Document, opts SVGOptions) error {
	regions, err := region.BuildRegions(doc.Entities)
	if err != nil {
		return fmt.Errorf("export: sketch %q: %w", doc.Name, err)
	}
	if opts.Title == "" {
		opts.Title = doc.Name
	}
	return writeSVG(w, regions, sketch.Lines(doc.Entities), opts)
}

func writeSVG(w io.Writer, regions []region.Region, lines []sketch.Line, opts SVGOptions) error {
	if opts.Scale <= 0 {
		return fmt.Errorf("export: svg scale must be positive, got %g", opts.Scale)
	}
	if opts.Segments < 3 {
		opts.Segments = tessellate.DefaultSegments
	}

	rings := make([][][]v2.Vec, len(regions))
	lo := v2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(p v2.Vec) {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	for i, r := range regions {
		rings[i] = append(rings[i], tessellate.Outline(r.Outer, opts.Segments))
		for _, h := range r.Holes {
			rings[i] = append(rings[i], tessellate.Outline(h, opts.Segments))
		}
		for _, p := range rings[i][0] {
			grow(p)
		}
	}
	for _, l := range lines {
		grow(l.A)
		grow(l.B)
	}
	if math.IsInf(lo.X, 1) {
		lo, hi = v2.Vec{}, v2.Vec{}
	}

	m := float64(opts.Margin)
	width := int(math.Ceil((hi.X-lo.X)*opts.Scale + 2*m))
	height := int(math.Ceil((hi.Y-lo.Y)*opts.Scale + 2*m))
	px := func(p v2.Vec) (float64, float64) {
		return (p.X-lo.X)*opts.Scale + m, (hi.Y-p.Y)*opts.Scale + m
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	fill := fmt.Sprintf("fill:%s;fill-rule:evenodd;stroke:%s;stroke-width:1", opts.Fill, opts.Stroke)
	canvas.Gid("regions")
	for _, rs := range rings {
		var d strings.Builder
		for _, ring := range rs {
			for j, p := range ring {
				x, y := px(p)
				if j == 0 {
					fmt.Fprintf(&d, "M%.3f %.3f", x, y)
				} else {
					fmt.Fprintf(&d, " L%.3f %.3f", x, y)
				}
			}
			d.WriteString(" Z ")
		}
		canvas.Path(strings.TrimSpace(d.String()), fill)
	}
	canvas.Gend()

	if len(lines) > 0 {
		canvas.Gid("lines")
		for _, l := range lines {
			ax, ay := px(l.A)
			bx, by := px(l.B)
			canvas.Path(fmt.Sprintf("M%.3f %.3f L%.3f %.3f", ax, ay, bx, by),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", opts.Stroke))
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

// errWriter keeps the first write error, since svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
