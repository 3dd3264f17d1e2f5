package region

import (
	"github.com/chazu/sketchcad/pkg/sketch"
)

// Region is a fillable area: an outer contour minus its holes.
type Region struct {
	Outer Contour
	Holes []Contour
	Depth int // containment depth of Outer, always even
}

// Area returns the outer area minus the hole areas.
func (r Region) Area() float64 {
	a := r.Outer.Area
	for _, h := range r.Holes {
		a -= h.Area
	}
	return a
}

// Assemble turns every even-depth contour into a region whose holes are its
// direct children one level deeper. Contours nested two levels inside an
// outer boundary are not holes of that region; they become regions of their
// own. Regions are returned in contour order.
func Assemble(contours []Contour, nodes []Node) []Region {
	children := make([][]int, len(contours))
	for i, n := range nodes {
		if n.Parent != NoParent {
			children[n.Parent] = append(children[n.Parent], i)
		}
	}

	var regions []Region
	for i, n := range nodes {
		if n.Depth%2 != 0 {
			continue
		}
		r := Region{Outer: contours[i], Depth: n.Depth}
		for _, ch := range children[i] {
			if d := nodes[ch].Depth; d == n.Depth+1 && d%2 == 1 {
				r.Holes = append(r.Holes, contours[ch])
			}
		}
		regions = append(regions, r)
	}
	return regions
}

// Analysis holds every intermediate result of the region pipeline.
type Analysis struct {
	Contours []Contour
	Nodes    []Node
	Regions  []Region
}

// Analyze runs the contour builder, the containment hierarchy and the
// region assembler over entities.
func Analyze(entities []sketch.Entity) (*Analysis, error) {
	contours := Contours(entities)
	nodes, err := Hierarchy(contours)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Contours: contours,
		Nodes:    nodes,
		Regions:  Assemble(contours, nodes),
	}, nil
}

// BuildRegions returns the fillable regions of a sketch. The only error is
// ErrMalformedHierarchy.
func BuildRegions(entities []sketch.Entity) ([]Region, error) {
	a, err := Analyze(entities)
	if err != nil {
		return nil, err
	}
	return a.Regions, nil
}
