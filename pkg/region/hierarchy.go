package region

import (
	"errors"
	"fmt"
	"slices"
)

// NoParent marks a root contour.
const NoParent = -1

// areaEpsilon is how much larger a parent's area must be than its child's.
const areaEpsilon = 1e-9

// ErrMalformedHierarchy is returned when the parent links of a contour set
// do not form a forest.
var ErrMalformedHierarchy = errors.New("region: malformed containment hierarchy")

// Node is the containment record of one contour.
type Node struct {
	Parent int // index of the enclosing contour, or NoParent
	Depth  int // 0 for roots; even depths fill, odd depths are holes
}

// Hierarchy nests contours. The parent of a contour is the smallest contour
// that is strictly larger and contains its sample point; ties go to the
// lower index.
func Hierarchy(contours []Contour) ([]Node, error) {
	parents := Parents(contours)
	depths, err := depths(parents)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(contours))
	for i := range nodes {
		nodes[i] = Node{Parent: parents[i], Depth: depths[i]}
	}
	return nodes, nil
}

// Parents returns the tightest enclosing contour of every contour, or
// NoParent. Contours are visited in ascending area order.
func Parents(contours []Contour) []int {
	order := make([]int, len(contours))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case contours[a].Area < contours[b].Area:
			return -1
		case contours[a].Area > contours[b].Area:
			return 1
		}
		return 0
	})

	parents := make([]int, len(contours))
	for _, i := range order {
		best := NoParent
		for j, cj := range contours {
			if j == i || cj.Area <= contours[i].Area+areaEpsilon {
				continue
			}
			if !cj.Contains(contours[i].Sample) {
				continue
			}
			if best == NoParent || cj.Area < contours[best].Area {
				best = j
			}
		}
		parents[i] = best
	}
	return parents
}

// depths resolves parent links into depths with an iterative walk. Depths
// already known end a walk early. A walk that revisits a contour, runs
// longer than the contour count or leaves the index range fails with
// ErrMalformedHierarchy.
func depths(parents []int) ([]int, error) {
	n := len(parents)
	depth := make([]int, n)
	known := make([]bool, n)
	seen := make([]int, n) // walk stamp, i+1 for the walk started at i

	for i := range parents {
		if known[i] {
			continue
		}
		var chain []int
		curr := i
		for !known[curr] && parents[curr] != NoParent {
			if seen[curr] == i+1 || len(chain) >= n {
				return nil, fmt.Errorf("%w: parent cycle through contour %d", ErrMalformedHierarchy, curr)
			}
			seen[curr] = i + 1
			chain = append(chain, curr)
			p := parents[curr]
			if p < 0 || p >= n {
				return nil, fmt.Errorf("%w: contour %d has parent %d out of range", ErrMalformedHierarchy, curr, p)
			}
			curr = p
		}

		base := 0
		if known[curr] {
			base = depth[curr]
		} else {
			known[curr] = true // root
		}
		for k := len(chain) - 1; k >= 0; k-- {
			base++
			depth[chain[k]] = base
			known[chain[k]] = true
		}
	}
	return depth, nil
}
