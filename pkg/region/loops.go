package region

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/sketchcad/pkg/sketch"
)

// keyScale quantizes endpoint coordinates to 1e-6 so that coincident
// endpoints of different lines land on the same vertex.
const keyScale = 1e6

type vertexKey struct{ x, y int64 }

func keyOf(p v2.Vec) vertexKey {
	return vertexKey{x: int64(math.Round(p.X * keyScale)), y: int64(math.Round(p.Y * keyScale))}
}

// halfEdge is one direction of an undirected edge. Both directions share
// the edge id, so parallel edges between the same vertices stay distinct.
type halfEdge struct {
	to   int
	edge int
}

// lineGraph is the undirected endpoint graph of a line pool. Vertices are
// numbered in first-seen order.
type lineGraph struct {
	pos   []v2.Vec
	adj   [][]halfEdge
	index map[vertexKey]int
	edges int
}

func newLineGraph(lines []sketch.Line) *lineGraph {
	g := &lineGraph{index: make(map[vertexKey]int)}
	for i, l := range lines {
		a, b := g.vertex(l.A), g.vertex(l.B)
		g.adj[a] = append(g.adj[a], halfEdge{to: b, edge: i})
		g.adj[b] = append(g.adj[b], halfEdge{to: a, edge: i})
	}
	g.edges = len(lines)
	return g
}

func (g *lineGraph) vertex(p v2.Vec) int {
	k := keyOf(p)
	if v, ok := g.index[k]; ok {
		return v
	}
	v := len(g.pos)
	g.index[k] = v
	g.pos = append(g.pos, p)
	g.adj = append(g.adj, nil)
	return v
}

// badVertices returns the vertices whose degree is not exactly two.
func (g *lineGraph) badVertices() []int {
	var bad []int
	for v, hs := range g.adj {
		if len(hs) != 2 {
			bad = append(bad, v)
		}
	}
	return bad
}

// Loops extracts the closed polylines formed by a pool of lines. Every
// endpoint must be shared by exactly two lines; otherwise the whole pool
// yields no loops. Each disjoint cycle becomes one loop of at least three
// points, listed in walk order without repeating the first point.
func Loops(lines []sketch.Line) [][]v2.Vec {
	if len(lines) == 0 {
		return nil
	}
	g := newLineGraph(lines)
	if len(g.badVertices()) > 0 {
		return nil
	}

	visited := make([]bool, g.edges)
	var loops [][]v2.Vec
	for start := range g.adj {
		if allVisited(g.adj[start], visited) {
			continue
		}
		if loop, ok := g.walk(start, visited); ok && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// walk follows unvisited edges from start, never leaving a vertex along the
// edge it arrived on, until it returns to start. The walk takes at most one
// step per edge.
func (g *lineGraph) walk(start int, visited []bool) ([]v2.Vec, bool) {
	var loop []v2.Vec
	curr, prevEdge := start, -1
	for step := 0; step < g.edges; step++ {
		loop = append(loop, g.pos[curr])

		next, ok := nextEdge(g.adj[curr], prevEdge, visited)
		if !ok {
			return loop, false
		}
		visited[next.edge] = true
		prevEdge = next.edge
		curr = next.to
		if curr == start {
			return loop, true
		}
	}
	return loop, false
}

func nextEdge(hs []halfEdge, prevEdge int, visited []bool) (halfEdge, bool) {
	for _, h := range hs {
		if h.edge != prevEdge && !visited[h.edge] {
			return h, true
		}
	}
	return halfEdge{}, false
}

func allVisited(hs []halfEdge, visited []bool) bool {
	for _, h := range hs {
		if !visited[h.edge] {
			return false
		}
	}
	return true
}
