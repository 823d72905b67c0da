package graph

import (
	"strings"

	"github.com/vk/codephy/internal/diag"
)

const (
	unvisited = iota
	active
	finished
)

// adjacency returns, per node index, the edges leaving it in insertion
// order. Dangling edges are skipped.
func (g *Graph) adjacency() [][]int {
	adj := make([][]int, len(g.nodes))
	for i, e := range g.edges {
		from, okFrom := g.index[e.From]
		_, okTo := g.index[e.To]
		if okFrom && okTo {
			adj[from] = append(adj[from], i)
		}
	}
	return adj
}

type frame struct {
	node int
	next int
}

// DetectCycles reports one CycleError per distinct cycle closed by a back
// edge. Cycle paths follow dependency direction and start at the node the
// search entered first. Rotations of an already reported cycle are dropped.
func (g *Graph) DetectCycles() diag.List {
	var errs diag.List
	adj := g.adjacency()
	state := make([]int, len(g.nodes))
	position := make([]int, len(g.nodes))
	seen := make(map[string]bool)

	for root := range g.nodes {
		if state[root] != unvisited {
			continue
		}
		stack := []frame{{node: root}}
		state[root] = active
		position[root] = 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(adj[top.node]) {
				state[top.node] = finished
				stack = stack[:len(stack)-1]
				continue
			}
			edge := g.edges[adj[top.node][top.next]]
			top.next++
			w := g.index[edge.To]

			switch state[w] {
			case unvisited:
				state[w] = active
				position[w] = len(stack)
				stack = append(stack, frame{node: w})
			case active:
				cycle := make([]string, 0, len(stack)-position[w])
				for _, f := range stack[position[w]:] {
					cycle = append(cycle, g.nodes[f.node].ID)
				}
				key := g.canonical(stack[position[w]:])
				if seen[key] {
					continue
				}
				seen[key] = true
				errs.Add(&diag.CycleError{Path: edge.Path, Cycle: cycle})
			}
		}
	}
	return errs
}

// canonical renders a cycle rotated to start at its lowest node index.
func (g *Graph) canonical(frames []frame) string {
	start := 0
	for i, f := range frames {
		if f.node < frames[start].node {
			start = i
		}
	}
	ids := make([]string, 0, len(frames))
	for i := range frames {
		ids = append(ids, g.nodes[frames[(start+i)%len(frames)].node].ID)
	}
	return strings.Join(ids, "\x00")
}
