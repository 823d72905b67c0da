package graph

import (
	"fmt"
	"sort"

	"github.com/vk/codephy/internal/node"
)

// TopologicalOrder returns the nodes so that every node follows all of its
// dependencies. Ties are broken by declaration order. Dangling edges are
// ignored. It fails if the graph has a cycle.
func (g *Graph) TopologicalOrder() ([]*node.Node, error) {
	adj := g.adjacency()
	indegree := make([]int, len(g.nodes))
	for _, edges := range adj {
		for _, ei := range edges {
			indegree[g.index[g.edges[ei].To]]++
		}
	}

	var ready []int
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*node.Node, 0, len(g.nodes))
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		order = append(order, g.nodes[v])
		for _, ei := range adj[v] {
			w := g.index[g.edges[ei].To]
			indegree[w]--
			if indegree[w] == 0 {
				i := sort.SearchInts(ready, w)
				ready = append(ready, 0)
				copy(ready[i+1:], ready[i:])
				ready[i] = w
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("graph has a cycle: ordered %d of %d nodes", len(order), len(g.nodes))
	}
	return order, nil
}

// Components returns the weakly connected components of the graph. Members
// and components are in declaration order.
func (g *Graph) Components() [][]*node.Node {
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, e := range g.edges {
		a, okA := g.index[e.From]
		b, okB := g.index[e.To]
		if !okA || !okB {
			continue
		}
		ra, rb := find(a), find(b)
		if ra < rb {
			parent[rb] = ra
		} else if rb < ra {
			parent[ra] = rb
		}
	}

	var out [][]*node.Node
	slot := make(map[int]int)
	for i, n := range g.nodes {
		r := find(i)
		k, ok := slot[r]
		if !ok {
			k = len(out)
			slot[r] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], n)
	}
	return out
}
