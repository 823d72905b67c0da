package graph

import (
	"fmt"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/node"
)

// Via records how a dependency was expressed in the document.
type Via int

const (
	// Reference is a {"variable": id} parameter value.
	Reference Via = iota
	// Expression is an identifier used inside an expression.
	Expression
)

func (v Via) String() string {
	if v == Expression {
		return "expression"
	}
	return "reference"
}

// Edge is a dependency: To depends on From through parameter Param.
type Edge struct {
	From  string
	To    string
	Param string
	Path  address.Address
	Via   Via
}

// Graph is the arena of nodes, edges and constraints of one document.
type Graph struct {
	nodes       []*node.Node
	index       map[string]int
	edges       []Edge
	constraints []node.Constraint
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode appends a node. It returns an error if the id is already taken.
func (g *Graph) AddNode(n *node.Node) error {
	if _, ok := g.index[n.ID]; ok {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// AddEdge records a dependency. Endpoints are not required to exist yet.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
}

// AddConstraint records a cross-node constraint.
func (g *Graph) AddConstraint(c node.Constraint) {
	g.constraints = append(g.constraints, c)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*node.Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// IndexOf returns the dense index of a node id.
func (g *Graph) IndexOf(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*node.Node {
	return append([]*node.Node(nil), g.nodes...)
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// EdgesTo returns the edges whose owner is id, in insertion order.
func (g *Graph) EdgesTo(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Constraints returns all constraints in declaration order.
func (g *Graph) Constraints() []node.Constraint {
	return append([]node.Constraint(nil), g.constraints...)
}

// DependenciesOf returns the distinct existing nodes id depends on, in edge order.
func (g *Graph) DependenciesOf(id string) []string {
	return g.neighbours(id, func(e Edge) (string, string) { return e.To, e.From })
}

// DependentsOf returns the distinct existing nodes that depend on id, in edge order.
func (g *Graph) DependentsOf(id string) []string {
	return g.neighbours(id, func(e Edge) (string, string) { return e.From, e.To })
}

func (g *Graph) neighbours(id string, ends func(Edge) (string, string)) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.edges {
		self, other := ends(e)
		if self != id || seen[other] {
			continue
		}
		if _, ok := g.index[other]; !ok {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}
