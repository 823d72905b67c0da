package builder

import (
	"context"

	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/expression"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
)

// linkReferences emits one edge per VariableRef, recursing into arrays.
func (b *builder) linkReferences(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, n := range b.g.Nodes() {
		for _, p := range n.Params {
			for _, ref := range node.References(p.Path, p.Value) {
				logger.Debug("Linking reference.", "from", ref.ID, "to", n.ID, "param", p.Name)
				b.g.AddEdge(graph.Edge{From: ref.ID, To: n.ID, Param: p.Name, Path: ref.Path, Via: graph.Reference})
			}
		}
	}
}

// linkExpressions emits one edge per identifier of an expression that does
// not name a numeric literal parameter of the same node.
func (b *builder) linkExpressions(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, n := range b.g.Nodes() {
		siblings := n.ScalarLiterals()
		for _, p := range n.Params {
			for _, at := range node.Expressions(p.Path, p.Value) {
				e, err := expression.Parse(at.Source)
				if err != nil {
					b.errs.Add(&diag.ParseError{Path: at.Path, Reason: err.Error()})
					continue
				}
				for _, id := range e.Identifiers() {
					if _, local := siblings[id]; local {
						continue
					}
					logger.Debug("Linking expression identifier.", "from", id, "to", n.ID, "param", p.Name)
					b.g.AddEdge(graph.Edge{From: id, To: n.ID, Param: p.Name, Path: at.Path, Via: graph.Expression})
				}
			}
		}
	}
}
