package check

import (
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
)

// Constraints checks operand types and literal bounds of every constraint.
// Missing operands are reported by reference resolution and skipped here.
func Constraints(g *graph.Graph) diag.List {
	var errs diag.List
	for _, c := range g.Constraints() {
		if c.Kind == node.Bounded && len(c.Operands) == 3 {
			lower, upper := c.Operands[1], c.Operands[2]
			if !lower.IsRef() && !upper.IsRef() && !(lower.Value < upper.Value) {
				errs.Add(violation(upper.Path, registry.RuleOrdered, upper.Value))
			}
		}

		for _, op := range c.Refs() {
			n, ok := g.Node(op.Ref)
			if !ok || n.Generates == registry.Inferred {
				continue
			}
			accepted := n.Generates.IsScalar() || (c.Kind == node.SumTo && n.Generates == registry.RealVector)
			if !accepted {
				expected := scalarExpected
				if c.Kind == node.SumTo {
					expected += "|" + registry.RealVector.String()
				}
				errs.Add(&diag.TypeMismatchError{Path: op.Path, Expected: expected, Actual: n.Generates.String()})
			}
		}
	}
	return errs
}
