package check

import (
	"strings"

	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
)

var scalarExpected = strings.Join([]string{registry.Real.String(), registry.Integer.String()}, "|")

// Types checks the declared output type of n and the generates type of
// every node wired into its parameters.
func Types(g *graph.Graph, n *node.Node) diag.List {
	var errs diag.List
	desc := n.Descriptor()

	if n.GeneratesDeclared && !desc.Allows(n.Generates) {
		errs.Add(&diag.TypeMismatchError{Path: n.GeneratesPath(), Expected: allowed(desc), Actual: n.Generates.String()})
	}

	for _, e := range g.EdgesTo(n.ID) {
		src, ok := g.Node(e.From)
		if !ok || src.Generates == registry.Inferred {
			continue
		}
		def, ok := desc.Param(e.Param)
		if !ok {
			continue
		}
		p, _ := n.Param(e.Param)

		switch {
		case e.Via == graph.Expression:
			if !src.Generates.IsScalar() {
				errs.Add(&diag.TypeMismatchError{Path: e.Path, Expected: scalarExpected, Actual: src.Generates.String()})
			}
		case isArray(p.Value):
			// Array members are scalar elements regardless of the parameter type.
			if !src.Generates.IsScalar() {
				errs.Add(&diag.TypeMismatchError{Path: e.Path, Expected: scalarExpected, Actual: src.Generates.String()})
			}
		case !def.AcceptsType(src.Generates):
			errs.Add(&diag.TypeMismatchError{Path: e.Path, Expected: def.Expected(), Actual: src.Generates.String()})
		}
	}

	for _, p := range n.Params {
		def, ok := desc.Param(p.Name)
		if !ok {
			continue
		}
		_, direct := p.Value.(node.Expression)
		switch {
		case direct && def.Shape != registry.Scalar:
			errs.Add(&diag.TypeMismatchError{Path: p.Path, Expected: def.Expected(), Actual: registry.Real.String()})
		case isArray(p.Value) && def.Shape != registry.Vector && def.Shape != registry.Matrix:
			for _, at := range node.Expressions(p.Path, p.Value) {
				errs.Add(&diag.TypeMismatchError{Path: at.Path, Expected: def.Expected(), Actual: registry.Real.String()})
			}
		}
	}
	return errs
}

func isArray(v node.ParamValue) bool {
	_, ok := v.(node.Array)
	return ok
}

func allowed(desc *registry.Descriptor) string {
	names := make([]string, 0, len(desc.Generates)+1)
	for _, g := range desc.Generates {
		names = append(names, g.String())
	}
	if desc.Vectorizable {
		names = append(names, registry.RealVector.String())
	}
	return strings.Join(names, "|")
}
