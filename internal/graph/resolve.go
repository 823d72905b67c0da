package graph

import "github.com/vk/codephy/internal/diag"

// ResolveReferences reports one UnresolvedReferenceError per edge endpoint
// and per constraint operand that names no node.
func (g *Graph) ResolveReferences() diag.List {
	var errs diag.List
	for _, e := range g.edges {
		if _, ok := g.index[e.From]; !ok {
			errs.Add(&diag.UnresolvedReferenceError{Path: e.Path, Missing: e.From})
		}
		if _, ok := g.index[e.To]; !ok {
			errs.Add(&diag.UnresolvedReferenceError{Path: e.Path, Missing: e.To})
		}
	}
	for _, c := range g.constraints {
		for _, op := range c.Refs() {
			if _, ok := g.index[op.Ref]; !ok {
				errs.Add(&diag.UnresolvedReferenceError{Path: op.Path, Missing: op.Ref})
			}
		}
	}
	return errs
}
