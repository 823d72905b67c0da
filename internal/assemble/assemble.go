package assemble

import (
	"fmt"

	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/lower"
	"github.com/vk/codephy/internal/node"
)

// Compound ids.
const (
	PriorID      = "prior"
	LikelihoodID = "likelihood"
	PosteriorID  = "posterior"
)

// TermKind distinguishes distribution terms from constraint terms.
type TermKind string

const (
	DistributionTerm TermKind = "distribution"
	ConstraintTerm   TermKind = "constraint"
)

// Term is one factor of a compound.
type Term struct {
	ID   string   `json:"id" yaml:"id"`
	Kind TermKind `json:"kind" yaml:"kind"`
	// Type is the distribution name or the constraint kind.
	Type string `json:"type" yaml:"type"`
	// Observed is the fixed observation of a likelihood term.
	Observed any `json:"observed,omitempty" yaml:"observed,omitempty"`
	// Dependencies are the ids this term is conditioned on.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// Object is the lowered handle, nil for constraints.
	Object any `json:"-" yaml:"-"`
}

// Compound combines terms, or child compounds, by summing log densities.
type Compound struct {
	ID       string      `json:"id" yaml:"id"`
	Terms    []Term      `json:"terms,omitempty" yaml:"terms,omitempty"`
	Children []*Compound `json:"children,omitempty" yaml:"children,omitempty"`
}

// Flatten returns every term of c and its children, depth first.
func (c *Compound) Flatten() []Term {
	out := append([]Term(nil), c.Terms...)
	for _, child := range c.Children {
		out = append(out, child.Flatten()...)
	}
	return out
}

// Model is the assembled inference structure.
type Model struct {
	Prior      *Compound `json:"prior" yaml:"prior"`
	Likelihood *Compound `json:"likelihood" yaml:"likelihood"`
	Posterior  *Compound `json:"posterior" yaml:"posterior"`
	// State lists the latent ids an engine samples.
	State  []string         `json:"state" yaml:"state"`
	Policy ConstraintPolicy `json:"constraintPolicy" yaml:"constraintPolicy"`
}

// Assemble groups the lowered nodes of g. A nil table yields a purely
// structural model without object handles; otherwise every slot must be
// connected.
func Assemble(g *graph.Graph, table *lower.Table) (*Model, error) {
	sets := Partition(g)
	m := &Model{
		Prior:      &Compound{ID: PriorID, Terms: []Term{}},
		Likelihood: &Compound{ID: LikelihoodID, Terms: []Term{}},
		State:      sets.Latent,
		Policy:     DefaultPolicy,
	}

	for _, n := range g.Nodes() {
		role := RoleOf(n)
		if role == Derived {
			continue
		}
		handle, err := handleOf(table, n.ID)
		if err != nil {
			return nil, err
		}
		t := Term{
			ID:           n.ID,
			Kind:         DistributionTerm,
			Type:         n.TypeName,
			Dependencies: g.DependenciesOf(n.ID),
			Object:       handle,
		}
		if role == Observed {
			t.Observed = payload(n.Observed)
			m.Likelihood.Terms = append(m.Likelihood.Terms, t)
		} else {
			m.Prior.Terms = append(m.Prior.Terms, t)
		}
	}

	for i, c := range g.Constraints() {
		deps := make([]string, 0, len(c.Operands))
		for _, op := range c.Refs() {
			deps = append(deps, op.Ref)
		}
		m.Prior.Terms = append(m.Prior.Terms, Term{
			ID:           fmt.Sprintf("constraint[%d]", i),
			Kind:         ConstraintTerm,
			Type:         c.Kind.String(),
			Dependencies: deps,
		})
	}

	m.Posterior = &Compound{ID: PosteriorID, Children: []*Compound{m.Prior, m.Likelihood}}
	return m, nil
}

func handleOf(table *lower.Table, id string) (any, error) {
	if table == nil {
		return nil, nil
	}
	s, ok := table.Slot(id)
	if !ok {
		return nil, fmt.Errorf("no lowered slot for %q", id)
	}
	if st := s.State(); st != lower.Connected {
		return nil, fmt.Errorf("node %q is %s, not connected", id, st)
	}
	return table.Handle(id)
}

// payload renders an observation as plain data.
func payload(o node.Observed) any {
	switch v := o.(type) {
	case node.ObservedReal:
		return v.Value
	case node.ObservedVector:
		return v.Values
	case node.ObservedTree:
		return v.Newick
	case node.ObservedAlignment:
		return v.Sequences
	}
	return nil
}
