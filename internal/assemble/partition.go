package assemble

import (
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
)

// Role is the part a node plays in inference.
type Role int

const (
	// Latent random variables are inferred.
	Latent Role = iota
	// Observed random variables carry fixed data.
	Observed
	// Derived nodes are deterministic functions of other nodes.
	Derived
)

func (r Role) String() string {
	switch r {
	case Observed:
		return "observed"
	case Derived:
		return "derived"
	default:
		return "latent"
	}
}

// MarshalText renders the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RoleOf classifies a single node.
func RoleOf(n *node.Node) Role {
	switch {
	case n.Kind == node.DeterministicFunction:
		return Derived
	case n.IsObserved():
		return Observed
	default:
		return Latent
	}
}

// Sets holds node ids by role, each in declaration order.
type Sets struct {
	Latent   []string `json:"latent" yaml:"latent"`
	Observed []string `json:"observed" yaml:"observed"`
	Derived  []string `json:"derived" yaml:"derived"`
}

// Partition classifies every node of g.
func Partition(g *graph.Graph) Sets {
	s := Sets{Latent: []string{}, Observed: []string{}, Derived: []string{}}
	for _, n := range g.Nodes() {
		switch RoleOf(n) {
		case Latent:
			s.Latent = append(s.Latent, n.ID)
		case Observed:
			s.Observed = append(s.Observed, n.ID)
		case Derived:
			s.Derived = append(s.Derived, n.ID)
		}
	}
	return s
}
