package node

import (
	"sort"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/registry"
)

// Kind distinguishes random variables from deterministic functions.
type Kind int

const (
	// RandomVariable is drawn from a distribution and may be observed.
	RandomVariable Kind = iota
	// DeterministicFunction is a pure function of other nodes.
	DeterministicFunction
)

func (k Kind) String() string {
	if k == DeterministicFunction {
		return "DeterministicFunction"
	}
	return "RandomVariable"
}

// Param is one named parameter of a node.
type Param struct {
	// Name is the canonical parameter name after alias resolution.
	Name string
	// Declared is the name as written in the document.
	Declared string
	Value    ParamValue
	Path     address.Address
}

// Node is a single vertex of the model graph. A Node is never modified after
// the builder creates it.
type Node struct {
	ID        string
	Kind      Kind
	Type      registry.Tag
	TypeName  string
	Generates registry.GeneratesType
	// GeneratesDeclared is true when the document states the output type.
	GeneratesDeclared bool
	// Params is ordered by name.
	Params   []Param
	Observed Observed
	Path     address.Address
	// Order is the declaration index across both collections.
	Order int
}

// New creates a node, sorting params by name.
func New(id string, kind Kind, tag registry.Tag, typeName string, generates registry.GeneratesType, params []Param, path address.Address, order int) *Node {
	sorted := append([]Param(nil), params...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Node{
		ID:        id,
		Kind:      kind,
		Type:      tag,
		TypeName:  typeName,
		Generates: generates,
		Params:    sorted,
		Path:      path,
		Order:     order,
	}
}

// Param returns the parameter with the given canonical name.
func (n *Node) Param(name string) (Param, bool) {
	i := sort.Search(len(n.Params), func(i int) bool { return n.Params[i].Name >= name })
	if i < len(n.Params) && n.Params[i].Name == name {
		return n.Params[i], true
	}
	return Param{}, false
}

// IsObserved reports whether the node carries an observed value.
func (n *Node) IsObserved() bool {
	return n.Kind == RandomVariable && n.Observed != nil
}

// Descriptor returns the registry descriptor of the node's type.
func (n *Node) Descriptor() *registry.Descriptor {
	return n.Type.Descriptor()
}

// ScalarLiterals returns the node's own numeric literal parameters, keyed by
// canonical name and by the name written in the document when it differs.
func (n *Node) ScalarLiterals() map[string]float64 {
	out := make(map[string]float64)
	for _, p := range n.Params {
		if lit, ok := p.Value.(Literal); ok {
			if f, ok := lit.Number(); ok {
				out[p.Name] = f
				if p.Declared != "" {
					out[p.Declared] = f
				}
			}
		}
	}
	return out
}

// ParamsPath is the address of the node's parameter object.
func (n *Node) ParamsPath() address.Address {
	if n.Kind == DeterministicFunction {
		return n.Path.Attr("arguments")
	}
	return n.Path.Attr("distribution").Attr("parameters")
}

// GeneratesPath is the address of the node's declared output type.
func (n *Node) GeneratesPath() address.Address {
	if n.Kind == DeterministicFunction {
		return n.Path.Attr("generates")
	}
	return n.Path.Attr("distribution").Attr("generates")
}

// ObservedPath is the address of the node's observed value.
func (n *Node) ObservedPath() address.Address {
	return n.Path.Attr("observedValue")
}
