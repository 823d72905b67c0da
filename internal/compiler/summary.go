package compiler

import (
	"github.com/vk/codephy/internal/assemble"
	"github.com/vk/codephy/internal/lower"
)

// Summary is the serialisable outcome of a compilation.
type Summary struct {
	ID        string                          `json:"id" yaml:"id"`
	Model     string                          `json:"model,omitempty" yaml:"model,omitempty"`
	Nodes     int                             `json:"nodes" yaml:"nodes"`
	Partition assemble.Sets                   `json:"partition" yaml:"partition"`
	Assembly  *assemble.Model                 `json:"assembly,omitempty" yaml:"assembly,omitempty"`
	Objects   map[string]lower.ObjectSnapshot `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// Summary renders r. Objects are included when the in-memory adapter was
// used.
func (r *Result) Summary(model string) Summary {
	s := Summary{
		ID:        r.ID,
		Model:     model,
		Partition: r.Partition,
		Assembly:  r.Model,
	}
	if r.Graph != nil {
		s.Nodes = r.Graph.Len()
	}
	if mem, ok := r.Adapter.(*lower.MemoryAdapter); ok {
		s.Objects = mem.Snapshot()
	}
	return s
}
