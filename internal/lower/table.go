package lower

import (
	"fmt"

	"github.com/vk/codephy/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Table maps node ids to slots. It is created fresh for every compilation
// and never shared.
type Table struct {
	slots []*Slot
	index map[string]int
}

// NewTable allocates one Parsed slot per node of g, in declaration order.
func NewTable(g *graph.Graph) *Table {
	t := &Table{
		slots: make([]*Slot, 0, g.Len()),
		index: make(map[string]int, g.Len()),
	}
	for _, n := range g.Nodes() {
		t.index[n.ID] = len(t.slots)
		t.slots = append(t.slots, &Slot{ID: n.ID, initial: none})
	}
	return t
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.slots)
}

// Slot returns the slot of id.
func (t *Table) Slot(id string) (*Slot, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.slots[i], true
}

// Slots returns all slots in declaration order.
func (t *Table) Slots() []*Slot {
	return t.slots
}

// ready returns the slot of id if its object exists.
func (t *Table) ready(id string) (*Slot, error) {
	s, ok := t.Slot(id)
	if !ok {
		return nil, fmt.Errorf("no slot for node %q", id)
	}
	if st := s.State(); st != Created && st != Connected {
		return nil, fmt.Errorf("slot %q read while %s", id, st)
	}
	return s, nil
}

// Handle returns the adapter object created for id. Reading a slot whose
// create step has not completed is an error.
func (t *Table) Handle(id string) (any, error) {
	s, err := t.ready(id)
	if err != nil {
		return nil, err
	}
	return s.handle, nil
}

// Initial returns the initial value computed for id during the create pass.
// The value is null when the node's own literals do not determine one.
func (t *Table) Initial(id string) (cty.Value, error) {
	s, err := t.ready(id)
	if err != nil {
		return none, err
	}
	return s.initial, nil
}

// settled reports an error unless every slot has been created.
func (t *Table) settled() error {
	for _, s := range t.slots {
		if _, err := t.ready(s.ID); err != nil {
			return err
		}
	}
	return nil
}

// States returns the state of every slot keyed by node id.
func (t *Table) States() map[string]State {
	out := make(map[string]State, len(t.slots))
	for _, s := range t.slots {
		out[s.ID] = s.State()
	}
	return out
}
