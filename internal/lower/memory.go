package lower

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Object is the in-memory engine object built by MemoryAdapter.
type Object struct {
	ID        string
	Kind      node.Kind
	Type      registry.Tag
	Generates registry.GeneratesType
	Dimension int
	Shape     map[string]cty.Value
	Initial   cty.Value
	Observed  cty.Value
	// Params is nil until the connect pass reaches the object.
	Params map[string]cty.Value
}

// Param returns a connected parameter.
func (o *Object) Param(name string) (cty.Value, bool) {
	v, ok := o.Params[name]
	return v, ok
}

// Float decodes a numeric parameter.
func (o *Object) Float(name string) (float64, error) {
	v, ok := o.Param(name)
	if !ok {
		return 0, fmt.Errorf("object %q has no parameter %q", o.ID, name)
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, fmt.Errorf("object %q parameter %q: %w", o.ID, name, err)
	}
	return f, nil
}

// Floats decodes a numeric vector parameter.
func (o *Object) Floats(name string) ([]float64, error) {
	v, ok := o.Param(name)
	if !ok {
		return nil, fmt.Errorf("object %q has no parameter %q", o.ID, name)
	}
	var fs []float64
	if err := gocty.FromCtyValue(v, &fs); err != nil {
		return nil, fmt.Errorf("object %q parameter %q: %w", o.ID, name, err)
	}
	return fs, nil
}

// Ref returns the object wired into a reference parameter.
func (o *Object) Ref(name string) (*Object, bool) {
	v, ok := o.Param(name)
	if !ok {
		return nil, false
	}
	r, ok := AsReference(v)
	if !ok {
		return nil, false
	}
	target, ok := r.Handle.(*Object)
	return target, ok
}

// Inputs returns the ids referenced by the object's parameters, sorted.
func (o *Object) Inputs() []string {
	seen := make(map[string]bool)
	for _, v := range o.Params {
		collectRefs(v, seen)
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func collectRefs(v cty.Value, seen map[string]bool) {
	if r, ok := AsReference(v); ok {
		seen[r.ID] = true
		return
	}
	if v.IsNull() || !v.IsKnown() {
		return
	}
	if ty := v.Type(); ty.IsListType() || ty.IsTupleType() {
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			collectRefs(elem, seen)
		}
	}
}

// MemoryAdapter keeps every lowered object in memory. It is the default
// adapter and the reference for structural comparison.
type MemoryAdapter struct {
	mu      sync.Mutex
	objects map[string]*Object
}

// NewMemoryAdapter returns an empty adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{objects: make(map[string]*Object)}
}

// Create implements Adapter.
func (m *MemoryAdapter) Create(_ context.Context, req CreateRequest) (any, error) {
	obj := &Object{
		ID:        req.ID,
		Kind:      req.Kind,
		Type:      req.Type,
		Generates: req.Generates,
		Dimension: req.Dimension,
		Shape:     req.Shape,
		Initial:   req.Value,
		Observed:  req.Observed,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.objects[req.ID]; dup {
		return nil, fmt.Errorf("object %q already exists", req.ID)
	}
	m.objects[req.ID] = obj
	return obj, nil
}

// Connect implements Adapter.
func (m *MemoryAdapter) Connect(_ context.Context, req ConnectRequest) error {
	obj, ok := req.Handle.(*Object)
	if !ok {
		return fmt.Errorf("handle of %q is %T, not *lower.Object", req.ID, req.Handle)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	obj.Params = req.Params
	return nil
}

// Object returns the object created for id.
func (m *MemoryAdapter) Object(id string) (*Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[id]
	return obj, ok
}

// ObjectSnapshot is the plain-data form of an Object.
type ObjectSnapshot struct {
	Type      string         `json:"type" yaml:"type"`
	Generates string         `json:"generates" yaml:"generates"`
	Dimension int            `json:"dimension,omitempty" yaml:"dimension,omitempty"`
	Initial   any            `json:"initial,omitempty" yaml:"initial,omitempty"`
	Observed  any            `json:"observed,omitempty" yaml:"observed,omitempty"`
	Params    map[string]any `json:"params" yaml:"params"`
}

// Snapshot renders every object as plain data. References appear as
// {"ref": id}. Two lowerings of the same graph produce equal snapshots.
func (m *MemoryAdapter) Snapshot() map[string]ObjectSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]ObjectSnapshot, len(m.objects))
	for id, obj := range m.objects {
		params := make(map[string]any, len(obj.Params))
		for name, v := range obj.Params {
			params[name] = Plain(v)
		}
		out[id] = ObjectSnapshot{
			Type:      obj.Type.String(),
			Generates: obj.Generates.String(),
			Dimension: obj.Dimension,
			Initial:   Plain(obj.Initial),
			Observed:  Plain(obj.Observed),
			Params:    params,
		}
	}
	return out
}

// Plain converts a cty value to Go data suitable for JSON or YAML.
func Plain(v cty.Value) any {
	if r, ok := AsReference(v); ok {
		return map[string]any{"ref": r.ID}
	}
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case ty == cty.Bool:
		return v.True()
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			out = append(out, Plain(elem))
		}
		return out
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			out[k.AsString()] = Plain(elem)
		}
		return out
	}
	return fmt.Sprintf("%#v", v)
}
