package lower

import (
	"context"
	"reflect"

	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Reference is the payload of a RefType capsule: a parameter wired to the
// object of another node.
type Reference struct {
	ID     string
	Handle any
}

// RefType is the cty capsule type carrying a *Reference.
var RefType = cty.Capsule("node reference", reflect.TypeOf(Reference{}))

// RefVal wraps r in a RefType value.
func RefVal(r Reference) cty.Value {
	return cty.CapsuleVal(RefType, &r)
}

// AsReference extracts the reference held by v.
func AsReference(v cty.Value) (*Reference, bool) {
	if v.IsNull() || !v.Type().Equals(RefType) {
		return nil, false
	}
	r, ok := v.EncapsulatedValue().(*Reference)
	return r, ok
}

// CreateRequest describes the object to create for one node. Only the node's
// own data is available at this point.
type CreateRequest struct {
	ID        string
	Kind      node.Kind
	Type      registry.Tag
	Generates registry.GeneratesType
	// Shape holds the node's literal parameters.
	Shape map[string]cty.Value
	// Dimension is the vector length, or zero for non-vector outputs.
	Dimension int
	// Value is the initial value derived from own literals, or a null value.
	Value cty.Value
	// Observed is the fixed observation, or a null value.
	Observed cty.Value
}

// ConnectRequest carries the fully resolved parameters of one node.
// References appear as RefType values.
type ConnectRequest struct {
	ID     string
	Handle any
	Params map[string]cty.Value
}

// Adapter builds engine objects. Create and Connect may be called
// concurrently for different nodes.
type Adapter interface {
	Create(ctx context.Context, req CreateRequest) (any, error)
	Connect(ctx context.Context, req ConnectRequest) error
}
