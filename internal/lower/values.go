package lower

import (
	"fmt"
	"math"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// none marks an absent value.
var none = cty.NullVal(cty.DynamicPseudoType)

// literalValue converts a literal or a literal-only array to cty. The second
// result is false when v contains a reference or an expression.
func literalValue(v node.ParamValue) (cty.Value, bool) {
	switch x := v.(type) {
	case node.Literal:
		switch val := x.Value.(type) {
		case float64:
			return cty.NumberFloatVal(val), true
		case string:
			return cty.StringVal(val), true
		case bool:
			return cty.BoolVal(val), true
		case nil:
			return none, true
		}
		return none, false
	case node.Array:
		items := make([]cty.Value, len(x.Items))
		for i, item := range x.Items {
			var ok bool
			if items[i], ok = literalValue(item); !ok {
				return none, false
			}
		}
		return sequence(items), true
	}
	return none, false
}

// sequence builds a list when every item has the same type and a tuple
// otherwise.
func sequence(items []cty.Value) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	ty := items[0].Type()
	for _, item := range items[1:] {
		if !item.Type().Equals(ty) {
			return cty.TupleVal(items)
		}
	}
	if ty == cty.DynamicPseudoType || ty.IsCapsuleType() {
		return cty.TupleVal(items)
	}
	return cty.ListVal(items)
}

// shape collects the literal parameters of n.
func shape(n *node.Node) map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, p := range n.Params {
		if v, ok := literalValue(p.Value); ok {
			out[p.Name] = v
		}
	}
	return out
}

// dimension is the explicit dimension parameter, or the length of the first
// literal vector parameter for vector outputs.
func dimension(n *node.Node) int {
	if p, ok := n.Param("dimension"); ok {
		if lit, ok := p.Value.(node.Literal); ok {
			if f, ok := lit.Number(); ok && node.IsInteger(f) && f > 0 {
				return int(f)
			}
		}
	}
	if n.Generates != registry.RealVector && n.Generates != registry.BranchRates {
		return 0
	}
	desc := n.Descriptor()
	for _, p := range n.Params {
		def, ok := desc.Param(p.Name)
		if !ok || def.Shape != registry.Vector {
			continue
		}
		if arr, ok := p.Value.(node.Array); ok {
			return len(arr.Items)
		}
	}
	return 0
}

// observedValue converts an observation to cty using the shapes of
// registry.GeneratesType.CtyType. Absent observations are null.
func observedValue(obs node.Observed) cty.Value {
	switch o := obs.(type) {
	case node.ObservedReal:
		return cty.NumberFloatVal(o.Value)
	case node.ObservedVector:
		return numbers(o.Values)
	case node.ObservedTree:
		return cty.StringVal(o.Newick)
	case node.ObservedAlignment:
		if len(o.Sequences) == 0 {
			return cty.MapValEmpty(cty.String)
		}
		rows := make(map[string]cty.Value, len(o.Sequences))
		for _, s := range o.Sequences {
			rows[s.Taxon] = cty.StringVal(s.Sequence)
		}
		return cty.MapVal(rows)
	}
	return none
}

func numbers(fs []float64) cty.Value {
	if len(fs) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	vals := make([]cty.Value, len(fs))
	for i, f := range fs {
		vals[i] = cty.NumberFloatVal(f)
	}
	return cty.ListVal(vals)
}

// initialValue derives a starting value for n from its own literal
// parameters: the distribution mean for random variables, the evaluated
// result for simple functions. Observed nodes start at their observation.
// The boolean result is false when nothing can be derived.
func initialValue(n *node.Node) (cty.Value, bool) {
	if n.IsObserved() {
		if v := observedValue(n.Observed); !v.IsNull() {
			return v, true
		}
	}
	return valueFrom(n, shape(n))
}

// valueFrom computes the value of n from resolved parameter values keyed by
// canonical name. Missing or non-numeric parameters leave it underivable.
func valueFrom(n *node.Node, params map[string]cty.Value) (cty.Value, bool) {
	lit := make(map[string]float64, len(params))
	for name, v := range params {
		if f, ok := asScalar(v); ok {
			lit[name] = f
		}
	}
	has := func(names ...string) bool {
		for _, name := range names {
			if _, ok := lit[name]; !ok {
				return false
			}
		}
		return true
	}

	var (
		scalar float64
		ok     bool
	)
	switch n.Type {
	case registry.Normal:
		scalar, ok = lit["mean"], has("mean")
	case registry.LogNormal:
		scalar, ok = math.Exp(lit["meanlog"]), has("meanlog")
	case registry.Gamma:
		ok = has("shape", "rate") && lit["rate"] != 0
		if ok {
			scalar = lit["shape"] / lit["rate"]
		}
	case registry.Exponential:
		ok = has("rate") && lit["rate"] != 0
		if ok {
			scalar = 1 / lit["rate"]
		}
	case registry.Beta:
		ok = has("alpha", "beta") && lit["alpha"]+lit["beta"] != 0
		if ok {
			scalar = lit["alpha"] / (lit["alpha"] + lit["beta"])
		}
	case registry.Uniform:
		scalar, ok = (lit["lower"]+lit["upper"])/2, has("lower", "upper")
	case registry.Add:
		scalar, ok = lit["a"]+lit["b"], has("a", "b")
	case registry.Multiply:
		scalar, ok = lit["a"]*lit["b"], has("a", "b")
	case registry.StrictClock:
		scalar, ok = lit["rate"], has("rate")
	case registry.VectorElement:
		fs, found := floats(params["vector"])
		i := lit["index"]
		ok = found && has("index") && node.IsInteger(i) && i >= 0 && int(i) < len(fs)
		if ok {
			scalar = fs[int(i)]
		}
	case registry.Dirichlet:
		return normalized(params["alpha"])
	case registry.Normalize:
		return normalized(params["values"])
	case registry.MultivariateNormal:
		if fs, found := floats(params["mean"]); found {
			return numbers(fs), true
		}
		return none, false
	default:
		return none, false
	}
	if !ok || math.IsNaN(scalar) || math.IsInf(scalar, 0) {
		return none, false
	}

	if n.Generates == registry.RealVector {
		dim := dimension(n)
		if dim == 0 {
			return none, false
		}
		fs := make([]float64, dim)
		for i := range fs {
			fs[i] = scalar
		}
		return numbers(fs), true
	}
	return cty.NumberFloatVal(scalar), true
}

// floats returns v as numbers when it is a non-empty sequence of known
// numbers.
func floats(v cty.Value) ([]float64, bool) {
	if v.IsNull() || !v.IsKnown() {
		return nil, false
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, false
	}
	items := v.AsValueSlice()
	if len(items) == 0 {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := asScalar(item)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func normalized(v cty.Value) (cty.Value, bool) {
	fs, ok := floats(v)
	if !ok {
		return none, false
	}
	sum := 0.0
	for _, f := range fs {
		sum += f
	}
	if sum <= 0 {
		return none, false
	}
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = f / sum
	}
	return numbers(out), true
}

// asScalar returns v as a float64 when it is a known number.
func asScalar(v cty.Value) (float64, bool) {
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

// resolver converts parameter values during the connect pass.
type resolver struct {
	table *Table
	graph *graph.Graph
	env   map[string]float64
}

func (r *resolver) resolve(path address.Address, v node.ParamValue) (cty.Value, error) {
	switch x := v.(type) {
	case node.Literal:
		lv, _ := literalValue(x)
		return lv, nil
	case node.VariableRef:
		h, err := r.table.Handle(x.ID)
		if err != nil {
			return none, err
		}
		return RefVal(Reference{ID: x.ID, Handle: h}), nil
	case node.Expression:
		return r.evaluate(path, x)
	case node.Array:
		items := make([]cty.Value, len(x.Items))
		for i, item := range x.Items {
			var err error
			if items[i], err = r.resolve(path.Index(i), item); err != nil {
				return none, err
			}
		}
		return sequence(items), nil
	}
	return none, fmt.Errorf("unsupported parameter value %T", v)
}
