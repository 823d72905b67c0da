package lower

import (
	"fmt"
	"maps"

	"github.com/vk/codephy/internal/expression"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// expressionValues returns the number every scalar node stands for when an
// expression names it. Nodes are visited in dependency order, so a parameter
// wired to another node resolves to the value already derived for that node.
// A node whose parameters cannot all be resolved is left out.
func expressionValues(g *graph.Graph) (map[string]float64, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to order nodes: %w", err)
	}

	values := make(map[string]cty.Value, len(order))
	scalars := make(map[string]float64, len(order))
	for _, n := range order {
		v, ok := derivedValue(n, values, scalars)
		if !ok {
			continue
		}
		values[n.ID] = v
		if f, ok := asScalar(v); ok {
			scalars[n.ID] = f
		}
	}
	return scalars, nil
}

func derivedValue(n *node.Node, values map[string]cty.Value, scalars map[string]float64) (cty.Value, bool) {
	if n.IsObserved() {
		if v := observedValue(n.Observed); !v.IsNull() {
			return v, true
		}
	}

	env := make(map[string]float64, len(scalars)+len(n.Params))
	maps.Copy(env, scalars)
	maps.Copy(env, n.ScalarLiterals())

	params := make(map[string]cty.Value, len(n.Params))
	for _, p := range n.Params {
		if v, ok := derivedParam(p.Value, values, env); ok {
			params[p.Name] = v
		}
	}
	return valueFrom(n, params)
}

func derivedParam(v node.ParamValue, values map[string]cty.Value, env map[string]float64) (cty.Value, bool) {
	switch x := v.(type) {
	case node.Literal:
		return literalValue(x)
	case node.VariableRef:
		val, ok := values[x.ID]
		return val, ok
	case node.Expression:
		e, err := expression.Parse(x.Source)
		if err != nil {
			return none, false
		}
		f, err := e.Eval(env)
		if err != nil {
			return none, false
		}
		return cty.NumberFloatVal(f), true
	case node.Array:
		items := make([]cty.Value, len(x.Items))
		for i, item := range x.Items {
			var ok bool
			if items[i], ok = derivedParam(item, values, env); !ok {
				return none, false
			}
		}
		return sequence(items), true
	}
	return none, false
}
