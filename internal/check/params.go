package check

import (
	"fmt"
	"math"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
)

const sumTolerance = 1e-6

func violation(path address.Address, rule registry.Rule, value any) error {
	return &diag.ParameterConstraintError{Path: path, Rule: string(rule), Value: value}
}

// Params validates the literal parameters of n. References and expressions
// are not statically evaluable and are skipped.
func Params(n *node.Node) diag.List {
	var errs diag.List
	desc := n.Descriptor()

	for _, p := range n.Params {
		def, ok := desc.Param(p.Name)
		if !ok {
			errs.Add(violation(p.Path, registry.RuleKnown, p.Declared))
			continue
		}
		errs.Add(checkValue(def, p)...)
	}

	for i := range desc.Params {
		def := &desc.Params[i]
		if _, present := n.Param(def.Name); def.Required && !present {
			errs.Add(violation(n.ParamsPath().Attr(def.Name), registry.RuleRequired, nil))
		}
	}

	errs.Add(crossParams(n)...)
	return errs
}

// numericRules applies the scalar rules of def to f.
func numericRules(def *registry.ParamDef, path address.Address, f float64) diag.List {
	var errs diag.List
	for _, rule := range def.Rules {
		var bad bool
		switch rule {
		case registry.RulePositive:
			bad = !(f > 0)
		case registry.RuleNonNegative:
			bad = !(f >= 0)
		case registry.RuleProbability:
			bad = !(f > 0 && f < 1)
		case registry.RuleInteger:
			bad = !node.IsInteger(f)
		case registry.RuleFinite:
			bad = math.IsNaN(f) || math.IsInf(f, 0)
		}
		if bad {
			errs.Add(violation(path, rule, f))
		}
	}
	return errs
}

func checkValue(def *registry.ParamDef, p node.Param) diag.List {
	switch v := p.Value.(type) {
	case node.VariableRef, node.Expression:
		return nil
	case node.Literal:
		return checkLiteral(def, p.Path, v)
	case node.Array:
		return checkArray(def, p.Path, v)
	}
	return nil
}

func checkLiteral(def *registry.ParamDef, path address.Address, lit node.Literal) diag.List {
	switch def.Shape {
	case registry.Scalar:
		f, ok := lit.Number()
		if !ok {
			return diag.List{violation(path, registry.RuleNumeric, lit.Value)}
		}
		return numericRules(def, path, f)
	case registry.Text:
		s, ok := lit.Text()
		if !ok {
			return diag.List{violation(path, registry.RuleText, lit.Value)}
		}
		if len(def.Enum) > 0 && !contains(def.Enum, s) {
			return diag.List{violation(path, registry.RuleEnum, s)}
		}
		return nil
	case registry.Reference:
		return diag.List{violation(path, registry.RuleReference, lit.Value)}
	default:
		return diag.List{violation(path, registry.RuleShape, lit.Value)}
	}
}

func checkArray(def *registry.ParamDef, path address.Address, arr node.Array) diag.List {
	var errs diag.List
	switch def.Shape {
	case registry.Vector:
		allLiteral := true
		sum := 0.0
		for i, item := range arr.Items {
			lit, ok := item.(node.Literal)
			if !ok {
				allLiteral = false
				if _, nested := item.(node.Array); nested {
					errs.Add(violation(path.Index(i), registry.RuleShape, "nested list"))
				}
				continue
			}
			f, ok := lit.Number()
			if !ok {
				allLiteral = false
				errs.Add(violation(path.Index(i), registry.RuleNumeric, lit.Value))
				continue
			}
			sum += f
			errs.Add(numericRules(def, path.Index(i), f)...)
		}
		if def.Has(registry.RuleLength) && def.Length > 0 && len(arr.Items) != def.Length {
			errs.Add(violation(path, registry.RuleLength, len(arr.Items)))
		}
		if def.Has(registry.RuleSumToOne) && allLiteral && math.Abs(sum-1) > sumTolerance {
			errs.Add(violation(path, registry.RuleSumToOne, sum))
		}
	case registry.Matrix:
		rows := len(arr.Items)
		for i, item := range arr.Items {
			row, ok := item.(node.Array)
			if !ok {
				errs.Add(violation(path.Index(i), registry.RuleShape, "expected a list"))
				continue
			}
			if _, numeric := row.Numbers(); !numeric {
				errs.Add(violation(path.Index(i), registry.RuleNumeric, "row must contain numbers only"))
			}
			if def.Has(registry.RuleSquare) && len(row.Items) != rows {
				errs.Add(violation(path.Index(i), registry.RuleSquare, fmt.Sprintf("%d columns in a %d-row matrix", len(row.Items), rows)))
			}
		}
	case registry.TextList:
		for i, item := range arr.Items {
			lit, ok := item.(node.Literal)
			if _, text := lit.Text(); !ok || !text {
				errs.Add(violation(path.Index(i), registry.RuleText, describe(item)))
			}
		}
	case registry.Reference:
		errs.Add(violation(path, registry.RuleReference, "list"))
	default:
		errs.Add(violation(path, registry.RuleShape, "list"))
	}
	return errs
}

// crossParams checks rules that relate several parameters of one node.
func crossParams(n *node.Node) diag.List {
	var errs diag.List
	desc := n.Descriptor()

	if n.Type == registry.Uniform {
		lower, okL := literalNumber(n, "lower")
		upper, okU := literalNumber(n, "upper")
		if okL && okU && !(lower < upper) {
			p, _ := n.Param("upper")
			errs.Add(violation(p.Path, registry.RuleOrdered, upper))
		}
	}

	if n.Generates == registry.RealVector && desc.Vectorizable {
		if _, ok := n.Param("dimension"); !ok {
			errs.Add(violation(n.ParamsPath().Attr("dimension"), registry.RuleRequired, nil))
		}
	}

	dim, hasDim := literalNumber(n, "dimension")
	if !hasDim || dim <= 0 || !node.IsInteger(dim) {
		return errs
	}
	for _, p := range n.Params {
		def, ok := desc.Param(p.Name)
		if !ok || (def.Shape != registry.Vector && def.Shape != registry.Matrix) {
			continue
		}
		if arr, ok := p.Value.(node.Array); ok && len(arr.Items) != int(dim) {
			errs.Add(violation(p.Path, registry.RuleDimension, len(arr.Items)))
		}
	}
	return errs
}

func literalNumber(n *node.Node, name string) (float64, bool) {
	p, ok := n.Param(name)
	if !ok {
		return 0, false
	}
	lit, ok := p.Value.(node.Literal)
	if !ok {
		return 0, false
	}
	return lit.Number()
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func describe(v node.ParamValue) any {
	switch x := v.(type) {
	case node.Literal:
		return x.Value
	case node.VariableRef:
		return "reference to " + x.ID
	case node.Expression:
		return x.Source
	default:
		return "list"
	}
}
