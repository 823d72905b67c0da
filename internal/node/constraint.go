package node

import (
	"fmt"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/diag"
)

// ConstraintKind is the relation a constraint enforces.
type ConstraintKind int

const (
	LessThan ConstraintKind = iota
	GreaterThan
	Equals
	Bounded
	SumTo
)

var constraintNames = map[string]ConstraintKind{
	"lessThan":    LessThan,
	"greaterThan": GreaterThan,
	"equals":      Equals,
	"bounded":     Bounded,
	"sumTo":       SumTo,
}

func (k ConstraintKind) String() string {
	for name, v := range constraintNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

// MarshalText renders the document name of the kind.
func (k ConstraintKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Operand is either a node id or a numeric literal.
type Operand struct {
	Ref   string
	Value float64
	Path  address.Address
}

// IsRef reports whether the operand names a node.
func (o Operand) IsRef() bool {
	return o.Ref != ""
}

// Constraint is a hard restriction across node values. Operand order is
// left, right for comparisons; variable, lower, upper for Bounded; and the
// variables followed by the target for SumTo.
type Constraint struct {
	Kind     ConstraintKind
	Operands []Operand
	Path     address.Address
}

// Refs returns the node ids the constraint mentions.
func (c Constraint) Refs() []Operand {
	var out []Operand
	for _, o := range c.Operands {
		if o.IsRef() {
			out = append(out, o)
		}
	}
	return out
}

func parseOperand(path address.Address, raw any) (Operand, error) {
	if f, ok := ToFloat(raw); ok {
		return Operand{Value: f, Path: path}, nil
	}
	switch v := raw.(type) {
	case string:
		if v != "" {
			return Operand{Ref: v, Path: path}, nil
		}
	case map[string]any:
		if id, ok := v["variable"].(string); ok && id != "" {
			return Operand{Ref: id, Path: path}, nil
		}
	}
	return Operand{}, &diag.ParseError{Path: path, Reason: fmt.Sprintf("constraint operand must be a node name or a number, got %v", raw)}
}

// ParseConstraint decodes one entry of the constraints list.
func ParseConstraint(path address.Address, raw any) (Constraint, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Constraint{}, &diag.ParseError{Path: path, Reason: "constraint must be an object"}
	}
	typeName, ok := obj["type"].(string)
	if !ok {
		return Constraint{}, &diag.ParseError{Path: path.Attr("type"), Reason: "constraint is missing 'type'"}
	}
	kind, ok := constraintNames[typeName]
	if !ok {
		return Constraint{}, &diag.ParseError{Path: path.Attr("type"), Reason: fmt.Sprintf("unknown constraint type %q", typeName)}
	}

	var fields []string
	switch kind {
	case LessThan, GreaterThan, Equals:
		fields = []string{"left", "right"}
	case Bounded:
		fields = []string{"variable", "lower", "upper"}
	case SumTo:
		fields = []string{"variables", "target"}
	}

	c := Constraint{Kind: kind, Path: path}
	var errs diag.List
	for _, field := range fields {
		value, present := obj[field]
		fieldPath := path.Attr(field)
		if !present || value == nil {
			errs.Add(&diag.ParseError{Path: fieldPath, Reason: fmt.Sprintf("%s constraint is missing '%s'", typeName, field)})
			continue
		}
		if field == "variables" {
			list, ok := value.([]any)
			if !ok || len(list) == 0 {
				errs.Add(&diag.ParseError{Path: fieldPath, Reason: "'variables' must be a non-empty list"})
				continue
			}
			for i, item := range list {
				op, err := parseOperand(fieldPath.Index(i), item)
				if err != nil {
					errs.Add(err)
					continue
				}
				c.Operands = append(c.Operands, op)
			}
			continue
		}
		op, err := parseOperand(fieldPath, value)
		if err != nil {
			errs.Add(err)
			continue
		}
		c.Operands = append(c.Operands, op)
	}
	if err := errs.Err(); err != nil {
		return Constraint{}, err
	}
	return c, nil
}
