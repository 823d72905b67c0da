package node

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/diag"
)

// ParamValue is the sum of Literal, Array, VariableRef and Expression.
type ParamValue interface {
	isParamValue()
}

// Literal is a number, string or bool. Numbers are always float64.
type Literal struct {
	Value any
}

// Array is an ordered list of values.
type Array struct {
	Items []ParamValue
}

// VariableRef refers to another node by id.
type VariableRef struct {
	ID string
}

// Expression is arithmetic source text over scalar values.
type Expression struct {
	Source string
}

func (Literal) isParamValue()     {}
func (Array) isParamValue()       {}
func (VariableRef) isParamValue() {}
func (Expression) isParamValue()  {}

// Number returns the literal as a float64.
func (l Literal) Number() (float64, bool) {
	f, ok := l.Value.(float64)
	return f, ok
}

// Text returns the literal as a string.
func (l Literal) Text() (string, bool) {
	s, ok := l.Value.(string)
	return s, ok
}

// Numbers returns the items of a flat numeric array.
func (a Array) Numbers() ([]float64, bool) {
	out := make([]float64, len(a.Items))
	for i, item := range a.Items {
		lit, ok := item.(Literal)
		if !ok {
			return nil, false
		}
		if out[i], ok = lit.Number(); !ok {
			return nil, false
		}
	}
	return out, true
}

// IsInteger reports whether f holds an integral value.
func IsInteger(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// ToFloat normalises any Go numeric type to float64.
func ToFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FromRaw converts a decoded document value into a ParamValue.
func FromRaw(path address.Address, raw any) (ParamValue, error) {
	if f, ok := ToFloat(raw); ok {
		return Literal{Value: f}, nil
	}
	switch v := raw.(type) {
	case nil:
		return nil, &diag.ParseError{Path: path, Reason: "null is not a valid parameter value"}
	case string, bool:
		return Literal{Value: v}, nil
	case []any:
		var errs diag.List
		items := make([]ParamValue, len(v))
		for i, elem := range v {
			item, err := FromRaw(path.Index(i), elem)
			errs.Add(err)
			items[i] = item
		}
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return Array{Items: items}, nil
	case map[string]any:
		return fromObject(path, v)
	default:
		return nil, &diag.ParseError{Path: path, Reason: fmt.Sprintf("unsupported value of type %T", raw)}
	}
}

func fromObject(path address.Address, obj map[string]any) (ParamValue, error) {
	ref, hasRef := obj["variable"]
	src, hasExpr := obj["expression"]
	switch {
	case hasRef && hasExpr:
		return nil, &diag.ParseError{Path: path, Reason: "object cannot have both 'variable' and 'expression' keys"}
	case (hasRef || hasExpr) && len(obj) > 1:
		return nil, &diag.ParseError{Path: path, Reason: fmt.Sprintf("unexpected keys %v", extraKeys(obj))}
	case hasRef:
		id, ok := ref.(string)
		if !ok || id == "" {
			return nil, &diag.ParseError{Path: path.Attr("variable"), Reason: "'variable' must be a non-empty string"}
		}
		return VariableRef{ID: id}, nil
	case hasExpr:
		s, ok := src.(string)
		if !ok || s == "" {
			return nil, &diag.ParseError{Path: path.Attr("expression"), Reason: "'expression' must be a non-empty string"}
		}
		return Expression{Source: s}, nil
	default:
		return nil, &diag.ParseError{Path: path, Reason: fmt.Sprintf("object must have a 'variable' or 'expression' key, got %v", extraKeys(obj))}
	}
}

// extraKeys returns the sorted keys of obj other than variable and expression.
func extraKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k != "variable" && k != "expression" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Ref is a VariableRef found inside a value, with its location.
type Ref struct {
	ID   string
	Path address.Address
}

// References walks v and returns every VariableRef, recursing into arrays.
func References(path address.Address, v ParamValue) []Ref {
	switch x := v.(type) {
	case VariableRef:
		return []Ref{{ID: x.ID, Path: path}}
	case Array:
		var out []Ref
		for i, item := range x.Items {
			out = append(out, References(path.Index(i), item)...)
		}
		return out
	default:
		return nil
	}
}

// ExpressionAt is an Expression found inside a value, with its location.
type ExpressionAt struct {
	Expression
	Path address.Address
}

// Expressions walks v and returns every Expression, recursing into arrays.
func Expressions(path address.Address, v ParamValue) []ExpressionAt {
	switch x := v.(type) {
	case Expression:
		return []ExpressionAt{{Expression: x, Path: path}}
	case Array:
		var out []ExpressionAt
		for i, item := range x.Items {
			out = append(out, Expressions(path.Index(i), item)...)
		}
		return out
	default:
		return nil
	}
}
