package expression

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr/ast"
	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/diag"
)

// Eval evaluates the expression against env.
func (e *Expr) Eval(env map[string]float64) (float64, error) {
	return e.EvalAt(address.Address{}, env)
}

// EvalAt evaluates the expression, attaching path to any error. Identifiers
// missing from env yield diag.UnresolvedReferenceError; every other failure
// is a diag.ExpressionEvaluationError.
func (e *Expr) EvalAt(path address.Address, env map[string]float64) (float64, error) {
	ev := evaluator{expr: e, path: path, env: env}
	v, err := ev.eval(e.root)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ev.fail("result is not a finite number")
	}
	return v, nil
}

type evaluator struct {
	expr *Expr
	path address.Address
	env  map[string]float64
}

func (ev *evaluator) fail(format string, args ...any) error {
	return &diag.ExpressionEvaluationError{Path: ev.path, Expression: ev.expr.source, Reason: fmt.Sprintf(format, args...)}
}

func (ev *evaluator) eval(n ast.Node) (float64, error) {
	switch node := n.(type) {
	case *ast.IntegerNode:
		return float64(node.Value), nil
	case *ast.FloatNode:
		return node.Value, nil
	case *ast.IdentifierNode:
		v, ok := ev.env[node.Value]
		if !ok {
			return 0, &diag.UnresolvedReferenceError{Path: ev.path, Missing: node.Value}
		}
		return v, nil
	case *ast.UnaryNode:
		v, err := ev.eval(node.Node)
		if err != nil {
			return 0, err
		}
		if node.Operator == "-" {
			return -v, nil
		}
		return v, nil
	case *ast.BinaryNode:
		return ev.binary(node)
	case *ast.BuiltinNode:
		return ev.call(node.Name, node.Arguments)
	case *ast.CallNode:
		return ev.call(node.Callee.(*ast.IdentifierNode).Value, node.Arguments)
	default:
		return 0, ev.fail("unsupported construct %T", n)
	}
}

func (ev *evaluator) binary(node *ast.BinaryNode) (float64, error) {
	l, err := ev.eval(node.Left)
	if err != nil {
		return 0, err
	}
	r, err := ev.eval(node.Right)
	if err != nil {
		return 0, err
	}
	var v float64
	switch node.Operator {
	case "+":
		v = l + r
	case "-":
		v = l - r
	case "*":
		v = l * r
	case "/":
		if r == 0 {
			return 0, ev.fail("division by zero")
		}
		v = l / r
	case "^", "**":
		v = math.Pow(l, r)
	default:
		return 0, ev.fail("unsupported operator %q", node.Operator)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ev.fail("%v %s %v is not a finite number", l, node.Operator, r)
	}
	return v, nil
}

func (ev *evaluator) call(name string, args []ast.Node) (float64, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := ev.eval(a)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	switch name {
	case "log":
		if vals[0] <= 0 {
			return 0, ev.fail("log of non-positive value %v", vals[0])
		}
		return math.Log(vals[0]), nil
	case "exp":
		v := math.Exp(vals[0])
		if math.IsInf(v, 0) {
			return 0, ev.fail("exp(%v) overflows", vals[0])
		}
		return v, nil
	case "sqrt":
		if vals[0] < 0 {
			return 0, ev.fail("sqrt of negative value %v", vals[0])
		}
		return math.Sqrt(vals[0]), nil
	case "abs":
		return math.Abs(vals[0]), nil
	case "min":
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	case "max":
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	default:
		return 0, ev.fail("unknown function %q", name)
	}
}
