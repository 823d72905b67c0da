package expression

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// arity of each supported function; -1 means one or more arguments.
var functions = map[string]int{
	"log":  1,
	"exp":  1,
	"sqrt": 1,
	"abs":  1,
	"min":  -1,
	"max":  -1,
}

var binaryOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "^": true, "**": true,
}

// Expr is a parsed expression that satisfies the grammar.
type Expr struct {
	source string
	root   ast.Node
	idents []string
}

// Parse parses src and checks it against the grammar.
func Parse(src string) (*Expr, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", src, err)
	}
	idents := make(map[string]struct{})
	if err := check(tree.Node, idents); err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", src, err)
	}
	e := &Expr{source: src, root: tree.Node}
	for id := range idents {
		e.idents = append(e.idents, id)
	}
	sort.Strings(e.idents)
	return e, nil
}

// Source returns the original text.
func (e *Expr) Source() string {
	return e.source
}

// Identifiers returns the sorted, unique identifiers the expression reads.
func (e *Expr) Identifiers() []string {
	return append([]string(nil), e.idents...)
}

func call(name string, args []ast.Node, idents map[string]struct{}) error {
	arity, ok := functions[name]
	if !ok {
		return fmt.Errorf("unknown function %q", name)
	}
	if arity >= 0 && len(args) != arity {
		return fmt.Errorf("%s takes %d argument(s), got %d", name, arity, len(args))
	}
	if len(args) == 0 {
		return fmt.Errorf("%s needs at least one argument", name)
	}
	for _, a := range args {
		if err := check(a, idents); err != nil {
			return err
		}
	}
	return nil
}

// check walks the tree and rejects anything outside the grammar.
func check(n ast.Node, idents map[string]struct{}) error {
	switch node := n.(type) {
	case *ast.IntegerNode, *ast.FloatNode:
		return nil
	case *ast.IdentifierNode:
		idents[node.Value] = struct{}{}
		return nil
	case *ast.UnaryNode:
		if node.Operator != "-" && node.Operator != "+" {
			return fmt.Errorf("unsupported operator %q", node.Operator)
		}
		return check(node.Node, idents)
	case *ast.BinaryNode:
		if !binaryOperators[node.Operator] {
			return fmt.Errorf("unsupported operator %q", node.Operator)
		}
		if err := check(node.Left, idents); err != nil {
			return err
		}
		return check(node.Right, idents)
	case *ast.BuiltinNode:
		return call(node.Name, node.Arguments, idents)
	case *ast.CallNode:
		callee, ok := node.Callee.(*ast.IdentifierNode)
		if !ok {
			return fmt.Errorf("only named functions can be called")
		}
		return call(callee.Value, node.Arguments, idents)
	default:
		return fmt.Errorf("unsupported construct %T", n)
	}
}
