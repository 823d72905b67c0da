package diag

import (
	"fmt"
	"strings"

	"github.com/vk/codephy/internal/address"
)

// Kind names one class of the error taxonomy.
type Kind string

const (
	KindParse                Kind = "ParseError"
	KindDuplicateName        Kind = "DuplicateNameError"
	KindUnresolvedReference  Kind = "UnresolvedReferenceError"
	KindCycle                Kind = "CycleError"
	KindTypeMismatch         Kind = "TypeMismatchError"
	KindParameterConstraint  Kind = "ParameterConstraintError"
	KindDataFormat           Kind = "DataFormatError"
	KindExpressionEvaluation Kind = "ExpressionEvaluationError"
	KindUnsupportedType      Kind = "UnsupportedTypeError"
	KindLowering             Kind = "LoweringError"
)

// Diagnostic is implemented by every error in the taxonomy.
type Diagnostic interface {
	error
	Kind() Kind
	Location() address.Address
}

func withPath(path address.Address, msg string) string {
	if path.IsZero() {
		return msg
	}
	return path.String() + ": " + msg
}

// ParseError reports a malformed entry shape.
type ParseError struct {
	Path   address.Address
	Reason string
}

func (e *ParseError) Error() string             { return withPath(e.Path, e.Reason) }
func (e *ParseError) Kind() Kind                { return KindParse }
func (e *ParseError) Location() address.Address { return e.Path }

// DuplicateNameError reports a name declared more than once across the
// random variable and deterministic function collections.
type DuplicateNameError struct {
	Path address.Address
	Name string
}

func (e *DuplicateNameError) Error() string {
	return withPath(e.Path, fmt.Sprintf("name %q is already declared", e.Name))
}
func (e *DuplicateNameError) Kind() Kind                { return KindDuplicateName }
func (e *DuplicateNameError) Location() address.Address { return e.Path }

// UnresolvedReferenceError reports a reference to a name that is not declared.
type UnresolvedReferenceError struct {
	Path    address.Address
	Missing string
}

func (e *UnresolvedReferenceError) Error() string {
	return withPath(e.Path, fmt.Sprintf("reference to undeclared name %q", e.Missing))
}
func (e *UnresolvedReferenceError) Kind() Kind                { return KindUnresolvedReference }
func (e *UnresolvedReferenceError) Location() address.Address { return e.Path }

// CycleError reports a dependency cycle. Cycle lists the node ids in
// dependency order; the last id depends back on the first.
type CycleError struct {
	Path  address.Address
	Cycle []string
}

func (e *CycleError) Error() string {
	ids := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return withPath(e.Path, "dependency cycle: "+strings.Join(ids, " -> "))
}
func (e *CycleError) Kind() Kind                { return KindCycle }
func (e *CycleError) Location() address.Address { return e.Path }

// TypeMismatchError reports a value whose generates type is not accepted
// where it is used.
type TypeMismatchError struct {
	Path     address.Address
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return withPath(e.Path, fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual))
}
func (e *TypeMismatchError) Kind() Kind                { return KindTypeMismatch }
func (e *TypeMismatchError) Location() address.Address { return e.Path }

// ParameterConstraintError reports a literal parameter violating a rule.
type ParameterConstraintError struct {
	Path  address.Address
	Rule  string
	Value any
}

func (e *ParameterConstraintError) Error() string {
	return withPath(e.Path, fmt.Sprintf("value %v violates %s", e.Value, e.Rule))
}
func (e *ParameterConstraintError) Kind() Kind                { return KindParameterConstraint }
func (e *ParameterConstraintError) Location() address.Address { return e.Path }

// DataFormatError reports an observed value with the wrong shape or content.
// Position is the zero-based character offset in the sequence, or -1.
type DataFormatError struct {
	Path     address.Address
	Taxon    string
	Position int
	Reason   string
}

func (e *DataFormatError) Error() string {
	msg := e.Reason
	if e.Taxon != "" {
		if e.Position >= 0 {
			msg = fmt.Sprintf("taxon %q position %d: %s", e.Taxon, e.Position, msg)
		} else {
			msg = fmt.Sprintf("taxon %q: %s", e.Taxon, msg)
		}
	}
	return withPath(e.Path, msg)
}
func (e *DataFormatError) Kind() Kind                { return KindDataFormat }
func (e *DataFormatError) Location() address.Address { return e.Path }

// ExpressionEvaluationError reports an expression that cannot be evaluated.
type ExpressionEvaluationError struct {
	Path       address.Address
	Expression string
	Reason     string
}

func (e *ExpressionEvaluationError) Error() string {
	return withPath(e.Path, fmt.Sprintf("expression %q: %s", e.Expression, e.Reason))
}
func (e *ExpressionEvaluationError) Kind() Kind                { return KindExpressionEvaluation }
func (e *ExpressionEvaluationError) Location() address.Address { return e.Path }

// UnsupportedTypeError reports an unknown distribution or function name.
type UnsupportedTypeError struct {
	Path     address.Address
	TypeName string
	Family   string
}

func (e *UnsupportedTypeError) Error() string {
	return withPath(e.Path, fmt.Sprintf("unsupported %s %q", e.Family, e.TypeName))
}
func (e *UnsupportedTypeError) Kind() Kind                { return KindUnsupportedType }
func (e *UnsupportedTypeError) Location() address.Address { return e.Path }

// LoweringError wraps the first failure of the lowering passes.
type LoweringError struct {
	Path   address.Address
	NodeID string
	Pass   string
	Err    error
}

func (e *LoweringError) Error() string {
	return withPath(e.Path, fmt.Sprintf("%s %q: %v", e.Pass, e.NodeID, e.Err))
}
func (e *LoweringError) Unwrap() error             { return e.Err }
func (e *LoweringError) Kind() Kind                { return KindLowering }
func (e *LoweringError) Location() address.Address { return e.Path }
