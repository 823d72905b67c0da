package registry

import "strings"

// Shape is the literal form a parameter takes.
type Shape int

const (
	// Scalar parameters accept a number, a reference or an expression.
	Scalar Shape = iota
	// Vector parameters accept a list of scalars or a reference.
	Vector
	// Matrix parameters accept a list of equal-length numeric lists.
	Matrix
	// Text parameters accept a string.
	Text
	// TextList parameters accept a list of strings.
	TextList
	// Reference parameters accept only a reference to another node.
	Reference
)

func (s Shape) String() string {
	switch s {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	case Text:
		return "text"
	case TextList:
		return "text list"
	default:
		return "reference"
	}
}

// Rule names a constraint a literal parameter must satisfy.
type Rule string

const (
	RulePositive    Rule = "positive"
	RuleNonNegative Rule = "non-negative"
	RuleProbability Rule = "probability"
	RuleSumToOne    Rule = "sum-to-one"
	RuleInteger     Rule = "integer"
	RuleLength      Rule = "length"
	RuleOrdered     Rule = "ordered"
	RuleSquare      Rule = "square-matrix"
	RuleEnum        Rule = "enum"
	RuleRequired    Rule = "required"
	RuleKnown       Rule = "known-parameter"
	RuleNumeric     Rule = "numeric"
	RuleText        Rule = "text"
	RuleDimension   Rule = "dimension"
	RuleReference   Rule = "reference"
	RuleFinite      Rule = "finite"
	RuleShape       Rule = "shape"
)

// ParamDef describes one parameter of a distribution or function.
type ParamDef struct {
	Name     string
	Aliases  []string
	Accepts  []GeneratesType
	Shape    Shape
	Required bool
	Rules    []Rule
	Length   int
	Enum     []string
}

// AcceptsType reports whether a referenced node generating g may be wired
// into this parameter.
func (p *ParamDef) AcceptsType(g GeneratesType) bool {
	for _, a := range p.Accepts {
		if a == g {
			return true
		}
	}
	return false
}

// Has reports whether the definition carries rule r.
func (p *ParamDef) Has(r Rule) bool {
	for _, x := range p.Rules {
		if x == r {
			return true
		}
	}
	return false
}

// Expected renders the accepted types for diagnostics.
func (p *ParamDef) Expected() string {
	if len(p.Accepts) == 0 {
		return "literal " + p.Shape.String()
	}
	names := make([]string, len(p.Accepts))
	for i, a := range p.Accepts {
		names[i] = a.String()
	}
	return strings.Join(names, "|")
}

// Descriptor is the typed parameter record of one Tag.
type Descriptor struct {
	Tag       Tag
	Name      string
	Family    Family
	Generates []GeneratesType
	Params    []ParamDef
	// Vectorizable scalar distributions may generate REAL_VECTOR when a
	// dimension parameter is present.
	Vectorizable bool
}

// Param returns the definition of a parameter by canonical name or alias.
func (d *Descriptor) Param(name string) (*ParamDef, bool) {
	for i := range d.Params {
		p := &d.Params[i]
		if p.Name == name {
			return p, true
		}
		for _, a := range p.Aliases {
			if a == name {
				return p, true
			}
		}
	}
	return nil, false
}

// DefaultGenerates is the type inferred when none is declared.
func (d *Descriptor) DefaultGenerates() GeneratesType {
	if len(d.Generates) == 0 {
		return Inferred
	}
	return d.Generates[0]
}

// Allows reports whether a node of this type may declare g as its output.
func (d *Descriptor) Allows(g GeneratesType) bool {
	if g == RealVector && d.Vectorizable {
		return true
	}
	for _, x := range d.Generates {
		if x == g {
			return true
		}
	}
	return false
}

// Lookup resolves a distribution or function name, ignoring case.
func Lookup(family Family, name string) (Tag, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range Tags() {
		d := t.Descriptor()
		if d.Family == family && strings.ToLower(d.Name) == key {
			return t, true
		}
	}
	return Unknown, false
}
