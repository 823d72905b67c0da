package registry

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// GeneratesType is the semantic output type of a node.
type GeneratesType int

const (
	Inferred GeneratesType = iota
	Real
	RealVector
	Integer
	Boolean
	Tree
	Alignment
	QMatrix
	BranchRates
)

var generatesNames = [...]string{
	Inferred:    "INFERRED",
	Real:        "REAL",
	RealVector:  "REAL_VECTOR",
	Integer:     "INTEGER",
	Boolean:     "BOOLEAN",
	Tree:        "TREE",
	Alignment:   "ALIGNMENT",
	QMatrix:     "Q_MATRIX",
	BranchRates: "BRANCH_RATES",
}

var generatesAliases = map[string]GeneratesType{
	"SIMPLEX":           RealVector,
	"VECTOR":            RealVector,
	"SUBSTITUTIONMODEL": QMatrix,
	"INT":               Integer,
	"BOOL":              Boolean,
}

func (g GeneratesType) String() string {
	if g < 0 || int(g) >= len(generatesNames) {
		return "UNKNOWN"
	}
	return generatesNames[g]
}

// MarshalText renders the canonical name.
func (g GeneratesType) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func normalizeName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

// ParseGenerates parses a declared generates type. Matching ignores case,
// underscores and spaces.
func ParseGenerates(s string) (GeneratesType, bool) {
	key := normalizeName(s)
	for i, name := range generatesNames {
		if i == int(Inferred) {
			continue
		}
		if normalizeName(name) == key {
			return GeneratesType(i), true
		}
	}
	g, ok := generatesAliases[key]
	return g, ok
}

// IsScalar reports whether values of this type may appear in expressions.
func (g GeneratesType) IsScalar() bool {
	return g == Real || g == Integer
}

// CtyType returns the cty type used for lowered values of this type.
func (g GeneratesType) CtyType() cty.Type {
	switch g {
	case Real, Integer:
		return cty.Number
	case Boolean:
		return cty.Bool
	case RealVector, BranchRates:
		return cty.List(cty.Number)
	case QMatrix:
		return cty.List(cty.List(cty.Number))
	case Tree:
		return cty.String
	case Alignment:
		return cty.Map(cty.String)
	default:
		return cty.DynamicPseudoType
	}
}
