package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level construct of a model file.
type fileRoot struct {
	Model           hcl.Expression         `hcl:"model,optional"`
	CodephyVersion  hcl.Expression         `hcl:"codephy_version,optional"`
	Metadata        hcl.Expression         `hcl:"metadata,optional"`
	Provenance      hcl.Expression         `hcl:"provenance,optional"`
	RandomVariables []*randomVariableBlock `hcl:"random_variable,block"`
	Functions       []*functionBlock       `hcl:"deterministic_function,block"`
	Constraints     []*constraintBlock     `hcl:"constraint,block"`
}

type randomVariableBlock struct {
	Name          string             `hcl:"name,label"`
	Distribution  *distributionBlock `hcl:"distribution,block"`
	ObservedValue hcl.Expression     `hcl:"observed_value,optional"`
}

type distributionBlock struct {
	Type       string         `hcl:"type"`
	Generates  hcl.Expression `hcl:"generates,optional"`
	Parameters hcl.Expression `hcl:"parameters,optional"`
}

type functionBlock struct {
	Name      string         `hcl:"name,label"`
	Function  string         `hcl:"function"`
	Generates hcl.Expression `hcl:"generates,optional"`
	Arguments hcl.Expression `hcl:"arguments,optional"`
}

type constraintBlock struct {
	Type      string         `hcl:"type"`
	Left      hcl.Expression `hcl:"left,optional"`
	Right     hcl.Expression `hcl:"right,optional"`
	Variable  hcl.Expression `hcl:"variable,optional"`
	Lower     hcl.Expression `hcl:"lower,optional"`
	Upper     hcl.Expression `hcl:"upper,optional"`
	Variables hcl.Expression `hcl:"variables,optional"`
	Target    hcl.Expression `hcl:"target,optional"`
}

// fields lists the optional attributes of a constraint by document name.
func (c *constraintBlock) fields() []struct {
	name string
	expr hcl.Expression
} {
	return []struct {
		name string
		expr hcl.Expression
	}{
		{"left", c.Left},
		{"right", c.Right},
		{"variable", c.Variable},
		{"lower", c.Lower},
		{"upper", c.Upper},
		{"variables", c.Variables},
		{"target", c.Target},
	}
}
