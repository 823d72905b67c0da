package check

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/builder"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/testutil"
)

func build(t *testing.T, src string) *graph.Graph {
	t.Helper()
	g, errs := builder.Build(context.Background(), testutil.Document(t, src))
	require.Empty(t, errs)
	return g
}

func run(t *testing.T, src string) diag.List {
	t.Helper()
	return Run(context.Background(), build(t, src), Options{Workers: 2})
}

// summary renders each error as "Kind path".
func summary(t *testing.T, l diag.List) []string {
	t.Helper()
	var out []string
	for _, err := range l {
		var d diag.Diagnostic
		require.True(t, errors.As(err, &d))
		out = append(out, string(d.Kind())+" "+d.Location().String())
	}
	return out
}

func TestRun_ValidModel(t *testing.T) {
	assert.Empty(t, run(t, testutil.PhyloModel))
	assert.Empty(t, run(t, testutil.ExpressionModel))
}

func TestTypes_TreeParameterWiredToReal(t *testing.T) {
	errs := run(t, `{
	  "randomVariables": {"rate": {"distribution": {"type": "Exponential", "generates": "REAL", "parameters": {"rate": 1}}}},
	  "deterministicFunctions": {"clock": {"function": "relaxedClock", "arguments": {"tree": {"variable": "rate"}, "mean": 1, "sd": 0.1}}}
	}`)
	require.Len(t, errs, 1)

	var mismatch *diag.TypeMismatchError
	require.True(t, errors.As(errs[0], &mismatch))
	assert.Equal(t, "TREE", mismatch.Expected)
	assert.Equal(t, "REAL", mismatch.Actual)
	assert.Equal(t, "deterministicFunctions.clock.arguments.tree", mismatch.Path.String())
}

func TestTypes(t *testing.T) {
	errs := run(t, `{
	  "randomVariables": {
	    "tree": {"distribution": {"type": "Yule", "parameters": {"birthRate": 1}}},
	    "bad": {"distribution": {"type": "Yule", "generates": "REAL", "parameters": {"birthRate": 1}}},
	    "expr": {"distribution": {"type": "Normal", "parameters": {"mean": {"expression": "tree * 2"}, "sigma": 1}}},
	    "vec": {"distribution": {"type": "Dirichlet", "parameters": {"alpha": [1, {"variable": "tree"}]}}},
	    "ctmc": {"distribution": {"type": "PhyloCTMC", "parameters": {"tree": {"expression": "1 + 1"}, "Q": {"variable": "Q"}}}}
	  },
	  "deterministicFunctions": {
	    "Q": {"function": "JC69", "generates": "REAL_VECTOR"}
	  }
	}`)

	assert.Equal(t, []string{
		"TypeMismatchError randomVariables.bad.distribution.generates",
		"TypeMismatchError randomVariables.expr.distribution.parameters.mean",
		"TypeMismatchError randomVariables.vec.distribution.parameters.alpha[1]",
		"TypeMismatchError randomVariables.ctmc.distribution.parameters.Q",
		"TypeMismatchError randomVariables.ctmc.distribution.parameters.tree",
		"TypeMismatchError deterministicFunctions.Q.generates",
	}, summary(t, errs))
}

func TestParams_DirichletNegativeElement(t *testing.T) {
	errs := run(t, `{"randomVariables": {"freqs": {"distribution": {"type": "Dirichlet", "parameters": {"alpha": [5, -1, 5, 5]}}}}}`)
	require.Len(t, errs, 1)

	var pc *diag.ParameterConstraintError
	require.True(t, errors.As(errs[0], &pc))
	assert.Equal(t, "randomVariables.freqs.distribution.parameters.alpha[1]", pc.Path.String())
	assert.Equal(t, "positive", pc.Rule)
	assert.Equal(t, -1.0, pc.Value)
}

func TestParams(t *testing.T) {
	testCases := []struct {
		name  string
		dist  string
		rules []string
	}{
		{"valid normal", `{"type": "Normal", "parameters": {"mean": 0, "sd": 1}}`, nil},
		{"negative sigma", `{"type": "Normal", "parameters": {"mean": 0, "sigma": -1}}`, []string{"positive"}},
		{"missing required", `{"type": "Normal", "parameters": {"mean": 0}}`, []string{"required"}},
		{"unknown parameter", `{"type": "Exponential", "parameters": {"rate": 1, "shift": 2}}`, []string{"known-parameter"}},
		{"text where number expected", `{"type": "Exponential", "parameters": {"rate": "fast"}}`, []string{"numeric"}},
		{"uniform ordered", `{"type": "Uniform", "parameters": {"lower": 2, "upper": 1}}`, []string{"ordered"}},
		{"vector output needs dimension", `{"type": "Normal", "generates": "REAL_VECTOR", "parameters": {"mean": 0, "sigma": 1}}`, []string{"required"}},
		{"vector output with dimension", `{"type": "Normal", "generates": "REAL_VECTOR", "parameters": {"mean": 0, "sigma": 1, "dimension": 4}}`, nil},
		{"fractional dimension", `{"type": "Normal", "generates": "REAL_VECTOR", "parameters": {"mean": 0, "sigma": 1, "dimension": 2.5}}`, []string{"integer"}},
		{"dimension mismatch", `{"type": "Dirichlet", "parameters": {"alpha": [1, 1, 1], "dimension": 4}}`, []string{"dimension"}},
		{"beta probabilities", `{"type": "Beta", "parameters": {"alpha": 0, "beta": 2}}`, []string{"positive"}},
		{"birth death", `{"type": "BirthDeath", "parameters": {"birthRate": 1, "deathRate": -0.1}}`, []string{"non-negative"}},
		{"covariance not square", `{"type": "MultivariateNormal", "parameters": {"mean": [0, 0], "covariance": [[1, 0], [0]]}}`, []string{"square-matrix"}},
		{"enum", `{"type": "ConstrainedYule", "parameters": {"birthRate": 1, "topology": "loose"}}`, []string{"enum"}},
		{"taxon set", `{"type": "ConstrainedYule", "parameters": {"birthRate": 1, "taxonSet": ["a", 2]}}`, []string{"text"}},
		{"literal for reference", `{"type": "PhyloCTMC", "parameters": {"tree": "((a,b),c);", "Q": {"variable": "x"}}}`, []string{"reference"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := build(t, `{"randomVariables": {"x": {"distribution": `+tc.dist+`}}}`)
			n, ok := g.Node("x")
			require.True(t, ok)

			var rules []string
			for _, err := range Params(n) {
				var pc *diag.ParameterConstraintError
				require.True(t, errors.As(err, &pc), "unexpected error %v", err)
				rules = append(rules, pc.Rule)
			}
			assert.Equal(t, tc.rules, rules)
		})
	}
}

func TestParams_BaseFrequencies(t *testing.T) {
	g := build(t, `{"deterministicFunctions": {
	  "ok": {"function": "HKY", "arguments": {"kappa": 2, "baseFrequencies": [0.1, 0.2, 0.3, 0.4]}},
	  "sum": {"function": "HKY", "arguments": {"kappa": 2, "baseFrequencies": [0.3, 0.3, 0.3, 0.3]}},
	  "len": {"function": "HKY", "arguments": {"kappa": 2, "baseFrequencies": [0.5, 0.5]}},
	  "range": {"function": "HKY", "arguments": {"kappa": 2, "baseFrequencies": [1.5, -0.5, 0, 0]}}
	}}`)

	rulesOf := func(id string) []string {
		n, ok := g.Node(id)
		require.True(t, ok)
		var out []string
		for _, err := range Params(n) {
			out = append(out, err.(*diag.ParameterConstraintError).Rule)
		}
		return out
	}

	assert.Empty(t, rulesOf("ok"))
	assert.Equal(t, []string{"sum-to-one"}, rulesOf("sum"))
	assert.Equal(t, []string{"length"}, rulesOf("len"))
	assert.Equal(t, []string{
		"probability",
		"positive", "probability",
		"positive", "probability",
		"positive", "probability",
	}, rulesOf("range"))
}

func alignment(rows string) string {
	return `{
	  "randomVariables": {
	    "tree": {"distribution": {"type": "Yule", "parameters": {"birthRate": 1}}},
	    "alignment": {
	      "distribution": {"type": "PhyloCTMC", "generates": "ALIGNMENT", "parameters": {"tree": {"variable": "tree"}, "Q": {"variable": "Q"}}},
	      "observedValue": ` + rows + `
	    }
	  },
	  "deterministicFunctions": {"Q": {"function": "JC69"}}
	}`
}

func TestData_Alignment(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		errs := run(t, alignment(`[{"taxon": "a", "sequence": "ACGT"}, {"taxon": "b", "sequence": "ACG"}]`))
		require.Len(t, errs, 1)
		var df *diag.DataFormatError
		require.True(t, errors.As(errs[0], &df))
		assert.Equal(t, "b", df.Taxon)
		assert.Contains(t, df.Reason, "length")
	})

	t.Run("invalid character", func(t *testing.T) {
		errs := run(t, alignment(`[{"taxon": "a", "sequence": "ACGT"}, {"taxon": "b", "sequence": "ACZT"}]`))
		require.Len(t, errs, 1)
		var df *diag.DataFormatError
		require.True(t, errors.As(errs[0], &df))
		assert.Equal(t, "b", df.Taxon)
		assert.Equal(t, 2, df.Position)
		assert.Equal(t, "randomVariables.alignment.observedValue[1].sequence", df.Path.String())
	})

	t.Run("positions and lengths count characters", func(t *testing.T) {
		errs := run(t, alignment(`[{"taxon": "a", "sequence": "ACGT"}, {"taxon": "b", "sequence": "AÇGT"}]`))
		require.Len(t, errs, 1)
		var df *diag.DataFormatError
		require.True(t, errors.As(errs[0], &df))
		assert.Equal(t, 1, df.Position)
		assert.Equal(t, "invalid character 'Ç'", df.Reason)
	})

	t.Run("lowercase and ambiguity codes", func(t *testing.T) {
		assert.Empty(t, run(t, alignment(`[{"taxon": "a", "sequence": "acgtn-?R"}, {"taxon": "b", "sequence": "ACGTNNYY"}]`)))
	})

	t.Run("duplicate taxon", func(t *testing.T) {
		errs := run(t, alignment(`[{"taxon": "a", "sequence": "ACGT"}, {"taxon": "a", "sequence": "ACGT"}]`))
		assert.Equal(t, []string{"DataFormatError randomVariables.alignment.observedValue[1].taxon"}, summary(t, errs))
	})

	t.Run("empty", func(t *testing.T) {
		errs := run(t, alignment(`[]`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "no sequences")
	})
}

func TestData_AminoAcids(t *testing.T) {
	src := `{
	  "randomVariables": {
	    "tree": {"distribution": {"type": "Yule", "parameters": {"birthRate": 1}}},
	    "alignment": {
	      "distribution": {"type": "PhyloCTMC", "parameters": {"tree": {"variable": "tree"}, "Q": {"variable": "Q"}, "dataType": "aminoacid"}},
	      "observedValue": [{"taxon": "a", "sequence": "MKLV"}, {"taxon": "b", "sequence": "MKEV"}]
	    }
	  },
	  "deterministicFunctions": {"Q": {"function": "JC69"}}
	}`
	assert.Empty(t, run(t, src))
}

func TestData_TreeAndVector(t *testing.T) {
	errs := run(t, `{"randomVariables": {
	  "t": {"distribution": {"type": "Yule", "parameters": {"birthRate": 1}}, "observedValue": "((a,b),c"},
	  "v": {"distribution": {"type": "Normal", "generates": "REAL_VECTOR", "parameters": {"mean": 0, "sigma": 1, "dimension": 3}}, "observedValue": [1, 2]},
	  "ok": {"distribution": {"type": "Yule", "parameters": {"birthRate": 1}}, "observedValue": "((a,b),c);"}
	}}`)
	assert.Equal(t, []string{
		"DataFormatError randomVariables.t.observedValue",
		"DataFormatError randomVariables.v.observedValue",
	}, summary(t, errs))
}

func TestConstraints(t *testing.T) {
	errs := run(t, `{
	  "randomVariables": {
	    "a": {"distribution": {"type": "Normal", "parameters": {"mean": 0, "sigma": 1}}},
	    "f": {"distribution": {"type": "Dirichlet", "parameters": {"alpha": [1, 1]}}},
	    "t": {"distribution": {"type": "Yule", "parameters": {"birthRate": 1}}}
	  },
	  "constraints": [
	    {"type": "bounded", "variable": "a", "lower": 1, "upper": 0},
	    {"type": "lessThan", "left": "a", "right": "t"},
	    {"type": "sumTo", "variables": ["f"], "target": 1},
	    {"type": "greaterThan", "left": "f", "right": 0}
	  ]
	}`)
	assert.Equal(t, []string{
		"ParameterConstraintError constraints[0].upper",
		"TypeMismatchError constraints[1].right",
		"TypeMismatchError constraints[3].left",
	}, summary(t, errs))
}

func TestRun_AccumulatesAcrossComponents(t *testing.T) {
	errs := run(t, `{"randomVariables": {
	  "a": {"distribution": {"type": "Normal", "parameters": {"mean": 0, "sigma": -1}}},
	  "b": {"distribution": {"type": "Exponential", "parameters": {"rate": 0}}},
	  "c": {"distribution": {"type": "Gamma", "parameters": {"shape": -1, "rate": {"variable": "a"}}}}
	}}`)
	assert.Equal(t, []string{
		"ParameterConstraintError randomVariables.a.distribution.parameters.sigma",
		"ParameterConstraintError randomVariables.b.distribution.parameters.rate",
		"ParameterConstraintError randomVariables.c.distribution.parameters.shape",
	}, summary(t, errs))
}
