package node

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/registry"
)

var base = address.Root("randomVariables").Attr("x").Attr("distribution").Attr("parameters")

func TestFromRaw(t *testing.T) {
	testCases := []struct {
		name string
		raw  any
		want ParamValue
	}{
		{"float", 1.5, Literal{Value: 1.5}},
		{"yaml int", 3, Literal{Value: 3.0}},
		{"json number", json.Number("2"), Literal{Value: 2.0}},
		{"string", "nucleotide", Literal{Value: "nucleotide"}},
		{"bool", true, Literal{Value: true}},
		{"reference", map[string]any{"variable": "kappa"}, VariableRef{ID: "kappa"}},
		{"expression", map[string]any{"expression": "2 * rate"}, Expression{Source: "2 * rate"}},
		{
			"nested array",
			[]any{1.0, map[string]any{"variable": "a"}, []any{2.0}},
			Array{Items: []ParamValue{Literal{Value: 1.0}, VariableRef{ID: "a"}, Array{Items: []ParamValue{Literal{Value: 2.0}}}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromRaw(base, tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromRaw_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		raw      any
		wantPath string
	}{
		{"null", nil, "randomVariables.x.distribution.parameters"},
		{"plain object", map[string]any{"value": 1.0}, "randomVariables.x.distribution.parameters"},
		{"empty reference", map[string]any{"variable": ""}, "randomVariables.x.distribution.parameters.variable"},
		{"non-string expression", map[string]any{"expression": 3.0}, "randomVariables.x.distribution.parameters.expression"},
		{"reference with extra key", map[string]any{"variable": "x", "scale": 2.0}, "randomVariables.x.distribution.parameters"},
		{"expression with extra key", map[string]any{"expression": "2 * x", "units": "s"}, "randomVariables.x.distribution.parameters"},
		{"bad element", []any{1.0, nil}, "randomVariables.x.distribution.parameters[1]"},
		{"unsupported type", struct{}{}, "randomVariables.x.distribution.parameters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromRaw(base, tc.raw)
			require.Error(t, err)
			var perr *diag.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.wantPath, perr.Path.String())
		})
	}
}

func TestReferences(t *testing.T) {
	v, err := FromRaw(base, []any{map[string]any{"variable": "a"}, 1.0, []any{map[string]any{"variable": "b"}}})
	require.NoError(t, err)

	refs := References(base, v)
	require.Len(t, refs, 2)
	assert.Equal(t, "a", refs[0].ID)
	assert.Equal(t, "randomVariables.x.distribution.parameters[0]", refs[0].Path.String())
	assert.Equal(t, "b", refs[1].ID)
	assert.Equal(t, "randomVariables.x.distribution.parameters[2][0]", refs[1].Path.String())
}

func TestNew_SortsParams(t *testing.T) {
	n := New("x", RandomVariable, registry.Normal, "Normal", registry.Real, []Param{
		{Name: "sigma", Value: Literal{Value: 1.0}},
		{Name: "mean", Value: Literal{Value: 0.0}},
	}, address.Root("randomVariables").Attr("x"), 0)

	require.Len(t, n.Params, 2)
	assert.Equal(t, "mean", n.Params[0].Name)
	p, ok := n.Param("sigma")
	require.True(t, ok)
	assert.Equal(t, Literal{Value: 1.0}, p.Value)
	_, ok = n.Param("rate")
	assert.False(t, ok)
	assert.Equal(t, map[string]float64{"mean": 0, "sigma": 1}, n.ScalarLiterals())
	assert.False(t, n.IsObserved())
}

func TestFromRaw_ExtraKeysAreNamed(t *testing.T) {
	_, err := FromRaw(base, map[string]any{"variable": "x", "scale": 2.0, "offset": 1.0})
	require.ErrorContains(t, err, "unexpected keys [offset scale]")
}

func TestScalarLiterals_IncludesDeclaredNames(t *testing.T) {
	n := New("x", RandomVariable, registry.Normal, "Normal", registry.Real, []Param{
		{Name: "sigma", Declared: "sd", Value: Literal{Value: 1.0}},
		{Name: "mean", Declared: "mean", Value: Expression{Source: "sd * 2"}},
	}, address.Root("randomVariables").Attr("x"), 0)

	assert.Equal(t, map[string]float64{"sigma": 1, "sd": 1}, n.ScalarLiterals())
}

func TestParseObserved(t *testing.T) {
	path := address.Root("randomVariables").Attr("alignment").Attr("observedValue")

	t.Run("absent", func(t *testing.T) {
		obs, err := ParseObserved(path, registry.Alignment, nil)
		require.NoError(t, err)
		assert.Nil(t, obs)
	})

	t.Run("alignment list", func(t *testing.T) {
		obs, err := ParseObserved(path, registry.Alignment, []any{
			map[string]any{"taxon": "human", "sequence": "ACGT"},
			map[string]any{"taxon": "chimp", "sequence": "ACGA"},
		})
		require.NoError(t, err)
		require.IsType(t, ObservedAlignment{}, obs)
		assert.Len(t, obs.(ObservedAlignment).Sequences, 2)
	})

	t.Run("alignment object", func(t *testing.T) {
		obs, err := ParseObserved(path, registry.Alignment, map[string]any{
			"sequences": []any{map[string]any{"taxon": "human", "sequence": "ACGT"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "human", obs.(ObservedAlignment).Sequences[0].Taxon)
	})

	t.Run("alignment bad entry", func(t *testing.T) {
		_, err := ParseObserved(path, registry.Alignment, []any{map[string]any{"sequence": "ACGT"}})
		var derr *diag.DataFormatError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "randomVariables.alignment.observedValue[0].taxon", derr.Path.String())
	})

	t.Run("vector", func(t *testing.T) {
		obs, err := ParseObserved(path, registry.RealVector, []any{0.1, 2})
		require.NoError(t, err)
		assert.Equal(t, ObservedVector{Values: []float64{0.1, 2}}, obs)
	})

	t.Run("real mismatch", func(t *testing.T) {
		_, err := ParseObserved(path, registry.Real, "abc")
		var derr *diag.DataFormatError
		require.True(t, errors.As(err, &derr))
	})

	t.Run("tree", func(t *testing.T) {
		obs, err := ParseObserved(path, registry.Tree, "(A,B);")
		require.NoError(t, err)
		assert.Equal(t, ObservedTree{Newick: "(A,B);"}, obs)
	})
}

func TestParseConstraint(t *testing.T) {
	path := address.Root("constraints").Index(0)

	c, err := ParseConstraint(path, map[string]any{"type": "lessThan", "left": "a", "right": 5.0})
	require.NoError(t, err)
	assert.Equal(t, LessThan, c.Kind)
	require.Len(t, c.Operands, 2)
	assert.Equal(t, "a", c.Operands[0].Ref)
	assert.Equal(t, 5.0, c.Operands[1].Value)
	assert.Len(t, c.Refs(), 1)

	c, err = ParseConstraint(path, map[string]any{"type": "sumTo", "variables": []any{"a", "b"}, "target": 1.0})
	require.NoError(t, err)
	assert.Equal(t, SumTo, c.Kind)
	assert.Len(t, c.Operands, 3)

	_, err = ParseConstraint(path, map[string]any{"type": "bounded", "variable": "a", "lower": 0.0})
	var perr *diag.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "constraints[0].upper", perr.Path.String())

	_, err = ParseConstraint(path, map[string]any{"type": "between"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown constraint type "between"`)
}
