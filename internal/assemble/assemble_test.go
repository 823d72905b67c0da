package assemble

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/builder"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/lower"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/testutil"
)

func build(t *testing.T, src string) *graph.Graph {
	t.Helper()
	g, errs := builder.Build(context.Background(), testutil.Document(t, src))
	require.Empty(t, errs)
	return g
}

func TestPartition_PhyloModel(t *testing.T) {
	sets := Partition(build(t, testutil.PhyloModel))

	assert.Equal(t, []string{"kappaParam", "baseFreqParam", "birthRateParam", "tree"}, sets.Latent)
	assert.Equal(t, []string{"alignment"}, sets.Observed)
	assert.Equal(t, []string{"substModel"}, sets.Derived)
}

func TestPartition_NullObservationIsLatent(t *testing.T) {
	sets := Partition(build(t, `{"randomVariables": {
	  "a": {"distribution": {"type": "Normal", "parameters": {"mean": 0, "sigma": 1}}, "observedValue": null},
	  "b": {"distribution": {"type": "Normal", "parameters": {"mean": 0, "sigma": 1}}, "observedValue": 0.5}
	}}`))

	assert.Equal(t, []string{"a"}, sets.Latent)
	assert.Equal(t, []string{"b"}, sets.Observed)
	assert.Empty(t, sets.Derived)
}

func TestAssemble_PhyloModel(t *testing.T) {
	g := build(t, testutil.PhyloModel)
	mem := lower.NewMemoryAdapter()
	table, err := lower.Lower(context.Background(), g, mem, lower.Options{})
	require.NoError(t, err)

	m, err := Assemble(g, table)
	require.NoError(t, err)

	var priorIDs []string
	for _, term := range m.Prior.Terms {
		priorIDs = append(priorIDs, term.ID)
	}
	assert.Equal(t, []string{"kappaParam", "baseFreqParam", "birthRateParam", "tree", "constraint[0]"}, priorIDs)

	constraint := m.Prior.Terms[4]
	assert.Equal(t, ConstraintTerm, constraint.Kind)
	assert.Equal(t, "lessThan", constraint.Type)
	assert.Equal(t, []string{"birthRateParam"}, constraint.Dependencies)
	assert.Nil(t, constraint.Object)

	require.Len(t, m.Likelihood.Terms, 1)
	lik := m.Likelihood.Terms[0]
	assert.Equal(t, "alignment", lik.ID)
	assert.Equal(t, "PhyloCTMC", lik.Type)
	assert.Equal(t, []string{"substModel", "tree"}, lik.Dependencies)
	require.IsType(t, []node.TaxonSequence{}, lik.Observed)
	assert.Len(t, lik.Observed, 4)

	obj, ok := mem.Object("alignment")
	require.True(t, ok)
	assert.Same(t, obj, lik.Object)

	assert.Equal(t, PosteriorID, m.Posterior.ID)
	assert.Equal(t, []*Compound{m.Prior, m.Likelihood}, m.Posterior.Children)
	assert.Len(t, m.Posterior.Flatten(), 6)
	assert.Equal(t, []string{"kappaParam", "baseFreqParam", "birthRateParam", "tree"}, m.State)
	assert.Equal(t, ZeroDensity, m.Policy)
}

func TestAssemble_Structural(t *testing.T) {
	m, err := Assemble(build(t, testutil.ExpressionModel), nil)
	require.NoError(t, err)

	assert.Len(t, m.Prior.Terms, 2)
	assert.Empty(t, m.Likelihood.Terms)
	for _, term := range m.Prior.Terms {
		assert.Nil(t, term.Object)
	}
}

func TestAssemble_RequiresConnectedSlots(t *testing.T) {
	g := build(t, testutil.PhyloModel)
	_, err := Assemble(g, lower.NewTable(g))
	assert.ErrorContains(t, err, "not connected")
}

type customPolicy struct{}

func (customPolicy) ConstraintPolicy() ConstraintPolicy { return RejectProposal }

func TestPolicyOf(t *testing.T) {
	assert.Equal(t, RejectProposal, PolicyOf(customPolicy{}))
	assert.Equal(t, DefaultPolicy, PolicyOf(lower.NewMemoryAdapter()))
	assert.Equal(t, DefaultPolicy, PolicyOf(nil))
}
