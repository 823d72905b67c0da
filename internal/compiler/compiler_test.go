package compiler

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/assemble"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/lower"
	"github.com/vk/codephy/internal/metrics"
	internaltestutil "github.com/vk/codephy/internal/testutil"
	"golang.org/x/sync/errgroup"
)

func TestCompile_PhyloModel(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := New(Options{Workers: 2, Metrics: m})

	res, err := c.Compile(context.Background(), internaltestutil.Document(t, internaltestutil.PhyloModel))
	require.NoError(t, err)

	assert.Len(t, res.ID, 36)
	assert.Equal(t, []string{"kappaParam", "baseFreqParam", "birthRateParam", "tree"}, res.Partition.Latent)
	assert.Equal(t, []string{"alignment"}, res.Partition.Observed)
	assert.Equal(t, assemble.ZeroDensity, res.Model.Policy)
	assert.Equal(t, 6, res.Table.Len())

	summary := res.Summary("hky-yule")
	assert.Equal(t, 6, summary.Nodes)
	assert.Len(t, summary.Objects, 6)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompilationsTotal.WithLabelValues("compile", "success")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.NodesLowered))
}

func TestCompile_ValidationFailure(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := New(Options{Metrics: m})

	doc := internaltestutil.Document(t, `{"randomVariables": {
	  "a": {"distribution": {"type": "Normal", "parameters": {"mean": {"variable": "b"}, "sigma": 1}}},
	  "b": {"distribution": {"type": "Normal", "parameters": {"mean": {"variable": "a"}, "sigma": {"variable": "ghost"}}}}
	}}`)
	res, err := c.Compile(context.Background(), doc)
	require.Error(t, err)
	require.NotNil(t, res.Graph)
	assert.Nil(t, res.Table)

	var list diag.List
	require.True(t, errors.As(err, &list))
	byKind := list.ByKind()
	assert.Len(t, byKind[diag.KindUnresolvedReference], 1)
	assert.Len(t, byKind[diag.KindCycle], 1)

	var unresolved *diag.UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "ghost", unresolved.Missing)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompilationsTotal.WithLabelValues("compile", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiagnosticsTotal.WithLabelValues(string(diag.KindCycle))))
}

func TestValidate(t *testing.T) {
	c := New(Options{})

	g, errs := c.Validate(context.Background(), internaltestutil.Document(t, internaltestutil.ExpressionModel))
	assert.Empty(t, errs)
	assert.Equal(t, 3, g.Len())

	_, errs = c.Validate(context.Background(), internaltestutil.Document(t, `{"randomVariables": {
	  "x": {"distribution": {"type": "Cauchy", "parameters": {}}}
	}}`))
	require.Len(t, errs, 1)
	assert.Equal(t, diag.KindUnsupportedType, diag.KindOf(errs[0]))
}

func TestCompile_AdapterFactoryError(t *testing.T) {
	c := New(Options{Adapter: func(context.Context) (lower.Adapter, error) {
		return nil, errors.New("engine unavailable")
	}})
	_, err := c.Compile(context.Background(), internaltestutil.Document(t, internaltestutil.PhyloModel))
	assert.EqualError(t, err, "engine unavailable")
}

type policyAdapter struct {
	*lower.MemoryAdapter
}

func (policyAdapter) ConstraintPolicy() assemble.ConstraintPolicy { return assemble.RejectProposal }

func TestCompile_AdapterDefinesConstraintPolicy(t *testing.T) {
	c := New(Options{Adapter: func(context.Context) (lower.Adapter, error) {
		return policyAdapter{lower.NewMemoryAdapter()}, nil
	}})
	res, err := c.Compile(context.Background(), internaltestutil.Document(t, internaltestutil.PhyloModel))
	require.NoError(t, err)
	assert.Equal(t, assemble.RejectProposal, res.Model.Policy)
	assert.Nil(t, res.Summary("").Objects)
}

func TestCompile_ConcurrentCompilationsAreIsolated(t *testing.T) {
	c := New(Options{Workers: 2})
	doc := internaltestutil.Document(t, internaltestutil.PhyloModel)

	results := make([]*Result, 8)
	var eg errgroup.Group
	for i := range results {
		eg.Go(func() error {
			res, err := c.Compile(context.Background(), doc)
			results[i] = res
			return err
		})
	}
	require.NoError(t, eg.Wait())

	seen := make(map[string]bool)
	want := results[0].Adapter.(*lower.MemoryAdapter).Snapshot()
	for i, res := range results {
		assert.False(t, seen[res.ID], "duplicate compilation id")
		seen[res.ID] = true
		for _, other := range results[i+1:] {
			assert.NotSame(t, res.Table, other.Table)
		}
		assert.Equal(t, want, res.Adapter.(*lower.MemoryAdapter).Snapshot())
	}
}

func TestCompile_ExpressionsNamingDerivedNodes(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		target string
		want   float64
	}{
		{
			name: "referenced mean",
			src: `{"randomVariables": {
			  "mu": {"distribution": {"type": "Normal", "parameters": {"mean": 0, "sigma": 1}}},
			  "x": {"distribution": {"type": "Normal", "parameters": {"mean": {"variable": "mu"}, "sigma": 1}}},
			  "y": {"distribution": {"type": "Normal", "parameters": {"mean": {"expression": "2 * x"}, "sigma": 1}}}
			}}`,
			target: "y",
			want:   0,
		},
		{
			name: "vector element",
			src: `{
			  "randomVariables": {
			    "v": {"distribution": {"type": "Dirichlet", "parameters": {"alpha": [1, 1, 2]}}},
			    "y": {"distribution": {"type": "Normal", "parameters": {"mean": {"expression": "log(e0)"}, "sigma": 1}}}
			  },
			  "deterministicFunctions": {
			    "e0": {"function": "vectorElement", "arguments": {"vector": {"variable": "v"}, "index": 2}}
			  }
			}`,
			target: "y",
			want:   math.Log(0.5),
		},
		{
			name: "declared alias",
			src: `{"randomVariables": {
			  "x": {"distribution": {"type": "Normal", "parameters": {"sd": 1, "mean": {"expression": "sd * 2"}}}}
			}}`,
			target: "x",
			want:   2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(Options{})
			doc := internaltestutil.Document(t, tc.src)

			_, errs := c.Validate(context.Background(), doc)
			require.Empty(t, errs)

			res, err := c.Compile(context.Background(), doc)
			require.NoError(t, err)
			obj, ok := res.Adapter.(*lower.MemoryAdapter).Object(tc.target)
			require.True(t, ok)
			mean, err := obj.Float("mean")
			require.NoError(t, err)
			assert.InDelta(t, tc.want, mean, 1e-12)
		})
	}
}
