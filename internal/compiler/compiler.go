// Package compiler runs the full pipeline: build, resolve, cycle detection,
// checking, lowering and assembly. Every call works on fresh state.
package compiler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vk/codephy/internal/assemble"
	"github.com/vk/codephy/internal/builder"
	"github.com/vk/codephy/internal/check"
	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/lower"
	"github.com/vk/codephy/internal/metrics"
)

// AdapterFactory returns the adapter for one compilation.
type AdapterFactory func(ctx context.Context) (lower.Adapter, error)

// Options configures a Compiler.
type Options struct {
	// Workers bounds concurrency of checking and lowering.
	Workers int
	// Adapter creates the lowering adapter; nil means a MemoryAdapter.
	Adapter AdapterFactory
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Compiler is safe for concurrent use; it holds configuration only.
type Compiler struct {
	opts Options
}

// New returns a compiler.
func New(opts Options) *Compiler {
	if opts.Adapter == nil {
		opts.Adapter = func(context.Context) (lower.Adapter, error) {
			return lower.NewMemoryAdapter(), nil
		}
	}
	return &Compiler{opts: opts}
}

// Result is the output of one compilation.
type Result struct {
	ID        string
	Graph     *graph.Graph
	Partition assemble.Sets
	Table     *lower.Table
	Model     *assemble.Model
	Adapter   lower.Adapter
}

// Validate builds and checks doc. The graph is returned even when errs is
// non-empty so callers can inspect what was parsed.
func (c *Compiler) Validate(ctx context.Context, doc *config.Document) (*graph.Graph, diag.List) {
	ctx = ctxlog.With(ctx, "compilation", newID())
	g, errs := c.validate(ctx, doc)
	c.opts.Metrics.RecordCompilation("validate", len(errs) == 0)
	return g, errs
}

func (c *Compiler) validate(ctx context.Context, doc *config.Document) (*graph.Graph, diag.List) {
	logger := ctxlog.FromContext(ctx)
	m := c.opts.Metrics

	start := time.Now()
	g, errs := builder.Build(ctx, doc)
	m.ObserveStage(metrics.StageBuild, start)

	start = time.Now()
	errs.Add(g.ResolveReferences()...)
	m.ObserveStage(metrics.StageResolve, start)

	start = time.Now()
	errs.Add(g.DetectCycles()...)
	m.ObserveStage(metrics.StageCycles, start)

	start = time.Now()
	errs.Add(check.Run(ctx, g, check.Options{Workers: c.opts.Workers})...)
	m.ObserveStage(metrics.StageCheck, start)

	for _, err := range errs {
		m.RecordDiagnostic(string(diag.KindOf(err)))
	}
	if len(errs) > 0 {
		logger.Info("Model validation failed.", "error_count", len(errs))
	} else {
		logger.Debug("Model validation passed.", "node_count", g.Len())
	}
	return g, errs
}

// Compile validates doc and, when valid, lowers and assembles it. A
// validation failure is returned as a diag.List; a lowering failure as a
// *diag.LoweringError.
func (c *Compiler) Compile(ctx context.Context, doc *config.Document) (*Result, error) {
	id := newID()
	ctx = ctxlog.With(ctx, "compilation", id)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compile: Starting compilation.")

	res, err := c.compile(ctx, id, doc)
	c.opts.Metrics.RecordCompilation("compile", err == nil)
	if err != nil {
		logger.Debug("Compile: Compilation failed.", "error", err)
		return res, err
	}
	logger.Info("Compilation finished.", "nodes", res.Graph.Len(), "latent", len(res.Partition.Latent), "observed", len(res.Partition.Observed))
	return res, nil
}

func (c *Compiler) compile(ctx context.Context, id string, doc *config.Document) (*Result, error) {
	m := c.opts.Metrics

	g, errs := c.validate(ctx, doc)
	res := &Result{ID: id, Graph: g}
	if err := errs.Err(); err != nil {
		return res, err
	}

	adapter, err := c.opts.Adapter(ctx)
	if err != nil {
		return res, err
	}
	res.Adapter = adapter

	start := time.Now()
	table, err := lower.Lower(ctx, g, adapter, lower.Options{Workers: c.opts.Workers})
	m.ObserveStage(metrics.StageLower, start)
	res.Table = table
	if err != nil {
		var le *diag.LoweringError
		if errors.As(err, &le) {
			m.RecordDiagnostic(string(le.Kind()))
		}
		return res, err
	}
	m.RecordLowered(table.Len())

	start = time.Now()
	res.Partition = assemble.Partition(g)
	model, err := assemble.Assemble(g, table)
	m.ObserveStage(metrics.StageAssemble, start)
	if err != nil {
		return res, err
	}
	model.Policy = assemble.PolicyOf(adapter)
	res.Model = model
	return res, nil
}

func newID() string {
	return uuid.NewString()
}
