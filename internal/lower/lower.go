package lower

import (
	"context"
	"fmt"
	"maps"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/expression"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
)

// Options controls how the passes visit nodes.
type Options struct {
	// Workers bounds concurrent adapter calls in parallel mode. Zero or less
	// means unbounded.
	Workers int
	// Order, when set, runs both passes sequentially in this order. It must
	// name every node exactly once.
	Order []string
}

// Lower runs the create and connect passes over g. The graph must already
// be validated. The first failure aborts the run and is returned as a
// *diag.LoweringError; the table is returned in every case so callers can
// inspect slot states.
func Lower(ctx context.Context, g *graph.Graph, a Adapter, opts Options) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	t := NewTable(g)

	nodes, err := visitOrder(g, opts.Order)
	if err != nil {
		return t, err
	}

	logger.Debug("Lower: Starting create pass.", "node_count", len(nodes), "sequential", opts.Order != nil)
	if err := each(ctx, nodes, opts, func(ctx context.Context, n *node.Node) error {
		return t.create(ctx, a, n)
	}); err != nil {
		return t, err
	}

	// Every create has returned; handles are now safe to read.
	if err := t.settled(); err != nil {
		return t, err
	}
	shared, err := expressionValues(g)
	if err != nil {
		return t, err
	}

	logger.Debug("Lower: Starting connect pass.")
	if err := each(ctx, nodes, opts, func(ctx context.Context, n *node.Node) error {
		return t.connect(ctx, a, g, n, shared)
	}); err != nil {
		return t, err
	}

	logger.Debug("Lower: Lowering complete.", "node_count", t.Len())
	return t, nil
}

func visitOrder(g *graph.Graph, order []string) ([]*node.Node, error) {
	if order == nil {
		return g.Nodes(), nil
	}
	if len(order) != g.Len() {
		return nil, fmt.Errorf("visit order names %d nodes, graph has %d", len(order), g.Len())
	}
	seen := make(map[string]bool, len(order))
	nodes := make([]*node.Node, 0, len(order))
	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("visit order names unknown node %q", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("visit order names node %q twice", id)
		}
		seen[id] = true
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// each applies fn to every node, sequentially when an order is given and
// through a bounded errgroup otherwise.
func each(ctx context.Context, nodes []*node.Node, opts Options, fn func(context.Context, *node.Node) error) error {
	if opts.Order != nil {
		for _, n := range nodes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, n); err != nil {
				return err
			}
		}
		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for _, n := range nodes {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return fn(egCtx, n)
		})
	}
	return eg.Wait()
}

func (t *Table) failNode(s *Slot, n *node.Node, path address.Address, pass string, err error) error {
	le := &diag.LoweringError{Path: path, NodeID: n.ID, Pass: pass, Err: err}
	s.fail(le)
	return le
}

func (t *Table) create(ctx context.Context, a Adapter, n *node.Node) error {
	s, _ := t.Slot(n.ID)
	ctxlog.FromContext(ctx).Debug("Creating node.", "nodeID", n.ID, "type", n.TypeName)

	initial, _ := initialValue(n)
	req := CreateRequest{
		ID:        n.ID,
		Kind:      n.Kind,
		Type:      n.Type,
		Generates: n.Generates,
		Shape:     shape(n),
		Dimension: dimension(n),
		Value:     initial,
		Observed:  observedValue(n.Observed),
	}
	h, err := a.Create(ctx, req)
	if err != nil {
		return t.failNode(s, n, n.Path, "create", err)
	}

	s.handle = h
	s.initial = initial
	if err := s.transition(Parsed, Created); err != nil {
		return t.failNode(s, n, n.Path, "create", err)
	}
	return nil
}

func (t *Table) connect(ctx context.Context, a Adapter, g *graph.Graph, n *node.Node, shared map[string]float64) error {
	s, _ := t.Slot(n.ID)
	ctxlog.FromContext(ctx).Debug("Connecting node.", "nodeID", n.ID)

	env := make(map[string]float64, len(shared)+len(n.Params))
	maps.Copy(env, shared)
	maps.Copy(env, n.ScalarLiterals())
	r := &resolver{table: t, graph: g, env: env}

	params := make(map[string]cty.Value, len(n.Params))
	for _, p := range n.Params {
		v, err := r.resolve(p.Path, p.Value)
		if err != nil {
			return t.failNode(s, n, p.Path, "connect", err)
		}
		params[p.Name] = v
	}

	if err := a.Connect(ctx, ConnectRequest{ID: n.ID, Handle: s.handle, Params: params}); err != nil {
		return t.failNode(s, n, n.Path, "connect", err)
	}
	if err := s.transition(Created, Connected); err != nil {
		return t.failNode(s, n, n.Path, "connect", err)
	}
	return nil
}

func (r *resolver) evaluate(path address.Address, x node.Expression) (cty.Value, error) {
	e, err := expression.Parse(x.Source)
	if err != nil {
		return none, &diag.ExpressionEvaluationError{Path: path, Expression: x.Source, Reason: err.Error()}
	}
	for _, id := range e.Identifiers() {
		if _, known := r.env[id]; known {
			continue
		}
		if _, declared := r.graph.Node(id); declared {
			return none, &diag.ExpressionEvaluationError{
				Path:       path,
				Expression: x.Source,
				Reason:     fmt.Sprintf("no numeric value can be derived for %q", id),
			}
		}
	}
	f, err := e.EvalAt(path, r.env)
	if err != nil {
		return none, err
	}
	return cty.NumberFloatVal(f), nil
}
