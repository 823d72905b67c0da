package check

import (
	"context"

	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/node"
	"golang.org/x/sync/errgroup"
)

// Options tunes a check run.
type Options struct {
	// Workers bounds the number of components checked concurrently.
	// Zero or less means one worker per component.
	Workers int
}

// Run runs every pass over g. Reference and cycle errors are expected to
// have been reported already; unresolved edges are skipped here.
func Run(ctx context.Context, g *graph.Graph, opts Options) diag.List {
	logger := ctxlog.FromContext(ctx)
	components := g.Components()
	perNode := make([]diag.List, g.Len())

	eg, _ := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for _, comp := range components {
		eg.Go(func() error {
			for _, n := range comp {
				i, _ := g.IndexOf(n.ID)
				perNode[i] = Node(g, n)
			}
			return nil
		})
	}
	// Checks never fail as a whole; violations live in perNode.
	_ = eg.Wait()

	var errs diag.List
	for _, l := range perNode {
		errs.Add(l...)
	}
	errs.Add(Constraints(g)...)

	logger.Debug("Check: Validation complete.", "components", len(components), "error_count", len(errs))
	return errs
}

// Node runs the type, parameter and data passes for one node.
func Node(g *graph.Graph, n *node.Node) diag.List {
	if !n.Type.Known() {
		return nil
	}
	var errs diag.List
	errs.Add(Types(g, n)...)
	errs.Add(Params(n)...)
	errs.Add(Data(n)...)
	return errs
}
