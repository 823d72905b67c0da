package builder

import (
	"context"

	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/graph"
)

// Build constructs the dependency graph of doc. The graph is always
// returned; errs lists every construction problem found.
func Build(ctx context.Context, doc *config.Document) (*graph.Graph, diag.List) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	b := &builder{g: graph.New(), taken: make(map[string]bool)}

	b.createNodes(ctx, doc)
	logger.Debug("Build: Node creation complete.", "node_count", b.g.Len())

	b.linkReferences(ctx)
	b.linkExpressions(ctx)
	logger.Debug("Build: Node linking complete.", "edge_count", len(b.g.Edges()))

	b.addConstraints(doc)
	logger.Debug("Build: Constraint parsing complete.", "constraint_count", len(b.g.Constraints()))

	if len(b.errs) > 0 {
		logger.Debug("Build: Graph construction finished with errors.", "error_count", len(b.errs))
	}
	return b.g, b.errs
}

type builder struct {
	g     *graph.Graph
	taken map[string]bool
	errs  diag.List
	order int
}
