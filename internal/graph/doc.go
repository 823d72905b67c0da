// Package graph holds the typed dependency graph of a model document.
//
// # Representation
//
// The graph is an arena: nodes live in a dense slice in declaration order and
// are addressed by an id -> index map. Edges are plain (from, to) id pairs
// recorded in insertion order, never pointers between nodes, so a dangling
// or cyclic reference is just data that later passes inspect.
//
// An Edge{From: "a", To: "b"} means node "b" depends on node "a".
//
// # Validation passes
//
//   - ResolveReferences reports every edge endpoint and constraint operand
//     that names no node.
//   - DetectCycles runs an iterative depth-first search with an explicit
//     stack. Roots are visited in declaration order and neighbours in edge
//     insertion order, so the reported cycle paths are reproducible.
//
// Both passes accumulate errors instead of stopping at the first one.
//
// # Queries
//
// TopologicalOrder, Components, DependenciesOf and DependentsOf are used by
// the checker and the lowering engine once the graph is known to be valid.
// A Graph is safe for concurrent reads once building has finished.
package graph
