// Package check validates a built graph: generates-type compatibility of
// every dependency edge, literal parameter constraints, observed data and
// cross-node constraints.
//
// All violations are accumulated. Nodes of disjoint components are checked
// in parallel since nothing is mutated during validation; the merged result
// is always in declaration order.
package check
