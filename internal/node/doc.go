// Package node defines the typed, immutable representation of the entries of
// a model document: random variables, deterministic functions, their
// parameter values, observed payloads and cross-node constraints.
//
// Construction from raw decoded input is total. Every raw value maps to
// exactly one ParamValue variant or to a diag.ParseError naming the path of
// the offending value.
package node
