// Package expression parses and evaluates the closed arithmetic grammar used
// in parameter values:
//
//	+ - * / ^ (and ** as a synonym for ^), unary + and -, parentheses,
//	number literals, identifiers, and calls to log, exp, sqrt, abs, min, max.
//
// Source text is parsed with the expr-lang parser and the resulting tree is
// checked against the grammar before it is accepted. Evaluation walks the
// tree directly: it reads only the supplied environment, performs no I/O and
// reports domain errors instead of producing NaN or Inf.
package expression
