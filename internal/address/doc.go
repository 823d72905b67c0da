/*
Package address provides a structured, type-safe representation for locations
inside a model document, used by every diagnostic to point at the offending
entry.

The canonical format is a dot-separated sequence of names with bracketed
indices, e.g. `randomVariables.baseFreqParam.distribution.parameters.alpha[1]`.
Names that are not plain identifiers are written in quoted brackets:
`randomVariables["rate.1"]`.

This package centralizes all formatting and parsing logic so that paths
printed by the CLI, returned by the HTTP service and asserted in tests agree.
*/
package address
