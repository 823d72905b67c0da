// Package diag defines the error taxonomy produced while compiling a model
// document, and the List type used to accumulate validation errors so a
// caller sees every problem of an input in one pass.
//
// Every error carries the address of the offending entry. A List can be
// grouped by kind, flattened into JSON-friendly entries, or converted to
// hcl.Diagnostics for rendering with source snippets.
package diag
