// Package registry is the static table of every distribution and function a
// model document may use.
//
// Each supported name is a variant of the Tag sum type and owns a Descriptor
// listing its output types and a typed record of its parameters: which
// generates types a referenced node may have, the literal shape, and the
// constraint rules a literal must satisfy. The builder resolves names through
// this package once, so later stages switch over Tag values instead of
// comparing strings.
package registry
