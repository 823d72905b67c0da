// Package config defines the format-agnostic document model of a codephy
// model file, along with the Loader interface implemented by the JSON, YAML
// and HCL front ends.
//
// The `config.Document` is the single input of the graph builder. It keeps
// declaration order of the random variable and deterministic function
// collections, which drives deterministic error and cycle reporting.
package config
