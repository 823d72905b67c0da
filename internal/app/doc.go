// Package app wires configuration, logging, metrics and the compiler into
// the operations exposed by the command line: validate, compile, partition,
// serve, watch and emit.
package app
