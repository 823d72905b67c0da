// Package cli defines the codephy command tree. It maps flags and an
// optional configuration file onto app.Config and turns failures into
// process exit codes.
package cli
