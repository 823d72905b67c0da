package config

// Document is the unified, format-agnostic representation of a model file.
type Document struct {
	Model                  string  `json:"model,omitempty" yaml:"model,omitempty"`
	CodephyVersion         string  `json:"codephyVersion,omitempty" yaml:"codephyVersion,omitempty"`
	RandomVariables        Entries `json:"randomVariables" yaml:"randomVariables"`
	DeterministicFunctions Entries `json:"deterministicFunctions" yaml:"deterministicFunctions"`
	Constraints            []any   `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	// Metadata and Provenance are carried through untouched.
	Metadata   any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Provenance any `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// Entry is one named member of a collection. Raw is the decoded value:
// nested objects are map[string]any and lists are []any.
type Entry struct {
	Name string
	Raw  any
}

// Entries is a name-keyed collection in declaration order. Repeated keys
// are preserved so the builder can report them.
type Entries []Entry
