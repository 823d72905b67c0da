package config

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/codephy/internal/address"
)

// Format is the text format of a model file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	case ".hcl":
		return HCL, true
	}
	return "", false
}

// ParseFormat validates a format name such as a query parameter value.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, HCL:
		return f, true
	case "yml":
		return YAML, true
	}
	return "", false
}

// Loader is the interface for a format-specific document loader.
type Loader interface {
	// Load reads and decodes the file at path.
	Load(ctx context.Context, path string) (*Document, *Source, error)
	// Parse decodes an in-memory document. name is used in messages only.
	Parse(ctx context.Context, name string, src []byte) (*Document, *Source, error)
}

// Source describes where a document came from, for diagnostic rendering.
type Source struct {
	Filename string
	Format   Format
	Bytes    []byte
	// File and Ranges are populated by the HCL loader only. Ranges maps
	// canonical address strings to the range of the value at that address.
	File   *hcl.File
	Ranges map[string]hcl.Range
}

// RangeOf returns the source range of the closest known enclosing address.
func (s *Source) RangeOf(addr address.Address) *hcl.Range {
	if s == nil || len(s.Ranges) == 0 {
		return nil
	}
	for n := len(addr.Path); n > 0; n-- {
		key := address.Address{Path: addr.Path[:n]}.String()
		if rng, ok := s.Ranges[key]; ok {
			return &rng
		}
	}
	return nil
}

// Files returns the HCL file map used by the diagnostic printer.
func (s *Source) Files() map[string]*hcl.File {
	if s == nil || s.File == nil {
		return nil
	}
	return map[string]*hcl.File{s.Filename: s.File}
}
