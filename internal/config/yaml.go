package config

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/codephy/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads YAML model files.
type YAMLLoader struct{}

// Load implements Loader.
func (l YAMLLoader) Load(ctx context.Context, path string) (*Document, *Source, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse implements Loader.
func (YAMLLoader) Parse(ctx context.Context, name string, src []byte) (*Document, *Source, error) {
	var doc Document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML document %s: %w", name, err)
	}
	ctxlog.FromContext(ctx).Debug("YAML document decoded.", "file", name,
		"random_variables", len(doc.RandomVariables), "functions", len(doc.DeterministicFunctions))
	return &doc, &Source{Filename: name, Format: YAML, Bytes: src}, nil
}
