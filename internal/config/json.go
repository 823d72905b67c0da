package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/codephy/internal/ctxlog"
)

// JSONLoader reads JSON model files.
type JSONLoader struct{}

// Load implements Loader.
func (l JSONLoader) Load(ctx context.Context, path string) (*Document, *Source, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse implements Loader.
func (JSONLoader) Parse(ctx context.Context, name string, src []byte) (*Document, *Source, error) {
	var doc Document
	if err := json.Unmarshal(src, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON document %s: %w", name, err)
	}
	ctxlog.FromContext(ctx).Debug("JSON document decoded.", "file", name,
		"random_variables", len(doc.RandomVariables), "functions", len(doc.DeterministicFunctions))
	return &doc, &Source{Filename: name, Format: JSON, Bytes: src}, nil
}
