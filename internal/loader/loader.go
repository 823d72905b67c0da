// Package loader selects the document loader for a file or format.
package loader

import (
	"context"
	"fmt"

	"github.com/vk/codephy/internal/config"
	hclloader "github.com/vk/codephy/internal/hcl"
)

// For returns the loader of a format.
func For(format config.Format) (config.Loader, error) {
	switch format {
	case config.JSON:
		return config.JSONLoader{}, nil
	case config.YAML:
		return config.YAMLLoader{}, nil
	case config.HCL:
		return hclloader.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// ForPath returns the loader matching the file extension of path.
func ForPath(path string) (config.Loader, error) {
	format, ok := config.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("cannot infer document format of %s: expected .json, .yaml, .yml or .hcl", path)
	}
	return For(format)
}

// Load reads the model file at path with the loader matching its extension.
func Load(ctx context.Context, path string) (*config.Document, *config.Source, error) {
	l, err := ForPath(path)
	if err != nil {
		return nil, nil, err
	}
	return l.Load(ctx, path)
}

// Parse decodes an in-memory document of the given format.
func Parse(ctx context.Context, format config.Format, name string, src []byte) (*config.Document, *config.Source, error) {
	l, err := For(format)
	if err != nil {
		return nil, nil, err
	}
	return l.Parse(ctx, name, src)
}
