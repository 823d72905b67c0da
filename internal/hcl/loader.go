package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and decodes the HCL file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, *config.Source, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse decodes an in-memory HCL document.
func (l *Loader) Parse(ctx context.Context, name string, src []byte) (*config.Document, *config.Source, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file", name)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	source := &config.Source{Filename: name, Format: config.HCL, Bytes: src, File: file}
	if diags.HasErrors() {
		return nil, source, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, source, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}

	doc, diags := l.translate(ctx, &root)
	if diags.HasErrors() {
		return nil, source, fmt.Errorf("failed to evaluate HCL file %s: %w", name, diags)
	}
	source.Ranges = collectRanges(file)

	logger.Debug("HCL loading complete.", "random_variables", len(doc.RandomVariables),
		"functions", len(doc.DeterministicFunctions), "constraints", len(doc.Constraints))
	return doc, source, nil
}

// translate converts the decoded blocks into the format-agnostic document.
func (l *Loader) translate(ctx context.Context, root *fileRoot) (*config.Document, hcl.Diagnostics) {
	var all hcl.Diagnostics
	eval := func(expr hcl.Expression, attr string) any {
		raw, diags := evalRaw(ctx, expr, attr)
		all = append(all, diags...)
		return raw
	}
	text := func(expr hcl.Expression, attr string) string {
		s, _ := eval(expr, attr).(string)
		return s
	}

	doc := &config.Document{
		Model:          text(root.Model, "model"),
		CodephyVersion: text(root.CodephyVersion, "codephy_version"),
		Metadata:       eval(root.Metadata, "metadata"),
		Provenance:     eval(root.Provenance, "provenance"),
	}

	for _, rv := range root.RandomVariables {
		entry := map[string]any{}
		if rv.Distribution != nil {
			dist := map[string]any{"type": rv.Distribution.Type}
			setIfPresent(dist, "generates", eval(rv.Distribution.Generates, "generates"))
			setIfPresent(dist, "parameters", eval(rv.Distribution.Parameters, "parameters"))
			entry["distribution"] = dist
		}
		setIfPresent(entry, "observedValue", eval(rv.ObservedValue, "observed_value"))
		doc.RandomVariables = append(doc.RandomVariables, config.Entry{Name: rv.Name, Raw: entry})
	}

	for _, fn := range root.Functions {
		entry := map[string]any{"function": fn.Function}
		setIfPresent(entry, "generates", eval(fn.Generates, "generates"))
		setIfPresent(entry, "arguments", eval(fn.Arguments, "arguments"))
		doc.DeterministicFunctions = append(doc.DeterministicFunctions, config.Entry{Name: fn.Name, Raw: entry})
	}

	for _, c := range root.Constraints {
		entry := map[string]any{"type": c.Type}
		for _, f := range c.fields() {
			setIfPresent(entry, f.name, eval(f.expr, f.name))
		}
		doc.Constraints = append(doc.Constraints, entry)
	}

	return doc, all
}

func setIfPresent(m map[string]any, key string, value any) {
	if value != nil {
		m[key] = value
	}
}
