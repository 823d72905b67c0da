package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vk/codephy/internal/assemble"
	"github.com/vk/codephy/internal/compiler"
	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/fsutil"
	"github.com/vk/codephy/internal/graph"
	"github.com/vk/codephy/internal/loader"
	"github.com/vk/codephy/internal/lower"
	"github.com/vk/codephy/internal/metrics"
	"github.com/vk/codephy/internal/remote"
	"github.com/vk/codephy/internal/server"
	"github.com/vk/codephy/internal/watch"
	"gopkg.in/yaml.v3"
)

// Output formats of compile and partition.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// InvalidError reports a model that failed validation or lowering. The
// diagnostics have already been written to the output.
type InvalidError struct {
	Path  string
	Count int
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s: %d error(s)", e.Path, e.Count)
}

func (a *App) load(ctx context.Context, path string) (*config.Document, *config.Source, error) {
	start := time.Now()
	doc, src, err := loader.Load(ctx, path)
	a.metrics.ObserveStage(metrics.StageLoad, start)
	if err != nil {
		return nil, nil, err
	}
	return doc, src, nil
}

// report prints errs with source snippets where the document has them.
func (a *App) report(path string, errs diag.List, src *config.Source) error {
	if err := diag.Write(a.outW, errs, src.Files(), src.RangeOf); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	return &InvalidError{Path: path, Count: len(errs)}
}

func (a *App) validate(ctx context.Context, path string) (*graph.Graph, error) {
	doc, src, err := a.load(ctx, path)
	if err != nil {
		return nil, err
	}
	g, errs := a.compiler.Validate(ctx, doc)
	if len(errs) > 0 {
		return nil, a.report(path, errs, src)
	}
	return g, nil
}

// Validate loads and checks the model at path. A directory validates every
// model file below it and reports all failures.
func (a *App) Validate(ctx context.Context, path string) error {
	files, err := fsutil.FindModelFiles(path)
	if err != nil {
		return fmt.Errorf("failed to find model files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no model files found in %s", path)
	}
	var failed []error
	for _, f := range files {
		if err := a.validateFile(ctx, f); err != nil {
			failed = append(failed, err)
		}
	}
	return errors.Join(failed...)
}

func (a *App) validateFile(ctx context.Context, path string) error {
	ctx = ctxlog.With(a.Context(ctx), "path", path)
	g, err := a.validate(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "%s: valid, %d nodes\n", path, g.Len())
	return nil
}

// Partition prints the latent, observed and derived node sets of path.
func (a *App) Partition(ctx context.Context, path, format string) error {
	ctx = ctxlog.With(a.Context(ctx), "path", path)
	g, err := a.validate(ctx, path)
	if err != nil {
		return err
	}
	sets := assemble.Partition(g)
	if format == FormatText || format == "" {
		fmt.Fprintf(a.outW, "latent: %s\n", strings.Join(sets.Latent, ", "))
		fmt.Fprintf(a.outW, "observed: %s\n", strings.Join(sets.Observed, ", "))
		fmt.Fprintf(a.outW, "derived: %s\n", strings.Join(sets.Derived, ", "))
		return nil
	}
	return a.write(sets, format)
}

// Compile lowers the model at path into in-memory objects and prints the
// summary.
func (a *App) Compile(ctx context.Context, path, format string) error {
	ctx = ctxlog.With(a.Context(ctx), "path", path)
	doc, src, err := a.load(ctx, path)
	if err != nil {
		return err
	}
	res, err := a.compiler.Compile(ctx, doc)
	if err != nil {
		return a.compileFailure(path, err, src)
	}
	if format == FormatText {
		format = FormatJSON
	}
	return a.write(res.Summary(doc.Model), format)
}

func (a *App) compileFailure(path string, err error, src *config.Source) error {
	var errs diag.List
	if errors.As(err, &errs) {
		return a.report(path, errs, src)
	}
	var le *diag.LoweringError
	if errors.As(err, &le) {
		return a.report(path, diag.List{le}, src)
	}
	return fmt.Errorf("failed to compile %s: %w", path, err)
}

func (a *App) write(v any, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(a.outW)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	ctx = a.Context(ctx)
	srv := server.New(a.compiler, a.registry)
	done := srv.Start(ctx, a.config.Listen)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.WithoutCancel(ctx))
	}
}

// Watch re-validates path on every change until ctx is cancelled.
func (a *App) Watch(ctx context.Context, path string) error {
	ctx = a.Context(ctx)
	return watch.Watch(ctx, path, func(ctx context.Context, path string) {
		if err := a.Validate(ctx, path); err != nil {
			ctxlog.FromContext(ctx).Warn("Model is not valid.", "path", path, "error", err)
		}
	}, watch.Options{})
}

// Emit compiles path against the remote engine: every node is streamed to
// it as create and connect events, followed by the assembled model.
func (a *App) Emit(ctx context.Context, path string) error {
	ctx = ctxlog.With(a.Context(ctx), "path", path)
	rc := a.config.Remote
	if rc.URL == "" {
		return errors.New("a remote engine URL is required")
	}
	doc, src, err := a.load(ctx, path)
	if err != nil {
		return err
	}

	var adapter *remote.Adapter
	c := compiler.New(compiler.Options{
		Workers: a.config.Workers,
		Metrics: a.metrics,
		Adapter: func(ctx context.Context) (lower.Adapter, error) {
			em, err := a.dial(ctx, remote.Options{
				URL:                rc.URL,
				Namespace:          rc.Namespace,
				Timeout:            rc.Timeout,
				InsecureSkipVerify: rc.InsecureSkipVerify,
			})
			if err != nil {
				return nil, err
			}
			adapter = remote.NewAdapter(em, rc.ConstraintPolicy())
			return adapter, nil
		},
	})

	res, err := c.Compile(ctx, doc)
	if adapter != nil {
		defer adapter.Close()
	}
	if err != nil {
		return a.compileFailure(path, err, src)
	}
	if err := adapter.Assembled(ctx, res.Model); err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "%s: emitted %d nodes to %s\n", path, res.Table.Len(), rc.URL)
	return nil
}
