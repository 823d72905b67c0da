package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vk/codephy/internal/compiler"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/metrics"
	"github.com/vk/codephy/internal/remote"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	compiler *compiler.Compiler

	// dial opens the connection used by Emit.
	dial func(ctx context.Context, opts remote.Options) (remote.Emitter, error)
}

// NewApp is the constructor for the main application. Command results are
// written to outW and logs to logW; each App owns its logger and metrics
// registry.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  m,
		compiler: compiler.New(compiler.Options{Workers: cfg.Workers, Metrics: m}),
		dial:     remote.Dial,
	}
}

// Context attaches the application logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Registry returns the metrics registry. This is primarily for testing.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Config returns the configuration the app was built with.
func (a *App) Config() *Config {
	return a.config
}
