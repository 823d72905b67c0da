// Package server exposes validation and compilation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/codephy/internal/compiler"
	"github.com/vk/codephy/internal/ctxlog"
)

// MaxBodyBytes bounds the size of a posted document.
const MaxBodyBytes = 4 << 20

// Server serves the HTTP API.
type Server struct {
	compiler   *compiler.Compiler
	gatherer   prometheus.Gatherer
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds the router. gatherer backs /metrics and may be nil.
func New(c *compiler.Compiler, gatherer prometheus.Gatherer) *Server {
	s := &Server{compiler: c, gatherer: gatherer}
	s.engine = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.handleHealth)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	v1.POST("/validate", s.handleValidate)
	v1.POST("/compile", s.handleCompile)
	return r
}

// Start serves on addr in the background. The returned channel receives
// the terminal error of the listener, if any.
func (s *Server) Start(ctx context.Context, addr string) <-chan error {
	logger := ctxlog.FromContext(ctx)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	done := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "address", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed unexpectedly", "error", err)
			done <- fmt.Errorf("http server: %w", err)
		}
		close(done)
	}()
	return done
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if s.httpServer == nil {
		logger.Debug("HTTP server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	logger.Debug("HTTP server shut down gracefully.")
	return nil
}
