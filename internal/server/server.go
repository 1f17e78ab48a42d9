// Package server exposes the planner over HTTP.
//
// Routes:
//
//	POST /api/v1/projects/{projectId}/schedule         resolve a task list
//	GET  /api/v1/projects/{projectId}/schedule/latest  last recorded schedule
//	GET  /healthz                                      liveness probe
//	GET  /version                                      build information
//
// Client errors (malformed input, unknown or circular dependencies) are
// answered with 400 and a JSON body {"error": message, "code": CODE}.
// Unexpected failures, including panics in handlers, become 500 with
// {"error": "An internal server error occurred.", "details": ...}.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskorder/internal/config"
	"github.com/matzehuels/taskorder/pkg/planner"
)

// Server is the taskorder HTTP API.
type Server struct {
	planner *planner.Planner
	cfg     config.ServerConfig
	logger  *log.Logger
}

// New creates a server backed by p. A nil logger uses log.Default().
func New(p *planner.Planner, cfg config.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = config.Default().Server.ShutdownTimeout
	}
	return &Server{planner: p, cfg: cfg, logger: logger}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// waiting up to the configured shutdown timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
