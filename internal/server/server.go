// Package server exposes the cleaning pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jmylchreest/scour/internal/auth"
	"github.com/jmylchreest/scour/internal/logger"
	"github.com/jmylchreest/scour/internal/ratelimit"
	"github.com/jmylchreest/scour/pkg/cleaner"
	"github.com/jmylchreest/scour/pkg/cleaner/text"
)

// Options configures a Server.
type Options struct {
	Addr            string
	MaxBodySize     int64
	ShutdownTimeout time.Duration
	SweepInterval   time.Duration

	// Cleaner defaults to the text pipeline.
	Cleaner cleaner.Cleaner
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Addr:            ":8000",
		MaxBodySize:     1000 * 1000,
		ShutdownTimeout: 10 * time.Second,
		SweepInterval:   time.Minute,
	}
}

// Server serves POST /clean and a couple of operational endpoints.
type Server struct {
	opts    Options
	auth    *auth.Authenticator
	limiter *ratelimit.Limiter
	cleaner cleaner.Cleaner
	handler http.Handler
}

// New creates a Server. Zero option fields take their defaults.
func New(opts Options, authn *auth.Authenticator, limiter *ratelimit.Limiter) *Server {
	def := DefaultOptions()
	if opts.Addr == "" {
		opts.Addr = def.Addr
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = def.MaxBodySize
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = def.ShutdownTimeout
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = def.SweepInterval
	}
	if opts.Cleaner == nil {
		opts.Cleaner = text.New()
	}

	s := &Server{
		opts:    opts,
		auth:    authn,
		limiter: limiter,
		cleaner: opts.Cleaner,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /clean", s.handleClean)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	var h http.Handler = mux
	h = recoverPanics(h)
	h = accessLog(h)
	h = requestID(h)
	return h
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout. It also sweeps idle rate-limit
// entries while running.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweep(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sweep periodically forgets tokens whose requests have all left the window.
func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Sweep(); n > 0 {
				logger.Debug("rate limiter swept", "tokens_removed", n, "tokens_tracked", s.limiter.Tokens())
			}
		}
	}
}
