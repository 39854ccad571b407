// Package server implements serve mode: it keeps the latest generated site
// configuration in memory, regenerates it on a schedule, on request and when
// the descriptor file changes, and exposes it over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
	"git.home.luguber.info/inful/remotedocs/internal/metrics"
	"git.home.luguber.info/inful/remotedocs/internal/server/middleware"
	"git.home.luguber.info/inful/remotedocs/internal/site"
)

// Loader runs one resolution pass.
type Loader interface {
	Load(ctx context.Context) (*site.Config, *site.Summary, error)
}

// Server represents the serve-mode HTTP API.
type Server struct {
	Addr       string
	loader     Loader
	outputPath string
	gatherer   prom.Gatherer
	logger     *slog.Logger
	errAdapter *rderrors.HTTPErrorAdapter
	router     *chi.Mux
	server     *http.Server
	startedAt  time.Time

	passMu sync.Mutex // one pass at a time

	mu        sync.RWMutex
	current   *site.Config
	summary   *site.Summary
	lastErr   error
	lastPass  time.Time
	passCount int
}

// Option customizes a Server.
type Option func(*Server)

// WithOutputPath also writes every generated configuration to path.
func WithOutputPath(path string) Option { return func(s *Server) { s.outputPath = path } }

// WithGatherer enables GET /metrics for the given Prometheus gatherer.
func WithGatherer(g prom.Gatherer) Option { return func(s *Server) { s.gatherer = g } }

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// NewServer creates a new API server.
func NewServer(addr string, loader Loader, opts ...Option) *Server {
	s := &Server{
		Addr:      addr,
		loader:    loader,
		router:    chi.NewRouter(),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.errAdapter = rderrors.NewHTTPErrorAdapter(s.logger)

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Chain(s.logger, s.errAdapter))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/config", s.handleConfig)
	s.router.Get("/plugins", s.handlePlugins)
	s.router.Post("/refresh", s.handleRefresh)
	if s.gatherer != nil {
		s.router.Handle("/metrics", metrics.HTTPHandler(s.gatherer))
	}
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.router }

// Refresh runs a resolution pass and, when it succeeds, replaces the served
// configuration. Concurrent callers wait for the pass in progress and then
// run their own.
func (s *Server) Refresh(ctx context.Context) (*site.Summary, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	cfg, summary, err := s.loader.Load(ctx)
	if err == nil && s.outputPath != "" {
		err = site.Write(s.outputPath, cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPass = time.Now()
	s.passCount++
	s.lastErr = err
	if err != nil {
		s.logger.Error("Resolution pass failed", logfields.Error(err))
		return nil, err
	}
	s.current = cfg
	s.summary = summary
	if s.outputPath != "" {
		s.logger.Info("Site configuration written", logfields.Path(s.outputPath), logfields.RunID(summary.RunID))
	}
	return summary, nil
}

// Snapshot returns the configuration and summary currently served. Both are
// nil before the first successful pass.
func (s *Server) Snapshot() (*site.Config, *site.Summary) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.summary
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// RunOptions configures Run.
type RunOptions struct {
	Interval  time.Duration
	WatchPath string
	Debounce  time.Duration
}

// Run performs an initial pass, schedules periodic passes, optionally watches
// a descriptor file, and serves HTTP until ctx is done.
func (s *Server) Run(ctx context.Context, opts RunOptions) error {
	if _, err := s.Refresh(ctx); err != nil {
		// Keep serving: health reports the failure and later passes may succeed.
		s.logger.Warn("Initial resolution pass failed", logfields.Error(err))
	}

	sched, err := NewScheduler()
	if err != nil {
		return err
	}
	if _, err := sched.ScheduleEvery("regenerate", opts.Interval, func() { s.refreshInBackground(ctx, "schedule") }); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			s.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()

	if opts.WatchPath != "" {
		w, err := NewFileWatcher(opts.WatchPath, opts.Debounce, func(ctx context.Context) {
			s.refreshInBackground(ctx, "watch")
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving site configuration", slog.String("addr", s.Addr))
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) refreshInBackground(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Info("Regenerating site configuration", slog.String("trigger", trigger))
	_, _ = s.Refresh(ctx)
}
