// Package web serves the dashboard to browsers as server-rendered HTML.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/yildizm/SalesDash/internal/analyst"
	"github.com/yildizm/SalesDash/internal/dashboard"
	"github.com/yildizm/SalesDash/internal/logger"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	AllowedOrigins     []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RequestTimeout     time.Duration
	PhaseInterval      time.Duration
	MaxInputBytes      int64
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Addr:               "127.0.0.1:8080",
		RateLimitPerMinute: 10,
		AllowedOrigins:     []string{"http://localhost:3000"},
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       30 * time.Second,
		RequestTimeout:     30 * time.Second,
		PhaseInterval:      dashboard.DefaultPhaseInterval,
		MaxInputBytes:      10 << 20,
	}
}

// Server renders the controller state and forwards form triggers to it.
// Provider calls run in the background, detached from the request.
type Server struct {
	controller *dashboard.Controller
	provider   analyst.Provider
	cfg        Config
	logger     *logger.Logger
	now        func() time.Time

	// base is cancelled on shutdown; background provider calls derive from it.
	base   context.Context
	cancel context.CancelFunc
	jobs   sync.WaitGroup

	router chi.Router
}

// New creates a server. provider must be the one the controller was built with.
func New(controller *dashboard.Controller, provider analyst.Provider, cfg Config, log *logger.Logger) *Server {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.PhaseInterval <= 0 {
		cfg.PhaseInterval = defaults.PhaseInterval
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = defaults.MaxInputBytes
	}
	if log == nil {
		log = logger.Discard()
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		controller: controller,
		provider:   provider,
		cfg:        cfg,
		logger:     log.WithComponent("web"),
		now:        time.Now,
		base:       base,
		cancel:     cancel,
	}
	controller.OnChange(func(st dashboard.State) {
		s.logger.DebugWithFields("state changed", []logger.Field{
			logger.F("view", st.View.String()),
			logger.F("sample_pending", st.SamplePending),
			logger.F("has_error", st.HasError()),
		})
	})
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down and waits for
// in-flight provider calls to settle.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.InfoWithFields("listening", []logger.Field{logger.F("addr", s.cfg.Addr)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		return err
	})
	return g.Wait()
}

// Close cancels background provider calls and waits for them to return.
func (s *Server) Close() {
	s.cancel()
	s.jobs.Wait()
}

// spawn runs fn in the background with the server's base context.
func (s *Server) spawn(fn func(ctx context.Context)) {
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		fn(s.base)
	}()
}
