package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
	"github.com/custodia-labs/dailyrank/internal/logger"
	"github.com/custodia-labs/dailyrank/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// CronSecret is the bearer token required by /api/cron.
	// When empty every trigger is rejected.
	CronSecret string

	// GuessRate and GuessBurst bound guesses per client IP.
	// A zero GuessRate disables limiting.
	GuessRate  rate.Limit
	GuessBurst int
}

// Server serves the game API.
type Server struct {
	cfg     Config
	game    driving.GameService
	regen   driving.Regenerator
	metrics *metrics.Metrics
	limiter *ipLimiter

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server. m may be nil, in which case /metrics is not
// mounted and requests are not counted.
func NewServer(cfg Config, game driving.GameService, regen driving.Regenerator, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		game:    game,
		regen:   regen,
		metrics: m,
	}
	if cfg.GuessRate > 0 {
		s.limiter = newIPLimiter(cfg.GuessRate, cfg.GuessBurst)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.instrument)
	}

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.With(s.requireSecret).Get("/cron", s.handleCron)
		r.With(s.requireSecret).Post("/cron", s.handleCron)

		r.Get("/game", s.handleToday)
		r.With(s.rateLimit).Post("/game", s.handleGuess)
		r.Get("/ranking", s.handleRanking)
		r.Get("/yesterday-answer", s.handleYesterday)
		r.Get("/names", s.handleNames)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.CronSecret == "" {
		logger.Warn("cron secret is not configured; /api/cron will reject every request")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped: %v", err)
		}
	}()

	if s.limiter != nil {
		go s.limiter.sweep(time.Minute)
	}

	logger.Info("listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
