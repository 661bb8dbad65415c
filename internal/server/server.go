package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/heroconsole/internal/config"
	"github.com/me/heroconsole/internal/store"
	"github.com/me/heroconsole/internal/ui"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server is the hero records web console.
type Server struct {
	router     chi.Router
	logger     *slog.Logger
	config     config.ConsoleConfig
	startTime  time.Time
	store      store.Store
	httpClient *http.Client // optional; API client override for tests
	ui         *ui.UI
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithHTTPClient sets the client used for calls to the Hero Records API.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) {
		s.httpClient = hc
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ConsoleConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ui = ui.New(st, logger, ui.Config{
		APIURL:         cfg.APIURL,
		Secure:         cfg.SecureCookies,
		PageSize:       cfg.PageSize,
		RequestTimeout: cfg.RequestTimeout,
		SessionTTL:     cfg.SessionTTL,
		HTTPClient:     s.httpClient,
	})

	s.routes()
	return s
}

// StartSessionCleanup deletes expired browser sessions every interval until ctx is done.
func (s *Server) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.ui.Sessions().CleanupExpiredSessions(ctx)
				if err != nil {
					if ctx.Err() == nil {
						s.logger.Error("session cleanup failed", "error", err)
					}
					continue
				}
				if n > 0 {
					s.logger.Info("expired sessions removed", "count", n)
				}
			}
		}
	}()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/discovery", s.handleDiscovery)

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)
}
