package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/billops/backoffice/internal/api/ws"
	"github.com/billops/backoffice/internal/config"
	"github.com/billops/backoffice/internal/server/middleware"
)

// Server is the HTTP server carrying the admin API, the job-event stream
// and the health check.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	wsHub      *ws.Hub
	cfg        *config.Config
}

// Deps bundles the collaborators the route tree needs. Docs is nil when the
// credential issuer is not configured; the document route is then not
// mounted.
type Deps struct {
	Store  DataStore
	Runner JobRunner
	Hub    *ws.Hub
	Docs   DocumentFetcher
}

// New creates a Server with all routes wired.
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		wsHub:  deps.Hub,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Admin API: authenticated, rate limited.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Admin.JWTSecret))
		r.Use(middleware.RateLimitByIP(ctx, 10, 20))

		apiConfig := huma.DefaultConfig("Backoffice Admin API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, deps)
	})

	// WebSocket job-event stream.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Admin.JWTSecret))
		registerWSRoutes(r, deps.Hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
