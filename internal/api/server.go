// Package api provides the HTTP API server and handlers for the FrameGuessr backend.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/frameguessr/frameguessr-server/internal/http/response"
	"github.com/frameguessr/frameguessr-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	game        *service.GameService
	limiter     *RateLimiter
	corsOrigins []string
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(game *service.GameService, rateLimit RateLimitConfig, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		game:        game,
		limiter:     NewRateLimiter(rateLimit.RequestsPerMinute, time.Minute, rateLimit.Burst),
		corsOrigins: corsOrigins,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// RateLimitConfig sizes the inbound per-IP limiter on the acquisition route.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", clientIDHeader},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", s.handleListCategories)

		// Acquisition fans out to upstream catalogs; it gets the inbound
		// limiter so one client cannot burn the provider budgets.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(s.limiter, s.logger))
			r.Get("/content/random", s.handleRandomContent)
		})

		r.Get("/search", s.handleSearch)
		r.Post("/verify", s.handleVerify)

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", s.handleDescribeFilters)
			r.Get("/options", s.handleFilterOptions)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/category", s.handleUpdateCategory)
			r.Put("/filters/{category}", s.handleUpdateFilters)
			r.Delete("/filters/{category}", s.handleClearFilters)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
