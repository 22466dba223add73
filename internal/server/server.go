package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"rebalancer/internal/engine"
	"rebalancer/pkg/logger"
	"rebalancer/types"
)

// Config holds server configuration
type Config struct {
	Port      int
	Log       zerolog.Logger
	Portfolio *engine.Portfolio
	DevMode   bool
}

// Server exposes one rebalancing engine over HTTP. The engine itself is
// single-writer, so all engine access is serialized behind mu; the engine
// stays lock-free.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	mu            sync.Mutex
	portfolio     *engine.Portfolio
	initialTarget *engine.TargetAllocation
	pendingPlan   *types.RebalancePlan
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		log:           logger.Component(cfg.Log, "server"),
		portfolio:     cfg.Portfolio,
		initialTarget: cfg.Portfolio.TargetAllocation(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.handleGetPortfolio)
			r.Get("/export", s.handleExportAllocation)
			r.Get("/targets", s.handleGetTargets)
			r.Put("/targets", s.handleUpdateTargets)
			r.Put("/holdings", s.handleReplaceHoldings)
			r.Post("/deposits", s.handleDeposit)
			r.Post("/plan", s.handleCreatePlan)
			r.Get("/plan/export", s.handleExportPlan)
			r.Post("/plan/execute", s.handleExecutePlan)
			r.Post("/reset", s.handleReset)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
