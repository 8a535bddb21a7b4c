// Package server provides the HTTP server for the dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spektr-org/promodash/dashboard"
	"github.com/spektr-org/promodash/dataset"
	"github.com/spektr-org/promodash/internal/apierrors"
	"github.com/spektr-org/promodash/internal/config"
	"github.com/spektr-org/promodash/internal/handler"
	"github.com/spektr-org/promodash/internal/health"
	"github.com/spektr-org/promodash/internal/metrics"
	"github.com/spektr-org/promodash/internal/middleware"
	"github.com/spektr-org/promodash/render"
)

// Server represents the HTTP server.
type Server struct {
	router       *mux.Router
	httpServer   *http.Server
	handlers     *handler.Handlers
	healthCheck  *health.HealthCheck
	errorHandler *apierrors.Handler
	metrics      *metrics.Metrics
	logger       *zap.Logger
	cfg          *config.Config
}

// NewServer creates a new HTTP server over source. m may be nil, in which
// case no request or panel metrics are recorded.
func NewServer(cfg *config.Config, source dataset.Source, m *metrics.Metrics, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	errorHandler := apierrors.NewHandler(logger)

	opts := cfg.Dashboard.Options()
	var status health.StatusRecorder
	if m != nil {
		opts.Recorder = m
		status = m
	}

	dash := dashboard.New(source, opts, logger)
	handlers := handler.NewHandlers(dash, errorHandler, logger, handler.Settings{
		Title: cfg.Dashboard.Title,
		ChartSize: render.ChartSize{
			Width:  cfg.Dashboard.ChartWidth,
			Height: cfg.Dashboard.ChartHeight,
		},
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		router:       router,
		httpServer:   httpServer,
		handlers:     handlers,
		healthCheck:  health.NewHealthCheck(source, status, logger),
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// SetupRoutes configures all HTTP routes.
func (s *Server) SetupRoutes() {
	middlewareChain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.errorHandler, s.logger),
		middleware.RequestID,
		middleware.Logging(s.logger),
		middleware.CORS(s.cfg.Server.AllowedOrigins),
	}

	if s.metrics != nil {
		middlewareChain = append(middlewareChain, middleware.Metrics(s.metrics))
	}

	if s.cfg.RateLimiter.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.cfg.RateLimiter.RequestsPerSecond,
			s.cfg.RateLimiter.BurstSize,
			s.errorHandler,
			s.logger,
		)
		middlewareChain = append(middlewareChain, rateLimiter.Limit)
	}

	chain := middleware.Chain(middlewareChain...)
	s.router.Use(func(next http.Handler) http.Handler {
		return chain(next)
	})

	// Every route also answers OPTIONS so CORS preflights reach the middleware.

	// Health check endpoints
	s.router.HandleFunc("/health", s.healthCheck.LivenessHandler).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/ready", s.healthCheck.ReadinessHandler).Methods(http.MethodGet, http.MethodOptions)

	// Dashboard page
	s.router.HandleFunc("/", s.handlers.Index).Methods(http.MethodGet, http.MethodOptions)

	// API v1 routes
	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/dashboard", s.handlers.DashboardJSON).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/filters", s.handlers.FilterOptions).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/charts/{chart}.svg", s.handlers.ChartSVG).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/ranking.csv", s.handlers.RankingCSV).Methods(http.MethodGet, http.MethodOptions)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler.WriteNotFound(w, "endpoint not found", r.Header.Get(middleware.RequestIDHeader))
	})

	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler.WriteErrorResponse(w, http.StatusMethodNotAllowed, apierrors.ErrorCodeInvalidRequest, "method not allowed", r.Header.Get(middleware.RequestIDHeader))
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.Int("port", s.cfg.Server.Port),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the http.Handler for the server.
func (s *Server) GetHandler() http.Handler {
	return s.router
}
