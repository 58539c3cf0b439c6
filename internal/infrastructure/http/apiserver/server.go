// Package apiserver provides the JSON API HTTP server implementation
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/questkitchen/backend/internal/infrastructure/config"
	"github.com/questkitchen/backend/internal/infrastructure/http/handlers"
	"github.com/questkitchen/backend/internal/infrastructure/http/middleware"
	"github.com/questkitchen/backend/internal/infrastructure/monitoring"
	"github.com/questkitchen/backend/internal/ports/inbound"
)

// APIServer serves the JSON API
type APIServer struct {
	config        *config.Config
	logger        *zap.Logger
	server        *http.Server
	router        *chi.Mux
	db            *gorm.DB
	metrics       *monitoring.MetricsCollector
	authService   inbound.AuthService
	recipeService inbound.RecipeService
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	authService inbound.AuthService,
	recipeService inbound.RecipeService,
	metrics *monitoring.MetricsCollector,
) *APIServer {
	server := &APIServer{
		config:        cfg,
		logger:        log,
		db:            db,
		metrics:       metrics,
		authService:   authService,
		recipeService: recipeService,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        server.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return server
}

// setupRoutes configures the middleware chain and JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, s.config))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config))
	r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	if s.config.Server.EnableCompression {
		r.Use(chimiddleware.Compress(5))
	}
	if s.config.Monitoring.EnableMetrics {
		r.Use(s.metrics.HTTPMiddleware())
	}

	// Operational endpoints
	r.Get(s.config.Monitoring.HealthCheckPath, s.handleHealthCheck)
	r.Get(s.config.Monitoring.ReadinessPath, s.handleReadiness)
	if s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})

	return r
}

// setupAPIRoutes configures the API endpoints
func (s *APIServer) setupAPIRoutes(r chi.Router) {
	authH := handlers.NewAuthAPIHandlers(s.authService, s.config, s.metrics, s.logger)
	recipeH := handlers.NewRecipeAPIHandlers(s.recipeService, s.logger)
	generateH := handlers.NewGenerateAPIHandlers(s.recipeService, s.metrics, s.logger)
	limiter := middleware.NewRateLimiter(s.config, s.logger)

	// API-specific middleware
	r.Use(middleware.JSONOnly())
	r.Use(middleware.Session(s.authService, s.config.Session.CookieName, s.logger))
	r.Use(middleware.CSRF(s.config))

	// Authentication routes
	r.Route("/auth", func(r chi.Router) {
		// Credential endpoints are rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit)
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
		})

		r.Post("/logout", authH.Logout)
		r.Get("/me", authH.Me)
		r.Get("/csrf-token", authH.CSRFToken)
	})

	// Recipe collection routes
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipeH.ListRecipes)
		r.Post("/", recipeH.CreateRecipe)
		r.Get("/{id}", recipeH.GetRecipe)
		r.Put("/{id}", recipeH.UpdateRecipe)
		r.Delete("/{id}", recipeH.DeleteRecipe)
	})

	// Recipe generation via the gateway, open to anonymous callers
	r.Post("/recipe", generateH.GenerateRecipe)
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Handler returns the router, primarily for tests
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

// handleHealthCheck provides the liveness endpoint
func (s *APIServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, `{"status":"healthy","service":%q,"version":%q}`,
		s.config.App.Name, s.config.App.Version)
}

// handleReadiness reports whether the database accepts connections
func (s *APIServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		s.logger.Error("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":"unavailable"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ready"}`)
}
