// Package api implements the HTTP API server for the suggestion engine
// and the review workflow around it.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/accountantiq/accountantiq-backend/internal/api/handlers"
	"github.com/accountantiq/accountantiq-backend/internal/api/middleware"
	"github.com/accountantiq/accountantiq-backend/internal/application/service"
	"github.com/accountantiq/accountantiq-backend/internal/domain/matcher"
	"github.com/accountantiq/accountantiq-backend/internal/domain/rules"
	"github.com/accountantiq/accountantiq-backend/internal/exporter"
	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	Matcher        matcher.Config
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		Matcher:        matcher.DefaultConfig(),
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// Deps bundles the collaborators the server routes to.
// Rules, Profiles and OutputDir may be zero when the corresponding
// endpoints are not needed (e.g. a pure suggestion deployment).
type Deps struct {
	Repo      storage.Repository
	Rules     *rules.Store
	Profiles  *exporter.ProfileStore
	OutputDir string
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		config: cfg,
		router: router,
		logger: logger,
	}
	s.setupRoutes(deps)

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(deps Deps) {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.GET("/health", healthHandler.Get)

	api := s.router.Group("/api")

	pipeline := service.NewPipelineService(s.config.Matcher, deps.Rules, s.logger)
	suggestHandler := handlers.NewSuggestHandler(pipeline)
	api.POST("/suggest", suggestHandler.Suggest)
	api.POST("/suggest/csv", suggestHandler.SuggestCSV)

	if deps.Repo != nil {
		reviewHandler := handlers.NewReviewHandler(deps.Repo)
		api.GET("/review", reviewHandler.List)
		api.GET("/review/:txnId", reviewHandler.Get)
		api.POST("/review/import", reviewHandler.Import)
		api.POST("/review/:txnId/approve", reviewHandler.Approve)
		api.POST("/review/:txnId/override", reviewHandler.Override)

		if deps.OutputDir != "" {
			exportHandler := handlers.NewExportHandler(deps.Repo, deps.Profiles, deps.OutputDir)
			api.POST("/export", exportHandler.Export)
		}
	}

	if deps.Rules != nil {
		rulesHandler := handlers.NewRulesHandler(deps.Rules)
		api.GET("/rules", rulesHandler.List)
		api.POST("/rules", rulesHandler.Add)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
