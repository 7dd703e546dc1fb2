// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/TJZine/Retune-sub004/internal/api"
	"github.com/TJZine/Retune-sub004/internal/catalog"
	"github.com/TJZine/Retune-sub004/internal/config"
	"github.com/TJZine/Retune-sub004/internal/db"
	"github.com/TJZine/Retune-sub004/internal/logger"
	"github.com/TJZine/Retune-sub004/internal/middleware"
	"github.com/TJZine/Retune-sub004/internal/tuner"
)

// Server represents the HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	repos          *db.Repositories
	catalogService *catalog.Service
	tunerService   *tuner.Service
	router         *gin.Engine
	server         *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB, loc *time.Location) *Server {
	repos := db.NewRepositories(database)
	catalogService := catalog.NewService(repos)
	tunerService := tuner.NewService(catalogService, cfg.Scheduler.TickInterval, loc)

	return &Server{
		config:         cfg,
		db:             database,
		repos:          repos,
		catalogService: catalogService,
		tunerService:   tunerService,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupChannelRoutes(apiGroup, s.catalogService)
	api.SetupGuideRoutes(apiGroup, s.tunerService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Detune all channels so tick goroutines and rollover timers stop
	if s.tunerService != nil {
		s.tunerService.Stop()
	}

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
