package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/procurement/config"
	"example.com/procurement/internal/api/handlers"
	"example.com/procurement/internal/api/middleware"
	"example.com/procurement/internal/metrics"
	"example.com/procurement/internal/service"
	"example.com/procurement/internal/tracing"
)

// Server represents the HTTP server
type Server struct {
	config        config.Config
	router        *gin.Engine
	httpServer    *http.Server
	masterData    service.MasterDataService
	procurement   service.ProcurementService
	notifications service.NotificationService
	metrics       *metrics.Metrics
	tracer        tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	masterData service.MasterDataService,
	procurement service.ProcurementService,
	notifications service.NotificationService,
	collector *metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	server := &Server{
		config:        cfg,
		masterData:    masterData,
		procurement:   procurement,
		notifications: notifications,
		metrics:       collector,
		tracer:        tracer,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      server.router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(s.metrics))
	if app := s.tracer.Application(); app != nil {
		router.Use(middleware.NewRelicMiddleware(app))
	}

	handlers.NewMasterDataHandler(s.masterData, s.tracer).RegisterRoutes(router)
	handlers.NewProcurementHandler(s.procurement, s.tracer).RegisterRoutes(router)
	handlers.NewNotificationHandler(s.notifications, s.tracer).RegisterRoutes(router)
	handlers.NewMetricsHandler(s.metrics, s.tracer).RegisterRoutes(router)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
