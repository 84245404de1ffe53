// Package http exposes the analysis pipeline over a small REST surface.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmchain/soiladvisor/internal/application/advisory"
	"github.com/farmchain/soiladvisor/internal/config"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/prometheus"
)

// Server wraps gin and net/http with graceful shutdown.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	srv    *http.Server
	logger logging.Logger
}

// NewServer wires the router. collector and metrics may be nil when
// telemetry is disabled.
func NewServer(cfg config.ServerConfig, svc *advisory.Service, collector prometheus.MetricsCollector, metrics *prometheus.AppMetrics, logger logging.Logger) *Server {
	gin.SetMode(ginMode(cfg.Mode))
	engine := gin.New()
	registerRoutes(engine, routerDeps{
		service:     svc,
		collector:   collector,
		metrics:     metrics,
		logger:      logger,
		maxBodySize: cfg.MaxBodySize,
	})

	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger.Named("server"),
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.Int("port", s.cfg.Port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
