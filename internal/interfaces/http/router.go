package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmchain/soiladvisor/internal/application/advisory"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/prometheus"
	"github.com/farmchain/soiladvisor/internal/interfaces/http/middleware"
)

type routerDeps struct {
	service     *advisory.Service
	collector   prometheus.MetricsCollector
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
	maxBodySize int64
}

func registerRoutes(engine *gin.Engine, deps routerDeps) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(deps.logger))
	engine.Use(middleware.Logging(deps.logger, deps.metrics))

	engine.GET("/healthz", healthHandler)
	engine.GET("/readyz", healthHandler)

	if deps.collector != nil {
		engine.GET("/metrics", gin.WrapH(deps.collector.Handler()))
	}

	api := engine.Group("/api/v1")
	api.POST("/soil-reports/analyze", analyzeHandler(deps.service, deps.maxBodySize))
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analyzeHandler runs one report analysis. Responses always carry the full
// advisory envelope; a pipeline failure is a 422 with success=false, not a
// bare error body.
func analyzeHandler(svc *advisory.Service, maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBodySize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		}

		var req advisory.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		resp := svc.Process(c.Request.Context(), req)

		status := http.StatusOK
		if !resp.Success {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, resp)
	}
}
