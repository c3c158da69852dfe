package handler

import (
	"net/http"

	"donation-service/pkg/logger"
	"donation-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK

	if h.Ping != nil {
		if err := h.Ping(); err != nil {
			logger.FromContext(c).Error("Database health check failed", zap.Error(err))
			status = "unhealthy"
			dbStatus = "down"
			code = http.StatusServiceUnavailable
		}
	}

	return c.JSON(code, echo.Map{
		"status":   status,
		"service":  "donation-service",
		"database": dbStatus,
	})
}

// MetricsHandler exposes Prometheus metrics
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
