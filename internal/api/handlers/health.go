package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobdeck-api/internal/llm"
	"jobdeck-api/internal/logging"
	"jobdeck-api/internal/storage"
	"jobdeck-api/internal/workers"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the service can take traffic: database
// reachable, worker pool running. The LLM being down degrades optimize but
// does not fail readiness.
func ReadinessHandler(store *storage.Store, redis *utils.RedisClient, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}
		ready := true

		ctx := c.Request().Context()

		if store != nil && store.IsHealthy(ctx) {
			checks["database"] = "ok"
		} else {
			checks["database"] = "unavailable"
			ready = false
		}

		if redis != nil && redis.IsHealthy(ctx) == nil {
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "unavailable"
		}

		if poolManager != nil && poolManager.IsHealthy() {
			checks["workers"] = "ok"
		} else {
			checks["workers"] = "unavailable"
			ready = false
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !ready {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status
func StatusHandler(llmManager *llm.Manager, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "operational"}

		if llmManager != nil && llmManager.IsHealthy() {
			checks["llm"] = "operational"
		} else {
			checks["llm"] = "degraded"
		}

		if poolManager != nil && poolManager.IsHealthy() {
			checks["workers"] = "operational"
		} else {
			checks["workers"] = "degraded"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// WorkerHealthHandler returns worker pool health status
func WorkerHealthHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		healthy := poolManager.IsHealthy()
		status := "healthy"
		httpStatus := http.StatusOK

		if !healthy {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		return c.JSON(httpStatus, map[string]interface{}{
			"success":    healthy,
			"status":     status,
			"request_id": requestID,
			"timestamp":  time.Now(),
		})
	}
}

// WorkerStatsHandler returns worker pool statistics
func WorkerStatsHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		stats, err := poolManager.GetStats()
		if err != nil {
			logger.Error("Failed to get worker stats", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "stats_unavailable",
				Message:   "Worker pool statistics are not available",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":    true,
			"stats":      stats,
			"request_id": requestID,
			"timestamp":  time.Now(),
		})
	}
}
