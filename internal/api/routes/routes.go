package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobdeck-api/internal/api/handlers"
	"jobdeck-api/internal/api/middleware"
	"jobdeck-api/internal/config"
	"jobdeck-api/internal/cv"
	"jobdeck-api/internal/llm"
	"jobdeck-api/internal/pricing"
	"jobdeck-api/internal/schedule"
	"jobdeck-api/internal/storage"
	"jobdeck-api/internal/workers"
	"jobdeck-api/pkg/utils"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	Config      *config.Config
	Store       *storage.Store
	Redis       *utils.RedisClient
	Schedule    *schedule.Service
	Sessions    *cv.SessionManager
	Pricing     *pricing.Service
	LLMManager  *llm.Manager
	PoolManager *workers.PoolManager
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Selective timeout: standard budget for most endpoints, a longer one
	// for the LLM-backed optimize endpoint
	e.Use(middleware.SelectiveTimeoutConfig(deps.Config.Server.ReadTimeout, 2*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(deps.Store, deps.Redis, deps.PoolManager))
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/workers", handlers.WorkerHealthHandler(deps.PoolManager))
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(deps.LLMManager, deps.PoolManager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		// Schedule week view and event transitions
		v1.GET("/schedule/week", handlers.WeekViewHandler(deps.Schedule))
		v1.GET("/schedule/week.ics", handlers.WeekICalHandler(deps.Schedule))
		v1.POST("/schedule/events/:id/confirm", handlers.ConfirmEventHandler(deps.Schedule))
		v1.POST("/schedule/events/:id/decline", handlers.DeclineEventHandler(deps.Schedule))

		// CV optimization session
		v1.POST("/cv/:id/optimize", handlers.OptimizeCvHandler(deps.Sessions))
		v1.POST("/cv/:id/suggestions/apply", handlers.ApplySuggestionHandler(deps.Sessions))
		v1.DELETE("/cv/:id/suggestions", handlers.ClearSuggestionsHandler(deps.Sessions))
		v1.GET("/cv/:id/history", handlers.HistoryHandler(deps.Sessions))
		v1.POST("/cv/:id/history/:index/restore", handlers.RestoreHistoryHandler(deps.Sessions))

		// Paid visibility tiers
		v1.GET("/pricing/tiers", handlers.TiersHandler(deps.Pricing))
		v1.POST("/pricing/quote", handlers.QuoteHandler(deps.Pricing))

		// Worker pool statistics
		v1.GET("/workers/stats", handlers.WorkerStatsHandler(deps.PoolManager))
	}
}
