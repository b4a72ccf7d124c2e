package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobdeck-api/internal/api/routes"
	"jobdeck-api/internal/config"
	"jobdeck-api/internal/cv"
	"jobdeck-api/internal/llm"
	"jobdeck-api/internal/logging"
	"jobdeck-api/internal/pricing"
	"jobdeck-api/internal/schedule"
	"jobdeck-api/internal/storage"
	"jobdeck-api/internal/workers"
	"jobdeck-api/pkg/utils"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting Jobdeck API")

	// Connect to Postgres and make sure the schema exists
	ctx := context.Background()
	store, err := storage.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis holds the durable optimization history; the API stays up
	// without it, so connection problems are only logged
	redisClient := utils.NewRedisClient(cfg)
	if err := redisClient.Ping(ctx); err != nil {
		logger.Warn("Redis is not reachable, optimization history will not persist", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize worker pool
	poolManager := workers.NewPoolManager(cfg, llmManager)
	if err := poolManager.Initialize(); err != nil {
		logger.Fatal("Failed to start worker pool", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer poolManager.Shutdown()

	// Application services
	sessions := cv.NewSessionManager(cfg, poolManager, store, redisClient)
	scheduleSvc := schedule.NewService(cfg, store)
	pricingSvc := pricing.NewService(cfg)

	// Initialize Echo
	e := echo.New()

	// Setup routes
	routes.SetupRoutes(e, routes.Dependencies{
		Config:      cfg,
		Store:       store,
		Redis:       redisClient,
		Schedule:    scheduleSvc,
		Sessions:    sessions,
		Pricing:     pricingSvc,
		LLMManager:  llmManager,
		PoolManager: poolManager,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop worker pool first so no new optimize jobs reach the LLM
		logger.Info("Stopping worker pool...")
		if err := poolManager.Shutdown(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{
				"error": err.Error(),
			})
		}

		// Stop LLM manager
		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		// Close storage connections
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", map[string]interface{}{
				"error": err.Error(),
			})
		}
		store.Close()

		// Shutdown Echo server
		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
