package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobdeck-api/internal/config"
	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
)

// RedisClient wraps the Redis client with optimization history management
type RedisClient struct {
	client *redis.Client
	config *config.Config
	logger logging.Logger
}

// OptimizationHistory represents the bounded optimization history for a CV
type OptimizationHistory struct {
	CvID      string                   `json:"cv_id"`
	Entries   []models.OptimizationRun `json:"entries"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	return &RedisClient{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// AppendOptimizationRun appends a completed run to the CV's history in
// Redis, evicting the oldest entries beyond the configured bound.
func (r *RedisClient) AppendOptimizationRun(ctx context.Context, cvID string, run models.OptimizationRun) error {
	history, err := r.GetOptimizationHistory(ctx, cvID)
	if err != nil {
		history = &OptimizationHistory{
			CvID:      cvID,
			Entries:   []models.OptimizationRun{},
			CreatedAt: time.Now(),
		}
	}

	history.Entries = append(history.Entries, run)
	history.UpdatedAt = time.Now()

	// Keep only the most recent runs; the oldest is evicted first
	limit := r.config.CV.HistoryLimit
	if limit > 0 && len(history.Entries) > limit {
		history.Entries = history.Entries[len(history.Entries)-limit:]
	}

	key := r.historyKey(cvID)
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal optimization history: %w", err)
	}

	err = r.client.Set(ctx, key, historyJSON, r.config.CV.SessionTTL).Err()
	if err != nil {
		r.logger.Error("Failed to save optimization run", map[string]interface{}{
			"cv_id": cvID,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to save optimization run: %w", err)
	}

	return nil
}

// GetOptimizationHistory retrieves the optimization history for a CV
func (r *RedisClient) GetOptimizationHistory(ctx context.Context, cvID string) (*OptimizationHistory, error) {
	key := r.historyKey(cvID)

	historyJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("optimization history not found for cv %s", cvID)
		}
		return nil, fmt.Errorf("failed to get optimization history: %w", err)
	}

	var history OptimizationHistory
	err = json.Unmarshal([]byte(historyJSON), &history)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal optimization history: %w", err)
	}

	return &history, nil
}

// DeleteOptimizationHistory deletes the optimization history for a CV
func (r *RedisClient) DeleteOptimizationHistory(ctx context.Context, cvID string) error {
	return r.client.Del(ctx, r.historyKey(cvID)).Err()
}

// historyKey generates the Redis key for a CV's optimization history
func (r *RedisClient) historyKey(cvID string) string {
	return fmt.Sprintf("optimization:history:%s", cvID)
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisClient) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}
