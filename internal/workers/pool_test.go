package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdeck-api/internal/config"
	"jobdeck-api/pkg/models"
)

type stubOptimizer struct {
	calls int64
	err   error
}

func (s *stubOptimizer) OptimizeCv(_ context.Context, _ *models.Cv, jobTitle, _ string) (*models.OptimizationSuggestions, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &models.OptimizationSuggestions{
		Summary: &models.SummarySuggestion{Suggestion: "For " + jobTitle},
	}, nil
}

func poolConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Workers.PoolSize = 2
	cfg.Workers.QueueSize = 8
	cfg.Workers.RateLimit = 600
	cfg.Workers.Timeout = 5 * time.Second
	return cfg
}

func testCv() *models.Cv {
	return &models.Cv{ID: "cv-1", UserID: "user-1"}
}

func TestPoolProcessesJob(t *testing.T) {
	opt := &stubOptimizer{}
	pool := NewWorkerPool(poolConfig(), opt)
	require.NoError(t, pool.Start())
	defer pool.Stop()

	suggestions, err := pool.OptimizeCv(context.Background(), testCv(), "Backend Engineer", "desc")
	require.NoError(t, err)
	require.NotNil(t, suggestions)
	assert.Equal(t, "For Backend Engineer", suggestions.Summary.Suggestion)

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.JobsSuccessful)
	assert.Equal(t, int64(0), stats.JobsFailed)
}

func TestPoolSurfacesOptimizerError(t *testing.T) {
	opt := &stubOptimizer{err: errors.New("llm down")}
	pool := NewWorkerPool(poolConfig(), opt)
	require.NoError(t, pool.Start())
	defer pool.Stop()

	_, err := pool.OptimizeCv(context.Background(), testCv(), "Backend Engineer", "desc")
	require.Error(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&opt.calls), "no automatic retry of failed optimize calls")

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.JobsFailed)
}

func TestPoolRejectsWhenNotRunning(t *testing.T) {
	pool := NewWorkerPool(poolConfig(), &stubOptimizer{})

	_, err := pool.SubmitJob(context.Background(), testCv(), "Backend Engineer", "desc")
	assert.Error(t, err)
}

func TestRateLimiterPerUser(t *testing.T) {
	cfg := poolConfig()
	cfg.Workers.RateLimit = 60 // 1 rps, burst 5
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.Allow("heavy-user") {
			allowed++
		}
	}
	assert.Equal(t, 5, allowed, "burst of 5 then throttled")

	assert.True(t, rl.Allow("other-user"), "limits are per user")
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cfg := poolConfig()
	rl := NewRateLimiter(cfg)
	defer rl.Stop()
	rl.breaker.resetTimeout = 10 * time.Millisecond

	boom := errors.New("llm down")
	for i := 0; i < 5; i++ {
		rl.RecordFailure("user-1", boom)
	}

	assert.False(t, rl.Allow("user-1"), "open circuit rejects everyone")
	assert.False(t, rl.Allow("user-2"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow("user-1"), "half-open admits a probe")

	rl.RecordSuccess("user-1")
	stats := rl.GetUserStats("user-1")
	assert.Equal(t, "closed", stats["circuit_state"])
}

func TestPoolManagerLifecycle(t *testing.T) {
	pm := NewPoolManager(poolConfig(), &stubOptimizer{})

	_, err := pm.OptimizeCv(context.Background(), testCv(), "Backend Engineer", "desc")
	assert.Error(t, err, "uninitialized manager rejects jobs")
	assert.False(t, pm.IsHealthy())

	require.NoError(t, pm.Initialize())
	assert.True(t, pm.IsHealthy())
	assert.Error(t, pm.Initialize(), "double initialize is rejected")

	suggestions, err := pm.OptimizeCv(context.Background(), testCv(), "Backend Engineer", "desc")
	require.NoError(t, err)
	assert.NotNil(t, suggestions)

	stats, err := pm.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkerCount)

	require.NoError(t, pm.Shutdown())
	assert.False(t, pm.IsHealthy())
}
