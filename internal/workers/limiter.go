package workers

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobdeck-api/internal/config"
	"jobdeck-api/internal/logging"
)

// UserLimiter represents rate limiting for a specific user
type UserLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	failures int64
	mu       sync.RWMutex
}

// CircuitBreaker guards the shared LLM backend. Sustained failures open
// the circuit so further optimize requests fail fast instead of piling up.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	failureCount int
	lastFailTime time.Time
	state        CircuitState
	mu           sync.RWMutex
}

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// RateLimiter manages per-user rate limiting plus the shared LLM circuit
// breaker. One instance belongs to the worker pool.
type RateLimiter struct {
	config       *config.Config
	userLimiters map[string]*UserLimiter
	breaker      *CircuitBreaker
	mu           sync.RWMutex
	logger       logging.Logger
	cleanupTick  *time.Ticker
	stopCleanup  chan bool
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		config:       cfg,
		userLimiters: make(map[string]*UserLimiter),
		breaker: &CircuitBreaker{
			maxFailures:  5,
			resetTimeout: 30 * time.Second,
			state:        CircuitClosed,
		},
		logger:      logging.GetGlobalLogger().WithField("component", "rate_limiter"),
		cleanupTick: time.NewTicker(5 * time.Minute),
		stopCleanup: make(chan bool),
	}

	go rl.cleanupRoutine()

	return rl
}

// Allow checks if an optimize request from the given user is admitted.
func (rl *RateLimiter) Allow(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	userID = strings.ToLower(userID)

	if !rl.isCircuitClosed() {
		rl.logger.Debug("Request rejected by circuit breaker", map[string]interface{}{
			"user_id": userID,
		})
		return false
	}

	limiter := rl.getUserLimiter(userID)

	allowed := limiter.limiter.Allow()
	if allowed {
		limiter.mu.Lock()
		limiter.requests++
		limiter.lastSeen = time.Now()
		limiter.mu.Unlock()
	} else {
		rl.logger.Debug("Request rejected by rate limiter", map[string]interface{}{
			"user_id": userID,
		})
	}

	return allowed
}

// RecordSuccess records a successful optimize call for the user.
func (rl *RateLimiter) RecordSuccess(userID string) {
	cb := rl.breaker
	cb.mu.Lock()
	if cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
		cb.failureCount = 0
		rl.logger.Info("Circuit breaker closed after successful request")
	}
	cb.mu.Unlock()
}

// RecordFailure records a failed optimize call for the user.
func (rl *RateLimiter) RecordFailure(userID string, err error) {
	rl.mu.Lock()
	if limiter, exists := rl.userLimiters[strings.ToLower(userID)]; exists {
		limiter.mu.Lock()
		limiter.failures++
		limiter.mu.Unlock()
	}
	rl.mu.Unlock()

	cb := rl.breaker
	cb.mu.Lock()
	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.failureCount >= cb.maxFailures && cb.state == CircuitClosed {
		cb.state = CircuitOpen
		rl.logger.Warn("Circuit breaker opened due to failures", map[string]interface{}{
			"failures": cb.failureCount,
			"error":    err.Error(),
		})
	}
	cb.mu.Unlock()
}

// getUserLimiter gets or creates a rate limiter for a user
func (rl *RateLimiter) getUserLimiter(userID string) *UserLimiter {
	if limiter, exists := rl.userLimiters[userID]; exists {
		return limiter
	}

	// Rate limit: requests per minute converted to requests per second.
	rps := rate.Limit(float64(rl.config.Workers.RateLimit) / 60.0)
	burst := 5

	limiter := &UserLimiter{
		limiter:  rate.NewLimiter(rps, burst),
		lastSeen: time.Now(),
	}

	rl.userLimiters[userID] = limiter

	rl.logger.Info("Created new user rate limiter", map[string]interface{}{
		"user_id": userID,
		"rate":    float64(rps),
		"burst":   burst,
	})

	return limiter
}

// isCircuitClosed checks if the circuit breaker admits requests
func (rl *RateLimiter) isCircuitClosed() bool {
	cb := rl.breaker

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			rl.logger.Info("Circuit breaker transitioned to half-open")
			return true
		}
		return false
	default:
		return false
	}
}

// GetUserStats returns statistics for a specific user
func (rl *RateLimiter) GetUserStats(userID string) map[string]interface{} {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	userID = strings.ToLower(userID)
	stats := make(map[string]interface{})

	if limiter, exists := rl.userLimiters[userID]; exists {
		limiter.mu.RLock()
		stats["requests"] = limiter.requests
		stats["failures"] = limiter.failures
		stats["last_seen"] = limiter.lastSeen
		stats["limit"] = limiter.limiter.Limit()
		stats["burst"] = limiter.limiter.Burst()
		limiter.mu.RUnlock()
	}

	cb := rl.breaker
	cb.mu.RLock()
	stats["circuit_state"] = cb.state.String()
	stats["failure_count"] = cb.failureCount
	cb.mu.RUnlock()

	return stats
}

// GetAllStats returns statistics for all users
func (rl *RateLimiter) GetAllStats() map[string]map[string]interface{} {
	rl.mu.RLock()
	users := make([]string, 0, len(rl.userLimiters))
	for userID := range rl.userLimiters {
		users = append(users, userID)
	}
	rl.mu.RUnlock()

	allStats := make(map[string]map[string]interface{})
	for _, userID := range users {
		allStats[userID] = rl.GetUserStats(userID)
	}
	return allStats
}

// cleanupRoutine periodically cleans up limiters for idle users
func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			rl.cleanupTick.Stop()
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	removedCount := 0

	for userID, limiter := range rl.userLimiters {
		limiter.mu.RLock()
		lastSeen := limiter.lastSeen
		limiter.mu.RUnlock()

		if lastSeen.Before(cutoff) {
			delete(rl.userLimiters, userID)
			removedCount++
		}
	}

	if removedCount > 0 {
		rl.logger.Info("Cleaned up unused rate limiters", map[string]interface{}{
			"removed_count": removedCount,
		})
	}
}

// Stop stops the rate limiter and cleanup routine
func (rl *RateLimiter) Stop() {
	rl.stopCleanup <- true
}

// String returns string representation of CircuitState
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
