package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobdeck-api/internal/config"
	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

// CvOptimizer is the backend the pool runs optimize jobs against. The LLM
// manager satisfies it in production.
type CvOptimizer interface {
	OptimizeCv(ctx context.Context, cv *models.Cv, jobTitle, jobDescription string) (*models.OptimizationSuggestions, error)
}

// JobResult represents the result of an optimize job
type JobResult struct {
	Suggestions *models.OptimizationSuggestions
	Error       error
	RequestID   string
	Duration    time.Duration
}

// OptimizeJob represents a job to be processed by workers
type OptimizeJob struct {
	ID             string
	Cv             *models.Cv
	JobTitle       string
	JobDescription string
	ResultChan     chan JobResult
	Context        context.Context
	CreatedAt      time.Time
}

// Worker represents a single worker goroutine
type Worker struct {
	ID       int
	JobChan  chan OptimizeJob
	QuitChan chan bool
	Pool     *WorkerPool
	logger   logging.Logger
}

// WorkerPool manages multiple worker goroutines and the optimize queue
type WorkerPool struct {
	config      *config.Config
	workers     []*Worker
	jobQueue    chan OptimizeJob
	dispatcher  *Dispatcher
	rateLimiter *RateLimiter
	optimizer   CvOptimizer
	logger      logging.Logger
	mu          sync.RWMutex
	running     bool
	stats       *PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	mu                    sync.RWMutex
	JobsQueued            int64
	JobsProcessed         int64
	JobsSuccessful        int64
	JobsFailed            int64
	TotalProcessingTime   time.Duration
	AverageProcessingTime time.Duration
}

// PoolStatsData is the lock-free snapshot of PoolStats used in responses
type PoolStatsData struct {
	JobsQueued            int64         `json:"jobs_queued"`
	JobsProcessed         int64         `json:"jobs_processed"`
	JobsSuccessful        int64         `json:"jobs_successful"`
	JobsFailed            int64         `json:"jobs_failed"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
}

// NewWorkerPool creates a new worker pool instance
func NewWorkerPool(cfg *config.Config, optimizer CvOptimizer) *WorkerPool {
	logger := logging.GetGlobalLogger()

	pool := &WorkerPool{
		config:      cfg,
		jobQueue:    make(chan OptimizeJob, cfg.Workers.QueueSize),
		rateLimiter: NewRateLimiter(cfg),
		optimizer:   optimizer,
		logger:      logger,
		stats:       &PoolStats{},
	}

	pool.workers = make([]*Worker, cfg.Workers.PoolSize)
	for i := 0; i < cfg.Workers.PoolSize; i++ {
		worker := &Worker{
			ID:       i + 1,
			JobChan:  make(chan OptimizeJob),
			QuitChan: make(chan bool),
			Pool:     pool,
			logger:   logger.WithField("worker_id", i+1),
		}
		pool.workers[i] = worker
	}

	pool.dispatcher = NewDispatcher(pool.jobQueue, pool.workers)

	logger.Info("Worker pool initialized", map[string]interface{}{
		"pool_size": cfg.Workers.PoolSize,
	})
	return pool
}

// Start starts the worker pool
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return fmt.Errorf("worker pool is already running")
	}

	wp.logger.Info("Starting worker pool")

	wp.dispatcher.Start()

	for _, worker := range wp.workers {
		go worker.Start()
	}

	wp.running = true
	wp.logger.Info("Worker pool started successfully", map[string]interface{}{
		"workers": len(wp.workers),
	})
	return nil
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return nil
	}

	wp.logger.Info("Stopping worker pool")

	wp.dispatcher.Stop()

	for _, worker := range wp.workers {
		worker.Stop()
	}

	close(wp.jobQueue)

	wp.running = false
	wp.logger.Info("Worker pool stopped successfully")
	return nil
}

// OptimizeCv submits an optimize job to the pool and waits for its result.
// It satisfies the orchestrator's optimizer port, so the per-user rate
// limit and circuit breaker sit in front of every remote call.
func (wp *WorkerPool) OptimizeCv(ctx context.Context, cv *models.Cv, jobTitle, jobDescription string) (*models.OptimizationSuggestions, error) {
	result, err := wp.SubmitJob(ctx, cv, jobTitle, jobDescription)
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Suggestions, nil
}

// SubmitJob submits a new optimize job to the pool
func (wp *WorkerPool) SubmitJob(ctx context.Context, cv *models.Cv, jobTitle, jobDescription string) (*JobResult, error) {
	if !wp.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	if !wp.rateLimiter.Allow(cv.UserID) {
		return nil, fmt.Errorf("rate limit exceeded for user: %s", cv.UserID)
	}

	job := OptimizeJob{
		ID:             utils.GenerateRequestID(),
		Cv:             cv,
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
		ResultChan:     make(chan JobResult, 1),
		Context:        ctx,
		CreatedAt:      time.Now(),
	}

	wp.stats.mu.Lock()
	wp.stats.JobsQueued++
	wp.stats.mu.Unlock()

	select {
	case wp.jobQueue <- job:
		wp.logger.Info("Job submitted to queue", map[string]interface{}{
			"job_id": job.ID,
			"cv_id":  cv.ID,
		})
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("job queue is full, request timed out")
	}

	timeout := wp.config.Workers.Timeout

	select {
	case result := <-job.ResultChan:
		return &result, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("job processing timed out after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsRunning returns true if the worker pool is running
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

// GetStats returns current pool statistics
func (wp *WorkerPool) GetStats() PoolStatsData {
	wp.stats.mu.RLock()
	defer wp.stats.mu.RUnlock()

	data := PoolStatsData{
		JobsQueued:     wp.stats.JobsQueued,
		JobsProcessed:  wp.stats.JobsProcessed,
		JobsSuccessful: wp.stats.JobsSuccessful,
		JobsFailed:     wp.stats.JobsFailed,
	}
	if data.JobsProcessed > 0 {
		data.AverageProcessingTime = wp.stats.TotalProcessingTime / time.Duration(data.JobsProcessed)
	}
	return data
}

// Start starts the worker goroutine
func (w *Worker) Start() {
	w.logger.Info("Worker started")

	for {
		select {
		case job := <-w.JobChan:
			w.processJob(job)
		case <-w.QuitChan:
			w.logger.Info("Worker stopping")
			return
		}
	}
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.QuitChan <- true
}

// processJob processes a single optimize job
func (w *Worker) processJob(job OptimizeJob) {
	startTime := time.Now()

	w.logger.Debug("Processing job", map[string]interface{}{
		"job_id": job.ID,
		"cv_id":  job.Cv.ID,
	})

	w.Pool.stats.mu.Lock()
	w.Pool.stats.JobsProcessed++
	w.Pool.stats.mu.Unlock()

	result := w.optimizeJob(job)

	processingTime := time.Since(startTime)
	result.Duration = processingTime

	w.Pool.stats.mu.Lock()
	w.Pool.stats.TotalProcessingTime += processingTime
	if result.Error != nil {
		w.Pool.stats.JobsFailed++
	} else {
		w.Pool.stats.JobsSuccessful++
	}
	w.Pool.stats.mu.Unlock()

	// Send result back (non-blocking)
	select {
	case job.ResultChan <- result:
		w.logger.Info("Job completed", map[string]interface{}{
			"job_id":          job.ID,
			"worker_id":       w.ID,
			"processing_time": processingTime,
			"success":         result.Error == nil,
		})
	case <-time.After(100 * time.Millisecond):
		w.logger.Debug("Result channel timeout - client may have disconnected", map[string]interface{}{
			"job_id": job.ID,
		})
	}
}

// optimizeJob performs the single remote call. Optimize failures are never
// retried automatically; the user re-triggers manually.
func (w *Worker) optimizeJob(job OptimizeJob) JobResult {
	result := JobResult{
		RequestID: job.ID,
	}

	suggestions, err := w.Pool.optimizer.OptimizeCv(job.Context, job.Cv, job.JobTitle, job.JobDescription)
	if err != nil {
		result.Error = err
		w.Pool.rateLimiter.RecordFailure(job.Cv.UserID, err)
		return result
	}

	result.Suggestions = suggestions
	w.Pool.rateLimiter.RecordSuccess(job.Cv.UserID)
	return result
}
