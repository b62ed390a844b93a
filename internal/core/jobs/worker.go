package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNoJobsAvailable is returned when no jobs are available
var ErrNoJobsAvailable = errors.New("no jobs available")

// Worker processes jobs from a queue
type Worker struct {
	queue    *Queue
	config   WorkerConfig
	handlers map[string]JobHandler
	mu       sync.RWMutex
	stopped  bool
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates a new job worker
func NewWorker(queue *Queue, config WorkerConfig) *Worker {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.Queue == "" {
		config.Queue = "default"
	}
	return &Worker{
		queue:    queue,
		config:   config,
		handlers: make(map[string]JobHandler),
		stop:     make(chan struct{}),
	}
}

// RegisterHandler registers a job handler for a specific job type
func (w *Worker) RegisterHandler(handler JobHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[handler.GetType()] = handler
	log.Info().Str("type", handler.GetType()).Msg("✅ Registered job handler")
}

// Start starts the worker goroutines
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("worker is stopped, cannot restart")
	}
	w.mu.Unlock()

	log.Info().
		Str("queue", w.config.Queue).
		Int("concurrency", w.config.Concurrency).
		Msg("🚀 Starting job worker")

	for i := 0; i < w.config.Concurrency; i++ {
		w.wg.Add(1)
		go w.runWorker(ctx, i+1)
	}
	return nil
}

// Stop gracefully stops the worker. Jobs in flight are allowed to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.stop)
	}
	w.mu.Unlock()

	log.Info().Str("queue", w.config.Queue).Msg("🛑 Stopping job worker...")
	w.wg.Wait()
	log.Info().Msg("✅ Job worker stopped")
}

func (w *Worker) runWorker(ctx context.Context, workerID int) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Int("worker", workerID).Msg("Worker stopping due to context cancellation")
			return
		case <-w.stop:
			return
		case <-ticker.C:
			// Drain everything that is ready before sleeping again
			for {
				err := w.ProcessNext(ctx)
				if errors.Is(err, ErrNoJobsAvailable) {
					break
				}
				if err != nil {
					log.Warn().Err(err).Int("worker", workerID).Msg("⚠️ Worker error")
					break
				}
				if w.isStopped() || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

func (w *Worker) isStopped() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stopped
}

// ProcessNext claims and runs a single job. It returns ErrNoJobsAvailable
// when the queue has nothing ready. Handler failures are recorded on the
// job and do not surface as errors here.
func (w *Worker) ProcessNext(ctx context.Context) error {
	job, err := w.queue.Dequeue(ctx, w.config.Queue)
	if err != nil {
		return fmt.Errorf("failed to dequeue job: %w", err)
	}
	if job == nil {
		return ErrNoJobsAvailable
	}

	logger := log.With().
		Str("job_id", job.ID).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Logger()
	logger.Info().Msg("🔨 Processing job")

	w.mu.RLock()
	handler, exists := w.handlers[job.Type]
	w.mu.RUnlock()

	if !exists {
		logger.Error().Msg("❌ No handler registered for job type")
		return w.queue.MarkFailed(ctx, job.ID, fmt.Errorf("no handler registered for job type: %s", job.Type))
	}

	jobCtx := ctx
	if w.config.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.config.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	result, err := handler.Handle(jobCtx, job)
	duration := time.Since(startTime)

	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("❌ Job failed")
		if markErr := w.queue.MarkFailed(ctx, job.ID, err); markErr != nil {
			return fmt.Errorf("failed to mark job as failed: %w", markErr)
		}
		return nil
	}

	logger.Info().Dur("duration", duration).Msg("✅ Job completed")
	if err := w.queue.MarkCompleted(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to mark job as completed: %w", err)
	}
	return nil
}
