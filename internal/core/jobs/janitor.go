package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// JanitorConfig controls the periodic queue housekeeping
type JanitorConfig struct {
	Schedule   string        // cron expression with seconds, e.g. "0 0 3 * * *"
	Retention  time.Duration // finished jobs older than this are deleted
	StaleAfter time.Duration // processing jobs older than this are requeued
}

// Janitor runs queue housekeeping on a cron schedule
type Janitor struct {
	queue  *Queue
	config JanitorConfig
	cron   *cron.Cron
}

// NewJanitor registers the housekeeping run on its schedule. The cron is
// not started until Start.
func NewJanitor(queue *Queue, config JanitorConfig) (*Janitor, error) {
	j := &Janitor{
		queue:  queue,
		config: config,
		cron:   cron.New(cron.WithSeconds()),
	}

	if _, err := j.cron.AddFunc(config.Schedule, func() {
		if err := j.RunOnce(context.Background()); err != nil {
			log.Error().Err(err).Msg("❌ Job janitor run failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}

	return j, nil
}

// Start starts the scheduler
func (j *Janitor) Start() {
	j.cron.Start()
	log.Info().Str("schedule", j.config.Schedule).Msg("⏰ Job janitor started")
}

// Stop stops the scheduler and waits for a running pass to finish
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	log.Info().Msg("✅ Job janitor stopped")
}

// RunOnce requeues stale jobs and purges expired ones
func (j *Janitor) RunOnce(ctx context.Context) error {
	if j.config.StaleAfter > 0 {
		requeued, failed, err := j.queue.RequeueStale(ctx, j.config.StaleAfter)
		if err != nil {
			return err
		}
		if requeued > 0 || failed > 0 {
			log.Warn().Int64("requeued", requeued).Int64("failed", failed).Msg("⚠️ Recovered stale jobs")
		}
	}

	if j.config.Retention > 0 {
		deleted, err := j.queue.DeleteOldJobs(ctx, j.config.Retention)
		if err != nil {
			return err
		}
		log.Info().Int64("count", deleted).Msg("🧹 Deleted old jobs")
	}

	return nil
}
