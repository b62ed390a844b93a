package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotCancellable is returned when cancelling a job that already started
var ErrNotCancellable = errors.New("job not found or not in cancellable state")

// Queue manages job queue operations
type Queue struct {
	db  *gorm.DB
	now func() time.Time
}

// NewQueue creates a new job queue
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Enqueue adds a new job to the queue
func (q *Queue) Enqueue(ctx context.Context, jobType string, payload any, opts EnqueueOptions) (*Job, error) {
	// Set defaults
	if opts.Queue == "" {
		opts.Queue = "default"
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	// Serialize payload
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	// Times are compared as stored, so everything is kept in UTC
	var scheduledAt *time.Time
	if opts.ScheduleAt != nil {
		t := opts.ScheduleAt.UTC()
		scheduledAt = &t
	}

	job := &Job{
		Queue:       opts.Queue,
		Type:        jobType,
		Reference:   opts.Reference,
		Payload:     datatypes.JSON(payloadJSON),
		Status:      StatusPending,
		Priority:    opts.Priority,
		MaxRetries:  opts.MaxRetries,
		ScheduledAt: scheduledAt,
	}

	if err := q.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

// Dequeue claims the next runnable job of queueName. It returns nil when
// nothing is ready. The claim is a conditional update, so two workers never
// run the same job.
func (q *Queue) Dequeue(ctx context.Context, queueName string) (*Job, error) {
	db := q.db.WithContext(ctx)
	now := q.now()

	for {
		var job Job
		err := db.
			Where("queue = ? AND status IN ?", queueName, []JobStatus{StatusPending, StatusRetrying}).
			Where("scheduled_at IS NULL OR scheduled_at <= ?", now).
			Order("priority DESC, created_at ASC").
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No jobs available
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find job: %w", err)
		}

		claim := db.Model(&Job{}).
			Where("id = ? AND status = ?", job.ID, job.Status).
			Updates(map[string]any{
				"status":     StatusProcessing,
				"started_at": now,
				"attempts":   gorm.Expr("attempts + 1"),
			})
		if claim.Error != nil {
			return nil, fmt.Errorf("failed to claim job: %w", claim.Error)
		}
		if claim.RowsAffected == 0 {
			continue // Another worker took it
		}

		job.Status = StatusProcessing
		job.StartedAt = &now
		job.Attempts++
		return &job, nil
	}
}

// MarkCompleted marks a job as completed
func (q *Queue) MarkCompleted(ctx context.Context, jobID string, result any) error {
	updates := map[string]any{
		"status":       StatusCompleted,
		"completed_at": q.now(),
		"error":        "",
	}

	// Serialize result if provided
	if result != nil {
		resultJSON, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to serialize result: %w", err)
		}
		updates["result"] = datatypes.JSON(resultJSON)
	}

	return q.db.WithContext(ctx).Model(&Job{}).Where("id = ?", jobID).Updates(updates).Error
}

// MarkFailed records a failed attempt and schedules a retry with
// exponential backoff while attempts remain.
func (q *Queue) MarkFailed(ctx context.Context, jobID string, cause error) error {
	var job Job
	if err := q.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return fmt.Errorf("failed to find job: %w", err)
	}

	now := q.now()
	updates := map[string]any{
		"error":     cause.Error(),
		"failed_at": now,
	}

	if job.Attempts < job.MaxRetries {
		updates["status"] = StatusRetrying
		updates["scheduled_at"] = now.Add(time.Duration(calculateBackoff(job.Attempts)) * time.Second)
	} else {
		updates["status"] = StatusFailed
	}

	return q.db.WithContext(ctx).Model(&Job{}).Where("id = ?", jobID).Updates(updates).Error
}

// Cancel cancels a job that has not started yet
func (q *Queue) Cancel(ctx context.Context, jobID string) error {
	result := q.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status IN ?", jobID, []JobStatus{StatusPending, StatusRetrying}).
		Update("status", StatusCancelled)

	if result.Error != nil {
		return fmt.Errorf("failed to cancel job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotCancellable
	}
	return nil
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := q.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetStats counts the jobs of queueName by status
func (q *Queue) GetStats(ctx context.Context, queueName string) (*JobStats, error) {
	var rows []struct {
		Status JobStatus
		Count  int64
	}
	err := q.db.WithContext(ctx).Model(&Job{}).
		Select("status, COUNT(*) AS count").
		Where("queue = ?", queueName).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	stats := &JobStats{}
	for _, row := range rows {
		stats.TotalJobs += row.Count
		switch row.Status {
		case StatusPending:
			stats.PendingJobs = row.Count
		case StatusProcessing:
			stats.ProcessingJobs = row.Count
		case StatusRetrying:
			stats.RetryingJobs = row.Count
		case StatusCompleted:
			stats.CompletedJobs = row.Count
		case StatusFailed:
			stats.FailedJobs = row.Count
		}
	}
	return stats, nil
}

// DeleteOldJobs deletes finished jobs older than the specified duration
func (q *Queue) DeleteOldJobs(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := q.now().Add(-olderThan)

	result := q.db.WithContext(ctx).
		Where("status IN ?", []JobStatus{StatusCompleted, StatusFailed, StatusCancelled}).
		Where("COALESCE(completed_at, failed_at, updated_at) < ?", cutoff).
		Delete(&Job{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// calculateBackoff calculates exponential backoff time in seconds
func calculateBackoff(attempt int) int {
	// Exponential backoff: 2^attempt seconds, max 1 hour
	if attempt > 11 {
		return 3600
	}
	backoff := 1 << attempt
	if backoff > 3600 {
		backoff = 3600
	}
	return backoff
}

// RequeueStale hands jobs stuck in processing for longer than staleAfter
// back to the queue. A worker that died mid-job leaves such rows behind.
// Jobs that already used every attempt are failed instead, so a job that
// kills its worker cannot loop forever.
func (q *Queue) RequeueStale(ctx context.Context, staleAfter time.Duration) (requeued, failed int64, err error) {
	now := q.now()
	cutoff := now.Add(-staleAfter)

	err = q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := func() *gorm.DB {
			return tx.Model(&Job{}).Where("status = ? AND started_at < ?", StatusProcessing, cutoff)
		}

		exhausted := stale().
			Where("attempts >= max_retries").
			Updates(map[string]any{
				"status":    StatusFailed,
				"failed_at": now,
				"error":     "worker lost while processing, retries exhausted",
			})
		if exhausted.Error != nil {
			return exhausted.Error
		}
		failed = exhausted.RowsAffected

		retried := stale().
			Updates(map[string]any{
				"status":       StatusRetrying,
				"scheduled_at": nil,
				"error":        "worker lost while processing",
			})
		if retried.Error != nil {
			return retried.Error
		}
		requeued = retried.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to requeue stale jobs: %w", err)
	}

	return requeued, failed, nil
}
