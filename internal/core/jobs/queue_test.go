package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/testhelpers"
)

type echoPayload struct {
	Value string `json:"value"`
}

func enqueue(t *testing.T, q *jobs.Queue, opts jobs.EnqueueOptions) *jobs.Job {
	t.Helper()
	job, err := q.Enqueue(context.Background(), "echo", echoPayload{Value: "hi"}, opts)
	require.NoError(t, err)
	return job
}

func TestEnqueue_Defaults(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))

	job := enqueue(t, q, jobs.EnqueueOptions{Reference: "ref-1"})

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "default", job.Queue)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Equal(t, jobs.StatusPending, job.Status)
	assert.JSONEq(t, `{"value":"hi"}`, string(job.Payload))
}

func TestDequeue_PriorityThenAge(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))
	ctx := t.Context()

	low := enqueue(t, q, jobs.EnqueueOptions{Priority: jobs.PriorityLow})
	high := enqueue(t, q, jobs.EnqueueOptions{Priority: jobs.PriorityHigh})

	got, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, high.ID, got.ID)
	assert.Equal(t, jobs.StatusProcessing, got.Status)
	assert.Equal(t, 1, got.Attempts)

	got, err = q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, low.ID, got.ID)

	got, err = q.Dequeue(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDequeue_SkipsFutureAndOtherQueues(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))

	later := time.Now().UTC().Add(time.Hour)
	enqueue(t, q, jobs.EnqueueOptions{ScheduleAt: &later})
	enqueue(t, q, jobs.EnqueueOptions{Queue: "other"})

	got, err := q.Dequeue(t.Context(), "default")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMarkFailed_RetriesThenFails(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	q := jobs.NewQueue(db)
	ctx := t.Context()

	job := enqueue(t, q, jobs.EnqueueOptions{MaxRetries: 2})

	claimed, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NoError(t, q.MarkFailed(ctx, claimed.ID, errors.New("boom")))

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusRetrying, got.Status)
	assert.Equal(t, "boom", got.Error)
	require.NotNil(t, got.ScheduledAt)

	// Not ready until the backoff elapses
	none, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, db.Model(&jobs.Job{}).Where("id = ?", job.ID).
		Update("scheduled_at", time.Now().UTC().Add(-time.Second)).Error)

	claimed, err = q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, 2, claimed.Attempts)
	require.NoError(t, q.MarkFailed(ctx, claimed.ID, errors.New("boom again")))

	got, err = q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, got.Status)
	assert.NotNil(t, got.FailedAt)
}

func TestMarkCompleted_StoresResult(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))
	ctx := t.Context()

	job := enqueue(t, q, jobs.DefaultEnqueueOptions())
	_, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)

	require.NoError(t, q.MarkCompleted(ctx, job.ID, map[string]int{"transaction_id": 7}))

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.JSONEq(t, `{"transaction_id":7}`, string(got.Result))
}

func TestCancel(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))
	ctx := t.Context()

	pending := enqueue(t, q, jobs.DefaultEnqueueOptions())
	require.NoError(t, q.Cancel(ctx, pending.ID))

	got, err := q.GetJob(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusCancelled, got.Status)

	running := enqueue(t, q, jobs.DefaultEnqueueOptions())
	_, err = q.Dequeue(ctx, "default")
	require.NoError(t, err)
	assert.ErrorIs(t, q.Cancel(ctx, running.ID), jobs.ErrNotCancellable)
}

func TestGetStats(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))
	ctx := t.Context()

	enqueue(t, q, jobs.DefaultEnqueueOptions())
	enqueue(t, q, jobs.DefaultEnqueueOptions())
	done := enqueue(t, q, jobs.EnqueueOptions{Priority: jobs.PriorityCritical})
	_, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NoError(t, q.MarkCompleted(ctx, done.ID, nil))

	stats, err := q.GetStats(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalJobs)
	assert.Equal(t, int64(2), stats.PendingJobs)
	assert.Equal(t, int64(1), stats.CompletedJobs)
}

func TestDeleteOldJobs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	q := jobs.NewQueue(db)
	ctx := t.Context()

	old := enqueue(t, q, jobs.DefaultEnqueueOptions())
	require.NoError(t, db.Model(&jobs.Job{}).Where("id = ?", old.ID).Updates(map[string]any{
		"status":       jobs.StatusCompleted,
		"completed_at": time.Now().UTC().Add(-48 * time.Hour),
	}).Error)

	fresh := enqueue(t, q, jobs.DefaultEnqueueOptions())
	require.NoError(t, q.MarkCompleted(ctx, fresh.ID, nil))

	pending := enqueue(t, q, jobs.DefaultEnqueueOptions())

	deleted, err := q.DeleteOldJobs(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = q.GetJob(ctx, fresh.ID)
	assert.NoError(t, err)
	_, err = q.GetJob(ctx, pending.ID)
	assert.NoError(t, err)
}

func TestRequeueStale(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	q := jobs.NewQueue(db)
	ctx := t.Context()

	job := enqueue(t, q, jobs.DefaultEnqueueOptions())
	_, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)

	requeued, failed, err := q.RequeueStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, requeued, "still fresh")
	assert.Zero(t, failed)

	require.NoError(t, db.Model(&jobs.Job{}).Where("id = ?", job.ID).
		Update("started_at", time.Now().UTC().Add(-2*time.Hour)).Error)

	requeued, failed, err = q.RequeueStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), requeued)
	assert.Zero(t, failed)

	again, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, job.ID, again.ID)
	assert.Equal(t, 2, again.Attempts)
}

func TestRequeueStale_FailsExhaustedJobs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	q := jobs.NewQueue(db)
	ctx := t.Context()

	job := enqueue(t, q, jobs.EnqueueOptions{MaxRetries: 1})
	claimed, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, 1, claimed.Attempts)

	require.NoError(t, db.Model(&jobs.Job{}).Where("id = ?", job.ID).
		Update("started_at", time.Now().UTC().Add(-2*time.Hour)).Error)

	requeued, failed, err := q.RequeueStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, requeued)
	assert.Equal(t, int64(1), failed)

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, got.Status)
	assert.NotNil(t, got.FailedAt)

	again, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, again, "a failed job is never picked up again")
}

func TestEnqueue_ScheduleAtInOtherZones(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))
	ctx := t.Context()

	west := time.FixedZone("UTC-5", -5*60*60)
	east := time.FixedZone("UTC+9", 9*60*60)

	// Due in an hour, expressed west of UTC
	later := time.Now().In(west).Add(time.Hour)
	delayed := enqueue(t, q, jobs.EnqueueOptions{ScheduleAt: &later, Priority: jobs.PriorityHigh})
	assert.Equal(t, time.UTC, delayed.ScheduledAt.Location())
	assert.Equal(t, time.UTC, delayed.CreatedAt.Location())

	got, err := q.Dequeue(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, got, "not due for another hour")

	// Already due, expressed east of UTC
	earlier := time.Now().In(east).Add(-time.Minute)
	due := enqueue(t, q, jobs.EnqueueOptions{ScheduleAt: &earlier})

	got, err = q.Dequeue(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, due.ID, got.ID)
}
