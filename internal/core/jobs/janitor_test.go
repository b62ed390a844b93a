package jobs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/testhelpers"
)

func TestNewJanitor_RejectsBadSchedule(t *testing.T) {
	q := jobs.NewQueue(testhelpers.SetupTestDB(t))

	_, err := jobs.NewJanitor(q, jobs.JanitorConfig{Schedule: "every tuesday"})
	assert.Error(t, err)
}

func TestJanitor_RunOnce(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	q := jobs.NewQueue(db)
	ctx := t.Context()

	j, err := jobs.NewJanitor(q, jobs.JanitorConfig{
		Schedule:   "0 0 3 * * *",
		Retention:  24 * time.Hour,
		StaleAfter: time.Hour,
	})
	require.NoError(t, err)

	old := enqueue(t, q, jobs.DefaultEnqueueOptions())
	require.NoError(t, db.Model(&jobs.Job{}).Where("id = ?", old.ID).Updates(map[string]any{
		"status":    jobs.StatusFailed,
		"failed_at": time.Now().UTC().Add(-72 * time.Hour),
	}).Error)

	stuck := enqueue(t, q, jobs.DefaultEnqueueOptions())
	require.NoError(t, db.Model(&jobs.Job{}).Where("id = ?", stuck.ID).Updates(map[string]any{
		"status":     jobs.StatusProcessing,
		"started_at": time.Now().UTC().Add(-3 * time.Hour),
	}).Error)

	require.NoError(t, j.RunOnce(ctx))

	_, err = q.GetJob(ctx, old.ID)
	assert.Error(t, err, "expired job purged")

	got, err := q.GetJob(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusRetrying, got.Status)

	j.Start()
	j.Stop()
}
