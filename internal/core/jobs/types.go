package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusRetrying   JobStatus = "retrying"
	StatusCancelled  JobStatus = "cancelled"
)

// JobPriority represents the priority of a job
type JobPriority int

const (
	PriorityLow      JobPriority = 0
	PriorityNormal   JobPriority = 5
	PriorityHigh     JobPriority = 10
	PriorityCritical JobPriority = 20
)

// Job is a unit of background work persisted in the jobs table
type Job struct {
	ID        string         `gorm:"column:id;type:varchar(36);primaryKey"`
	Queue     string         `gorm:"column:queue;not null;index"`
	Type      string         `gorm:"column:type;not null"`
	Reference string         `gorm:"column:reference"` // caller-side id, e.g. the receipt image
	Payload   datatypes.JSON `gorm:"column:payload"`

	Status   JobStatus   `gorm:"column:status;not null;index"`
	Priority JobPriority `gorm:"column:priority;not null"`

	Attempts   int `gorm:"column:attempts;not null"`
	MaxRetries int `gorm:"column:max_retries;not null"`

	ScheduledAt *time.Time `gorm:"column:scheduled_at"` // For delayed jobs and retries
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	FailedAt    *time.Time `gorm:"column:failed_at"`

	Error  string         `gorm:"column:error"`
	Result datatypes.JSON `gorm:"column:result"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for Job model
func (Job) TableName() string {
	return "jobs"
}

// BeforeCreate sets ID before creating
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// JobHandler is the interface that job handlers must implement. The
// returned result is stored on the job when it completes.
type JobHandler interface {
	Handle(ctx context.Context, job *Job) (any, error)
	GetType() string
}

// EnqueueOptions contains options for enqueueing a job
type EnqueueOptions struct {
	Queue      string
	Reference  string
	Priority   JobPriority
	MaxRetries int
	ScheduleAt *time.Time
}

// DefaultEnqueueOptions returns default enqueue options
func DefaultEnqueueOptions() EnqueueOptions {
	return EnqueueOptions{
		Queue:      "default",
		Priority:   PriorityNormal,
		MaxRetries: 3,
	}
}

// JobStats counts jobs per status
type JobStats struct {
	TotalJobs      int64 `json:"total_jobs"`
	PendingJobs    int64 `json:"pending_jobs"`
	ProcessingJobs int64 `json:"processing_jobs"`
	RetryingJobs   int64 `json:"retrying_jobs"`
	CompletedJobs  int64 `json:"completed_jobs"`
	FailedJobs     int64 `json:"failed_jobs"`
}

// WorkerConfig contains configuration for job workers
type WorkerConfig struct {
	Queue        string
	Concurrency  int           // Number of concurrent workers
	PollInterval time.Duration // How often to poll for new jobs
	Timeout      time.Duration // Maximum time for job execution
}

// DefaultWorkerConfig returns default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Queue:        "default",
		Concurrency:  5,
		PollInterval: 1 * time.Second,
		Timeout:      5 * time.Minute,
	}
}
