// Package jobs defines the asynchronous statement-parsing jobs and the
// queue/store abstractions the API and worker binaries share.
package jobs

import (
	"context"
	"time"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ParseStatementJob asks a worker to extract one uploaded PDF and merge the
// result into the collection. FileRef is the blob-store reference of the
// uploaded bytes (a local path or a gs:// URI).
type ParseStatementJob struct {
	JobID      string `json:"job_id"`
	DocumentID string `json:"document_id"`
	FileRef    string `json:"file_ref"`
	FileName   string `json:"file_name"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Publisher enqueues parse jobs. The in-memory queue is the only
// implementation today; the interface keeps a managed queue possible later.
type Publisher interface {
	PublishParseStatement(ctx context.Context, job *ParseStatementJob) error
	Close() error
}

// JobHandler processes one job. A returned error means the job failed and
// may be retried.
type JobHandler func(ctx context.Context, job *ParseStatementJob) error

// Consumer pulls jobs and feeds them to a handler.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobStore tracks job state so the API can report progress.
type JobStore interface {
	SaveJob(ctx context.Context, job *ParseStatementJob) error
	GetJob(ctx context.Context, jobID string) (*ParseStatementJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ParseStatementJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	DocumentID string
	Status     JobStatus
	Limit      int
	Offset     int
}
