package inmemory

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moumensaid/smartfin/internal/jobs"
)

func TestPublishFillsDefaults(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	job := &jobs.ParseStatementJob{FileRef: "/tmp/a.pdf", FileName: "a.pdf"}
	require.NoError(t, q.PublishParseStatement(context.Background(), job))

	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, jobs.JobStatusPending, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, 3, job.MaxRetries)

	stored, err := store.GetJob(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusPending, stored.Status)
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	processed := make(chan string, 1)
	handler := func(ctx context.Context, job *jobs.ParseStatementJob) error {
		processed <- job.FileName
		return nil
	}
	require.NoError(t, q.Start(context.Background(), handler))

	job := &jobs.ParseStatementJob{FileRef: "/tmp/a.pdf", FileName: "a.pdf"}
	require.NoError(t, q.PublishParseStatement(context.Background(), job))

	select {
	case name := <-processed:
		assert.Equal(t, "a.pdf", name)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	assert.Eventually(t, func() bool {
		stored, err := store.GetJob(context.Background(), job.JobID)
		return err == nil && stored.Status == jobs.JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRetriesFailedJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	var attempts atomic.Int32
	handler := func(ctx context.Context, job *jobs.ParseStatementJob) error {
		if attempts.Add(1) == 1 {
			return fmt.Errorf("transient model error")
		}
		return nil
	}
	require.NoError(t, q.Start(context.Background(), handler))

	job := &jobs.ParseStatementJob{FileRef: "/tmp/a.pdf", FileName: "a.pdf"}
	require.NoError(t, q.PublishParseStatement(context.Background(), job))

	assert.Eventually(t, func() bool {
		stored, err := store.GetJob(context.Background(), job.JobID)
		return err == nil && stored.Status == jobs.JobStatusCompleted
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, int32(2), attempts.Load())
}

func TestPublishAfterStopFails(t *testing.T) {
	q := NewQueue(10, NewStore())
	require.NoError(t, q.Stop(context.Background()))

	err := q.PublishParseStatement(context.Background(), &jobs.ParseStatementJob{})
	assert.Error(t, err)
}

func TestStopWaitsForWorkers(t *testing.T) {
	q := NewQueue(10, NewStore())

	started := make(chan struct{})
	handler := func(ctx context.Context, job *jobs.ParseStatementJob) error {
		close(started)
		time.Sleep(100 * time.Millisecond)
		return nil
	}
	require.NoError(t, q.Start(context.Background(), handler))
	require.NoError(t, q.PublishParseStatement(context.Background(), &jobs.ParseStatementJob{FileName: "a.pdf"}))

	<-started
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, q.Stop(ctx))
}
