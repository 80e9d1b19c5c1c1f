package inmemory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moumensaid/smartfin/internal/jobs"
)

func TestStoreSaveRequiresID(t *testing.T) {
	s := NewStore()
	err := s.SaveJob(context.Background(), &jobs.ParseStatementJob{})
	assert.Error(t, err)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	job := &jobs.ParseStatementJob{JobID: "j1", Status: jobs.JobStatusPending}
	require.NoError(t, s.SaveJob(context.Background(), job))

	got, err := s.GetJob(context.Background(), "j1")
	require.NoError(t, err)
	got.Status = jobs.JobStatusFailed

	again, err := s.GetJob(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusPending, again.Status, "mutating a returned job must not affect the store")
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore()
	_, err := s.GetJob(context.Background(), "nope")
	assert.Error(t, err)
}

func TestStoreListJobs(t *testing.T) {
	s := NewStore()
	base := time.Now()
	for i := 0; i < 5; i++ {
		status := jobs.JobStatusPending
		if i%2 == 0 {
			status = jobs.JobStatusCompleted
		}
		require.NoError(t, s.SaveJob(context.Background(), &jobs.ParseStatementJob{
			JobID:      fmt.Sprintf("j%d", i),
			DocumentID: fmt.Sprintf("d%d", i),
			Status:     status,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.ListJobs(context.Background(), jobs.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "j4", all[0].JobID, "newest first")
	assert.Equal(t, "j0", all[4].JobID)

	completed, err := s.ListJobs(context.Background(), jobs.JobFilter{Status: jobs.JobStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 3)

	byDoc, err := s.ListJobs(context.Background(), jobs.JobFilter{DocumentID: "d2"})
	require.NoError(t, err)
	require.Len(t, byDoc, 1)
	assert.Equal(t, "j2", byDoc[0].JobID)

	paged, err := s.ListJobs(context.Background(), jobs.JobFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, "j3", paged[0].JobID)
	assert.Equal(t, "j2", paged[1].JobID)

	past, err := s.ListJobs(context.Background(), jobs.JobFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}
