package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/data/redisStore"
	"github.com/akolanti/kbcurator/internal/data/store"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewStoreFromClient(client, 0)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internal := newRedis(t)
	jobStore := store.NewRedisJobStore(internal)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	report := chipModel.Report{Schema: "strict", Summary: chipModel.Summary{Total: 2, Valid: 1, Invalid: 1}}
	testJob := jobModel.Job{
		Id:      jobID,
		JobType: jobModel.JobTypeValidate,
		Status:  jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Batch:   "imsg",
			Content: "{\"chip_id\": \"x\"}",
			Report:  &report,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		require.NoError(t, jobStore.SaveJob(ctx, testJob))

		got, found := jobStore.GetJob(ctx, jobID)
		require.True(t, found, "job was saved but not found in redis")
		assert.Equal(t, "imsg", got.JobPayload.Batch)
		require.NotNil(t, got.JobPayload.Report)
		assert.Equal(t, 1, got.JobPayload.Report.Summary.Invalid)
		assert.Empty(t, got.JobPayload.Content, "content is never persisted")
		assert.Greater(t, mr.TTL("job:"+jobID), time.Duration(0))
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		assert.False(t, found)
	})

	t.Run("Corrupt entry is not found", func(t *testing.T) {
		require.NoError(t, mr.Set("job:bad", "{not json"))
		_, found := jobStore.GetJob(ctx, "bad")
		assert.False(t, found)
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		assert.False(t, mr.Exists("job:"+jobID))
	})
}

func TestRedisJobStore_Concurrent(t *testing.T) {
	_, internal := newRedis(t)
	jobStore := store.NewRedisJobStore(internal)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")

	job := jobModel.Job{
		Id:         "race-job",
		JobPayload: jobModel.JobPayload{Files: []fileModel.FileDescriptor{{Filename: "a.pdf"}}},
	}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	got, found := jobStore.GetJob(ctx, "race-job")
	require.True(t, found)
	assert.Equal(t, "a.pdf", got.JobPayload.Files[0].Filename)
}

func entry(batch string, i int) jobModel.HistoryEntry {
	return jobModel.HistoryEntry{
		JobId:   fmt.Sprintf("job-%d", i),
		Batch:   batch,
		Schema:  config.SchemaStrict,
		Summary: chipModel.Summary{Total: i},
	}
}

func TestHistoryStores_KeepLastFive(t *testing.T) {
	_, internal := newRedis(t)
	stores := map[string]jobModel.HistoryStore{
		"redis":    store.NewRedisHistoryStore(internal),
		"inmemory": store.InitInMemoryHistoryStore(),
	}

	for name, hs := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 1; i <= 7; i++ {
				require.NoError(t, hs.PushHistory(ctx, entry("imsg", i)))
			}
			require.NoError(t, hs.PushHistory(ctx, entry("kb", 1)))

			got, err := hs.GetHistory(ctx, "imsg")
			require.NoError(t, err)
			require.Len(t, got, config.HistoryDepth)
			assert.Equal(t, "job-7", got[0].JobId, "newest first")
			assert.Equal(t, "job-3", got[4].JobId)

			other, err := hs.GetHistory(ctx, "kb")
			require.NoError(t, err)
			assert.Len(t, other, 1)

			empty, err := hs.GetHistory(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestInMemoryJobStore(t *testing.T) {
	s := store.InitInMemoryJobStore()
	ctx := context.Background()

	require.NoError(t, s.SaveJob(ctx, jobModel.Job{Id: "a", Status: jobModel.JobStatusQueued}))
	got, found := s.GetJob(ctx, "a")
	require.True(t, found)
	assert.Equal(t, jobModel.JobStatusQueued, got.Status)

	s.DeleteJob(ctx, "a")
	_, found = s.GetJob(ctx, "a")
	assert.False(t, found)
}
