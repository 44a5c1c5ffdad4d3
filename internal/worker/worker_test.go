package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/internal/job"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCurationService tracks which jobs were executed
type MockCurationService struct {
	ProcessedCount int32
	OnValidate     func(ctx context.Context, req curation.ValidateRequest) (chipModel.Report, error)
}

func (m *MockCurationService) ClassifyFile(fd fileModel.FileDescriptor) fileModel.ClassificationResult {
	return fileModel.ClassificationResult{BucketKey: fileModel.BucketArchive}
}

func (m *MockCurationService) Classify(ctx context.Context, files []fileModel.FileDescriptor) (fileModel.MappingArtifact, error) {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return fileModel.MappingArtifact{Summary: fileModel.MappingSummary{TotalFilesClassified: len(files)}}, nil
}

func (m *MockCurationService) Validate(ctx context.Context, req curation.ValidateRequest) (chipModel.Report, error) {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnValidate != nil {
		return m.OnValidate(ctx, req)
	}
	return chipModel.Report{Schema: "strict", Summary: chipModel.Summary{Total: 1, Valid: 1}}, nil
}

type MockJobStore struct {
	mu   sync.Mutex
	jobs map[string]jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobId]
	return j, ok
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = map[string]jobModel.Job{}
	}
	m.jobs[j.Id] = j
	return nil
}

type MockHistoryStore struct {
	mu      sync.Mutex
	entries []jobModel.HistoryEntry
}

func (m *MockHistoryStore) PushHistory(ctx context.Context, e jobModel.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MockHistoryStore) GetHistory(ctx context.Context, batch string) ([]jobModel.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

func (m *MockHistoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := &MockJobStore{}
	history := &MockHistoryStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
		HistoryStore:      history,
	}
	mockCuration := &MockCurationService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	atomic.StoreInt64(&currentWorkerCount, 0)
	InitServices(jobSvc, mockCuration)
	InitWorkerPool(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		assert.Eventually(t, func() bool {
			return atomic.LoadInt64(&currentWorkerCount) >= 2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Worker validates and records history", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{
			Id:         "validate-1",
			JobType:    jobModel.JobTypeValidate,
			JobPayload: jobModel.JobPayload{Batch: "imsg", Content: "{}"},
		}
		require.Eventually(t, func() bool {
			j, ok := jobStore.GetJob(context.Background(), "validate-1")
			return ok && j.Status == jobModel.JobStatusComplete
		}, time.Second, 10*time.Millisecond)

		j, _ := jobStore.GetJob(context.Background(), "validate-1")
		require.NotNil(t, j.JobPayload.Report)
		assert.Equal(t, jobModel.Complete, j.CurrentStep)
		assert.Empty(t, j.JobPayload.Content)
		require.Eventually(t, func() bool { return history.count() == 1 }, time.Second, 10*time.Millisecond)
		entries, _ := history.GetHistory(context.Background(), "imsg")
		assert.Equal(t, "imsg", entries[0].Batch)
	})

	t.Run("Worker classifies", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{
			Id:         "classify-1",
			JobType:    jobModel.JobTypeClassify,
			JobPayload: jobModel.JobPayload{Files: []fileModel.FileDescriptor{{Filename: "a"}, {Filename: "b"}}},
		}
		require.Eventually(t, func() bool {
			j, ok := jobStore.GetJob(context.Background(), "classify-1")
			return ok && j.Status == jobModel.JobStatusComplete
		}, time.Second, 10*time.Millisecond)

		j, _ := jobStore.GetJob(context.Background(), "classify-1")
		require.NotNil(t, j.JobPayload.Mapping)
		assert.Equal(t, 2, j.JobPayload.Mapping.Summary.TotalFilesClassified)
		assert.EqualValues(t, 2, atomic.LoadInt32(&mockCuration.ProcessedCount))
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("workers did not stop within timeout")
		}
	})
}

func TestExecuteJob_Errors(t *testing.T) {
	logger = logger_i.NewLogger("test_worker")
	jobStore := &MockJobStore{}
	history := &MockHistoryStore{}
	jobSvc := &job.Service{JobStore: jobStore, HistoryStore: history}

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantRetry bool
	}{
		{"empty batch is a client error", commonModels.ErrEmptyBatch, http.StatusBadRequest, false},
		{"anything else is retryable", errors.New("cancelled"), http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitServices(jobSvc, &MockCurationService{
				OnValidate: func(context.Context, curation.ValidateRequest) (chipModel.Report, error) {
					return chipModel.Report{}, tt.err
				},
			})
			executeJob(jobModel.Job{Id: tt.name, JobType: jobModel.JobTypeValidate})

			j, ok := jobStore.GetJob(context.Background(), tt.name)
			require.True(t, ok)
			assert.Equal(t, jobModel.JobStatusError, j.Status)
			assert.Equal(t, tt.wantCode, j.Error.Code)
			assert.Equal(t, tt.wantRetry, j.Error.Retry)
		})
	}
	assert.Zero(t, history.count(), "failed validations are not recorded")
}

func TestWorker_IdleTimeout(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	prevIdle, prevMin := idleTimeout, minWorkerCount
	idleTimeout, minWorkerCount = 50*time.Millisecond, 1
	defer func() { idleTimeout, minWorkerCount = prevIdle, prevMin }()

	logger = logger_i.NewLogger("test_worker_pool")
	InitServices(&job.Service{JobChannel: make(chan jobModel.Job)}, &MockCurationService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	createWorker()

	// one worker retires, the pool never drops below the minimum
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&currentWorkerCount) == 1
	}, time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt64(&currentWorkerCount))

	close(stopChan)
	wg.Wait()
	assert.Zero(t, atomic.LoadInt64(&currentWorkerCount))
}
