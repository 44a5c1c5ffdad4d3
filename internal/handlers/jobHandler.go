package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/internal/job"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logger_i.NewLogger("job_handler")
		logRH = logger_i.NewLogger("request_handler")
		logJH.Info("starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.Info("creating new job", "traceId", newJob.traceId, "jobId", newJob.id, "type", newJob.jobType)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func GetBatchHistory(batch string, traceId string) ([]jobModel.HistoryEntry, error) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	return handlerInstance.service.HistoryStore.GetHistory(ctxC, batch)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {
	_job := jobModel.Job{
		Id:          newJob.id,
		TraceId:     newJob.traceId,
		JobType:     newJob.jobType,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
	}

	switch newJob.jobType {
	case jobModel.JobTypeClassify:
		_job.CurrentStep = jobModel.ClassifyInit
		_job.JobPayload.Files = newJob.files
	case jobModel.JobTypeValidate:
		_job.CurrentStep = jobModel.ValidateInit
		_job.JobPayload.Batch = newJob.batch
		_job.JobPayload.FileName = newJob.fileName
		_job.JobPayload.Schema = newJob.schema
		_job.JobPayload.Content = newJob.content
	}

	// queued state is visible to /status before a worker picks the job up
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctx, _job); err != nil {
		logJH.Error("could not save queued job", "jobId", _job.Id, "error", err)
	}

	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send so a full buffer pushes back on callers
	logJH.Debug("job queued", "jobId", _job.Id)

	// a new worker every RequestsPerNewWorkerCount requests; idle workers retire on their own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 {
		metrics.StartDispatcherSignalCount()
		select {
		case h.service.DispatcherChannel <- true:
		default:
			logJH.Debug("dispatcher busy, skipping signal", "requestCount", accurateCount)
		}
	}
}
