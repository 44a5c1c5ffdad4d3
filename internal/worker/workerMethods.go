package worker

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	jobmodel "github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	log := logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("processing job", "type", job.JobType)

	job = saveJobState(ctx, job, jobmodel.JobStatusRunning, log)

	switch job.JobType {
	case jobmodel.JobTypeClassify:
		job = classifyFiles(ctx, job, log)
	case jobmodel.JobTypeValidate:
		job = validateChips(ctx, job, log)
	default:
		job = jobError(job, http.StatusBadRequest, "unknown job type", false, log)
	}

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		job = saveJobState(ctx, job, jobmodel.JobStatusError, log)
		return
	}
	job.CurrentStep = jobmodel.Complete
	job = saveJobState(ctx, job, jobmodel.JobStatusComplete, log)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	n := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("removed worker", "reason", reason, "workerCount", n)
	metrics.DecrementActiveWorkerCount()
}

func classifyFiles(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) jobmodel.Job {
	job.CurrentStep = jobmodel.Classifying
	artifact, err := _curationService.Classify(ctx, job.JobPayload.Files)
	if err != nil {
		log.Error("classification failed", "error", err)
		return jobError(job, http.StatusInternalServerError, "classification failed", true, log)
	}
	job.JobPayload.Mapping = &artifact
	job.JobPayload.Files = nil
	return job
}

func validateChips(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) jobmodel.Job {
	job.CurrentStep = jobmodel.Validating
	payload := job.JobPayload
	report, err := _curationService.Validate(ctx, curation.ValidateRequest{
		Batch:    payload.Batch,
		FileName: payload.FileName,
		Schema:   payload.Schema,
		Content:  payload.Content,
	})
	job.JobPayload.Content = ""
	if err != nil {
		if errors.Is(err, commonModels.ErrEmptyBatch) || errors.Is(err, config.ErrUnknownSchema) {
			return jobError(job, http.StatusBadRequest, err.Error(), false, log)
		}
		log.Error("validation failed", "error", err)
		return jobError(job, http.StatusInternalServerError, "validation failed", true, log)
	}
	job.JobPayload.Report = &report

	job.CurrentStep = jobmodel.RedisCall
	entry := jobmodel.HistoryEntry{
		JobId:       job.Id,
		Batch:       curation.BatchName(payload.Batch),
		FileName:    payload.FileName,
		Schema:      report.Schema,
		Summary:     report.Summary,
		CreatedTime: time.Now(),
	}
	if err := _jobService.HistoryStore.PushHistory(ctx, entry); err != nil {
		log.Error("failed to save validation history", "error", err)
	}
	return job
}

func jobError(job jobmodel.Job, code int, message string, canRetry bool, log *logger_i.Logger) jobmodel.Job {
	log.Warn("job failed", "code", code, "message", message)
	job.Error = jobmodel.JobError{
		Code:    code,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus, log *logger_i.Logger) jobmodel.Job {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("failed to update job state", "error", err)
	}
	return job
}
