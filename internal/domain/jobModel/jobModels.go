package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	ClassifyInit InternalStatus = "ClassifyInit"
	Classifying  InternalStatus = "Classifying"
	ValidateInit InternalStatus = "ValidateInit"
	Validating   InternalStatus = "Validating"
	RedisCall    InternalStatus = "Redis"
	Error        InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeClassify JobType = "Classify"
	JobTypeValidate JobType = "Validate"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Files []fileModel.FileDescriptor `json:"files,omitempty"`

	Batch    string `json:"batch,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Schema   string `json:"schema,omitempty"`
	// Content travels over the job channel only; it is never persisted.
	Content string `json:"-"`

	Mapping *fileModel.MappingArtifact `json:"mapping,omitempty"`
	Report  *chipModel.Report          `json:"report,omitempty"`
}

// HistoryEntry is the summary of one finished validation job.
type HistoryEntry struct {
	JobId       string            `json:"job_id"`
	Batch       string            `json:"batch"`
	FileName    string            `json:"file_name"`
	Schema      string            `json:"schema"`
	Summary     chipModel.Summary `json:"summary"`
	CreatedTime time.Time         `json:"created_time"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// HistoryStore keeps the most recent validation summaries per batch, newest first.
type HistoryStore interface {
	PushHistory(ctx context.Context, entry HistoryEntry) error
	GetHistory(ctx context.Context, batch string) ([]HistoryEntry, error)
}
