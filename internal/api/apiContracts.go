package api

import (
	"time"

	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id"`
	JobType   string            `json:"job_type,omitempty"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"can_retry"`
}

type Result struct {
	Status  string                     `json:"status"`
	Step    string                     `json:"step,omitempty"`
	Mapping *fileModel.MappingArtifact `json:"mapping,omitempty"`
	Report  *chipModel.Report          `json:"report,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HistoryResponse struct {
	Batch   string         `json:"batch"`
	Entries []HistoryEntry `json:"entries"`
}

type HistoryEntry struct {
	JobId     string            `json:"job_id"`
	FileName  string            `json:"file_name"`
	Schema    string            `json:"schema"`
	Summary   chipModel.Summary `json:"summary"`
	Timestamp time.Time         `json:"timestamp"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// requests---------------------

// ClassifyRequest carries either full descriptors or bare paths to describe.
type ClassifyRequest struct {
	Files []fileModel.FileDescriptor `json:"files,omitempty"`
	Paths []string                   `json:"paths,omitempty"`
}

type ValidateRequest struct {
	Batch    string `json:"batch"`
	FileName string `json:"file_name"`
	Schema   string `json:"schema,omitempty"`
	Content  string `json:"content" validate:"required"`
}
