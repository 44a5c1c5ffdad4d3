package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/kbcurator/internal/api"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:  string(job.Status),
			Step:    string(job.CurrentStep),
			Mapping: job.JobPayload.Mapping,
			Report:  job.JobPayload.Report,
		},
	}
}

func ToHistoryResponse(batch string, entries []jobModel.HistoryEntry) api.HistoryResponse {
	out := api.HistoryResponse{Batch: batch, Entries: make([]api.HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, api.HistoryEntry{
			JobId:     e.JobId,
			FileName:  e.FileName,
			Schema:    e.Schema,
			Summary:   e.Summary,
			Timestamp: e.CreatedTime,
		})
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
