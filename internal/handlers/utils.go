package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/akolanti/kbcurator/internal/adapter"
	"github.com/akolanti/kbcurator/internal/adapter/utils"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/internal/inventory"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out
		logRH.Error("error encoding response", "error", err)
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("couldn't close the request body", "error", err)
	}
}

func traceOf(r *http.Request) string {
	trace, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	return trace
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("empty job id")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(r *http.Request) bool {
	if err := r.Context().Err(); err != nil {
		logRH.Warn("context error", "traceId", traceOf(r), "error", err)
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// describePaths builds descriptors for bare paths. Unreadable paths are still
// classified, with size 0.
func describePaths(paths []string) []fileModel.FileDescriptor {
	out := make([]fileModel.FileDescriptor, 0, len(paths))
	for _, p := range paths {
		var size int64
		if st, err := os.Stat(p); err == nil {
			size = st.Size()
		}
		out = append(out, inventory.Describe(p, size))
	}
	return out
}

func processNewJobData(request *http.Request, w http.ResponseWriter, newJob newJobData) {
	newJob.id = utils.GetNewUUID()
	newJob.traceId = traceOf(request)
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}
