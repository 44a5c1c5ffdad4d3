package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/kbcurator/internal/adapter"
	"github.com/akolanti/kbcurator/internal/adapter/utils"
	"github.com/akolanti/kbcurator/internal/api"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/internal/validator"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id       string
	traceId  string
	jobType  jobModel.JobType
	files    []fileModel.FileDescriptor
	batch    string
	fileName string
	schema   string
	content  string
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok", Version: config.AppVersion})
}

// ClassifyHandler queues a classification job for the given descriptors and paths.
// POST /classify
func ClassifyHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	defer closeBody(r.Body)

	var requestData api.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("bad classify request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	files := append(requestData.Files, describePaths(requestData.Paths)...)
	if len(files) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "files or paths are required")
		return
	}
	processNewJobData(r, w, newJobData{jobType: jobModel.JobTypeClassify, files: files})
}

// ValidateHandler queues a validation job for inline JSONL content.
// POST /validate
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	defer closeBody(r.Body)

	var requestData api.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || strings.TrimSpace(requestData.Content) == "" {
		logRH.Warn("bad validate request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.Batch, "content is required")
		return
	}
	if _, err := validator.SchemaByName(requestData.Schema); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, requestData.Batch, err.Error())
		return
	}
	processNewJobData(r, w, newJobData{
		jobType:  jobModel.JobTypeValidate,
		batch:    requestData.Batch,
		fileName: requestData.FileName,
		schema:   requestData.Schema,
		content:  requestData.Content,
	})
}

// ValidateUploadHandler queues a validation job for an uploaded JSONL file.
// POST /validate/upload, multipart fields document, batch and schema.
func ValidateUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	batch := r.FormValue("batch")
	schema := r.FormValue("schema")
	if _, err := validator.SchemaByName(schema); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, batch, err.Error())
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, batch, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	content, err := io.ReadAll(io.LimitReader(fileReader, config.MaxUploadSize))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, batch, "Read error")
		return
	}
	if strings.TrimSpace(string(content)) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, batch, "document is empty")
		return
	}

	processNewJobData(r, w, newJobData{
		jobType:  jobModel.JobTypeValidate,
		batch:    batch,
		fileName: fileMetadata.Filename,
		schema:   schema,
		content:  string(content),
	})
}

// GetStatusHandler returns the job with its mapping or report once finished.
// GET /status/{id}
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceOf(r))
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// GetHistoryHandler returns the most recent validation summaries of a batch.
// GET /history/{batch}
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	batch := utils.GetChiURLParam(r, "batch")
	entries, err := GetBatchHistory(batch, traceOf(r))
	if err != nil {
		logRH.Error("could not load history", "batch", batch, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, batch, "History unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToHistoryResponse(batch, entries))
}
