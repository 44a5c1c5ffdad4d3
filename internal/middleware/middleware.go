package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/kbcurator/internal/adapter/utils"
	"github.com/akolanti/kbcurator/internal/handlers"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var authToken string

// Init sets the bearer token checked by Wrap. An empty token disables auth.
func Init(token string) {
	authToken = token
	if token == "" {
		logger_i.NewLogger("middleware").Warn("no auth token configured, bearer auth is bypassed")
	}
}

var ClassifyHandler = Wrap(handlers.ClassifyHandler)
var ValidateHandler = Wrap(handlers.ValidateHandler)
var ValidateUploadHandler = Wrap(handlers.ValidateUploadHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var GetHistoryHandler = Wrap(handlers.GetHistoryHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}
		metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(re.req), strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("new request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		return re
	}
	return authenticate(re)
}
