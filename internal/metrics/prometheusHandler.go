package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kbcurator_http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "kbcurator_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "kbcurator_dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "kbcurator_active_worker_count",
	Help: "Number of active workers",
})

var filesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kbcurator_files_classified_total",
	Help: "Files classified, labelled by bucket",
}, []string{"bucket"})

var chipsValidated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kbcurator_chips_validated_total",
	Help: "Chips validated, labelled by schema and outcome",
}, []string{"schema", "outcome"})

var vectorsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kbcurator_vectors_upserted_total",
	Help: "Vectors upserted, labelled by namespace",
}, []string{"namespace"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CountClassified(byBucket map[string]int) {
	for bucket, n := range byBucket {
		filesClassified.WithLabelValues(bucket).Add(float64(n))
	}
}

func CountValidated(schema string, valid, invalid int) {
	chipsValidated.WithLabelValues(schema, "valid").Add(float64(valid))
	chipsValidated.WithLabelValues(schema, "invalid").Add(float64(invalid))
}

func CountUpserted(namespace string, n int) {
	vectorsUpserted.WithLabelValues(namespace).Add(float64(n))
}

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "kbcurator_job_duration_seconds",
	Help:    "Time spent processing a job.",
	Buckets: []float64{.01, .05, .1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "kbcurator_dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
