package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	submissionsRecorded prometheus.Counter
	artifactUploads     prometheus.Counter
	decryptFailures     prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acadledger_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acadledger_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		submissionsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acadledger_submissions_recorded_total",
			Help: "Total number of submissions accepted by the ledger.",
		})

		artifactUploads = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acadledger_artifact_uploads_total",
			Help: "Total number of artifacts pinned to the artifact store.",
		})

		decryptFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acadledger_decrypt_failures_total",
			Help: "Total number of pointer decryption attempts that failed.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, submissionsRecorded, artifactUploads, decryptFailures)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// SubmissionsRecorded counts accepted submissions.
func SubmissionsRecorded() prometheus.Counter {
	RegisterMetrics()
	return submissionsRecorded
}

// ArtifactUploads counts pinned artifacts.
func ArtifactUploads() prometheus.Counter {
	RegisterMetrics()
	return artifactUploads
}

// DecryptFailures counts failed pointer decryption attempts.
func DecryptFailures() prometheus.Counter {
	RegisterMetrics()
	return decryptFailures
}
