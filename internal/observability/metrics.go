package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	requestsTotal          *prometheus.CounterVec
	requestLatencySeconds  *prometheus.HistogramVec
	errorsTotal            *prometheus.CounterVec
	submissionsScoredTotal prometheus.Counter
	examsCreatedTotal      prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "examportal_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "examportal_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "examportal_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "examportal_submissions_scored_total",
			Help: "Total number of exam submissions accepted and scored.",
		})

		examsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "examportal_exams_created_total",
			Help: "Total number of exams created from uploaded question sets.",
		})

		prometheus.MustRegister(requestsTotal, requestLatencySeconds, errorsTotal, submissionsScoredTotal, examsCreatedTotal)
	})
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// Errors exposes the error counter.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// SubmissionsScored exposes the scored-submissions counter.
func SubmissionsScored() prometheus.Counter {
	RegisterMetrics()
	return submissionsScoredTotal
}

// ExamsCreated exposes the created-exams counter.
func ExamsCreated() prometheus.Counter {
	RegisterMetrics()
	return examsCreatedTotal
}
