package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	submissionsCreated     *prometheus.CounterVec
	submissionsRejected    *prometheus.CounterVec
	submissionsGraded      prometheus.Counter
	latePenaltyPoints      prometheus.Histogram
	statsCacheLookupsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_created_total",
			Help: "Submissions accepted, partitioned by lateness.",
		}, []string{"late"})

		submissionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_rejected_total",
			Help: "Submissions refused, partitioned by reason.",
		}, []string{"reason"})

		submissionsGraded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "submissions_graded_total",
			Help: "Grading actions recorded.",
		})

		latePenaltyPoints = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "submission_late_penalty_points",
			Help:    "Points deducted by the late penalty on graded submissions.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		})

		statsCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submission_stats_cache_lookups_total",
			Help: "Submission statistics cache lookups, partitioned by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			submissionsCreated,
			submissionsRejected,
			submissionsGraded,
			latePenaltyPoints,
			statsCacheLookupsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// SubmissionsCreated exposes the accepted submission counter.
func SubmissionsCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsCreated
}

// SubmissionsRejected exposes the refused submission counter.
func SubmissionsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsRejected
}

// SubmissionsGraded exposes the grading counter.
func SubmissionsGraded() prometheus.Counter {
	RegisterMetrics()
	return submissionsGraded
}

// LatePenaltyPoints exposes the penalty histogram.
func LatePenaltyPoints() prometheus.Histogram {
	RegisterMetrics()
	return latePenaltyPoints
}

// StatsCacheLookups exposes the stats cache lookup counter.
func StatsCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return statsCacheLookupsTotal
}
