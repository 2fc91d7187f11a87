package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	gradingFallbacksTotal prometheus.Counter
	gradingVerdictsTotal  *prometheus.CounterVec
	datasetPushesTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathfluent",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mathfluent",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathfluent",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		gradingFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mathfluent",
			Name:      "grading_fallbacks_total",
			Help:      "Number of grading requests that fell back to the secondary provider.",
		})

		gradingVerdictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathfluent",
			Name:      "grading_verdicts_total",
			Help:      "Verdicts returned by the grading endpoint.",
		}, []string{"verdict"})

		datasetPushesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathfluent",
			Name:      "dataset_pushes_total",
			Help:      "Results batches forwarded to the dataset sink.",
		}, []string{"sink", "outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			gradingFallbacksTotal,
			gradingVerdictsTotal,
			datasetPushesTotal,
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

// GradingFallbacks exposes the fallback counter.
func GradingFallbacks() prometheus.Counter {
	RegisterMetrics()
	return gradingFallbacksTotal
}

// GradingVerdicts exposes the verdict counter.
func GradingVerdicts() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingVerdictsTotal
}

// DatasetPushes exposes the dataset push counter.
func DatasetPushes() *prometheus.CounterVec {
	RegisterMetrics()
	return datasetPushesTotal
}
