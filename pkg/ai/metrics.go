package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mathfluent",
		Subsystem: "ai",
		Name:      "query_duration_seconds",
		Help:      "Duration of vision provider queries",
	}, []string{"provider"})

	queryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mathfluent",
		Subsystem: "ai",
		Name:      "query_failures_total",
		Help:      "Number of failed vision provider queries",
	}, []string{"provider"})
)

func observeQuery(provider ProviderID, start time.Time) {
	queryDuration.WithLabelValues(string(provider)).Observe(time.Since(start).Seconds())
}

// failQuery records the failure on metrics and span and wraps it as a ProviderError.
func failQuery(provider ProviderID, span trace.Span, err error) error {
	queryFailures.WithLabelValues(string(provider)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return &ProviderError{Provider: provider, Err: err}
}
