package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementRequests increments the request counter with a given status label.
// Example: metrics.IncrementRequests("200")
func (m *Metrics) IncrementRequests(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// RecordRequestDuration records the duration (in seconds) for a request endpoint.
// Example: defer metrics.RecordRequestDuration(time.Now(), "/query")
func (m *Metrics) RecordRequestDuration(start time.Time, endpoint string) {
	m.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// ObserveUpstream counts an upstream call and records how long it took.
// Example: metrics.ObserveUpstream("embedding", "error", start)
func (m *Metrics) ObserveUpstream(stage, outcome string, start time.Time) {
	m.upstreamTotal.WithLabelValues(stage, outcome).Inc()
	m.upstreamDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
