package metrics

import "time"

// MetricsCollector is the subset of metric operations the broker uses.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// IncrementRequests increments the request counter with a given status label.
	IncrementRequests(status string)

	// RecordRequestDuration records the duration (in seconds) for a request endpoint.
	RecordRequestDuration(start time.Time, endpoint string)

	// ObserveUpstream counts one upstream call for a pipeline stage and records its latency.
	ObserveUpstream(stage, outcome string, start time.Time)
}

var _ MetricsCollector = (*Metrics)(nil)
