package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing broker metrics.
type Metrics struct {
	// Server exposes /metrics. Nil when Config.Address is empty.
	Server *http.Server

	// Registry is the isolated registry all broker metrics are registered in.
	Registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewMetrics initializes a dedicated registry, wraps it with a constant
// service label and registers the broker metrics:
//
//	<ns>_requests_total{status}
//	<ns>_request_duration_seconds{endpoint}
//	<ns>_upstream_calls_total{stage,outcome}
//	<ns>_upstream_duration_seconds{stage}
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.requestsTotal = createCounterVec(cfg.Namespace, "requests_total", "Total number of processed requests", []string{"status"})
	m.requestDuration = createHistogramVec(cfg.Namespace, "request_duration_seconds", "Duration of HTTP requests in seconds", []string{"endpoint"}, prometheus.DefBuckets)
	m.upstreamTotal = createCounterVec(cfg.Namespace, "upstream_calls_total", "Upstream calls by pipeline stage and outcome", []string{"stage", "outcome"})
	m.upstreamDuration = createHistogramVec(cfg.Namespace, "upstream_duration_seconds", "Duration of upstream calls in seconds", []string{"stage"}, prometheus.DefBuckets)

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.upstreamTotal,
		m.upstreamDuration,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: mux,
		}
	}

	return m
}
