package metrics

// Default port for metrics server if none is specified.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration structure for the Prometheus metrics server.
type Config struct {
	// Address is where the metrics HTTP server listens, e.g. ":9090".
	// An empty Address disables the dedicated metrics server; metrics are
	// still collected.
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS" default:":9090"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS" default:"true"`

	// Namespace prefixes every metric name, e.g. "broker" gives
	// "broker_requests_total".
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE" default:"broker"`

	// ServiceName is added as a constant service="<name>" label.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME" default:"vectorbroker"`
}
