package tracer

// Config holds settings for the OpenTelemetry tracer provider.
//
// The OTLP exporter endpoint itself is read by the exporter from the standard
// OTEL_EXPORTER_OTLP_ENDPOINT / OTEL_EXPORTER_OTLP_TRACES_ENDPOINT variables.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME" default:"vectorbroker"`

	// AppEnv is recorded as deployment.environment (e.g. "production").
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV" default:"development"`

	// EnableExport turns on the OTLP HTTP exporter. Spans are still created
	// when false, they are just not shipped anywhere.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT" default:"false"`
}
