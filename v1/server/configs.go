package server

import "time"

// Config controls the public HTTP listener.
type Config struct {
	Port string `yaml:"port" envconfig:"PORT" default:"3000"`

	// ReadHeaderTimeout guards against slow clients. Query handling itself
	// is bounded by the broker and upstream timeouts.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"10s"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// MaxBodyBytes caps POST /query bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes" envconfig:"SERVER_MAX_BODY_BYTES" default:"1048576"`

	// AllowedOrigins for CORS. Empty allows every origin.
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"SERVER_CORS_ALLOWED_ORIGINS"`
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}
