package broker

import (
	"fmt"
	"time"
)

// Config holds the process-wide query defaults. It is read once at startup
// and never mutated afterwards.
type Config struct {
	// DefaultNamespace is used when a request names no namespace. Empty is the
	// index's default partition.
	DefaultNamespace string `yaml:"default_namespace" envconfig:"BROKER_DEFAULT_NAMESPACE"`

	// DefaultTopK is used when a request carries no topK.
	DefaultTopK int `yaml:"default_top_k" envconfig:"BROKER_DEFAULT_TOP_K" default:"5"`

	// MaxTopK clamps larger requested values.
	MaxTopK int `yaml:"max_top_k" envconfig:"BROKER_MAX_TOP_K" default:"100"`

	// Dimension is the embedding length of the index. Zero disables the
	// length check on supplied vectors and on provider output.
	Dimension int `yaml:"dimension" envconfig:"BROKER_DIMENSION" default:"0"`

	// RequestTimeout bounds one pipeline run. Zero means no deadline beyond
	// the upstream clients' own timeouts.
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"BROKER_REQUEST_TIMEOUT" default:"0s"`
}

// Validate checks that the defaults are usable.
func (c Config) Validate() error {
	if c.DefaultTopK < 1 {
		return fmt.Errorf("broker: BROKER_DEFAULT_TOP_K must be >= 1, got %d", c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("broker: BROKER_MAX_TOP_K (%d) is below BROKER_DEFAULT_TOP_K (%d)", c.MaxTopK, c.DefaultTopK)
	}
	if c.Dimension < 0 {
		return fmt.Errorf("broker: BROKER_DIMENSION must not be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("broker: BROKER_REQUEST_TIMEOUT must not be negative")
	}
	return nil
}
