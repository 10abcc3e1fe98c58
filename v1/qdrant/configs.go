package qdrant

import (
	"fmt"
	"time"
)

// Config holds connection and behavior settings for the Qdrant adapter.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "qdrant.internal"
//	cfg.Collection = "documents"
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" envconfig:"QDRANT_ENDPOINT" default:"localhost"`

	// gRPC port of the Qdrant server.
	Port int `yaml:"port" envconfig:"QDRANT_PORT" default:"6334"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	UseTLS bool `yaml:"use_tls" envconfig:"QDRANT_USE_TLS" default:"false"`

	// Collection searched by the adapter.
	Collection string `yaml:"collection" envconfig:"QDRANT_COLLECTION"`

	// NamespaceField is the payload key that partitions the collection into
	// namespaces.
	NamespaceField string `yaml:"namespace_field" envconfig:"QDRANT_NAMESPACE_FIELD" default:"namespace"`

	// ConnectTimeout bounds the startup health check.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"QDRANT_CONNECT_TIMEOUT" default:"5s"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY" default:"false"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "localhost",
		Port:           6334,
		NamespaceField: "namespace",
		ConnectTimeout: 5 * time.Second,
	}
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("qdrant: missing QDRANT_ENDPOINT")
	}
	if c.Port <= 0 {
		return fmt.Errorf("qdrant: invalid QDRANT_PORT %d", c.Port)
	}
	if c.NamespaceField == "" {
		return fmt.Errorf("qdrant: missing QDRANT_NAMESPACE_FIELD")
	}
	return nil
}
