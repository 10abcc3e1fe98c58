package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
	"github.com/Aleph-Alpha/vectorbroker/v1/embedding"
	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/metrics"
	"github.com/Aleph-Alpha/vectorbroker/v1/pinecone"
	"github.com/Aleph-Alpha/vectorbroker/v1/qdrant"
	"github.com/Aleph-Alpha/vectorbroker/v1/server"
	"github.com/Aleph-Alpha/vectorbroker/v1/tracer"
)

const (
	BackendPinecone = "pinecone"
	BackendQdrant   = "qdrant"
)

// VectorDB selects the index backend.
type VectorDB struct {
	Backend string `yaml:"backend" envconfig:"VECTORDB_BACKEND" default:"pinecone"`
}

// Config aggregates every package's configuration. It is loaded once at
// startup and treated as read-only afterwards.
type Config struct {
	Logger    logger.Config
	Tracer    tracer.Config
	Metrics   metrics.Config
	Server    server.Config
	Broker    broker.Config
	Embedding embedding.Config
	VectorDB  VectorDB
	Pinecone  pinecone.Config
	Qdrant    qdrant.Config
}

// Load reads dotenv files into the process environment and then decodes
// every section from it. Variables already present in the environment win
// over dotenv values.
//
// With no arguments an optional ./.env is loaded; explicitly named files
// must exist.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: load env files: %w", err)
	}

	var cfg Config
	sections := []struct {
		name   string
		target any
	}{
		{"logger", &cfg.Logger},
		{"tracer", &cfg.Tracer},
		{"metrics", &cfg.Metrics},
		{"server", &cfg.Server},
		{"broker", &cfg.Broker},
		{"embedding", &cfg.Embedding},
		{"vectordb", &cfg.VectorDB},
		{"pinecone", &cfg.Pinecone},
		{"qdrant", &cfg.Qdrant},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("config: %s: %w", s.name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-section consistency and the sections that are in use.
func (c *Config) Validate() error {
	if err := c.Broker.Validate(); err != nil {
		return err
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}

	switch c.VectorDB.Backend {
	case BackendPinecone:
		return c.Pinecone.Validate()
	case BackendQdrant:
		return c.Qdrant.Validate()
	default:
		return fmt.Errorf("config: unknown VECTORDB_BACKEND %q", c.VectorDB.Backend)
	}
}
