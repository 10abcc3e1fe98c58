package pinecone

import (
	"context"
	"fmt"
	"time"
)

const (
	// VariantSDK uses the official go-pinecone client.
	VariantSDK = "sdk"

	// VariantREST speaks the data-plane HTTP API directly with a flat
	// /query body and supports legacy environment-based projects.
	VariantREST = "rest"
)

// Config holds Pinecone connection settings.
type Config struct {
	APIKey    string `yaml:"api_key" envconfig:"PINECONE_API_KEY"`
	IndexName string `yaml:"index_name" envconfig:"PINECONE_INDEX_NAME"`

	// Environment selects the legacy controller (controller.<env>.pinecone.io)
	// for host resolution. Leave empty for serverless projects.
	Environment string `yaml:"environment" envconfig:"PINECONE_ENVIRONMENT"`

	// Host overrides host resolution entirely, e.g.
	// "my-index-abc123.svc.us-east1-gcp.pinecone.io".
	Host string `yaml:"host" envconfig:"PINECONE_HOST"`

	APIVariant string `yaml:"api_variant" envconfig:"PINECONE_API_VARIANT" default:"sdk"`

	// ControllerURL is the control-plane base used when neither Host nor
	// Environment is set.
	ControllerURL string `yaml:"controller_url" envconfig:"PINECONE_CONTROLLER_URL" default:"https://api.pinecone.io"`

	HTTPTimeout    time.Duration `yaml:"http_timeout" envconfig:"PINECONE_HTTP_TIMEOUT" default:"30s"`
	StartupTimeout time.Duration `yaml:"startup_timeout" envconfig:"PINECONE_STARTUP_TIMEOUT" default:"10s"`
}

// Validate checks the variant. Missing credentials are not an error: the
// adapter starts disconnected and reports it through Status.
func (c Config) Validate() error {
	switch c.APIVariant {
	case VariantSDK, VariantREST:
	default:
		return fmt.Errorf("pinecone: unknown PINECONE_API_VARIANT %q", c.APIVariant)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("pinecone: PINECONE_HTTP_TIMEOUT must be positive")
	}
	return nil
}

func startupContext(ctx context.Context, cfg Config) (context.Context, context.CancelFunc) {
	if cfg.StartupTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.StartupTimeout)
}
