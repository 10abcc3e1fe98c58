package embedding

import "fmt"

const (
	// ProviderOpenAI talks to the OpenAI embeddings API (or any compatible
	// server) through langchaingo.
	ProviderOpenAI = "openai"

	// ProviderInference posts directly to an OpenAI-compatible /embeddings
	// endpoint, e.g. a self-hosted inference service.
	ProviderInference = "inference"
)

// Config selects and configures the embedding provider.
//
// EMBEDDING_ENDPOINT is the root of the OpenAI-compatible service (no
// /embeddings appended). It is required for the inference provider and
// optional for the openai provider, which defaults to api.openai.com.
type Config struct {
	Provider string `yaml:"provider" envconfig:"EMBEDDING_PROVIDER" default:"openai"`
	Endpoint string `yaml:"endpoint" envconfig:"EMBEDDING_ENDPOINT"`
	Model    string `yaml:"model" envconfig:"EMBEDDING_MODEL" default:"text-embedding-ada-002"`

	// APIKey takes precedence over OpenAIAPIKey.
	APIKey       string `yaml:"api_key" envconfig:"EMBEDDING_API_KEY"`
	OpenAIAPIKey string `yaml:"openai_api_key" envconfig:"OPENAI_API_KEY"`

	HTTPTimeoutS int `yaml:"http_timeout_seconds" envconfig:"EMBEDDING_HTTP_TIMEOUT_SECONDS" default:"30"`
}

// Credential returns the configured provider key, or "" if none is set.
func (c Config) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.OpenAIAPIKey
}

// Validate checks the provider selection. A missing credential is not a
// validation error: the client starts and reports ErrNoCredential per call.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
	case ProviderInference:
		if c.Endpoint == "" {
			return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("embedding: unknown EMBEDDING_PROVIDER %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	if c.HTTPTimeoutS <= 0 {
		return fmt.Errorf("embedding: EMBEDDING_HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutS)
	}
	return nil
}
