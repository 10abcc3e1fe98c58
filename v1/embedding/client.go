package embedding

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides all provider details (endpoints, HTTP, SDKs) from the application
// layer. A Client built without a credential is valid; every Embed call then
// fails with ErrNoCredential.
type Client struct {
	provider Provider
	model    string
}

// NewClient validates cfg and constructs the configured provider.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	c := &Client{model: cfg.Model}
	if cfg.Credential() == "" {
		log.Warn("embedding credential not set, embedding requests will be rejected", nil, map[string]interface{}{
			"provider": cfg.Provider,
		})
		return c, nil
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderInference:
		p, err = newInferenceProvider(cfg)
	default:
		p, err = newOpenAIProvider(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}
	c.provider = p

	log.Info("embedding client initialized", nil, map[string]interface{}{
		"provider": p.Name(),
		"model":    cfg.Model,
	})
	return c, nil
}

// NewClientWithProvider wraps an existing Provider.
func NewClientWithProvider(p Provider, model string) *Client {
	return &Client{provider: p, model: model}
}

// Ready reports whether a provider credential was configured.
func (c *Client) Ready() bool {
	return c.provider != nil
}

// Model returns the configured embedding model name.
func (c *Client) Model() string {
	return c.model
}

// Embed returns the embedding of a single text. It never retries.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.provider == nil {
		return nil, ErrNoCredential
	}

	vecs, err := c.provider.Create(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, &ProviderError{Provider: c.provider.Name(), Err: ErrEmptyResponse}
	}
	return vecs[0], nil
}

// Close releases provider resources, if the provider holds any.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
