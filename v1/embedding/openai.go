package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

type openAIProvider struct {
	embedder embeddings.Embedder
}

func newOpenAIProvider(cfg Config) (*openAIProvider, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.Credential()),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return &openAIProvider{embedder: embedder}, nil
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

func (p *openAIProvider) Create(ctx context.Context, texts ...string) ([][]float32, error) {
	vecs, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}
	return vecs, nil
}
