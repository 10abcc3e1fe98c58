package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type inferenceProvider struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

func newInferenceProvider(cfg Config) (*inferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing EMBEDDING_ENDPOINT")
	}

	// Remove trailing slash if user added it.
	base := strings.TrimRight(cfg.Endpoint, "/")

	return &inferenceProvider{
		baseURL:    base,
		token:      cfg.Credential(),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

func (p *inferenceProvider) Name() string { return ProviderInference }

// Create generates embeddings for the given texts using the OpenAI-compatible
// /embeddings endpoint.
func (p *inferenceProvider) Create(ctx context.Context, texts ...string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	reqBody := map[string]any{
		"model": p.model,
		"input": texts,
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	if err := p.postJSON(ctx, p.baseURL+"/embeddings", reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, &ProviderError{
			Provider: p.Name(),
			Err:      fmt.Errorf("%w: got %d embeddings for %d inputs", ErrEmptyResponse, len(parsed.Data), len(texts)),
		}
	}

	out := make([][]float32, len(texts))
	for i, d := range parsed.Data {
		idx := d.Index
		if idx < 0 || idx >= len(out) {
			idx = i
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
