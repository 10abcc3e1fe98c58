package broker

import "context"

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=broker

// Embedder converts query text into an embedding vector.
//
// *embedding.Client implements it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
