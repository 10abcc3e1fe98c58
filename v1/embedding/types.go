package embedding

import "context"

// Provider contract
type Provider interface {
	// Create generates one embedding per input text, in input order.
	Create(ctx context.Context, texts ...string) ([][]float32, error)

	// Name identifies the provider in errors and logs.
	Name() string
}
