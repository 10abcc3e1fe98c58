package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding client into Fx.
//
// It expects a Config and a logger.Logger in the graph and provides *Client.
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewClient, // -> *Client
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle releases provider resources on shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
