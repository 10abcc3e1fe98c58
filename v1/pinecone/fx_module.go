package pinecone

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// FXModule provides a vectordb.Service backed by Pinecone. The variant is
// chosen by Config.APIVariant.
var FXModule = fx.Module(
	"pinecone",
	fx.Provide(NewAdapter),
	fx.Invoke(RegisterPineconeLifecycle),
)

// NewAdapter validates cfg and connects the configured variant. Connection
// problems do not fail startup; they surface through Status and Search.
func NewAdapter(cfg Config, log logger.Logger) (vectordb.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	switch cfg.APIVariant {
	case VariantREST:
		return NewRESTAdapter(ctx, cfg, log), nil
	case VariantSDK:
		return NewSDKAdapter(ctx, cfg, log), nil
	default:
		return nil, fmt.Errorf("pinecone: unknown variant %q", cfg.APIVariant)
	}
}

// RegisterPineconeLifecycle closes index connections on shutdown.
func RegisterPineconeLifecycle(lc fx.Lifecycle, svc vectordb.Service, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing pinecone adapter", nil, nil)
			return svc.Close()
		},
	})
}
