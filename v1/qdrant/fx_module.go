package qdrant

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// FXModule defines the Fx module for the Qdrant adapter.
//
// Usage:
//
//	app := fx.New(
//	    qdrant.FXModule,
//	    // other modules...
//	)
//
// Dependencies required by this module:
//   - a qdrant.Config
//   - a logger.Logger
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewService,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// NewService validates cfg and returns the adapter as a vectordb.Service.
func NewService(cfg Config, log logger.Logger) (vectordb.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewAdapter(context.Background(), cfg, log), nil
}

// RegisterQdrantLifecycle closes the client connection on shutdown.
func RegisterQdrantLifecycle(lc fx.Lifecycle, svc vectordb.Service, log logger.Logger) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = svc.Close()
				log.Info("qdrant client connection closed", err, nil)
			})
			return err
		},
	})
}
