package tracer

import (
	"context"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"go.uber.org/fx"
)

// FXModule provides *Tracer and flushes it on shutdown.
//
// Dependencies required by this module:
// - tracer.Config
// - logger.Logger
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers an OnStop hook that shuts the tracer
// provider down, flushing any pending spans to the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
