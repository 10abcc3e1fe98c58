package broker

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/embedding"
)

// FXModule provides the Normalizer and Pipeline.
//
// Dependencies required by this module:
//   - broker.Config
//   - *embedding.Client (exposed here as Embedder)
//   - vectordb.Service
//   - *tracer.Tracer, metrics.MetricsCollector, logger.Logger
var FXModule = fx.Module("broker",
	fx.Provide(
		func(c *embedding.Client) Embedder { return c },
		NewNormalizer,
		NewPipeline,
	),
	fx.Invoke(validateConfig),
)

func validateConfig(cfg Config) error {
	return cfg.Validate()
}
