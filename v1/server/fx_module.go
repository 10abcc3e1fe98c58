package server

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
)

// FXModule provides the HTTP server and starts it after every other
// module's OnStart hook has run, so upstream clients exist before the first
// request is accepted.
//
// Dependencies required by this module:
//   - server.Config and server.Diagnostics
//   - *broker.Pipeline and *broker.Normalizer
//   - metrics.MetricsCollector and logger.Logger
var FXModule = fx.Module("server",
	fx.Provide(
		func(p *broker.Pipeline) Broker { return p },
		func(n *broker.Normalizer) Normalizer { return n },
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle binds the listener on start and shuts the server
// down within Config.ShutdownTimeout on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop: func(ctx context.Context) error {
			if s.cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
				defer cancel()
			}
			return s.Stop(ctx)
		},
	})
}
