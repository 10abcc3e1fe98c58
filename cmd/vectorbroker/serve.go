package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
	"github.com/Aleph-Alpha/vectorbroker/v1/config"
	"github.com/Aleph-Alpha/vectorbroker/v1/embedding"
	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/metrics"
	"github.com/Aleph-Alpha/vectorbroker/v1/pinecone"
	"github.com/Aleph-Alpha/vectorbroker/v1/qdrant"
	"github.com/Aleph-Alpha/vectorbroker/v1/server"
	"github.com/Aleph-Alpha/vectorbroker/v1/tracer"
)

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return err
	}

	app := fx.New(
		appOptions(cfg),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	app.Run()
	return nil
}

// appOptions wires every module. Modules start in dependency order, so the
// embedding client and index adapter exist before the HTTP listener opens.
func appOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		config.FXModule,
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		embedding.FXModule,
		indexModule(cfg.VectorDB.Backend),
		broker.FXModule,
		server.FXModule,
	)
}

func indexModule(backend string) fx.Option {
	if backend == config.BackendQdrant {
		return qdrant.FXModule
	}
	return pinecone.FXModule
}
