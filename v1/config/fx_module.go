package config

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
	"github.com/Aleph-Alpha/vectorbroker/v1/embedding"
	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/metrics"
	"github.com/Aleph-Alpha/vectorbroker/v1/pinecone"
	"github.com/Aleph-Alpha/vectorbroker/v1/qdrant"
	"github.com/Aleph-Alpha/vectorbroker/v1/server"
	"github.com/Aleph-Alpha/vectorbroker/v1/tracer"
)

// FXModule splits a supplied *Config into the per-package Config values the
// other modules consume.
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    config.FXModule,
//	    logger.FXModule,
//	    ...
//	)
var FXModule = fx.Module(
	"config",
	fx.Provide(NewSections),
	fx.Invoke(RegisterPresenceLog),
)

// Sections is the fx result type carrying each section.
type Sections struct {
	fx.Out

	Logger      logger.Config
	Tracer      tracer.Config
	Metrics     metrics.Config
	Server      server.Config
	Broker      broker.Config
	Embedding   embedding.Config
	Pinecone    pinecone.Config
	Qdrant      qdrant.Config
	Diagnostics server.Diagnostics
}

// NewSections exposes the sections of cfg to the fx graph.
func NewSections(cfg *Config) Sections {
	return Sections{
		Logger:      cfg.Logger,
		Tracer:      cfg.Tracer,
		Metrics:     cfg.Metrics,
		Server:      cfg.Server,
		Broker:      cfg.Broker,
		Embedding:   cfg.Embedding,
		Pinecone:    cfg.Pinecone,
		Qdrant:      cfg.Qdrant,
		Diagnostics: cfg.Diagnostics(),
	}
}

// RegisterPresenceLog logs the environment check once the logger exists.
func RegisterPresenceLog(cfg *Config, log logger.Logger) {
	cfg.LogPresence(log)
}
