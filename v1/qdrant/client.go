package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT ADAPTER
// ──────────────────────────────────────────────────────────────
//
// Adapter implements vectordb.Service on top of the official Qdrant Go
// client. One collection is searched; namespaces are a payload field inside
// it, so a namespace-scoped search is a search with an extra must-match
// condition.
//

// Adapter is the Qdrant-backed vectordb.Service.
type Adapter struct {
	api        *qdrant.Client
	cfg        Config
	log        logger.Logger
	indexReady bool
}

var _ vectordb.Service = (*Adapter)(nil)

// NewAdapter ──────────────────────────────────────────────────────────────
// NewAdapter
// ──────────────────────────────────────────────────────────────
//
// NewAdapter constructs the client, runs a health check and verifies that
// the configured collection exists.
//
// It never fails: the SDK opens gRPC connections lazily, so an unreachable
// server or missing collection only marks the adapter as not ready. Searches
// then return vectordb.ErrNotConnected until the process is restarted.
func NewAdapter(ctx context.Context, cfg Config, log logger.Logger) *Adapter {
	a := &Adapter{cfg: cfg, log: log}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   cfg.Port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		log.Error("failed to initialize qdrant client", err, map[string]interface{}{
			"endpoint": cfg.Endpoint,
			"port":     cfg.Port,
		})
		return a
	}
	a.api = client

	if cfg.Collection == "" {
		log.Warn("QDRANT_COLLECTION not set, index not connected", nil, nil)
		return a
	}

	if err := a.checkCollection(ctx); err != nil {
		log.Warn("qdrant collection unavailable, index not connected", err, map[string]interface{}{
			"endpoint":   cfg.Endpoint,
			"collection": cfg.Collection,
		})
		return a
	}
	a.indexReady = true

	log.Info("qdrant collection connected", nil, map[string]interface{}{
		"endpoint":   fmt.Sprintf("%s:%d", cfg.Endpoint, cfg.Port),
		"collection": cfg.Collection,
	})
	return a
}

// checkCollection verifies server health and collection existence within
// the configured connect timeout.
func (a *Adapter) checkCollection(ctx context.Context) error {
	if a.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ConnectTimeout)
		defer cancel()
	}

	resp, err := a.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	a.log.Debug("qdrant health check passed", nil, map[string]interface{}{
		"title":   resp.GetTitle(),
		"version": resp.GetVersion(),
	})

	exists, err := a.api.CollectionExists(ctx, a.cfg.Collection)
	if err != nil {
		return fmt.Errorf("collection lookup failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("collection %q not found", a.cfg.Collection)
	}
	return nil
}

// Status reports connectivity.
func (a *Adapter) Status() vectordb.Status {
	return vectordb.Status{
		Backend:     "qdrant",
		ClientReady: a.api != nil,
		IndexReady:  a.indexReady,
		IndexName:   a.cfg.Collection,
		Host:        fmt.Sprintf("%s:%d", a.cfg.Endpoint, a.cfg.Port),
	}
}

// Close ──────────────────────────────────────────────────────────────
// Close
// ──────────────────────────────────────────────────────────────
//
// Close shuts down the underlying gRPC connection.
func (a *Adapter) Close() error {
	if a.api == nil {
		return nil
	}
	return a.api.Close()
}
