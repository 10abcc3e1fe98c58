package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/metrics"
)

// Server is the public HTTP surface of the broker.
type Server struct {
	cfg        Config
	diag       Diagnostics
	broker     Broker
	normalizer Normalizer
	metrics    metrics.MetricsCollector
	log        logger.Logger

	httpServer *http.Server
}

// Params groups the Server's dependencies for fx.
type Params struct {
	fx.In

	Config      Config
	Diagnostics Diagnostics
	Broker      Broker
	Normalizer  Normalizer
	Metrics     metrics.MetricsCollector
	Logger      logger.Logger
}

// NewServer builds the server and its handler chain. It does not listen.
func NewServer(p Params) *Server {
	s := &Server{
		cfg:        p.Config,
		diag:       p.Diagnostics,
		broker:     p.Broker,
		normalizer: p.Normalizer,
		metrics:    p.Metrics,
		log:        p.Logger,
	}
	s.httpServer = &http.Server{
		Addr:              p.Config.Addr(),
		Handler:           s.handler(),
		ReadHeaderTimeout: p.Config.ReadHeaderTimeout,
	}
	return s
}

// Handler returns the full handler chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the listen address and serves in the background. Binding
// errors are returned; serve errors after that are logged.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	s.log.Info("Server running", nil, map[string]interface{}{"address": ln.Addr().String()})
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server stopped unexpectedly", err, nil)
		}
	}()
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server", nil, nil)
	return s.httpServer.Shutdown(ctx)
}
