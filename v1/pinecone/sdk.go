package pinecone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// indexConn is the part of *pinecone.IndexConnection the adapter uses.
type indexConn interface {
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	DescribeIndexStats(ctx context.Context) (*pinecone.DescribeIndexStatsResponse, error)
	Close() error
}

// dialFunc opens a data-plane connection scoped to one namespace.
type dialFunc func(namespace string) (indexConn, error)

// SDKAdapter implements vectordb.Service on top of the official go-pinecone
// client. Index connections are namespace-scoped in the SDK, so one is
// opened lazily per namespace and reused for the life of the adapter.
type SDKAdapter struct {
	cfg  Config
	log  logger.Logger
	host string
	dial dialFunc

	clientReady bool

	mu    sync.RWMutex
	conns map[string]indexConn
	group singleflight.Group
}

var _ vectordb.Service = (*SDKAdapter)(nil)

// clientParams bounds the SDK's control-plane REST calls by HTTPTimeout.
func clientParams(cfg Config) pinecone.NewClientParams {
	params := pinecone.NewClientParams{ApiKey: cfg.APIKey}
	if cfg.HTTPTimeout > 0 {
		params.RestClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return params
}

// NewSDKAdapter creates the client and resolves the index host. It never
// fails: when credentials are missing or the index cannot be described the
// adapter starts disconnected, logs a warning, and every Search returns
// vectordb.ErrNotConnected.
func NewSDKAdapter(ctx context.Context, cfg Config, log logger.Logger) *SDKAdapter {
	a := &SDKAdapter{cfg: cfg, log: log, conns: make(map[string]indexConn)}

	if cfg.APIKey == "" || cfg.IndexName == "" {
		log.Warn("pinecone credentials incomplete, index not connected", nil, map[string]interface{}{
			"api_key_set":    cfg.APIKey != "",
			"index_name_set": cfg.IndexName != "",
		})
		return a
	}

	pc, err := pinecone.NewClient(clientParams(cfg))
	if err != nil {
		log.Error("failed to create pinecone client", err, nil)
		return a
	}
	a.clientReady = true

	host := cfg.Host
	if host == "" {
		ctx, cancel := startupContext(ctx, cfg)
		defer cancel()

		idx, err := pc.DescribeIndex(ctx, cfg.IndexName)
		if err != nil {
			log.Warn("pinecone index not found in project, index not connected", err, map[string]interface{}{
				"index_name": cfg.IndexName,
			})
			return a
		}
		host = idx.Host
	}

	a.host = host
	a.dial = func(namespace string) (indexConn, error) {
		return pc.Index(pinecone.NewIndexConnParams{Host: host, Namespace: namespace})
	}

	log.Info("pinecone index connected", nil, map[string]interface{}{
		"index_name": cfg.IndexName,
		"host":       host,
		"variant":    VariantSDK,
	})
	return a
}

// Search queries the namespace-scoped connection by vector values.
func (a *SDKAdapter) Search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	conn, err := a.conn(req.Namespace)
	if err != nil {
		return nil, err
	}

	filter, err := toStruct(req.Filter)
	if err != nil {
		return nil, err
	}

	resp, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          req.Vector,
		TopK:            uint32(req.TopK),
		MetadataFilter:  filter,
		IncludeValues:   req.IncludeValues,
		IncludeMetadata: req.IncludeMetadata,
	})
	if err != nil {
		return nil, sdkError("query", err)
	}
	if resp == nil {
		return nil, nil
	}

	results := make([]vectordb.SearchResult, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		results = append(results, fromScoredVector(m, req.IncludeMetadata, req.IncludeValues))
	}
	return results, nil
}

// DescribeNamespaces returns per-namespace vector counts.
func (a *SDKAdapter) DescribeNamespaces(ctx context.Context) (map[string]vectordb.NamespaceStats, error) {
	// Stats are index-wide, any namespace connection can serve them.
	conn, err := a.conn("")
	if err != nil {
		return nil, err
	}

	stats, err := conn.DescribeIndexStats(ctx)
	if err != nil {
		return nil, sdkError("describe_index_stats", err)
	}

	out := make(map[string]vectordb.NamespaceStats)
	if stats == nil {
		return out, nil
	}
	for name, ns := range stats.Namespaces {
		if ns == nil {
			continue
		}
		out[name] = vectordb.NamespaceStats{VectorCount: uint64(ns.VectorCount)}
	}
	return out, nil
}

// Status reports connectivity.
func (a *SDKAdapter) Status() vectordb.Status {
	return vectordb.Status{
		Backend:     "pinecone-" + VariantSDK,
		ClientReady: a.clientReady,
		IndexReady:  a.dial != nil,
		IndexName:   a.cfg.IndexName,
		Host:        a.host,
	}
}

// Close closes every opened namespace connection.
func (a *SDKAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for ns, c := range a.conns {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close namespace %q: %w", ns, err))
		}
		delete(a.conns, ns)
	}
	return errors.Join(errs...)
}

// conn returns the cached connection for namespace, dialing at most once per
// namespace even under concurrent first use.
func (a *SDKAdapter) conn(namespace string) (indexConn, error) {
	if a.dial == nil {
		return nil, vectordb.ErrNotConnected
	}

	a.mu.RLock()
	c, ok := a.conns[namespace]
	a.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := a.group.Do(namespace, func() (interface{}, error) {
		a.mu.RLock()
		c, ok := a.conns[namespace]
		a.mu.RUnlock()
		if ok {
			return c, nil
		}

		c, err := a.dial(namespace)
		if err != nil {
			return nil, &vectordb.UpstreamError{Op: "connect", Err: err}
		}

		a.mu.Lock()
		a.conns[namespace] = c
		a.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(indexConn), nil
}

// sdkError converts SDK and gRPC failures into *vectordb.UpstreamError.
func sdkError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &vectordb.UpstreamError{Op: op, Err: err}
	}

	var pe *pinecone.PineconeError
	if errors.As(err, &pe) {
		return &vectordb.UpstreamError{Op: op, StatusCode: pe.Code, Body: pe.Error()}
	}

	if st, ok := status.FromError(err); ok {
		return &vectordb.UpstreamError{
			Op:         op,
			StatusCode: grpcToHTTPStatus(st.Code()),
			Body:       st.Code().String() + ": " + st.Message(),
		}
	}
	return &vectordb.UpstreamError{Op: op, Err: err}
}
