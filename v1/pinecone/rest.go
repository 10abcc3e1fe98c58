package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

const (
	apiVersionHeader = "X-Pinecone-API-Version"
	apiVersion       = "2025-01"

	// maxErrorBody bounds how much of an upstream error body is kept.
	maxErrorBody = 4 << 10
)

// RESTAdapter implements vectordb.Service against the Pinecone data-plane
// HTTP API. It resolves the index host through the legacy per-environment
// controller when PINECONE_ENVIRONMENT is set, or through the global control
// plane otherwise.
type RESTAdapter struct {
	cfg        Config
	log        logger.Logger
	httpClient *http.Client
	baseURL    string
}

var _ vectordb.Service = (*RESTAdapter)(nil)

// NewRESTAdapter resolves the index host. Like NewSDKAdapter it never fails;
// a resolution error leaves the adapter disconnected.
func NewRESTAdapter(ctx context.Context, cfg Config, log logger.Logger) *RESTAdapter {
	a := &RESTAdapter{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}

	if cfg.APIKey == "" || (cfg.IndexName == "" && cfg.Host == "") {
		log.Warn("pinecone credentials incomplete, index not connected", nil, map[string]interface{}{
			"api_key_set":    cfg.APIKey != "",
			"index_name_set": cfg.IndexName != "",
		})
		return a
	}

	ctx, cancel := startupContext(ctx, cfg)
	defer cancel()

	host, err := a.resolveHost(ctx)
	if err != nil {
		log.Warn("failed to resolve pinecone index host, index not connected", err, map[string]interface{}{
			"index_name":  cfg.IndexName,
			"controller":  controllerEndpoint(cfg),
			"environment": cfg.Environment != "",
		})
		return a
	}
	a.baseURL = normalizeHost(host)

	log.Info("pinecone index connected", nil, map[string]interface{}{
		"index_name": cfg.IndexName,
		"host":       a.baseURL,
		"variant":    VariantREST,
	})
	return a
}

// controllerEndpoint returns the URL describing the configured index.
func controllerEndpoint(cfg Config) string {
	if cfg.Environment != "" {
		return fmt.Sprintf("https://controller.%s.pinecone.io/databases/%s", cfg.Environment, url.PathEscape(cfg.IndexName))
	}
	return strings.TrimRight(cfg.ControllerURL, "/") + "/indexes/" + url.PathEscape(cfg.IndexName)
}

// indexDescription covers both controller response shapes: the control
// plane reports "host" at the top level, the legacy controller nests it
// under "status".
type indexDescription struct {
	Host   string `json:"host"`
	Status struct {
		Host  string `json:"host"`
		Ready bool   `json:"ready"`
	} `json:"status"`
}

func (a *RESTAdapter) resolveHost(ctx context.Context) (string, error) {
	if a.cfg.Host != "" {
		return a.cfg.Host, nil
	}

	var desc indexDescription
	if err := a.do(ctx, http.MethodGet, controllerEndpoint(a.cfg), "describe_index", nil, &desc); err != nil {
		return "", err
	}

	host := desc.Host
	if host == "" {
		host = desc.Status.Host
	}
	if host == "" {
		return "", &vectordb.UpstreamError{Op: "describe_index", Body: "response carries no host"}
	}
	return host, nil
}

func normalizeHost(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

type restQueryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Namespace       string         `json:"namespace,omitempty"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
	IncludeValues   bool           `json:"includeValues"`
}

type restMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata"`
}

// restQueryResponse accepts the flat {"matches": [...]} shape and the older
// batched {"results": [{"matches": [...]}]} shape.
type restQueryResponse struct {
	Matches []restMatch `json:"matches"`
	Results []struct {
		Matches []restMatch `json:"matches"`
	} `json:"results"`
}

func (r restQueryResponse) matches() []restMatch {
	if r.Matches != nil {
		return r.Matches
	}
	if len(r.Results) > 0 {
		return r.Results[0].Matches
	}
	return nil
}

// Search posts a flat query body to <host>/query.
func (a *RESTAdapter) Search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	if a.baseURL == "" {
		return nil, vectordb.ErrNotConnected
	}

	body := restQueryRequest{
		Vector:          req.Vector,
		TopK:            req.TopK,
		Namespace:       req.Namespace,
		Filter:          req.Filter,
		IncludeMetadata: req.IncludeMetadata,
		IncludeValues:   req.IncludeValues,
	}

	var resp restQueryResponse
	if err := a.do(ctx, http.MethodPost, a.baseURL+"/query", "query", body, &resp); err != nil {
		return nil, err
	}

	matches := resp.matches()
	results := make([]vectordb.SearchResult, 0, len(matches))
	for _, m := range matches {
		r := vectordb.SearchResult{ID: m.ID, Score: m.Score}
		if req.IncludeMetadata {
			r.Metadata = m.Metadata
		}
		if req.IncludeValues {
			r.Values = m.Values
		}
		results = append(results, r)
	}
	return results, nil
}

// DescribeNamespaces calls <host>/describe_index_stats.
func (a *RESTAdapter) DescribeNamespaces(ctx context.Context) (map[string]vectordb.NamespaceStats, error) {
	if a.baseURL == "" {
		return nil, vectordb.ErrNotConnected
	}

	var resp struct {
		Namespaces map[string]struct {
			VectorCount uint64 `json:"vectorCount"`
		} `json:"namespaces"`
	}
	if err := a.do(ctx, http.MethodPost, a.baseURL+"/describe_index_stats", "describe_index_stats", struct{}{}, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]vectordb.NamespaceStats, len(resp.Namespaces))
	for name, ns := range resp.Namespaces {
		out[name] = vectordb.NamespaceStats{VectorCount: ns.VectorCount}
	}
	return out, nil
}

// Status reports connectivity.
func (a *RESTAdapter) Status() vectordb.Status {
	return vectordb.Status{
		Backend:     "pinecone-" + VariantREST,
		ClientReady: a.cfg.APIKey != "",
		IndexReady:  a.baseURL != "",
		IndexName:   a.cfg.IndexName,
		Host:        a.baseURL,
	}
}

// Close releases idle HTTP connections.
func (a *RESTAdapter) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// do sends one request with the Api-Key header and decodes a JSON response
// into out. Non-2xx statuses and undecodable bodies become
// *vectordb.UpstreamError carrying the status code and body.
func (a *RESTAdapter) do(ctx context.Context, method, endpoint, op string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Api-Key", a.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiVersionHeader, apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &vectordb.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &vectordb.UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &vectordb.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
