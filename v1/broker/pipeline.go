package broker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbroker/v1/embedding"
	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/metrics"
	"github.com/Aleph-Alpha/vectorbroker/v1/tracer"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Pipeline runs a normalized Query through embedding, search and shaping.
// It keeps no per-request state; one Pipeline serves all requests.
type Pipeline struct {
	cfg      Config
	embedder Embedder
	index    vectordb.Service
	tracer   *tracer.Tracer
	metrics  metrics.MetricsCollector
	log      logger.Logger
}

// PipelineParams groups the Pipeline's dependencies for fx.
type PipelineParams struct {
	fx.In

	Config   Config
	Embedder Embedder
	Index    vectordb.Service
	Tracer   *tracer.Tracer
	Metrics  metrics.MetricsCollector
	Logger   logger.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(p PipelineParams) *Pipeline {
	return &Pipeline{
		cfg:      p.Config,
		embedder: p.Embedder,
		index:    p.Index,
		tracer:   p.Tracer,
		metrics:  p.Metrics,
		log:      p.Logger,
	}
}

// Run executes q. Text queries are embedded first; vector queries go
// straight to search. Each upstream is called at most once.
//
// Errors are *StageError for upstream failures and *InvalidInputError when
// the index rejects the filter.
func (p *Pipeline) Run(ctx context.Context, q Query) (*Result, error) {
	ctx, span := p.tracer.StartSpan(ctx, "broker.query")
	defer span.End()

	p.tracer.SetAttributes(span, map[string]interface{}{
		"broker.query.kind": q.Kind(),
		"broker.namespace":  q.Namespace,
		"broker.top_k":      q.TopK,
	})

	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
	}

	var vector []float32
	switch in := q.Input.(type) {
	case VectorQuery:
		vector = in.Vector
	case TextQuery:
		v, err := p.embed(ctx, in.Text)
		if err != nil {
			p.tracer.RecordErrorOnSpan(span, err)
			return nil, err
		}
		vector = v
	default:
		err := fmt.Errorf("broker: query has no input")
		p.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	results, err := p.search(ctx, q, vector)
	if err != nil {
		p.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	res := shape(results, q)
	p.tracer.SetAttributes(span, map[string]interface{}{"broker.matches": len(res.Matches)})
	p.log.DebugWithContext(ctx, "query completed", nil, map[string]interface{}{
		"namespace": q.Namespace,
		"kind":      q.Kind(),
		"matches":   len(res.Matches),
	})
	return res, nil
}

// Namespaces returns per-namespace statistics from the index.
func (p *Pipeline) Namespaces(ctx context.Context) (map[string]vectordb.NamespaceStats, error) {
	ctx, span := p.tracer.StartSpan(ctx, "broker.namespaces")
	defer span.End()

	start := time.Now()
	stats, err := p.index.DescribeNamespaces(ctx)
	if err != nil {
		p.metrics.ObserveUpstream(StageSearch, outcomeError, start)
		err = p.searchError(ctx, err)
		p.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	p.metrics.ObserveUpstream(StageSearch, outcomeOK, start)
	return stats, nil
}

// Status exposes the index adapter's connectivity for health reporting.
func (p *Pipeline) Status() vectordb.Status {
	return p.index.Status()
}

func (p *Pipeline) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := p.tracer.StartSpan(ctx, "broker.embed")
	defer span.End()

	start := time.Now()
	vec, err := p.embedder.Embed(ctx, text)
	if err == nil && p.cfg.Dimension > 0 && len(vec) != p.cfg.Dimension {
		err = fmt.Errorf("embedding has %d dimensions, index expects %d", len(vec), p.cfg.Dimension)
	}
	if err != nil {
		p.metrics.ObserveUpstream(StageEmbedding, outcomeError, start)
		kind := ErrUpstreamError
		if embedding.IsNoCredential(err) {
			kind = ErrUpstreamUnavailable
		}
		p.log.ErrorWithContext(ctx, "embedding failed", err, map[string]interface{}{"stage": StageEmbedding})
		p.tracer.RecordErrorOnSpan(span, err)
		return nil, &StageError{Stage: StageEmbedding, Kind: kind, Err: err}
	}

	p.metrics.ObserveUpstream(StageEmbedding, outcomeOK, start)
	p.tracer.SetAttributes(span, map[string]interface{}{"broker.embedding.dimension": len(vec)})
	return vec, nil
}

func (p *Pipeline) search(ctx context.Context, q Query, vector []float32) ([]vectordb.SearchResult, error) {
	ctx, span := p.tracer.StartSpan(ctx, "broker.search")
	defer span.End()

	start := time.Now()
	results, err := p.index.Search(ctx, vectordb.SearchRequest{
		Namespace:       q.Namespace,
		Vector:          vector,
		TopK:            q.TopK,
		Filter:          q.Filter,
		IncludeMetadata: q.IncludeMetadata,
		IncludeValues:   q.IncludeValues,
	})
	if err != nil {
		p.metrics.ObserveUpstream(StageSearch, outcomeError, start)
		if vectordb.IsInvalidFilter(err) {
			return nil, &InvalidInputError{Reason: err.Error(), Body: map[string]any{"filter": q.Filter}}
		}
		err = p.searchError(ctx, err)
		p.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	p.metrics.ObserveUpstream(StageSearch, outcomeOK, start)
	p.tracer.SetAttributes(span, map[string]interface{}{"broker.search.results": len(results)})
	return results, nil
}

func (p *Pipeline) searchError(ctx context.Context, err error) error {
	fields := map[string]interface{}{"stage": StageSearch}
	if ue, ok := vectordb.AsUpstreamError(err); ok {
		fields["op"] = ue.Op
		fields["status_code"] = ue.StatusCode
	}
	p.log.ErrorWithContext(ctx, "vector search failed", err, fields)

	kind := ErrUpstreamError
	if errors.Is(err, vectordb.ErrNotConnected) {
		kind = ErrUpstreamUnavailable
	}
	return &StageError{Stage: StageSearch, Kind: kind, Err: err}
}

// shape orders results by descending score, bounds them to q.TopK and keeps
// only the fields the query asked for.
func shape(results []vectordb.SearchResult, q Query) *Result {
	sorted := make([]vectordb.SearchResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > q.TopK {
		sorted = sorted[:q.TopK]
	}

	if len(sorted) == 0 {
		return &Result{Message: NoResultsMessage}
	}

	matches := make([]Match, len(sorted))
	for i, r := range sorted {
		m := Match{ID: r.ID, Score: r.Score}
		if q.IncludeMetadata {
			m.Metadata = r.Metadata
		}
		if q.IncludeValues {
			m.Values = r.Values
		}
		matches[i] = m
	}
	return &Result{Matches: matches}
}
