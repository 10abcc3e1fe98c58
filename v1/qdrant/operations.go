package qdrant

import (
	"context"
	"errors"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// maxNamespaces bounds the facet query behind DescribeNamespaces.
const maxNamespaces = 1000

// Search ──────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────
//
// Search runs a nearest-neighbour query inside req.Namespace. The request
// filter is parsed from the Pinecone dialect and combined with the
// namespace condition.
func (a *Adapter) Search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	if !a.indexReady {
		return nil, vectordb.ErrNotConnected
	}
	if err := validateSearchInput(req); err != nil {
		return nil, err
	}

	filter, err := a.buildFilter(req.Namespace, req.Filter)
	if err != nil {
		return nil, err
	}

	limit := uint64(req.TopK)
	resp, err := a.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: a.cfg.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Limit:          &limit,
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(req.IncludeMetadata),
		WithVectors:    qdrant.NewWithVectors(req.IncludeValues),
	})
	if err != nil {
		return nil, upstreamError("query", err)
	}

	results, err := parseSearchResults(resp, a.cfg.NamespaceField)
	if err != nil {
		return nil, &vectordb.UpstreamError{Op: "query", Err: err}
	}
	return results, nil
}

// DescribeNamespaces ──────────────────────────────────────────────────────────────
// DescribeNamespaces
// ──────────────────────────────────────────────────────────────
//
// DescribeNamespaces counts points per value of the namespace payload field
// using a facet query. The field must carry a keyword payload index.
func (a *Adapter) DescribeNamespaces(ctx context.Context) (map[string]vectordb.NamespaceStats, error) {
	if !a.indexReady {
		return nil, vectordb.ErrNotConnected
	}

	limit := uint64(maxNamespaces)
	exact := true
	hits, err := a.api.Facet(ctx, &qdrant.FacetCounts{
		CollectionName: a.cfg.Collection,
		Key:            a.cfg.NamespaceField,
		Limit:          &limit,
		Exact:          &exact,
	})
	if err != nil {
		return nil, upstreamError("facet", err)
	}

	out := make(map[string]vectordb.NamespaceStats, len(hits))
	for _, h := range hits {
		name := h.GetValue().GetStringValue()
		if name == "" {
			continue
		}
		out[name] = vectordb.NamespaceStats{VectorCount: h.GetCount()}
	}
	return out, nil
}

// buildFilter combines the namespace condition with the parsed request filter.
func (a *Adapter) buildFilter(namespace string, raw map[string]any) (*qdrant.Filter, error) {
	fs, err := vectordb.ParseFilter(raw)
	if err != nil {
		return nil, err
	}

	filter, err := convertVectorDBFilterSet(fs)
	if err != nil {
		return nil, err
	}

	if namespace == "" {
		return filter, nil
	}
	if filter == nil {
		filter = &qdrant.Filter{}
	}
	filter.Must = append([]*qdrant.Condition{qdrant.NewMatch(a.cfg.NamespaceField, namespace)}, filter.Must...)
	return filter, nil
}

// upstreamError wraps a gRPC failure, keeping context errors in the chain.
func upstreamError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &vectordb.UpstreamError{Op: op, Err: err}
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Canceled:
			return &vectordb.UpstreamError{Op: op, Err: context.Canceled}
		case codes.DeadlineExceeded:
			return &vectordb.UpstreamError{Op: op, Err: context.DeadlineExceeded}
		}
		return &vectordb.UpstreamError{Op: op, Body: fmt.Sprintf("%s: %s", st.Code(), st.Message())}
	}
	return &vectordb.UpstreamError{Op: op, Err: err}
}
