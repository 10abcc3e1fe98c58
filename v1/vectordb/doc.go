// Package vectordb provides a backend-agnostic abstraction for nearest
// neighbour search.
//
// # Overview
//
// The package defines the [Service] interface that every index adapter
// implements, the request/response types shared by all adapters, and the
// metadata filter model. Application code depends only on this package; the
// concrete backend is chosen by configuration.
//
//	┌──────────────────────────────┐
//	│        broker.Pipeline       │
//	└──────────────┬───────────────┘
//	               ▼
//	┌──────────────────────────────┐
//	│       vectordb.Service       │
//	└──────────────┬───────────────┘
//	     ┌─────────┼──────────┐
//	     ▼         ▼          ▼
//	 pinecone   pinecone    qdrant
//	   (SDK)     (REST)
//
// # Filters
//
// Filters arrive from clients as maps in the Pinecone operator dialect.
// Pinecone adapters forward them unchanged. Other adapters call [ParseFilter]
// to obtain a [FilterSet] and translate it to their native representation:
//
//	fs, err := vectordb.ParseFilter(map[string]any{
//	    "genre": map[string]any{"$in": []any{"drama", "comedy"}},
//	    "year":  map[string]any{"$gte": 2020.0},
//	})
//
// # Errors
//
// Adapters report failures with [ErrNotConnected], [ErrInvalidFilter] and
// [*UpstreamError]. Use [IsNotConnected], [IsInvalidFilter] and
// [AsUpstreamError] to inspect them.
package vectordb
