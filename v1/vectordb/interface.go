package vectordb

import "context"

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=vectordb

// Service is the common contract for every vector index backend.
//
// Each upstream protocol variant (Pinecone SDK, Pinecone REST, Qdrant) is an
// adapter implementing Service, selected by configuration at startup. Callers
// see one request/response shape regardless of the variant in use.
//
// Example usage:
//
//	func NewPipeline(index vectordb.Service) *Pipeline {
//	    return &Pipeline{index: index}
//	}
type Service interface {
	// Search returns the nearest neighbours of req.Vector inside req.Namespace,
	// ordered by descending score.
	//
	// Errors:
	//   - ErrNotConnected if the index handle was never established
	//   - ErrInvalidFilter if req.Filter cannot be expressed for the backend
	//   - *UpstreamError for transport failures, non-2xx statuses or
	//     malformed responses
	//
	// A response without matches yields an empty slice, not an error.
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)

	// DescribeNamespaces returns per-namespace statistics of the index.
	DescribeNamespaces(ctx context.Context) (map[string]NamespaceStats, error)

	// Status reports the connection state for health reporting. It performs
	// no network I/O.
	Status() Status

	// Close releases connections held by the adapter.
	Close() error
}
