package pinecone

import (
	"fmt"
	"net/http"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// toStruct converts a Pinecone-dialect filter map into the protobuf Struct
// the SDK expects. Nil or empty filters yield nil.
func toStruct(filter map[string]any) (*structpb.Struct, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	s, err := structpb.NewStruct(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrInvalidFilter, err)
	}
	return s, nil
}

// fromScoredVector maps an SDK match to the shared result type.
func fromScoredVector(m *pinecone.ScoredVector, withMetadata, withValues bool) vectordb.SearchResult {
	r := vectordb.SearchResult{ID: m.Vector.Id, Score: m.Score}
	if withMetadata && m.Vector.Metadata != nil {
		r.Metadata = m.Vector.Metadata.AsMap()
	}
	if withValues && m.Vector.Values != nil {
		r.Values = *m.Vector.Values
	}
	return r
}

// grpcToHTTPStatus maps data-plane gRPC codes to the HTTP status the REST API
// would have returned, so both variants report comparable upstream statuses.
func grpcToHTTPStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
