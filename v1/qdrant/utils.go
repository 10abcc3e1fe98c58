package qdrant

import (
	"fmt"

	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// validateSearchInput rejects requests Qdrant would refuse anyway, so they
// fail before a round trip.
func validateSearchInput(req vectordb.SearchRequest) error {
	if len(req.Vector) == 0 {
		return fmt.Errorf("qdrant: search vector is empty")
	}
	if req.TopK <= 0 {
		return fmt.Errorf("qdrant: topK must be positive, got %d", req.TopK)
	}
	return nil
}
