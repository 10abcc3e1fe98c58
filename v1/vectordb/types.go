package vectordb

// SearchRequest represents a single similarity search query.
type SearchRequest struct {
	// Namespace is the partition to search in. Empty means the backend's
	// default partition.
	Namespace string `json:"namespace"`

	// Vector is the query embedding to find similar vectors for
	Vector []float32 `json:"vector"`

	// TopK is the maximum number of results to return
	TopK int `json:"topK"`

	// Filter is a metadata filter in the Pinecone operator dialect
	// ({"genre": {"$in": ["a", "b"]}, "year": {"$gte": 2020}}).
	// Adapters translate it to their native form.
	Filter map[string]any `json:"filter,omitempty"`

	// IncludeMetadata requests the stored metadata with each match.
	IncludeMetadata bool `json:"includeMetadata"`

	// IncludeValues requests the stored vector values with each match.
	IncludeValues bool `json:"includeValues"`
}

// SearchResult represents a single search result with its similarity score.
type SearchResult struct {
	// ID is the unique identifier of the matched vector
	ID string `json:"id"`

	// Score is the similarity score (higher = more similar)
	Score float32 `json:"score"`

	// Metadata is the payload stored with the vector, converted to plain Go values.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Values is the stored embedding (only populated if requested)
	Values []float32 `json:"values,omitempty"`
}

// NamespaceStats describes one partition of the index.
type NamespaceStats struct {
	VectorCount uint64 `json:"vectorCount"`
}

// Status is a point-in-time view of an adapter's connectivity.
type Status struct {
	// Backend names the adapter, e.g. "pinecone-sdk".
	Backend string `json:"backend"`

	// ClientReady is true when the upstream client was constructed
	// (credentials present and accepted locally).
	ClientReady bool `json:"clientReady"`

	// IndexReady is true when the index handle was established.
	IndexReady bool `json:"indexReady"`

	// IndexName is the configured index or collection name.
	IndexName string `json:"indexName"`

	// Host is the resolved data-plane host, if known.
	Host string `json:"host,omitempty"`
}
