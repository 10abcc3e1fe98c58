package broker

// Query is the canonical form of one search request, produced by the
// Normalizer and consumed by the Pipeline. Input is exactly one of
// TextQuery or VectorQuery.
type Query struct {
	Input           Input
	Namespace       string
	TopK            int
	IncludeMetadata bool
	IncludeValues   bool
	Filter          map[string]any
}

// Input is the query payload variant.
type Input interface {
	isInput()
}

// TextQuery needs embedding before search.
type TextQuery struct {
	Text string
}

// VectorQuery is searched as is.
type VectorQuery struct {
	Vector []float32
}

func (TextQuery) isInput()   {}
func (VectorQuery) isInput() {}

// Kind names the input variant for logs and span attributes.
func (q Query) Kind() string {
	switch q.Input.(type) {
	case TextQuery:
		return "text"
	case VectorQuery:
		return "vector"
	default:
		return "unknown"
	}
}

// Match is one shaped search hit.
type Match struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Values   []float32      `json:"values,omitempty"`
}

// NoResultsMessage is returned instead of an empty match list.
const NoResultsMessage = "no relevant information found"

// Result is the outcome of a successful pipeline run. Exactly one of
// Matches (non-empty) or Message is set.
type Result struct {
	Matches []Match `json:"matches,omitempty"`
	Message string  `json:"message,omitempty"`
}
