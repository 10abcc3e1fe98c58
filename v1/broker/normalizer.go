package broker

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// textAliases are checked in order; the first non-empty one wins.
var textAliases = []string{"query", "text", "question"}

// Normalizer turns a raw request body into a Query, applying the configured
// defaults. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	cfg Config
}

// NewNormalizer creates a Normalizer using cfg's defaults.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize accepts
//
//	"bare text"
//	{"query"|"text"|"question": "...", "namespace"?, "topK"?, "includeMetadata"?, "includeValues"?, "filter"?}
//	{"vector": [numbers], "namespace"?, "topK"?, "filter"?, ...}
//
// and fails with *InvalidInputError otherwise. A vector takes precedence
// over text when both are present.
func (n *Normalizer) Normalize(raw []byte) (Query, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Query{}, invalidInput(nil, "request body is empty")
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return Query{}, invalidInput(string(raw), "request body is not valid JSON")
	}

	q := Query{
		Namespace:       n.cfg.DefaultNamespace,
		TopK:            n.cfg.DefaultTopK,
		IncludeMetadata: true,
	}

	switch v := body.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return Query{}, invalidInput(body, "query text is empty")
		}
		q.Input = TextQuery{Text: text}
		return q, nil
	case map[string]any:
		if err := n.fromObject(&q, v); err != nil {
			return Query{}, err
		}
		return q, nil
	default:
		return Query{}, invalidInput(body, "request body must be a JSON object or string")
	}
}

func (n *Normalizer) fromObject(q *Query, obj map[string]any) error {
	input, err := n.input(obj)
	if err != nil {
		return err
	}
	q.Input = input

	if v, ok := obj["namespace"]; ok && v != nil {
		ns, ok := v.(string)
		if !ok {
			return invalidInput(obj, "namespace must be a string")
		}
		if ns != "" {
			q.Namespace = ns
		}
	}

	if v, ok := obj["topK"]; ok && v != nil {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return invalidInput(obj, "topK must be an integer")
		}
		if f < 1 {
			return invalidInput(obj, "topK must be at least 1")
		}
		q.TopK = n.cfg.MaxTopK
		if f < float64(n.cfg.MaxTopK) {
			q.TopK = int(f)
		}
	}

	if q.IncludeMetadata, err = boolField(obj, "includeMetadata", true); err != nil {
		return err
	}
	if q.IncludeValues, err = boolField(obj, "includeValues", false); err != nil {
		return err
	}

	if v, ok := obj["filter"]; ok && v != nil {
		filter, ok := v.(map[string]any)
		if !ok {
			return invalidInput(obj, "filter must be an object")
		}
		if _, err := vectordb.ParseFilter(filter); err != nil {
			return invalidInput(obj, "%v", err)
		}
		if len(filter) > 0 {
			q.Filter = filter
		}
	}
	return nil
}

func (n *Normalizer) input(obj map[string]any) (Input, error) {
	if v, ok := obj["vector"]; ok && v != nil {
		vec, ok := toVector(v)
		if !ok {
			return nil, invalidInput(obj, "vector must be a non-empty array of numbers")
		}
		if n.cfg.Dimension > 0 && len(vec) != n.cfg.Dimension {
			return nil, invalidInput(obj, "vector has %d dimensions, index expects %d", len(vec), n.cfg.Dimension)
		}
		return VectorQuery{Vector: vec}, nil
	}

	for _, alias := range textAliases {
		v, ok := obj[alias]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, invalidInput(obj, "%s must be a string", alias)
		}
		if text := strings.TrimSpace(s); text != "" {
			return TextQuery{Text: text}, nil
		}
	}

	return nil, invalidInput(obj, "query text or vector is required")
}

func toVector(v any) ([]float32, bool) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	vec := make([]float32, len(items))
	for i, item := range items {
		f, ok := item.(float64)
		if !ok {
			return nil, false
		}
		vec[i] = float32(f)
		if math.IsInf(float64(vec[i]), 0) {
			return nil, false
		}
	}
	return vec, true
}

func boolField(obj map[string]any, key string, def bool) (bool, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidInput(obj, "%s must be a boolean", key)
	}
	return b, nil
}
