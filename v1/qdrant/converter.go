package qdrant

import (
	"fmt"
	"math"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertVectorDBFilterSet converts a vectordb.FilterSet to a Qdrant filter.
// It returns nil for an empty set.
func convertVectorDBFilterSet(filters *vectordb.FilterSet) (*qdrant.Filter, error) {
	if filters.IsEmpty() {
		return nil, nil
	}

	var (
		filter = &qdrant.Filter{}
		err    error
	)
	if filter.Must, err = convertVectorDBConditionSet(filters.Must); err != nil {
		return nil, err
	}
	if filter.Should, err = convertVectorDBConditionSet(filters.Should); err != nil {
		return nil, err
	}
	if filter.MustNot, err = convertVectorDBConditionSet(filters.MustNot); err != nil {
		return nil, err
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil, nil
	}
	return filter, nil
}

// convertVectorDBConditionSet converts a vectordb.ConditionSet to Qdrant conditions.
func convertVectorDBConditionSet(cs *vectordb.ConditionSet) ([]*qdrant.Condition, error) {
	if cs == nil {
		return nil, nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		cond, err := convertVectorDBCondition(c)
		if err != nil {
			return nil, err
		}
		if cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions, nil
}

// convertVectorDBCondition converts a single vectordb.FilterCondition.
func convertVectorDBCondition(c vectordb.FilterCondition) (*qdrant.Condition, error) {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertVectorDBMatchCondition(cond)
	case *vectordb.MatchAnyCondition:
		return convertVectorDBMatchAnyCondition(cond.Field, cond.Values, false)
	case *vectordb.MatchExceptCondition:
		return convertVectorDBMatchAnyCondition(cond.Field, cond.Values, true)
	case *vectordb.NumericRangeCondition:
		return convertVectorDBNumericRangeCondition(cond), nil
	case *vectordb.IsEmptyCondition:
		return qdrant.NewIsEmpty(cond.Field), nil
	case *vectordb.NestedCondition:
		nested, err := convertVectorDBFilterSet(cond.Filter)
		if err != nil || nested == nil {
			return nil, err
		}
		return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_Filter{Filter: nested}}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported condition %T", vectordb.ErrInvalidFilter, c)
	}
}

func convertVectorDBMatchCondition(c *vectordb.MatchCondition) (*qdrant.Condition, error) {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v), nil
	case bool:
		return qdrant.NewMatchBool(c.Field, v), nil
	case float64:
		// JSON numbers arrive as float64. Qdrant matches integers exactly;
		// fractional values become a closed range on the same point.
		if n, ok := asInt64(v); ok {
			return qdrant.NewMatchInt(c.Field, n), nil
		}
		return qdrant.NewRange(c.Field, &qdrant.Range{Gte: &v, Lte: &v}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T for %q", vectordb.ErrInvalidFilter, c.Value, c.Field)
	}
}

func convertVectorDBMatchAnyCondition(field string, values []any, except bool) (*qdrant.Condition, error) {
	if len(values) == 0 {
		return nil, nil
	}

	switch values[0].(type) {
	case string:
		strs := make([]string, len(values))
		for i, v := range values {
			strs[i], _ = v.(string)
		}
		if except {
			return qdrant.NewMatchExceptKeywords(field, strs...), nil
		}
		return qdrant.NewMatchKeywords(field, strs...), nil
	case float64:
		ints := make([]int64, len(values))
		for i, v := range values {
			f, _ := v.(float64)
			n, ok := asInt64(f)
			if !ok {
				return nil, fmt.Errorf("%w: set match on %q supports integers only", vectordb.ErrInvalidFilter, field)
			}
			ints[i] = n
		}
		if except {
			return qdrant.NewMatchExceptInts(field, ints...), nil
		}
		return qdrant.NewMatchInts(field, ints...), nil
	default:
		return nil, fmt.Errorf("%w: set match on %q supports strings and integers only", vectordb.ErrInvalidFilter, field)
	}
}

func convertVectorDBNumericRangeCondition(c *vectordb.NumericRangeCondition) *qdrant.Condition {
	rangeFilter := &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	}

	if rangeFilter.Gt == nil && rangeFilter.Gte == nil &&
		rangeFilter.Lt == nil && rangeFilter.Lte == nil {
		return nil
	}
	return qdrant.NewRange(c.Field, rangeFilter)
}

func asInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ── Result Conversion ────────────────────────────────────────────────────────

// parseSearchResults converts the Qdrant response to vectordb results. The
// namespace payload field is internal and is dropped from the metadata.
func parseSearchResults(resp []*qdrant.ScoredPoint, namespaceField string) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractVectorDBPointID(r.GetId())
		if err != nil {
			return nil, err
		}

		res := vectordb.SearchResult{
			ID:     id,
			Score:  r.GetScore(),
			Values: extractDenseVector(r.GetVectors()),
		}
		if payload := convertVectorDBPayload(r.GetPayload()); payload != nil {
			delete(payload, namespaceField)
			res.Metadata = payload
		}
		results = append(results, res)
	}
	return results, nil
}

// extractVectorDBPointID extracts a string ID from Qdrant's PointId type.
func extractVectorDBPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// extractDenseVector returns the unnamed dense vector, if the point carries one.
func extractDenseVector(v *qdrant.VectorsOutput) []float32 {
	out := v.GetVector()
	if out == nil {
		return nil
	}
	if dense := out.GetDense(); dense != nil {
		return dense.GetData()
	}
	return out.GetData()
}

// convertVectorDBPayload converts Qdrant's protobuf payload to a generic map.
func convertVectorDBPayload(payload map[string]*qdrant.Value) map[string]any {
	if len(payload) == 0 {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractVectorDBValue(v)
	}
	return result
}

// extractVectorDBValue recursively converts a Qdrant Value to a Go native type.
func extractVectorDBValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertVectorDBPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractVectorDBValue(item)
		}
		return items
	default:
		return nil
	}
}
