package vectordb

import (
	"fmt"
	"sort"
	"strings"
)

// ParseFilter converts a metadata filter in the Pinecone operator dialect into
// a FilterSet. Supported forms:
//
//	{"field": value}                       // shorthand for $eq
//	{"field": {"$eq"|"$ne": value}}
//	{"field": {"$in"|"$nin": [values]}}
//	{"field": {"$gt"|"$gte"|"$lt"|"$lte": number}}
//	{"field": {"$exists": bool}}
//	{"$and": [filter, ...]}, {"$or": [filter, ...]}
//
// Top-level keys are combined with AND. A nil or empty filter yields nil.
// Errors wrap ErrInvalidFilter.
func ParseFilter(filter map[string]any) (*FilterSet, error) {
	if len(filter) == 0 {
		return nil, nil
	}

	fs := &FilterSet{}
	for _, key := range sortedKeys(filter) {
		value := filter[key]
		switch key {
		case "$and", "$or":
			group, err := parseGroup(key, value)
			if err != nil {
				return nil, err
			}
			if key == "$and" {
				for _, g := range group {
					appendCondition(&fs.Must, g)
				}
			} else {
				// A nested $or keeps its own Should clause so it cannot
				// collide with sibling keys.
				appendCondition(&fs.Must, &NestedCondition{Filter: &FilterSet{Should: &ConditionSet{Conditions: group}}})
			}
		default:
			if strings.HasPrefix(key, "$") {
				return nil, fmt.Errorf("%w: unsupported top-level operator %q", ErrInvalidFilter, key)
			}
			if err := parseField(fs, key, value); err != nil {
				return nil, err
			}
		}
	}
	return fs, nil
}

func parseGroup(op string, value any) ([]FilterCondition, error) {
	items, ok := value.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%w: %s expects a non-empty array of filters", ErrInvalidFilter, op)
	}

	group := make([]FilterCondition, 0, len(items))
	for i, item := range items {
		sub, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrInvalidFilter, op, i)
		}
		parsed, err := ParseFilter(sub)
		if err != nil {
			return nil, err
		}
		if parsed.IsEmpty() {
			continue
		}
		group = append(group, &NestedCondition{Filter: parsed})
	}
	return group, nil
}

func parseField(fs *FilterSet, field string, value any) error {
	ops, isObject := value.(map[string]any)
	if !isObject {
		scalar, err := normalizeScalar(field, value)
		if err != nil {
			return err
		}
		appendCondition(&fs.Must, &MatchCondition{Field: field, Value: scalar})
		return nil
	}

	var rng NumericRange
	hasRange := false
	for _, op := range sortedKeys(ops) {
		arg := ops[op]
		switch op {
		case "$eq", "$ne":
			scalar, err := normalizeScalar(field, arg)
			if err != nil {
				return err
			}
			cond := &MatchCondition{Field: field, Value: scalar}
			if op == "$eq" {
				appendCondition(&fs.Must, cond)
			} else {
				appendCondition(&fs.MustNot, cond)
			}
		case "$in", "$nin":
			values, err := normalizeList(field, op, arg)
			if err != nil {
				return err
			}
			if op == "$in" {
				appendCondition(&fs.Must, &MatchAnyCondition{Field: field, Values: values})
			} else {
				appendCondition(&fs.Must, &MatchExceptCondition{Field: field, Values: values})
			}
		case "$gt", "$gte", "$lt", "$lte":
			n, ok := toFloat64(arg)
			if !ok {
				return fmt.Errorf("%w: %s on %q expects a number", ErrInvalidFilter, op, field)
			}
			hasRange = true
			switch op {
			case "$gt":
				rng.Gt = &n
			case "$gte":
				rng.Gte = &n
			case "$lt":
				rng.Lt = &n
			case "$lte":
				rng.Lte = &n
			}
		case "$exists":
			exists, ok := arg.(bool)
			if !ok {
				return fmt.Errorf("%w: $exists on %q expects a boolean", ErrInvalidFilter, field)
			}
			if exists {
				appendCondition(&fs.MustNot, &IsEmptyCondition{Field: field})
			} else {
				appendCondition(&fs.Must, &IsEmptyCondition{Field: field})
			}
		default:
			return fmt.Errorf("%w: unsupported operator %q on %q", ErrInvalidFilter, op, field)
		}
	}

	if hasRange {
		appendCondition(&fs.Must, &NumericRangeCondition{Field: field, Range: rng})
	}
	return nil
}

func normalizeScalar(field string, v any) (any, error) {
	switch val := v.(type) {
	case string, bool:
		return val, nil
	}
	if n, ok := toFloat64(v); ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: value for %q must be a string, number or boolean, got %T", ErrInvalidFilter, field, v)
}

// normalizeList validates that every element is a scalar of the same kind.
func normalizeList(field, op string, v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%w: %s on %q expects a non-empty array", ErrInvalidFilter, op, field)
	}

	out := make([]any, len(items))
	var kind string
	for i, item := range items {
		scalar, err := normalizeScalar(field, item)
		if err != nil {
			return nil, err
		}
		k := fmt.Sprintf("%T", scalar)
		if i == 0 {
			kind = k
		} else if k != kind {
			return nil, fmt.Errorf("%w: mixed value types in %s on %q", ErrInvalidFilter, op, field)
		}
		out[i] = scalar
	}
	return out, nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
