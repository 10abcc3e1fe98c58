package vectordb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Empty(t *testing.T) {
	fs, err := ParseFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, fs)
	assert.True(t, fs.IsEmpty())
}

func TestParseFilter_ScalarShorthand(t *testing.T) {
	fs, err := ParseFilter(map[string]any{"genre": "drama", "year": 2020.0})
	require.NoError(t, err)

	require.NotNil(t, fs.Must)
	require.Len(t, fs.Must.Conditions, 2)
	assert.Equal(t, &MatchCondition{Field: "genre", Value: "drama"}, fs.Must.Conditions[0])
	assert.Equal(t, &MatchCondition{Field: "year", Value: 2020.0}, fs.Must.Conditions[1])
	assert.Nil(t, fs.MustNot)
}

func TestParseFilter_Operators(t *testing.T) {
	fs, err := ParseFilter(map[string]any{
		"author": map[string]any{"$ne": "anon"},
		"genre":  map[string]any{"$in": []any{"drama", "comedy"}},
		"lang":   map[string]any{"$nin": []any{"fr"}},
		"tags":   map[string]any{"$exists": true},
		"year":   map[string]any{"$gte": 2000, "$lt": 2010.5},
	})
	require.NoError(t, err)

	require.NotNil(t, fs.MustNot)
	assert.Contains(t, fs.MustNot.Conditions, FilterCondition(&MatchCondition{Field: "author", Value: "anon"}))
	assert.Contains(t, fs.MustNot.Conditions, FilterCondition(&IsEmptyCondition{Field: "tags"}))

	require.NotNil(t, fs.Must)
	assert.Contains(t, fs.Must.Conditions, FilterCondition(&MatchAnyCondition{Field: "genre", Values: []any{"drama", "comedy"}}))
	assert.Contains(t, fs.Must.Conditions, FilterCondition(&MatchExceptCondition{Field: "lang", Values: []any{"fr"}}))

	var rng *NumericRangeCondition
	for _, c := range fs.Must.Conditions {
		if r, ok := c.(*NumericRangeCondition); ok {
			rng = r
		}
	}
	require.NotNil(t, rng)
	assert.Equal(t, "year", rng.Field)
	require.NotNil(t, rng.Range.Gte)
	require.NotNil(t, rng.Range.Lt)
	assert.Equal(t, 2000.0, *rng.Range.Gte)
	assert.Equal(t, 2010.5, *rng.Range.Lt)
	assert.Nil(t, rng.Range.Gt)
	assert.Nil(t, rng.Range.Lte)
}

func TestParseFilter_ExistsFalse(t *testing.T) {
	fs, err := ParseFilter(map[string]any{"tags": map[string]any{"$exists": false}})
	require.NoError(t, err)
	assert.Equal(t, []FilterCondition{&IsEmptyCondition{Field: "tags"}}, fs.Must.Conditions)
}

func TestParseFilter_Groups(t *testing.T) {
	fs, err := ParseFilter(map[string]any{
		"$or": []any{
			map[string]any{"genre": "drama"},
			map[string]any{"year": map[string]any{"$gt": 2020.0}},
		},
		"$and": []any{
			map[string]any{"lang": "en"},
		},
	})
	require.NoError(t, err)
	require.Len(t, fs.Must.Conditions, 2)

	and, ok := fs.Must.Conditions[0].(*NestedCondition)
	require.True(t, ok)
	assert.Equal(t, []FilterCondition{&MatchCondition{Field: "lang", Value: "en"}}, and.Filter.Must.Conditions)

	or, ok := fs.Must.Conditions[1].(*NestedCondition)
	require.True(t, ok)
	require.NotNil(t, or.Filter.Should)
	assert.Len(t, or.Filter.Should.Conditions, 2)
	assert.Nil(t, or.Filter.Must)
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter map[string]any
	}{
		{"unknown top-level operator", map[string]any{"$not": []any{}}},
		{"unknown field operator", map[string]any{"genre": map[string]any{"$regex": "dr.*"}}},
		{"array shorthand", map[string]any{"genre": []any{"a", "b"}}},
		{"in requires array", map[string]any{"genre": map[string]any{"$in": "a"}}},
		{"empty in", map[string]any{"genre": map[string]any{"$in": []any{}}}},
		{"mixed in", map[string]any{"genre": map[string]any{"$in": []any{"a", 1.0}}}},
		{"range requires number", map[string]any{"year": map[string]any{"$gt": "2020"}}},
		{"exists requires bool", map[string]any{"tags": map[string]any{"$exists": "yes"}}},
		{"or requires array", map[string]any{"$or": map[string]any{"a": 1.0}}},
		{"or element not object", map[string]any{"$or": []any{"a"}}},
		{"nested error", map[string]any{"$and": []any{map[string]any{"a": map[string]any{"$bad": 1.0}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.filter)
			require.Error(t, err)
			assert.True(t, IsInvalidFilter(err))
		})
	}
}

func TestUpstreamError(t *testing.T) {
	err := &UpstreamError{Op: "query", StatusCode: 502, Body: "bad gateway"}
	assert.Equal(t, "vectordb: query failed (status 502): bad gateway", err.Error())

	ue, ok := AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, 502, ue.StatusCode)

	assert.False(t, IsNotConnected(err))
	assert.True(t, IsNotConnected(ErrNotConnected))
}
