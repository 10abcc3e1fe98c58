package qdrant

import (
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

func mustParse(t *testing.T, raw map[string]any) *vectordb.FilterSet {
	t.Helper()
	fs, err := vectordb.ParseFilter(raw)
	require.NoError(t, err)
	return fs
}

func TestConvertFilter_Empty(t *testing.T) {
	f, err := convertVectorDBFilterSet(nil)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestConvertFilter_Match(t *testing.T) {
	f, err := convertVectorDBFilterSet(mustParse(t, map[string]any{
		"genre":     "drama",
		"published": true,
		"year":      2020.0,
	}))
	require.NoError(t, err)
	require.Len(t, f.Must, 3)

	assert.Equal(t, qdrant.NewMatch("genre", "drama"), f.Must[0])
	assert.Equal(t, qdrant.NewMatchBool("published", true), f.Must[1])
	assert.Equal(t, qdrant.NewMatchInt("year", 2020), f.Must[2])
}

func TestConvertFilter_FractionalMatchBecomesRange(t *testing.T) {
	f, err := convertVectorDBFilterSet(mustParse(t, map[string]any{"rating": 4.5}))
	require.NoError(t, err)
	require.Len(t, f.Must, 1)

	r := f.Must[0].GetField().GetRange()
	require.NotNil(t, r)
	assert.Equal(t, 4.5, r.GetGte())
	assert.Equal(t, 4.5, r.GetLte())
}

func TestConvertFilter_SetsAndRanges(t *testing.T) {
	f, err := convertVectorDBFilterSet(mustParse(t, map[string]any{
		"genre": map[string]any{"$in": []any{"drama", "comedy"}},
		"lang":  map[string]any{"$nin": []any{"fr"}},
		"year":  map[string]any{"$gte": 2000.0, "$lt": 2010.0},
		"ids":   map[string]any{"$in": []any{1.0, 2.0}},
		"tags":  map[string]any{"$exists": true},
	}))
	require.NoError(t, err)

	assert.Contains(t, f.Must, qdrant.NewMatchKeywords("genre", "drama", "comedy"))
	assert.Contains(t, f.Must, qdrant.NewMatchExceptKeywords("lang", "fr"))
	assert.Contains(t, f.Must, qdrant.NewMatchInts("ids", 1, 2))
	assert.Equal(t, []*qdrant.Condition{qdrant.NewIsEmpty("tags")}, f.MustNot)

	var found bool
	for _, c := range f.Must {
		if r := c.GetField().GetRange(); r != nil && c.GetField().GetKey() == "year" {
			found = true
			assert.Equal(t, 2000.0, r.GetGte())
			assert.Equal(t, 2010.0, r.GetLt())
			assert.Nil(t, r.Gt)
			assert.Nil(t, r.Lte)
		}
	}
	assert.True(t, found)
}

func TestConvertFilter_Or(t *testing.T) {
	f, err := convertVectorDBFilterSet(mustParse(t, map[string]any{
		"$or": []any{
			map[string]any{"genre": "drama"},
			map[string]any{"genre": "comedy"},
		},
	}))
	require.NoError(t, err)
	require.Len(t, f.Must, 1)

	nested := f.Must[0].GetFilter()
	require.NotNil(t, nested)
	require.Len(t, nested.Should, 2)
	assert.Equal(t, qdrant.NewMatch("genre", "drama"), nested.Should[0].GetFilter().Must[0])
}

func TestConvertFilter_FractionalSetRejected(t *testing.T) {
	_, err := convertVectorDBFilterSet(mustParse(t, map[string]any{
		"score": map[string]any{"$in": []any{0.5, 1.0}},
	}))
	assert.True(t, vectordb.IsInvalidFilter(err))
}

func TestBuildFilter_Namespace(t *testing.T) {
	a := &Adapter{cfg: Config{NamespaceField: "tenant"}, log: logger.NewNop()}

	f, err := a.buildFilter("docs", nil)
	require.NoError(t, err)
	assert.Equal(t, []*qdrant.Condition{qdrant.NewMatch("tenant", "docs")}, f.Must)

	f, err = a.buildFilter("docs", map[string]any{"genre": "drama"})
	require.NoError(t, err)
	assert.Equal(t, []*qdrant.Condition{
		qdrant.NewMatch("tenant", "docs"),
		qdrant.NewMatch("genre", "drama"),
	}, f.Must)

	f, err = a.buildFilter("", nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = a.buildFilter("docs", map[string]any{"$bad": 1.0})
	assert.True(t, vectordb.IsInvalidFilter(err))
}

func TestParseSearchResults(t *testing.T) {
	resp := []*qdrant.ScoredPoint{
		{
			Id:    qdrant.NewIDNum(7),
			Score: 0.8,
			Payload: qdrant.NewValueMap(map[string]any{
				"title":     "A",
				"namespace": "docs",
				"tags":      []any{"x", "y"},
			}),
		},
		{
			Id:    qdrant.NewID("00000000-0000-0000-0000-000000000001"),
			Score: 0.5,
		},
	}

	results, err := parseSearchResults(resp, "namespace")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "7", results[0].ID)
	assert.Equal(t, float32(0.8), results[0].Score)
	assert.Equal(t, map[string]any{"title": "A", "tags": []any{"x", "y"}}, results[0].Metadata)

	assert.Equal(t, "00000000-0000-0000-0000-000000000001", results[1].ID)
	assert.Nil(t, results[1].Metadata)
	assert.Nil(t, results[1].Values)
}

func TestParseSearchResults_NilID(t *testing.T) {
	_, err := parseSearchResults([]*qdrant.ScoredPoint{{Score: 1}}, "namespace")
	assert.Error(t, err)
}

func TestAdapter_NotReady(t *testing.T) {
	a := &Adapter{cfg: DefaultConfig(), log: logger.NewNop()}

	_, err := a.Search(t.Context(), vectordb.SearchRequest{Vector: []float32{1}, TopK: 1})
	assert.True(t, vectordb.IsNotConnected(err))
	_, err = a.DescribeNamespaces(t.Context())
	assert.True(t, vectordb.IsNotConnected(err))

	st := a.Status()
	assert.False(t, st.ClientReady)
	assert.False(t, st.IndexReady)
	assert.Equal(t, "localhost:6334", st.Host)
	assert.NoError(t, a.Close())
}
