package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
	"github.com/Aleph-Alpha/vectorbroker/v1/embedding"
	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/metrics"
	"github.com/Aleph-Alpha/vectorbroker/v1/tracer"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

const secretKey = "pc-secret-key-value"

var brokerConfig = broker.Config{DefaultNamespace: "docs", DefaultTopK: 5, MaxTopK: 50}

type fixture struct {
	embedder *broker.MockEmbedder
	index    *vectordb.MockService
	pipeline *broker.Pipeline
	server   *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := logger.NewNop()
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "server-test"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	m := metrics.NewMetrics(metrics.Config{Namespace: "server_test", ServiceName: "test"})

	f := &fixture{
		embedder: broker.NewMockEmbedder(ctrl),
		index:    vectordb.NewMockService(ctrl),
	}
	f.pipeline = broker.NewPipeline(broker.PipelineParams{
		Config:   brokerConfig,
		Embedder: f.embedder,
		Index:    f.index,
		Tracer:   tr,
		Metrics:  m,
		Logger:   log,
	})
	f.server = NewServer(Params{
		Config:      Config{Port: "0", MaxBodyBytes: 1024},
		Diagnostics: testDiagnostics(),
		Broker:      f.pipeline,
		Normalizer:  broker.NewNormalizer(brokerConfig),
		Metrics:     m,
		Logger:      log,
	})
	return f
}

func testDiagnostics() Diagnostics {
	return Diagnostics{
		Backend:          "pinecone",
		DefaultNamespace: "docs",
		Settings: map[string]bool{
			"PINECONE_API_KEY":     true,
			"PINECONE_INDEX_NAME":  true,
			"PINECONE_ENVIRONMENT": true,
			"OPENAI_API_KEY":       false,
		},
		IndexName:         "products",
		ServerURL:         "https://products-abc.svc.pinecone.io",
		EnvironmentPrefix: "us-...",
	}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	f.index.EXPECT().Status().Return(vectordb.Status{
		Backend:     "pinecone-sdk",
		ClientReady: true,
		IndexReady:  false,
		IndexName:   "products",
	}).Times(1)

	rec := f.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, healthMessage, body["message"])
	assert.Equal(t, true, body["pineconeConnected"])
	assert.Equal(t, false, body["indexConnected"])

	cfg := body["config"].(map[string]any)
	assert.Equal(t, "products", cfg["index_name"])
	assert.Equal(t, "https://products-abc.svc.pinecone.io", cfg["server_url"])
	assert.Equal(t, "us-...", cfg["environment_prefix"])
	assert.Equal(t, map[string]any{
		"PINECONE_API_KEY":     true,
		"PINECONE_INDEX_NAME":  true,
		"PINECONE_ENVIRONMENT": true,
		"OPENAI_API_KEY":       false,
	}, cfg["settings"])

	assert.NotContains(t, rec.Body.String(), secretKey)
}

func TestHealth_ServerURLFallsBackToResolvedHost(t *testing.T) {
	f := newFixture(t)
	diag := testDiagnostics()
	diag.ServerURL = ""
	f.server = NewServer(Params{
		Config:      Config{Port: "0", MaxBodyBytes: 1024},
		Diagnostics: diag,
		Broker:      f.pipeline,
		Normalizer:  broker.NewNormalizer(brokerConfig),
		Metrics:     metrics.NewMetrics(metrics.Config{Namespace: "host_test"}),
		Logger:      logger.NewNop(),
	})
	f.index.EXPECT().Status().Return(vectordb.Status{
		ClientReady: true,
		IndexReady:  true,
		Host:        "products-resolved.svc.pinecone.io",
	}).Times(1)

	rec := f.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode(t, rec)["config"].(map[string]any)
	assert.Equal(t, "products-resolved.svc.pinecone.io", cfg["server_url"])
}

func TestQuery_Success(t *testing.T) {
	f := newFixture(t)
	f.embedder.EXPECT().Embed(gomock.Any(), "how do refunds work").Return([]float32{0.1, 0.2}, nil).Times(1)
	f.index.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]vectordb.SearchResult{
		{ID: "doc-2", Score: 0.4, Metadata: map[string]any{"title": "Fees"}},
		{ID: "doc-1", Score: 0.9, Metadata: map[string]any{"title": "Refunds"}},
	}, nil).Times(1)

	rec := f.do(http.MethodPost, "/query", `{"question":"how do refunds work","topK":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res broker.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "doc-1", res.Matches[0].ID)
	assert.Equal(t, "doc-2", res.Matches[1].ID)
	assert.NotContains(t, rec.Body.String(), `"values"`)
}

func TestQuery_NoMatches(t *testing.T) {
	f := newFixture(t)
	f.index.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]vectordb.SearchResult{}, nil).Times(1)

	rec := f.do(http.MethodPost, "/query", `{"vector":[0.5,0.5]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"message": broker.NoResultsMessage}, decode(t, rec))
}

func TestQuery_InvalidInputMakesNoUpstreamCalls(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		received any
	}{
		{"empty body", "", nil},
		{"malformed json", `{"query":`, `{"query":`},
		{"missing text", `{"namespace":"docs"}`, map[string]any{"namespace": "docs"}},
		{"bad filter", `{"query":"q","filter":{"$nor":[]}}`, map[string]any{"query": "q", "filter": map[string]any{"$nor": []any{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).Times(0)
			f.index.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

			rec := f.do(http.MethodPost, "/query", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode(t, rec)
			assert.Contains(t, body["error"], errInvalidInput)
			assert.Equal(t, tt.received, body["receivedBody"])
			assert.NotContains(t, body, "stage")
		})
	}
}

func TestQuery_BodyTooLarge(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/query", `{"query":"`+strings.Repeat("a", 2048)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "too large")
}

func TestQuery_UpstreamFailuresNameTheStage(t *testing.T) {
	t.Run("embedding unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.embedder.EXPECT().Embed(gomock.Any(), "q").Return(nil, embedding.ErrNoCredential).Times(1)
		f.index.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

		rec := f.do(http.MethodPost, "/query", `{"query":"q"}`)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, errQueryFailed, body["error"])
		assert.Equal(t, broker.StageEmbedding, body["stage"])
		assert.NotEmpty(t, body["details"])
	})

	t.Run("search error", func(t *testing.T) {
		f := newFixture(t)
		f.embedder.EXPECT().Embed(gomock.Any(), "q").Return([]float32{1}, nil).Times(1)
		f.index.EXPECT().Search(gomock.Any(), gomock.Any()).
			Return(nil, &vectordb.UpstreamError{Op: "query", StatusCode: 404, Body: "Not Found"}).Times(1)

		rec := f.do(http.MethodPost, "/query", `{"query":"q"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, broker.StageSearch, body["stage"])
		assert.Contains(t, body["details"], "404")
	})
}

func TestQuery_ClientCancellationReachesUpstream(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.embedder.EXPECT().Embed(gomock.Any(), "q").
		DoAndReturn(func(ctx context.Context, _ string) ([]float32, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		}).Times(1)

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"q"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], context.Canceled.Error())
}

func TestNamespaces(t *testing.T) {
	f := newFixture(t)
	f.index.EXPECT().DescribeNamespaces(gomock.Any()).Return(map[string]vectordb.NamespaceStats{
		"docs": {VectorCount: 42},
		"faq":  {VectorCount: 7},
	}, nil).Times(1)

	rec := f.do(http.MethodGet, "/namespaces", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"docs": map[string]any{"vectorCount": float64(42)},
		"faq":  map[string]any{"vectorCount": float64(7)},
	}, decode(t, rec))
}

func TestNamespaces_NotConnected(t *testing.T) {
	f := newFixture(t)
	f.index.EXPECT().DescribeNamespaces(gomock.Any()).Return(nil, vectordb.ErrNotConnected).Times(1)

	rec := f.do(http.MethodGet, "/namespaces", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, errNamespaces, body["error"])
	assert.Equal(t, broker.StageSearch, body["stage"])
}

type panickingBroker struct{ Broker }

func (panickingBroker) Run(context.Context, broker.Query) (*broker.Result, error) {
	panic("index exploded")
}

func TestQuery_PanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.server = NewServer(Params{
		Config:     Config{Port: "0", MaxBodyBytes: 1024},
		Broker:     panickingBroker{},
		Normalizer: broker.NewNormalizer(brokerConfig),
		Metrics:    metrics.NewMetrics(metrics.Config{Namespace: "panic_test"}),
		Logger:     logger.NewNop(),
	})

	rec := f.do(http.MethodPost, "/query", `{"query":"q"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": errInternal, "details": "panic: index exploded"}, decode(t, rec))
	assert.NotContains(t, rec.Body.String(), "goroutine")
	assert.NotContains(t, rec.Body.String(), ".go:")
}

type failingBroker struct{ Broker }

func (failingBroker) Run(context.Context, broker.Query) (*broker.Result, error) {
	return nil, errors.New("unexpected decode failure in shaping")
}

func TestQuery_UnexpectedErrorKeepsMessage(t *testing.T) {
	f := newFixture(t)
	f.server = NewServer(Params{
		Config:     Config{Port: "0", MaxBodyBytes: 1024},
		Broker:     failingBroker{},
		Normalizer: broker.NewNormalizer(brokerConfig),
		Metrics:    metrics.NewMetrics(metrics.Config{Namespace: "failing_test"}),
		Logger:     logger.NewNop(),
	})

	rec := f.do(http.MethodPost, "/query", `{"query":"q"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{
		"error":   errInternal,
		"details": "unexpected decode failure in shaping",
	}, decode(t, rec))
}

func TestRouting(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/missing", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodGet, "/query", "").Code)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/query", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestFXModule_StartsAndStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := vectordb.NewMockService(ctrl)
	index.EXPECT().Status().Return(vectordb.Status{ClientReady: true, IndexReady: true}).AnyTimes()

	var srv *Server
	app := fxtest.New(t,
		fx.Supply(
			Config{Port: "0", MaxBodyBytes: 1024},
			testDiagnostics(),
			brokerConfig,
		),
		fx.Provide(
			func() logger.Logger { return logger.NewNop() },
			func() metrics.MetricsCollector { return metrics.NewMetrics(metrics.Config{Namespace: "fx_test"}) },
			func(log logger.Logger) (*tracer.Tracer, error) { return tracer.NewClient(tracer.Config{}, log) },
			func() broker.Embedder { return broker.NewMockEmbedder(ctrl) },
			func() vectordb.Service { return index },
			broker.NewNormalizer,
			broker.NewPipeline,
		),
		FXModule,
		fx.Populate(&srv),
	)

	app.RequireStart()
	require.NotNil(t, srv)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	app.RequireStop()
}
