package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamAndRequestMetrics(t *testing.T) {
	m := NewMetrics(Config{Namespace: "broker", ServiceName: "test", Address: ":0"})

	m.IncrementRequests("200")
	m.IncrementRequests("200")
	m.IncrementRequests("500")
	m.ObserveUpstream("embedding", "ok", time.Now())
	m.ObserveUpstream("search", "error", time.Now())
	m.RecordRequestDuration(time.Now(), "/query")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamTotal.WithLabelValues("search", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.upstreamTotal.WithLabelValues("search", "ok")))
}

func TestMetricsEndpointServesServiceLabel(t *testing.T) {
	m := NewMetrics(Config{Namespace: "broker", ServiceName: "vectorbroker", Address: ":0"})
	m.IncrementRequests("200")

	require.NotNil(t, m.Server)
	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `broker_requests_total{service="vectorbroker",status="200"} 1`), body)
}

func TestEmptyAddressDisablesServer(t *testing.T) {
	m := NewMetrics(Config{Namespace: "broker"})
	assert.Nil(t, m.Server)
}
