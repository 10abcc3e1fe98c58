package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestStartSpanProducesValidSpanContext(t *testing.T) {
	tr, err := NewClient(Config{ServiceName: "vectorbroker-test", AppEnv: "test"}, logger.NewNop())
	require.NoError(t, err)
	defer func() { _ = tr.Shutdown(context.Background()) }()

	ctx, span := tr.StartSpan(context.Background(), "broker.query")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.Equal(t, span.SpanContext().TraceID(), oteltrace.SpanFromContext(ctx).SpanContext().TraceID())

	tr.SetAttributes(span, map[string]interface{}{
		"broker.namespace": "docs",
		"broker.top_k":     5,
		"broker.other":     []string{"x"},
	})
	tr.RecordErrorOnSpan(span, errors.New("search failed"))
}

func TestShutdownNilTracer(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
}
