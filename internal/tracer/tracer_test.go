package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (*OtelTracer, *tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOtelTracer(tp.Tracer("test")), exporter, tp
}

func attrMap(kvs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}
	ctx := context.Background()

	// Should not panic
	gotCtx, span := tracer.StartSpan(ctx, "test.operation")
	assert.Equal(t, ctx, gotCtx)
	assert.NotNil(t, span)

	span.SetAttributes(attribute.String("key", "value"))
	span.RecordError(errors.New("test error"))
	span.SetStatus(codes.Error, "error")
	span.End()
}

func TestOtelTracer_ClientSpan(t *testing.T) {
	tracer, exporter, tp := newTestTracer(t)

	ctx, span := tracer.StartSpan(context.Background(), "sqlstmt.query")
	span.SetAttributes(attribute.String("key", "value"))
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "sqlstmt.query", spans[0].Name)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind)
	assert.Equal(t, "value", attrMap(spans[0].Attributes)["key"])
}

func TestAddQueryAttributes_Success(t *testing.T) {
	tracer, exporter, tp := newTestTracer(t)

	ctx, span := tracer.StartSpan(context.Background(), "sqlstmt.exec")
	AddQueryAttributes(span, &QueryMetadata{
		SQL:          "UPDATE users SET name = ? WHERE id = ?",
		Args:         []any{"Ann", 123},
		Duration:     15 * time.Millisecond,
		RowsAffected: 1,
		Database:     "mysql",
		Operation:    "UPDATE",
		Table:        "users",
	})
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, "mysql", attrs["db.system"])
	assert.Equal(t, "UPDATE users SET name = ? WHERE id = ?", attrs["db.statement"])
	assert.Equal(t, "UPDATE", attrs["db.operation"])
	assert.Equal(t, "users", attrs["db.table"])
	assert.Equal(t, int64(2), attrs["db.params_count"])
	assert.Equal(t, int64(1), attrs["db.rows_affected"])
	assert.InDelta(t, 15.0, attrs["db.duration_ms"], 0.1)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestAddQueryAttributes_WithError(t *testing.T) {
	tracer, exporter, tp := newTestTracer(t)

	ctx, span := tracer.StartSpan(context.Background(), "sqlstmt.query")
	AddQueryAttributes(span, &QueryMetadata{
		SQL:       "SELECT id FORM users",
		Duration:  5 * time.Millisecond,
		Error:     errors.New("syntax error"),
		Database:  "sqlite",
		Operation: "SELECT",
	})
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "syntax error", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)

	attrs := attrMap(spans[0].Attributes)
	assert.NotContains(t, attrs, "db.table")
	assert.NotContains(t, attrs, "db.rows_affected")
}

func TestDetectOperation(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT a FROM t WHERE id = ?", "SELECT"},
		{"  \n  SELECT name FROM users", "SELECT"},
		{"WITH stats AS (SELECT 1) SELECT * FROM stats", "SELECT"},
		{"INSERT INTO users (name) VALUES (?)", "INSERT"},
		{"REPLACE INTO users (id, name) VALUES (?, ?)", "REPLACE"},
		{"replace into users (id) values (?)", "REPLACE"},
		{"UPDATE users SET name = ? WHERE id = ?", "UPDATE"},
		{"DELETE FROM users WHERE id = ?", "DELETE"},
		{"EXPLAIN SELECT * FROM users", "UNKNOWN"},
		{"", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectOperation(tt.sql))
		})
	}
}

func TestDetectTable(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT a, b FROM t WHERE x = ?", "t"},
		{"SELECT DISTINCT UPPER(name) FROM shop.users u LEFT JOIN orders o ON o.uid = u.id", "shop.users"},
		{"INSERT INTO orders (id) VALUES (?)", "orders"},
		{"REPLACE INTO `cache` (k, v) VALUES (?, ?)", "cache"},
		{"UPDATE accounts SET balance = ? WHERE id = ?", "accounts"},
		{"DELETE FROM sessions", "sessions"},
		{"SELECT NOW()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTable(tt.sql))
		})
	}
}

func BenchmarkAddQueryAttributes(b *testing.B) {
	tp := sdktrace.NewTracerProvider()
	tracer := NewOtelTracer(tp.Tracer("benchmark"))
	ctx := context.Background()

	meta := &QueryMetadata{
		SQL:          "SELECT id FROM users WHERE id = ?",
		Args:         []any{123},
		Duration:     15 * time.Millisecond,
		RowsAffected: 1,
		Database:     "mysql",
		Operation:    "SELECT",
		Table:        "users",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, span := tracer.StartSpan(ctx, "query")
		AddQueryAttributes(span, meta)
		span.End()
	}
}
