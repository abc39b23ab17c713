// Package tracing holds the process-wide tracer. Spans are opened per
// repository and service method; when no tracer is configured every helper
// degrades to a no-op.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer installs the tracer used by StartSpan. Called once at boot.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan opens a child span named after the calling method
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}

// GetActiveSpan returns the span recorded on the context, or nil when
// nothing real is being traced.
func GetActiveSpan(ctx context.Context) trace.Span {
	if tracer == nil {
		return nil
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

// GetTraceID returns the active trace id, or the empty string
func GetTraceID(ctx context.Context) string {
	span := GetActiveSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// GetSpanID returns the active span id, or the empty string
func GetSpanID(ctx context.Context) string {
	span := GetActiveSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
