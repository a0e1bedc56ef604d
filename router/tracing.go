package router

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vitalvas/fenix/router"

// Tracer wraps an OpenTelemetry tracer for dispatch spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer builds a Tracer from a provider. A nil provider falls back to
// the otel global provider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(tracerName)}
}

// startDispatch opens the router.dispatch span around a matched request.
func (t *Tracer) startDispatch(ctx context.Context, m *Match) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	plug, _ := m.Route.target.Describe()
	return t.tracer.Start(ctx, "router.dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("http.route", m.Route.path),
			attribute.String("http.method", m.Route.verb),
			attribute.String("fenix.plug", plug),
		),
	)
}
