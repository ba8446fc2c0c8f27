package system

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/backit-onchain/oracle"

const (
	TracerAttributeNameCallID     = "CallID"
	TracerAttributeNameDeployHash = "DeployHash"
)

// GetTracer returns the tracer of the globally registered provider. Without a registered provider
// spans are no-ops.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// NewRootSpan starts a span carrying the environment as baggage.
func NewRootSpan(ctx context.Context, t oteltrace.Tracer, name string) (context.Context, oteltrace.Span) {
	m0, _ := baggage.NewMember("environment", string(GetEnvironment()))
	b, _ := baggage.New(m0)
	ctx = baggage.ContextWithBaggage(ctx, b)

	return t.Start(ctx, name)
}

func NewSpan(ctx context.Context, t oteltrace.Tracer, name string, opts ...oteltrace.SpanStartOption) (
	context.Context, oteltrace.Span) {
	return t.Start(ctx, name, opts...)
}

// Span creates and starts a new span named "service/<spanName>", and a context containing it.
func Span(ctx context.Context, spanName string, opts ...oteltrace.SpanStartOption) (context.Context, oteltrace.Span) {
	opts = append(opts, oteltrace.WithAttributes(
		attribute.String("environment", string(GetEnvironment())),
	))
	return GetTracer().Start(ctx, fmt.Sprintf("service/%s", spanName), opts...)
}
