package interceptors

import (
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTracingServerOptions(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	tracing := NewTracing(TracingOptions{
		TracerProvider:  tp,
		UntracedMethods: []string{"/grpc.health.v1.Health/Check"},
	})

	if opts := tracing.ServerOptions(); len(opts) != 1 {
		t.Fatalf("expected one server option, got %d", len(opts))
	}
}

func TestNilTracingHasNoServerOptions(t *testing.T) {
	var tracing *Tracing
	if opts := tracing.ServerOptions(); len(opts) != 0 {
		t.Fatalf("expected no server options, got %d", len(opts))
	}
}
