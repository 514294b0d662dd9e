package interceptors

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/stats"
)

// TracingOptions customises server-side span creation.
type TracingOptions struct {
	TracerProvider trace.TracerProvider
	Propagators    propagation.TextMapPropagator
	// UntracedMethods are full method names that never start spans, e.g. health probes.
	UntracedMethods []string
	Additional      []otelgrpc.Option
}

// Tracing wraps the OpenTelemetry stats handler for gRPC servers.
type Tracing struct {
	handler stats.Handler
}

// NewTracing builds the server stats handler with the supplied options.
func NewTracing(opts TracingOptions) *Tracing {
	options := make([]otelgrpc.Option, 0, len(opts.Additional)+3)
	if opts.TracerProvider != nil {
		options = append(options, otelgrpc.WithTracerProvider(opts.TracerProvider))
	}
	if opts.Propagators != nil {
		options = append(options, otelgrpc.WithPropagators(opts.Propagators))
	}
	if len(opts.UntracedMethods) > 0 {
		skip := make(map[string]struct{}, len(opts.UntracedMethods))
		for _, method := range opts.UntracedMethods {
			skip[method] = struct{}{}
		}
		options = append(options, otelgrpc.WithFilter(func(info *stats.RPCTagInfo) bool {
			_, untraced := skip[info.FullMethodName]
			return !untraced
		}))
	}
	options = append(options, opts.Additional...)

	return &Tracing{handler: otelgrpc.NewServerHandler(options...)}
}

// ServerOptions returns the grpc.ServerOption slice enabling tracing; empty when t is nil.
func (t *Tracing) ServerOptions() []grpc.ServerOption {
	if t == nil || t.handler == nil {
		return nil
	}
	return []grpc.ServerOption{grpc.StatsHandler(t.handler)}
}
