package transportgrpc

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcinterceptors "github.com/WeAreCode045/wphub-pro-sub002/internal/transport/grpc/interceptors"
)

// ServiceName is the health service name reported for the RBAC engine.
const ServiceName = "wphub.rbac.v1.TeamRBAC"

const defaultProbeTimeout = 2 * time.Second

// DependencyCheck reports whether a backing dependency is usable.
type DependencyCheck func(ctx context.Context) error

// ServerDependencies encapsulates what the gRPC server layer needs.
type ServerDependencies struct {
	Logger  *zap.Logger
	Metrics *grpcinterceptors.GRPCMetrics
	Tracing *grpcinterceptors.Tracing
	// Checks are probed by Refresh; any failure flips the service to NOT_SERVING.
	Checks       map[string]DependencyCheck
	ProbeTimeout time.Duration
}

// Server exposes the standard gRPC health protocol backed by dependency probes.
type Server struct {
	grpc         *grpc.Server
	health       *health.Server
	logger       *zap.Logger
	checks       map[string]DependencyCheck
	names        []string
	probeTimeout time.Duration

	mu      sync.Mutex
	serving bool
}

// NewServer builds the gRPC server with health and reflection registered.
func NewServer(deps ServerDependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	options := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(deps.Metrics.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(deps.Metrics.StreamServerInterceptor()),
	}
	options = append(options, deps.Tracing.ServerOptions()...)
	server := grpc.NewServer(options...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	names := make([]string, 0, len(deps.Checks))
	for name := range deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Server{
		grpc:         server,
		health:       healthServer,
		logger:       logger.With(zap.String("component", "grpc")),
		checks:       deps.Checks,
		names:        names,
		probeTimeout: timeout,
		serving:      true,
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return s
}

// GRPC exposes the underlying server for additional registrations.
func (s *Server) GRPC() *grpc.Server {
	return s.grpc
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Refresh probes every dependency and updates the reported status. It returns
// the name of the first failing check, or "" when all pass.
func (s *Server) Refresh(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	failed := ""
	for _, name := range s.names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("dependency probe failed", zap.String("dependency", name), zap.Error(err))
			if failed == "" {
				failed = name
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	healthy := failed == ""
	if healthy != s.serving {
		s.serving = healthy
		if healthy {
			s.logger.Info("dependencies recovered, reporting SERVING")
			s.setStatus(healthpb.HealthCheckResponse_SERVING)
		} else {
			s.logger.Warn("reporting NOT_SERVING", zap.String("dependency", failed))
			s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		}
	}
	return failed
}

// Watch calls Refresh every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	if len(s.checks) == 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// GracefulStop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// Stop closes all connections immediately.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.Stop()
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
