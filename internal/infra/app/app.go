package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/database"
	kafkainfra "github.com/WeAreCode045/wphub-pro-sub002/internal/infra/kafka"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/logger"
	redisinfra "github.com/WeAreCode045/wphub-pro-sub002/internal/infra/redis"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/security"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/telemetry"
	memoryrepo "github.com/WeAreCode045/wphub-pro-sub002/internal/repository/memory"
	postgresrepo "github.com/WeAreCode045/wphub-pro-sub002/internal/repository/postgres"
	redisrepo "github.com/WeAreCode045/wphub-pro-sub002/internal/repository/redis"
	transportgrpc "github.com/WeAreCode045/wphub-pro-sub002/internal/transport/grpc"
	grpcinterceptors "github.com/WeAreCode045/wphub-pro-sub002/internal/transport/grpc/interceptors"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/middleware"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/routes"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
	grpc     *transportgrpc.Server
	grpcAddr string
}

type storage struct {
	roles    port.RoleRepository
	teams    port.TeamRepository
	activity port.ActivityLog
}

// New wires the RBAC engine from cfg. Resources opened before a failure are released.
func New(ctx context.Context, cfg *config.AppConfig) (_ *Application, err error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &Application{
		cfg:      cfg,
		logger:   log,
		grpcAddr: fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port),
	}
	defer func() {
		if err != nil {
			a.release(context.Background())
		}
	}()

	a.tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	store, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	cache, err := a.openRoleCache(ctx)
	if err != nil {
		return nil, err
	}

	events := a.openEventPublisher()

	decisions, err := telemetry.NewAuthorizationMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("init authorization metrics: %w", err)
	}

	roleService := usecase.NewRoleService(store.roles, store.teams, store.activity, events).WithLogger(log)
	if cache != nil {
		roleService.WithCache(cache)
	}
	authorizer := usecase.NewAuthorizer(usecase.NewMembershipResolver(roleService)).
		WithRecorder(decisions).
		WithLogger(log)
	roleService.WithAuthorizer(authorizer)
	teamService := usecase.NewTeamService(store.teams, roleService, authorizer, store.activity, events).WithLogger(log)

	var identity middleware.IdentityVerifier
	verifier, err := security.NewIdentityVerifier(cfg.Auth)
	switch {
	case errors.Is(err, security.ErrSecretMissing):
		log.Warn("auth.jwt_secret not configured, team API disabled")
		err = nil
	case err != nil:
		return nil, fmt.Errorf("init identity verifier: %w", err)
	default:
		identity = verifier
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}
	grpcMetrics, err := grpcinterceptors.NewGRPCMetrics(grpcinterceptors.GRPCMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init grpc metrics: %w", err)
	}

	checks := make(map[string]transportgrpc.DependencyCheck, 2)
	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Identity: identity,
		Metrics:  httpMetrics,
		Services: routes.ServiceSet{
			Roles:      roleService,
			Teams:      teamService,
			Authorizer: authorizer,
		},
	}
	if a.pool != nil {
		deps.Database = a.pool
		checks["database"] = a.pool.Ping
	}
	if a.redis != nil {
		deps.Cache = a.redis
		checks["redis"] = a.redis.HealthCheck
	}
	a.engine = routes.Register(deps)

	a.grpc = transportgrpc.NewServer(transportgrpc.ServerDependencies{
		Logger:  log,
		Metrics: grpcMetrics,
		Tracing: grpcinterceptors.NewTracing(grpcinterceptors.TracingOptions{
			TracerProvider: a.tracer.Provider(),
			Propagators:    otel.GetTextMapPropagator(),
			UntracedMethods: []string{
				"/grpc.health.v1.Health/Check",
				"/grpc.health.v1.Health/Watch",
			},
		}),
		Checks: checks,
	})

	return a, nil
}

func (a *Application) openStorage(ctx context.Context) (storage, error) {
	if a.cfg.RBAC.StorageBackend == config.StorageBackendMemory {
		a.logger.Warn("using in-memory team storage, data is lost on restart")
		return storage{
			roles: memoryrepo.NewRoleRepository(),
			teams: memoryrepo.NewTeamRepository(),
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Postgres, a.logger)
	if err != nil {
		return storage{}, fmt.Errorf("init postgres: %w", err)
	}
	a.pool = pool

	repos := postgresrepo.NewRepositories(pool)
	return storage{roles: repos.Roles, teams: repos.Teams, activity: repos.Activity}, nil
}

func (a *Application) openRoleCache(ctx context.Context) (port.RoleCache, error) {
	rbac := a.cfg.RBAC
	switch rbac.CacheBackend {
	case config.CacheBackendRedis:
		client, err := redisinfra.NewClient(ctx, a.cfg.Redis, a.logger)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.redis = client
		return redisrepo.NewRoleCache(client.Client(), a.cfg.Redis.RoleCachePrefix, rbac.RoleCacheTTL), nil
	case config.CacheBackendMemory:
		return memoryrepo.NewRoleCache(rbac.RoleCacheSize, rbac.RoleCacheTTL), nil
	default:
		a.logger.Info("role cache disabled")
		return nil, nil
	}
}

func (a *Application) openEventPublisher() port.EventPublisher {
	if !a.cfg.Kafka.Enabled {
		a.logger.Info("kafka disabled, using stub publisher")
		return kafkainfra.NewStubPublisher(a.logger)
	}

	producer, err := kafkainfra.NewProducer(a.cfg.Kafka, a.logger)
	if err != nil {
		a.logger.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
		return kafkainfra.NewStubPublisher(a.logger)
	}
	a.producer = producer
	return kafkainfra.NewEventPublisher(producer, a.cfg.App, a.logger)
}

// Run serves HTTP and gRPC until ctx is cancelled or either server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.release(context.Background())

	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting gRPC server", zap.String("address", a.grpcAddr))
		if err := a.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			grpcErrCh <- fmt.Errorf("run grpc server: %w", err)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go a.grpc.Watch(watchCtx, a.cfg.GRPC.HealthProbeInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting team RBAC API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.String("storage", a.cfg.RBAC.StorageBackend),
		zap.String("role_cache", a.cfg.RBAC.CacheBackend),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
		a.grpc.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		a.grpc.Stop()
		return err
	case err := <-grpcErrCh:
		_ = srv.Close()
		return err
	}
}

func (a *Application) release(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("close kafka producer", zap.Error(err))
		}
		a.producer = nil
	}
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("shutdown tracer provider", zap.Error(err))
		}
		a.tracer = nil
	}
}
