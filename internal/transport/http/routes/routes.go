package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/handlers"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/middleware"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Roles      *usecase.RoleService
	Teams      *usecase.TeamService
	Authorizer *usecase.Authorizer
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Identity middleware.IdentityVerifier
	Metrics  *middleware.HTTPMetrics
	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler
	Database       DatabaseChecker
	Cache          CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(deps.Metrics.Handler())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Config != nil && len(deps.Config.App.CORSOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	if deps.Config == nil || deps.Config.App.Env != "production" {
		handlers.RegisterSwagger(r)
	}

	services := deps.Services
	if deps.Identity == nil || services.Roles == nil || services.Teams == nil || services.Authorizer == nil {
		return r
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RequireIdentity(deps.Identity))
	{
		permissionHandler := handlers.NewPermissionHandler(services.Teams, services.Authorizer)
		api.GET("/permissions/vocabulary", permissionHandler.Vocabulary)

		teamsGroup := api.Group("/teams")
		teamGroup := teamsGroup.Group("/:teamID")
		teamGroup.Use(middleware.TeamScope())

		teamHandler := handlers.NewTeamHandler(services.Teams, services.Authorizer)
		teamHandler.RegisterRoutes(teamsGroup, teamGroup)

		roleHandler := handlers.NewRoleHandler(services.Roles, services.Teams)
		roleHandler.RegisterRoutes(teamGroup.Group("/roles"))

		teamGroup.GET("/permissions", permissionHandler.Effective)
		teamGroup.GET("/permissions/check", permissionHandler.Check)
	}

	return r
}
