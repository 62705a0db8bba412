package http

import (
	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/infrastructure/config"
	"github.com/merdocx/veilbot/internal/interfaces/http/handlers"
	"github.com/merdocx/veilbot/internal/interfaces/http/handlers/admin"
	"github.com/merdocx/veilbot/internal/interfaces/http/middleware"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// Router wires the gin engine, the public bundle surface and the admin API.
type Router struct {
	engine              *gin.Engine
	subscriptionHandler *handlers.SubscriptionHandler
	healthHandler       *handlers.HealthHandler
	adminSubscriptions  *admin.SubscriptionHandler
	adminServers        *admin.ServerHandler
	adminTariffs        *admin.TariffHandler
	adminUsers          *admin.UserHandler
	adminReconcile      *admin.ReconcileHandler
	adminTraffic        *admin.TrafficHandler
	bundleRateLimit     *middleware.BundleRateLimitMiddleware
	adminAuth           *middleware.AdminAuthMiddleware
}

type RouterDeps struct {
	Config              *config.Config
	Logger              logger.Interface
	SubscriptionHandler *handlers.SubscriptionHandler
	HealthHandler       *handlers.HealthHandler
	AdminSubscriptions  *admin.SubscriptionHandler
	AdminServers        *admin.ServerHandler
	AdminTariffs        *admin.TariffHandler
	AdminUsers          *admin.UserHandler
	AdminReconcile      *admin.ReconcileHandler
	AdminTraffic        *admin.TrafficHandler
	BundleRateLimit     *middleware.BundleRateLimitMiddleware
	AdminAuth           *middleware.AdminAuthMiddleware
}

func NewRouter(deps RouterDeps) *Router {
	if deps.Config.Server.Mode != "" {
		gin.SetMode(deps.Config.Server.Mode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(deps.Logger))
	engine.Use(middleware.Logger(deps.Logger))

	r := &Router{
		engine:              engine,
		subscriptionHandler: deps.SubscriptionHandler,
		healthHandler:       deps.HealthHandler,
		adminSubscriptions:  deps.AdminSubscriptions,
		adminServers:        deps.AdminServers,
		adminTariffs:        deps.AdminTariffs,
		adminUsers:          deps.AdminUsers,
		adminReconcile:      deps.AdminReconcile,
		adminTraffic:        deps.AdminTraffic,
		bundleRateLimit:     deps.BundleRateLimit,
		adminAuth:           deps.AdminAuth,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthHandler.Check)

	api := r.engine.Group("/api")
	{
		api.GET("/subscription/:token",
			r.bundleRateLimit.LimitByToken(),
			r.subscriptionHandler.GetBundle,
		)

		adminGroup := api.Group("/admin", r.adminAuth.RequireAuth())
		{
			subs := adminGroup.Group("/subscriptions")
			{
				subs.POST("", r.adminSubscriptions.Create)
				subs.POST("/free", r.adminSubscriptions.GrantFree)
				subs.GET("", r.adminSubscriptions.List)
				subs.GET("/:id", r.adminSubscriptions.Get)
				subs.POST("/:id/extend", r.adminSubscriptions.Extend)
				subs.POST("/:id/deactivate", r.adminSubscriptions.Deactivate)
				subs.POST("/:id/repair", r.adminSubscriptions.Repair)
				subs.DELETE("/:id", r.adminSubscriptions.Delete)
			}

			servers := adminGroup.Group("/servers")
			{
				servers.POST("", r.adminServers.Create)
				servers.GET("", r.adminServers.List)
				servers.GET("/:id", r.adminServers.Get)
				servers.PATCH("/:id", r.adminServers.Update)
				servers.DELETE("/:id", r.adminServers.Delete)
			}

			tariffs := adminGroup.Group("/tariffs")
			{
				tariffs.POST("", r.adminTariffs.Create)
				tariffs.GET("", r.adminTariffs.List)
				tariffs.GET("/:id", r.adminTariffs.Get)
				tariffs.PATCH("/:id", r.adminTariffs.Update)
				tariffs.DELETE("/:id", r.adminTariffs.Delete)
			}

			users := adminGroup.Group("/users")
			{
				users.GET("", r.adminUsers.List)
				users.GET("/:id/can-delete", r.adminUsers.CanDelete)
				users.DELETE("/:id", r.adminUsers.Delete)
			}

			adminGroup.GET("/traffic", r.adminTraffic.Overview)

			reconcile := adminGroup.Group("/reconcile")
			{
				reconcile.POST("", r.adminReconcile.Run)
				reconcile.GET("/reports", r.adminReconcile.ListReports)
				reconcile.GET("/reports/:id", r.adminReconcile.LatestReport)
			}
		}
	}
}

// Engine exposes the underlying gin engine for the HTTP server and tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
