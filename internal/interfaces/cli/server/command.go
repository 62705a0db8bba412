package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/merdocx/veilbot/internal/infrastructure/config"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/infrastructure/scheduler"
	"github.com/merdocx/veilbot/internal/interfaces/cli/app"
	httpRouter "github.com/merdocx/veilbot/internal/interfaces/http"
	"github.com/merdocx/veilbot/internal/interfaces/http/handlers"
	"github.com/merdocx/veilbot/internal/interfaces/http/handlers/admin"
	"github.com/merdocx/veilbot/internal/interfaces/http/middleware"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
	noScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server and background schedulers",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run schema migration on startup")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Serve HTTP only; a separate worker runs the schedulers")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if err := models.AutoMigrate(database.Get()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("migration completed")
	}

	application := app.Build(cfg)
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stoppers []func()
	if !noScheduler {
		stoppers = startSchedulers(ctx, application)
	}

	router := buildRouter(cfg, application)
	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	for _, stop := range stoppers {
		stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// startSchedulers launches the traffic poll and the lifecycle sweeps and
// returns their stop functions.
func startSchedulers(ctx context.Context, a *app.App) []func() {
	pollInterval := time.Duration(a.Config.Subscription.PollIntervalSec) * time.Second

	trafficSched := scheduler.NewTrafficScheduler(
		scheduler.JobFunc(func(ctx context.Context) error {
			_, err := a.PollTrafficUC.Execute(ctx)
			return err
		}),
		pollInterval,
		a.Logger,
	)
	trafficSched.Start(ctx)

	expirySched := scheduler.NewExpiryScheduler(a.Logger)
	expirySched.AddSweep("expire", 5*time.Minute, scheduler.JobFunc(func(ctx context.Context) error {
		_, err := a.ExpireSweepUC.Execute(ctx)
		return err
	}))
	expirySched.AddSweep("expiry-notify", 15*time.Minute, scheduler.JobFunc(func(ctx context.Context) error {
		_, err := a.NotifySweepUC.Execute(ctx)
		return err
	}))
	expirySched.AddSweep("purchase-notify", time.Minute, scheduler.JobFunc(func(ctx context.Context) error {
		_, err := a.PurchaseNotifySweepUC.Execute(ctx)
		return err
	}))
	expirySched.AddSweep("prune-orphans", 24*time.Hour, scheduler.JobFunc(func(ctx context.Context) error {
		_, err := a.PruneOrphansUC.Execute(ctx)
		return err
	}))
	expirySched.Start(ctx)

	return []func(){trafficSched.Stop, expirySched.Stop}
}

func buildRouter(cfg *config.Config, a *app.App) *httpRouter.Router {
	return httpRouter.NewRouter(httpRouter.RouterDeps{
		Config: cfg,
		Logger: a.Logger,
		SubscriptionHandler: handlers.NewSubscriptionHandler(
			a.GenerateBundleUC, cfg.Subscription.ProfileTitle, a.Logger),
		HealthHandler: handlers.NewHealthHandler(),
		AdminSubscriptions: admin.NewSubscriptionHandler(
			a.CreateSubscriptionUC, a.ExtendSubscriptionUC, a.DeactivateSubscriptionUC,
			a.DeleteSubscriptionUC, a.RepairSubscriptionUC, a.GrantFreeSubscriptionUC,
			a.SubscriptionRepo, a.Logger),
		AdminServers:   admin.NewServerHandler(a.ManageServersUC, a.Logger),
		AdminTariffs:   admin.NewTariffHandler(a.ManageTariffsUC, a.Logger),
		AdminUsers:     admin.NewUserHandler(a.UserRepo, a.CanDeleteUserUC, a.DeleteUserUC, a.Logger),
		AdminReconcile: admin.NewReconcileHandler(a.ReconcileServerUC, a.ReportRepo, a.Logger),
		AdminTraffic:   admin.NewTrafficHandler(a.TrafficOverviewUC, a.Logger),
		BundleRateLimit: middleware.NewBundleRateLimitMiddleware(
			a.RateLimiter, cfg.Subscription.RateLimitPerMinute, a.Logger),
		AdminAuth: middleware.NewAdminAuthMiddleware(cfg.Admin.JWTSecret, a.Logger),
	})
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
