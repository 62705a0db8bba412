package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/merdocx/veilbot/internal/infrastructure/config"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/scheduler"
	"github.com/merdocx/veilbot/internal/interfaces/cli/app"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

var env string

// NewCommand runs the schedulers without the HTTP surface, for deployments
// that split the API and the background work.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the background schedulers only",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

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

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	a := app.Build(cfg)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trafficSched := scheduler.NewTrafficScheduler(
		scheduler.JobFunc(func(ctx context.Context) error {
			_, err := a.PollTrafficUC.Execute(ctx)
			return err
		}),
		time.Duration(cfg.Subscription.PollIntervalSec)*time.Second,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker")
	cancel()
	trafficSched.Stop()
	expirySched.Stop()

	logger.Info("worker exited gracefully")
	return nil
}
