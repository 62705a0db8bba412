package reconcile

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/merdocx/veilbot/internal/application/reconcile/usecases"
	"github.com/merdocx/veilbot/internal/infrastructure/config"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/interfaces/cli/app"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

var (
	env      string
	serverID uint
	apply    bool
)

// NewCommand runs one reconciliation pass from the command line. Dry-run is
// the default; orphan deletion requires --apply.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare backend key lists with local state",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().UintVar(&serverID, "server", 0, "Server ID (0 reconciles every active server)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Delete orphaned backend keys instead of only reporting them")

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

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	a := app.Build(cfg)
	defer a.Close()

	reports, err := a.ReconcileServerUC.Execute(context.Background(), usecases.ReconcileServerCommand{
		ServerID: serverID,
		DryRun:   !apply,
	})
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	for _, report := range reports {
		fmt.Printf("server %d: remote=%d matched=%d backfilled=%d missing=%d orphans=%d deleted=%d\n",
			report.ServerID, report.RemoteTotal, report.Matched, report.BackfilledRemoteIDs,
			len(report.MissingOnServer), len(report.OrphansOnServer), report.OrphansDeleted)
	}
	return nil
}
