package admintoken

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/merdocx/veilbot/internal/infrastructure/config"
	"github.com/merdocx/veilbot/internal/interfaces/http/middleware"
)

var (
	env     string
	subject string
)

// NewCommand mints an admin API token. There is no login endpoint; operators
// issue tokens from the host that holds the config.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Issue an admin API token",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject for the audit trail")

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

	token, err := middleware.IssueAdminToken(
		cfg.Admin.JWTSecret,
		subject,
		time.Duration(cfg.Admin.SessionMaxAgeSec)*time.Second,
	)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
