package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/merdocx/veilbot/internal/interfaces/cli/admintoken"
	"github.com/merdocx/veilbot/internal/interfaces/cli/migrate"
	"github.com/merdocx/veilbot/internal/interfaces/cli/reconcile"
	"github.com/merdocx/veilbot/internal/interfaces/cli/server"
	"github.com/merdocx/veilbot/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "veilbot",
		Short: "Veilbot - subscription-based VPN access control plane",
		Long:  `Veilbot manages VPN subscriptions across a fleet of Outline and V2Ray servers: provisioning, bundles, traffic enforcement and lifecycle sweeps.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		reconcile.NewCommand(),
		admintoken.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
