package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/vipgate/internal/interfaces/cli/migrate"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/operator"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/server"
	"github.com/orris-inc/vipgate/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vipgate",
		Short: "vipgate - paid group membership enforcement",
		Long: `vipgate records paid subscriptions, keeps each member's access window, and removes
expired members from the VIP groups on a schedule.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)
	rootCmd.AddCommand(operator.NewCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
