package migrate

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/infrastructure/database"
	"github.com/orris-inc/vipgate/internal/infrastructure/migration"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/bootstrap"
)

var (
	env        string
	configPath string
	strategy   string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long: `Create, roll back or inspect the vipgate schema.

Development uses GORM AutoMigrate; test and production apply the versioned SQL scripts.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "", "Migration strategy (auto, goose); overrides config")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a number of applied SQL scripts. Not available with AutoMigrate.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the strategy in use and what is still pending.`,
		RunE:  runStatus,
	}
}

// withManager loads the environment and resolves the strategy, flag over config.
func withManager(fn func(e *bootstrap.Environment, m *migration.Manager) error) error {
	e, err := bootstrap.Load(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	name := strategy
	if name == "" {
		name = e.Config.Database.MigrationStrategy
	}
	m, err := migration.NewManager(env, e.Config.Database.Driver, name, e.Log)
	if err != nil {
		return err
	}
	return fn(e, m)
}

func runUp(cmd *cobra.Command, args []string) error {
	return withManager(func(e *bootstrap.Environment, m *migration.Manager) error {
		e.Log.Infow("running up migrations",
			"environment", env,
			"driver", e.Config.Database.Driver,
			"strategy", m.Strategy().Name(),
		)
		if err := m.Migrate(cmd.Context(), database.Get()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed")
		return nil
	})
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}
	return withManager(func(e *bootstrap.Environment, m *migration.Manager) error {
		n, err := m.Rollback(cmd.Context(), database.Get(), steps)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
		return nil
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withManager(func(e *bootstrap.Environment, m *migration.Manager) error {
		return printStatus(cmd.Context(), cmd.OutOrStdout(), e, m, database.Get())
	})
}

func printStatus(ctx context.Context, out io.Writer, e *bootstrap.Environment, m *migration.Manager, db *gorm.DB) error {
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment: %s\n", env)
	fmt.Fprintf(out, "  Driver:      %s\n", e.Config.Database.Driver)
	fmt.Fprintf(out, "  Strategy:    %s\n", m.Strategy().Name())

	if r, ok := m.Strategy().(migration.Reverter); ok {
		version, err := r.Version(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Fprintf(out, "  Version:     %d\n", version)
	}

	pending, err := m.Pending(ctx, db)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintf(out, "  Schema:      up to date\n")
		return nil
	}
	fmt.Fprintf(out, "  Pending:\n")
	for _, p := range pending {
		fmt.Fprintf(out, "    - %s\n", p)
	}
	return nil
}
