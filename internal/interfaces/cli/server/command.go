package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/vipgate/internal/infrastructure/database"
	"github.com/orris-inc/vipgate/internal/infrastructure/migration"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/vipgate/internal/shared/goroutine"
	"github.com/orris-inc/vipgate/internal/shared/version"
)

var (
	env         string
	configPath  string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the admin API and the enforcement scheduler",
		Long:    `Start the vipgate HTTP admin API together with the reconciliation jobs that expire, remove and recover members.`,
		RunE:    run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	e, err := bootstrap.Load(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	log := e.Log
	log.Infow("starting server", "environment", env, "version", version.String(), "auto_migrate", autoMigrate)

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := handleMigrations(context.Background(), e); err != nil {
		return err
	}

	container, err := e.NewContainer()
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n, err := container.Admins().Bootstrap(ctx, e.Config.Admin.SuperAdminIDs); err != nil {
		return fmt.Errorf("failed to bootstrap super admins: %w", err)
	} else if n > 0 {
		log.Infow("bootstrap super admins created", "count", n)
	}

	container.SetupRoutes()
	if err := container.StartScheduler(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         e.Config.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting", "address", srv.Addr, "mode", e.Config.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(ctx context.Context, e *bootstrap.Environment) error {
	log := e.Log
	manager, err := migration.NewManager(env, e.Config.Database.Driver, e.Config.Database.MigrationStrategy, log)
	if err != nil {
		return err
	}

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment", "strategy", manager.Strategy().Name())
		}
		return manager.Migrate(ctx, database.Get())
	}

	pending, err := manager.Pending(ctx, database.Get())
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("database schema is not migrated, pending: %s (run `vipgate migrate up`)",
			strings.Join(pending, ", "))
	}
	log.Infow("migration check completed", "strategy", manager.Strategy().Name())
	return nil
}
