// Package bootstrap loads configuration, logging and the database for CLI commands.
package bootstrap

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/infrastructure/config"
	"github.com/orris-inc/vipgate/internal/infrastructure/database"
	httpRouter "github.com/orris-inc/vipgate/internal/interfaces/http"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// Environment is the process state shared by every command once flags are parsed.
type Environment struct {
	Name   string
	Config *config.Config
	Log    logger.Interface
}

// Load reads the configuration, initializes the logger and opens the database.
// Callers must Close the environment.
func Load(env, configPath string) (*Environment, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(cfg.Server.Mode)

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Environment{Name: env, Config: cfg, Log: log}, nil
}

// NewContainer builds the application graph on the process database.
func (e *Environment) NewContainer() (*httpRouter.Container, error) {
	gin.SetMode(e.Config.Server.Mode)
	return httpRouter.NewContainer(database.Get(), e.Config, e.Log)
}

func (e *Environment) Close() {
	if err := database.Close(); err != nil {
		e.Log.Errorw("failed to close database", "error", err)
	}
}

// MapEnvToGinMode accepts environment names as well as gin modes.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
