// Package operator holds the shell commands operators run against a live database.
package operator

import (
	"github.com/spf13/cobra"

	"github.com/orris-inc/vipgate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/vipgate/internal/interfaces/http"
)

type globalOptions struct {
	env        string
	configPath string
}

func (o *globalOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// withContainer loads the environment, builds the application graph and runs fn.
func (o *globalOptions) withContainer(fn func(e *bootstrap.Environment, c *httpRouter.Container) error) error {
	e, err := bootstrap.Load(o.env, o.configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	c, err := e.NewContainer()
	if err != nil {
		return err
	}
	defer c.Shutdown()

	return fn(e, c)
}

// NewCommands returns apply, token and settings.
func NewCommands() []*cobra.Command {
	return []*cobra.Command{
		newApplyCommand(),
		newTokenCommand(),
		newSettingsCommand(),
	}
}
