package operator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	enforcementUsecases "github.com/orris-inc/vipgate/internal/application/enforcement/usecases"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/vipgate/internal/interfaces/http"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

type settingsStore interface {
	Get(ctx context.Context) (*setting.Enforcement, error)
	Update(ctx context.Context, cmd enforcementUsecases.UpdateSettingsCommand) (*setting.Enforcement, error)
}

// settingsInput mirrors the flags of `settings set`; unset flags stay nil.
type settingsInput struct {
	KickIntervalSeconds     *int `json:"kick-interval" validate:"omitempty,gt=0"`
	RejoinDelayMinutes      *int `json:"rejoin-delay" validate:"omitempty,gt=0"`
	RecoveryIntervalSeconds *int `json:"recovery-interval" validate:"omitempty,gt=0"`
}

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change enforcement settings",
	}
	cmd.AddCommand(newSettingsShowCommand(), newSettingsSetCommand())
	return cmd
}

func newSettingsShowCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the enforcement settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(func(_ *bootstrap.Environment, c *httpRouter.Container) error {
				s, err := c.Settings().Get(cmd.Context())
				if err != nil {
					return err
				}
				printSettings(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newSettingsSetCommand() *cobra.Command {
	opts := &globalOptions{}
	var kick, rejoin, recovery int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change enforcement settings",
		Long:  `Change one or more enforcement settings. A running server picks up new intervals on its next start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in settingsInput
			if cmd.Flags().Changed("kick-interval") {
				in.KickIntervalSeconds = &kick
			}
			if cmd.Flags().Changed("rejoin-delay") {
				in.RejoinDelayMinutes = &rejoin
			}
			if cmd.Flags().Changed("recovery-interval") {
				in.RecoveryIntervalSeconds = &recovery
			}
			return opts.withContainer(func(_ *bootstrap.Environment, c *httpRouter.Container) error {
				return runSettingsSet(cmd.Context(), cmd.OutOrStdout(), c.Settings(), in)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().IntVar(&kick, "kick-interval", 0, "Expire-and-kick period in seconds")
	cmd.Flags().IntVar(&rejoin, "rejoin-delay", 0, "Minutes a banned member waits before being allowed back")
	cmd.Flags().IntVar(&recovery, "recovery-interval", 0, "Ban recovery period in seconds")
	return cmd
}

func runSettingsSet(ctx context.Context, out io.Writer, store settingsStore, in settingsInput) error {
	if in.KickIntervalSeconds == nil && in.RejoinDelayMinutes == nil && in.RecoveryIntervalSeconds == nil {
		return fmt.Errorf("nothing to update: pass --kick-interval, --rejoin-delay or --recovery-interval")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return err
	}

	s, err := store.Update(ctx, enforcementUsecases.UpdateSettingsCommand{
		KickIntervalSeconds:     in.KickIntervalSeconds,
		RejoinDelayMinutes:      in.RejoinDelayMinutes,
		RecoveryIntervalSeconds: in.RecoveryIntervalSeconds,
	})
	if err != nil {
		return err
	}
	printSettings(out, s)
	return nil
}

func printSettings(out io.Writer, s *setting.Enforcement) {
	fmt.Fprintf(out, "kick_interval_seconds=%d\n", s.KickIntervalSeconds())
	fmt.Fprintf(out, "rejoin_delay_minutes=%d\n", s.RejoinDelayMinutes())
	fmt.Fprintf(out, "recovery_interval_seconds=%d\n", s.RecoveryIntervalSeconds())
	if last := s.LastExecutedAt(); last != nil {
		fmt.Fprintf(out, "last_executed_at=%s\n", last.Format(time.RFC3339))
	}
}
