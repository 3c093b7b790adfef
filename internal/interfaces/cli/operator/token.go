package operator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/vipgate/internal/interfaces/http"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type tokenIssuer interface {
	IssueToken(userID int64) (string, time.Time, error)
}

type adminLookup interface {
	Lookup(ctx context.Context, userID int64) (*admin.Admin, error)
}

func newTokenCommand() *cobra.Command {
	opts := &globalOptions{}
	var userID int64
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin API token",
		Long:  `Sign a bearer token for the given Telegram user id. The role is checked on every request, not stored in the token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(func(e *bootstrap.Environment, c *httpRouter.Container) error {
				return runToken(cmd.Context(), cmd.OutOrStdout(), e.Log, c, c.Admins(), userID)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().Int64Var(&userID, "user-id", 0, "Telegram user id of the admin (required)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func runToken(ctx context.Context, out io.Writer, log logger.Interface, issuer tokenIssuer, admins adminLookup, userID int64) error {
	a, err := admins.Lookup(ctx, userID)
	if err != nil {
		return err
	}
	if a == nil {
		log.Warnw("issuing token for a user without an admin role", "user_id", userID)
	}

	token, expiresAt, err := issuer.IssueToken(userID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	fmt.Fprintf(out, "%s\nexpires_at=%s\n", token, expiresAt.Format(time.RFC3339))
	return nil
}
