package operator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	membershipUsecases "github.com/orris-inc/vipgate/internal/application/membership/usecases"
	"github.com/orris-inc/vipgate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/vipgate/internal/interfaces/http"
)

type invoiceApplier interface {
	ExecuteRaw(ctx context.Context, raw string) (membershipUsecases.ApplyResult, error)
}

func newApplyCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "apply <invoice-id>...",
		Short: "Apply confirmed invoices to memberships",
		Long: `Apply a batch of invoice ids. Ids may be given as separate arguments or in one
argument separated by commas or whitespace. One malformed id rejects the whole batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(func(_ *bootstrap.Environment, c *httpRouter.Container) error {
				return runApply(cmd.Context(), cmd.OutOrStdout(), c.ApplyInvoices(), args)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func runApply(ctx context.Context, out io.Writer, uc invoiceApplier, args []string) error {
	result, err := uc.ExecuteRaw(ctx, strings.Join(args, ","))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added=%d renewed=%d skipped=%d conflicts=%d\n",
		result.Added, result.Renewed, result.Skipped, result.Conflicts)
	return nil
}
