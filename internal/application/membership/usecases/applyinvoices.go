package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/subscription"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/id"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// errItemConflict rolls back the savepoint of a single invoice without failing the batch.
var errItemConflict = errors.New("membership changed concurrently")

type ApplyResult struct {
	Added     int `json:"added"`
	Renewed   int `json:"renewed"`
	Skipped   int `json:"skipped"`
	Conflicts int `json:"conflicts"`
}

type itemOutcome int

const (
	outcomeSkipped itemOutcome = iota
	outcomeAdded
	outcomeRenewed
)

// ApplyInvoicesUseCase applies confirmed payments to memberships. The batch commits once;
// each invoice runs in its own savepoint so a lost version race only drops that invoice.
type ApplyInvoicesUseCase struct {
	subscriptionRepo subscription.Repository
	membershipRepo   membership.Repository
	logRepo          membership.LogRepository
	txMgr            db.Transactor
	clock            biztime.Clock
	logger           logger.Interface
}

func NewApplyInvoicesUseCase(
	subscriptionRepo subscription.Repository,
	membershipRepo membership.Repository,
	logRepo membership.LogRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *ApplyInvoicesUseCase {
	return &ApplyInvoicesUseCase{
		subscriptionRepo: subscriptionRepo,
		membershipRepo:   membershipRepo,
		logRepo:          logRepo,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

// ExecuteRaw parses a comma or whitespace separated batch before applying it.
// A malformed entry rejects the batch before any storage access.
func (uc *ApplyInvoicesUseCase) ExecuteRaw(ctx context.Context, raw string) (ApplyResult, error) {
	invoiceIDs, err := id.ParseInvoiceBatch(raw)
	if err != nil {
		return ApplyResult{}, err
	}
	return uc.Execute(ctx, invoiceIDs)
}

// Execute applies invoiceIDs in order. On a storage error nothing is committed and the
// result is empty.
func (uc *ApplyInvoicesUseCase) Execute(ctx context.Context, invoiceIDs []string) (ApplyResult, error) {
	if len(invoiceIDs) == 0 {
		return ApplyResult{}, appErrors.NewValidationError("no invoice ids supplied")
	}

	var result ApplyResult
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, invoiceID := range invoiceIDs {
			var outcome itemOutcome
			err := uc.txMgr.RunInTransaction(txCtx, func(itemCtx context.Context) error {
				var err error
				outcome, err = uc.applyOne(itemCtx, invoiceID)
				return err
			})

			switch {
			case errors.Is(err, errItemConflict):
				result.Conflicts++
				uc.logger.Warnw("invoice skipped after concurrent membership update",
					"invoice_id", invoiceID,
				)
			case err != nil:
				return err
			default:
				switch outcome {
				case outcomeAdded:
					result.Added++
				case outcomeRenewed:
					result.Renewed++
				default:
					result.Skipped++
				}
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("invoice batch rolled back",
			"invoice_count", len(invoiceIDs),
			"error", err,
		)
		return ApplyResult{}, fmt.Errorf("failed to apply invoice batch: %w", err)
	}

	uc.logger.Infow("invoice batch applied",
		"invoice_count", len(invoiceIDs),
		"added", result.Added,
		"renewed", result.Renewed,
		"skipped", result.Skipped,
		"conflicts", result.Conflicts,
	)
	return result, nil
}

func (uc *ApplyInvoicesUseCase) applyOne(ctx context.Context, invoiceID string) (itemOutcome, error) {
	sub, err := uc.subscriptionRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return outcomeSkipped, err
	}
	if sub == nil {
		uc.logger.Debugw("invoice has no subscription", "invoice_id", invoiceID)
		return outcomeSkipped, nil
	}
	if sub.IsFailed() {
		uc.logger.Debugw("invoice belongs to a failed subscription", "invoice_id", invoiceID)
		return outcomeSkipped, nil
	}

	applied, err := uc.logRepo.ExistsForSubscription(ctx, sub.ID())
	if err != nil {
		return outcomeSkipped, err
	}
	if applied {
		return outcomeSkipped, nil
	}

	now := uc.clock.Now()
	subID := sub.ID()

	current, err := uc.membershipRepo.GetByUserID(ctx, sub.UserID())
	if err != nil {
		return outcomeSkipped, err
	}

	var (
		outcome    itemOutcome
		entry      *membership.Log
		oldEndTime *time.Time
	)
	if current != nil {
		oldEnd := current.EndTime()
		oldEndTime = &oldEnd
		newEnd := membership.RenewedEndTime(oldEnd, now, sub.Duration())

		ok, err := uc.membershipRepo.RenewIfVersion(ctx, sub.UserID(), current.Version(), &subID, newEnd, now)
		if err != nil {
			return outcomeSkipped, err
		}
		if !ok {
			return outcomeSkipped, errItemConflict
		}
		outcome = outcomeRenewed
		entry, err = membership.NewLog(sub.UserID(), &subID, membership.OperationRenew, oldEndTime, newEnd, "", now)
		if err != nil {
			return outcomeSkipped, err
		}
	} else {
		m, err := membership.NewMembership(sub.UserID(), &subID, membership.SourceSubscription, sub.Duration(), now)
		if err != nil {
			return outcomeSkipped, err
		}
		if err := uc.membershipRepo.Create(ctx, m); err != nil {
			if appErrors.IsConflictError(err) {
				return outcomeSkipped, errItemConflict
			}
			return outcomeSkipped, err
		}
		outcome = outcomeAdded
		entry, err = membership.NewLog(sub.UserID(), &subID, membership.OperationNew, nil, m.EndTime(), "", now)
		if err != nil {
			return outcomeSkipped, err
		}
	}

	if err := sub.MarkSucceeded(now); err != nil {
		return outcomeSkipped, err
	}
	if err := uc.subscriptionRepo.UpdateStatus(ctx, sub); err != nil {
		return outcomeSkipped, err
	}

	entry.WithMeta("invoice_id", sub.InvoiceID()).WithMeta("duration_hours", sub.DurationHours())
	if err := uc.logRepo.Create(ctx, entry); err != nil {
		// another applier logged this subscription first
		if appErrors.IsConflictError(err) {
			return outcomeSkipped, errItemConflict
		}
		return outcomeSkipped, err
	}

	uc.logger.Infow("invoice applied",
		"invoice_id", sub.InvoiceID(),
		"user_id", sub.UserID(),
		"operation", entry.Operation(),
		"new_end_time", entry.NewEndTime(),
	)
	return outcome, nil
}
