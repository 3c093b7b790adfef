package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/subscription"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/id"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// ManageSubscriptionUseCase serves operator lookups and the pending to failed transition.
type ManageSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewManageSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *ManageSubscriptionUseCase {
	return &ManageSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *ManageSubscriptionUseCase) Get(ctx context.Context, invoiceID string) (*subscription.Subscription, error) {
	normalized, err := id.NormalizeInvoiceID(invoiceID)
	if err != nil {
		return nil, appErrors.NewValidationError("invalid invoice id", invoiceID)
	}
	sub, err := uc.subscriptionRepo.GetByInvoiceID(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, appErrors.NewNotFoundError("subscription not found", normalized)
	}
	return sub, nil
}

func (uc *ManageSubscriptionUseCase) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	if userID <= 0 {
		return nil, appErrors.NewValidationError("invalid user id")
	}
	return uc.subscriptionRepo.ListByUser(ctx, userID)
}

// MarkFailed closes a pending subscription. It cannot fail an applied one.
func (uc *ManageSubscriptionUseCase) MarkFailed(ctx context.Context, invoiceID string) (*subscription.Subscription, error) {
	sub, err := uc.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := sub.MarkFailed(uc.clock.Now()); err != nil {
		return nil, appErrors.NewConflictError("subscription is not pending", string(sub.Status()))
	}
	if err := uc.subscriptionRepo.UpdateStatus(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to mark subscription failed: %w", err)
	}

	uc.logger.Infow("subscription marked failed", "invoice_id", sub.InvoiceID(), "user_id", sub.UserID())
	return sub, nil
}
