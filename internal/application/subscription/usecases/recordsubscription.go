package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/vipgate/internal/domain/subscription"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type RecordSubscriptionCommand struct {
	UserID        int64
	Amount        decimal.Decimal
	DurationHours int
	InvoiceID     string
	Network       string
	Address       string
	Status        subscription.Status
}

// RecordSubscriptionUseCase stores a payment intent. An error means nothing was recorded.
type RecordSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewRecordSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *RecordSubscriptionUseCase {
	return &RecordSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *RecordSubscriptionUseCase) Execute(ctx context.Context, cmd RecordSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := subscription.NewSubscription(
		cmd.UserID,
		cmd.Amount,
		cmd.DurationHours,
		cmd.InvoiceID,
		cmd.Network,
		cmd.Address,
		cmd.Status,
		uc.clock.Now(),
	)
	if err != nil {
		return nil, appErrors.NewValidationError("invalid subscription", err.Error())
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		uc.logger.Errorw("failed to record subscription",
			"user_id", cmd.UserID,
			"invoice_id", sub.InvoiceID(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to record subscription: %w", err)
	}

	uc.logger.Infow("subscription recorded",
		"user_id", sub.UserID(),
		"invoice_id", sub.InvoiceID(),
		"duration_hours", sub.DurationHours(),
		"status", sub.Status(),
	)
	return sub, nil
}
