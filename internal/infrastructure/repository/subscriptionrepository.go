package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/domain/subscription"
	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type SubscriptionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(gdb *gorm.DB, log logger.Interface) *SubscriptionRepository {
	return &SubscriptionRepository{db: gdb, logger: log}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := toSubscriptionModel(sub)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return appErrors.NewConflictError("invoice id already recorded", sub.InvoiceID())
		}
		r.logger.Errorw("failed to create subscription", "invoice_id", sub.InvoiceID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	sub.SetID(model.ID)
	return nil
}

func (r *SubscriptionRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).Where("invoice_id = ?", invoiceID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription by invoice id: %w", err)
	}
	return toSubscriptionEntity(&model), nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, sub *subscription.Subscription) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", sub.ID()).
		Updates(map[string]any{
			"status":     string(sub.Status()),
			"updated_at": sub.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NewNotFoundError("subscription not found", sub.InvoiceID())
	}
	return nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	var rows []models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, toSubscriptionEntity(&rows[i]))
	}
	return subs, nil
}

func toSubscriptionModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:            s.ID(),
		InvoiceID:     s.InvoiceID(),
		UserID:        s.UserID(),
		Amount:        s.Amount(),
		DurationHours: s.DurationHours(),
		Status:        string(s.Status()),
		Network:       s.Network(),
		Address:       s.Address(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
}

func toSubscriptionEntity(m *models.SubscriptionModel) *subscription.Subscription {
	return subscription.ReconstructSubscription(
		m.ID,
		m.InvoiceID,
		m.UserID,
		m.Amount,
		m.DurationHours,
		subscription.Status(m.Status),
		m.Network,
		m.Address,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
