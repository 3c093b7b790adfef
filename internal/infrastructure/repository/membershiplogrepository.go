package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
)

// MembershipLogRepository is append-only: there is no update or delete.
type MembershipLogRepository struct {
	db *gorm.DB
}

func NewMembershipLogRepository(gdb *gorm.DB) *MembershipLogRepository {
	return &MembershipLogRepository{db: gdb}
}

func (r *MembershipLogRepository) Create(ctx context.Context, l *membership.Log) error {
	model := &models.MembershipLogModel{
		UserID:         l.UserID(),
		SubscriptionID: l.SubscriptionID(),
		Operation:      string(l.Operation()),
		OldEndTime:     l.OldEndTime(),
		NewEndTime:     l.NewEndTime(),
		Remark:         l.Remark(),
		Metadata:       datatypes.JSONMap(l.Metadata()),
		CreatedAt:      l.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return appErrors.NewConflictError("subscription already applied")
		}
		return fmt.Errorf("failed to create membership log: %w", err)
	}
	l.SetID(model.ID)
	return nil
}

func (r *MembershipLogRepository) ExistsForSubscription(ctx context.Context, subscriptionID uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.MembershipLogModel{}).
		Where("subscription_id = ?", subscriptionID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check membership log: %w", err)
	}
	return count > 0, nil
}

func (r *MembershipLogRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*membership.Log, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.MembershipLogModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count membership logs: %w", err)
	}

	var rows []models.MembershipLogModel
	if err := q.Scopes(db.Paginate(page, pageSize)).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list membership logs: %w", err)
	}
	return toLogEntities(rows), total, nil
}

func (r *MembershipLogRepository) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*membership.Log, error) {
	var rows []models.MembershipLogModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list membership logs: %w", err)
	}
	return toLogEntities(rows), nil
}

func toLogEntities(rows []models.MembershipLogModel) []*membership.Log {
	out := make([]*membership.Log, 0, len(rows))
	for _, m := range rows {
		out = append(out, membership.ReconstructLog(
			m.ID,
			m.UserID,
			m.SubscriptionID,
			membership.Operation(m.Operation),
			m.OldEndTime,
			m.NewEndTime,
			m.Remark,
			map[string]any(m.Metadata),
			m.CreatedAt,
		))
	}
	return out
}
