package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// MembershipRepository implements membership.Repository. Every mutation after Create is a single
// conditional UPDATE or DELETE on (user_id, version); a zero row count is reported as false.
type MembershipRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMembershipRepository(gdb *gorm.DB, log logger.Interface) *MembershipRepository {
	return &MembershipRepository{db: gdb, logger: log}
}

func (r *MembershipRepository) GetByUserID(ctx context.Context, userID int64) (*membership.Membership, error) {
	var model models.MembershipModel
	err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return toMembershipEntity(&model), nil
}

func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	model := toMembershipModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return appErrors.NewConflictError("membership already exists", fmt.Sprint(m.UserID()))
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	m.SetID(model.ID)
	return nil
}

func (r *MembershipRepository) RenewIfVersion(
	ctx context.Context,
	userID int64,
	expectedVersion int,
	subscriptionID *uint,
	newEnd, now time.Time,
) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.MembershipModel{}).
		Where("user_id = ? AND version = ?", userID, expectedVersion).
		Updates(map[string]any{
			"end_time":        newEnd,
			"subscription_id": subscriptionID,
			"banned_at":       gorm.Expr("CASE WHEN is_banned = ? THEN banned_at ELSE NULL END", true),
			"version":         gorm.Expr("version + 1"),
			"updated_at":      now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to renew membership: %w", result.Error)
	}
	return r.applied(result, "renew", userID, expectedVersion), nil
}

func (r *MembershipRepository) BanIfVersion(ctx context.Context, userID int64, expectedVersion int, bannedAt time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.MembershipModel{}).
		Where("user_id = ? AND version = ? AND is_banned = ?", userID, expectedVersion, false).
		Updates(map[string]any{
			"is_banned":  true,
			"banned_at":  bannedAt,
			"version":    gorm.Expr("version + 1"),
			"updated_at": bannedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to ban membership: %w", result.Error)
	}
	return r.applied(result, "ban", userID, expectedVersion), nil
}

func (r *MembershipRepository) DeleteIfVersion(ctx context.Context, userID int64, expectedVersion int) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND version = ?", userID, expectedVersion).
		Delete(&models.MembershipModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete membership: %w", result.Error)
	}
	return r.applied(result, "delete", userID, expectedVersion), nil
}

func (r *MembershipRepository) applied(result *gorm.DB, op string, userID int64, expectedVersion int) bool {
	if result.RowsAffected == 0 {
		r.logger.Debugw("conditional write skipped, version moved",
			"operation", op,
			"user_id", userID,
			"expected_version", expectedVersion,
		)
		return false
	}
	return true
}

func (r *MembershipRepository) ListEnforceable(ctx context.Context, now time.Time) ([]*membership.Membership, error) {
	return r.find(ctx, "list enforceable memberships", func(q *gorm.DB) *gorm.DB {
		return q.Where("end_time < ? AND is_banned = ? AND banned_at IS NULL", now, false)
	})
}

func (r *MembershipRepository) ListRecoverable(ctx context.Context, cutoff time.Time) ([]*membership.Membership, error) {
	return r.find(ctx, "list recoverable memberships", func(q *gorm.DB) *gorm.DB {
		return q.Where("is_banned = ? AND banned_at IS NOT NULL AND banned_at <= ?", true, cutoff)
	})
}

func (r *MembershipRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*membership.Membership, error) {
	return r.find(ctx, "list expiring memberships", func(q *gorm.DB) *gorm.DB {
		return q.Where("is_banned = ? AND end_time >= ? AND end_time < ?", false, from, to)
	})
}

func (r *MembershipRepository) ClearBans(ctx context.Context, userIDs []int64, now time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.MembershipModel{}).
		Where("user_id IN ? AND is_banned = ?", userIDs, true).
		Updates(map[string]any{
			"is_banned": false,
			// a window renewed while banned must be enforced again when it closes
			"banned_at":  gorm.Expr("CASE WHEN end_time > ? THEN NULL ELSE banned_at END", now),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear bans: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *MembershipRepository) List(ctx context.Context, filter membership.ListFilter) ([]*membership.Membership, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.MembershipModel{})
	switch filter.State {
	case membership.StateActive:
		q = q.Where("is_banned = ? AND end_time >= ?", false, filter.Now)
	case membership.StateExpired:
		q = q.Where("is_banned = ? AND end_time < ?", false, filter.Now)
	case membership.StateBanned:
		q = q.Where("is_banned = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	var rows []models.MembershipModel
	if err := q.Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Order("end_time ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list memberships: %w", err)
	}
	return toMembershipEntities(rows), total, nil
}

func (r *MembershipRepository) find(ctx context.Context, what string, scope func(*gorm.DB) *gorm.DB) ([]*membership.Membership, error) {
	var rows []models.MembershipModel
	if err := db.GetTxFromContext(ctx, r.db).Scopes(scope).Order("user_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to %s: %w", what, err)
	}
	return toMembershipEntities(rows), nil
}

func toMembershipModel(m *membership.Membership) *models.MembershipModel {
	return &models.MembershipModel{
		ID:             m.ID(),
		UserID:         m.UserID(),
		SubscriptionID: m.SubscriptionID(),
		StartTime:      m.StartTime(),
		EndTime:        m.EndTime(),
		Source:         m.Source(),
		IsBanned:       m.IsBanned(),
		BannedAt:       m.BannedAt(),
		Remark:         m.Remark(),
		Version:        m.Version(),
		CreatedAt:      m.CreatedAt(),
		UpdatedAt:      m.UpdatedAt(),
	}
}

func toMembershipEntity(m *models.MembershipModel) *membership.Membership {
	return membership.ReconstructMembership(
		m.ID,
		m.UserID,
		m.SubscriptionID,
		m.StartTime,
		m.EndTime,
		m.Source,
		m.IsBanned,
		m.BannedAt,
		m.Remark,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toMembershipEntities(rows []models.MembershipModel) []*membership.Membership {
	out := make([]*membership.Membership, 0, len(rows))
	for i := range rows {
		out = append(out, toMembershipEntity(&rows[i]))
	}
	return out
}
