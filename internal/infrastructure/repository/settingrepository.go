package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
)

// EnforcementSettingRepository manages the single kick_after_invite row.
type EnforcementSettingRepository struct {
	db *gorm.DB
}

func NewEnforcementSettingRepository(gdb *gorm.DB) *EnforcementSettingRepository {
	return &EnforcementSettingRepository{db: gdb}
}

func (r *EnforcementSettingRepository) GetOrCreate(ctx context.Context, defaults setting.Defaults) (*setting.Enforcement, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.EnforcementSettingModel
	err := tx.Order("id ASC").First(&model).Error
	if err == nil {
		return toEnforcementEntity(&model), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get enforcement settings: %w", err)
	}

	e := setting.NewEnforcement(defaults, biztime.NowUTC())
	model = models.EnforcementSettingModel{
		KickIntervalSeconds:     e.KickIntervalSeconds(),
		RejoinDelayMinutes:      e.RejoinDelayMinutes(),
		RecoveryIntervalSeconds: e.RecoveryIntervalSeconds(),
		CreatedAt:               e.UpdatedAt(),
		UpdatedAt:               e.UpdatedAt(),
	}
	if err := tx.Create(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to create enforcement settings: %w", err)
	}
	e.SetID(model.ID)
	return e, nil
}

func (r *EnforcementSettingRepository) Save(ctx context.Context, e *setting.Enforcement) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.EnforcementSettingModel{}).
		Where("id = ?", e.ID()).
		Updates(map[string]any{
			"kick_interval_seconds":     e.KickIntervalSeconds(),
			"rejoin_delay_minutes":      e.RejoinDelayMinutes(),
			"recovery_interval_seconds": e.RecoveryIntervalSeconds(),
			"updated_at":                e.UpdatedAt(),
		}).Error; err != nil {
		return fmt.Errorf("failed to save enforcement settings: %w", err)
	}
	return nil
}

func (r *EnforcementSettingRepository) MarkExecuted(ctx context.Context, at time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.EnforcementSettingModel{}).
		Where("1 = 1").
		Update("last_executed_at", at).Error; err != nil {
		return fmt.Errorf("failed to stamp enforcement run: %w", err)
	}
	return nil
}

func toEnforcementEntity(m *models.EnforcementSettingModel) *setting.Enforcement {
	return setting.ReconstructEnforcement(
		m.ID,
		m.KickIntervalSeconds,
		m.RejoinDelayMinutes,
		m.RecoveryIntervalSeconds,
		m.LastExecutedAt,
		m.UpdatedAt,
	)
}
