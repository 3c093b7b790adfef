package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(gdb *gorm.DB) *AdminRepository {
	return &AdminRepository{db: gdb}
}

func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	model := &models.AdminModel{
		UserID:    a.UserID(),
		Username:  a.Username(),
		Level:     int(a.Level()),
		Remark:    a.Remark(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return admin.ErrAlreadyAdmin
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	a.SetID(model.ID)
	return nil
}

func (r *AdminRepository) GetByUserID(ctx context.Context, userID int64) (*admin.Admin, error) {
	var model models.AdminModel
	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return toAdminEntity(&model), nil
}

func (r *AdminRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	result := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Delete(&models.AdminModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete admin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return admin.ErrAdminNotFound
	}
	return nil
}

func (r *AdminRepository) List(ctx context.Context) ([]*admin.Admin, error) {
	var rows []models.AdminModel
	if err := db.GetTxFromContext(ctx, r.db).Order("level DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	out := make([]*admin.Admin, 0, len(rows))
	for i := range rows {
		out = append(out, toAdminEntity(&rows[i]))
	}
	return out, nil
}

func toAdminEntity(m *models.AdminModel) *admin.Admin {
	return admin.ReconstructAdmin(m.ID, m.UserID, m.Username, admin.Level(m.Level), m.Remark, m.CreatedAt)
}
