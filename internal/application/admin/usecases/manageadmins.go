package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type AddAdminCommand struct {
	OperatorID int64
	UserID     int64
	Username   string
	Level      admin.Level
	Remark     string
}

// ManageAdminsUseCase maintains admin roles. Only super admins manage super admins.
type ManageAdminsUseCase struct {
	adminRepo admin.Repository
	clock     biztime.Clock
	logger    logger.Interface
}

func NewManageAdminsUseCase(adminRepo admin.Repository, clock biztime.Clock, logger logger.Interface) *ManageAdminsUseCase {
	return &ManageAdminsUseCase{
		adminRepo: adminRepo,
		clock:     clock,
		logger:    logger,
	}
}

func (uc *ManageAdminsUseCase) Add(ctx context.Context, cmd AddAdminCommand) (*admin.Admin, error) {
	operator, err := uc.adminRepo.GetByUserID(ctx, cmd.OperatorID)
	if err != nil {
		return nil, err
	}
	level := cmd.Level
	if level == 0 {
		level = admin.LevelOrdinary
	}
	if err := admin.CanManage(operator, level); err != nil {
		return nil, appErrors.NewForbiddenError(err.Error())
	}

	a, err := admin.NewAdmin(cmd.UserID, cmd.Username, level, cmd.Remark, uc.clock.Now())
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}
	if err := uc.adminRepo.Create(ctx, a); err != nil {
		return nil, mapAdminError(err)
	}

	uc.logger.Infow("admin added",
		"operator_id", cmd.OperatorID,
		"user_id", a.UserID(),
		"level", int(a.Level()),
	)
	return a, nil
}

func (uc *ManageAdminsUseCase) Remove(ctx context.Context, operatorID, userID int64) error {
	if operatorID == userID {
		return appErrors.NewForbiddenError(admin.ErrCannotRemoveSelf.Error())
	}
	operator, err := uc.adminRepo.GetByUserID(ctx, operatorID)
	if err != nil {
		return err
	}
	target, err := uc.adminRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return appErrors.NewNotFoundError(admin.ErrAdminNotFound.Error())
	}
	if err := admin.CanManage(operator, target.Level()); err != nil {
		return appErrors.NewForbiddenError(err.Error())
	}

	if err := uc.adminRepo.DeleteByUserID(ctx, userID); err != nil {
		return mapAdminError(err)
	}
	uc.logger.Infow("admin removed", "operator_id", operatorID, "user_id", userID)
	return nil
}

func (uc *ManageAdminsUseCase) List(ctx context.Context) ([]*admin.Admin, error) {
	return uc.adminRepo.List(ctx)
}

// Lookup returns the admin for userID or nil when the user holds no role.
func (uc *ManageAdminsUseCase) Lookup(ctx context.Context, userID int64) (*admin.Admin, error) {
	return uc.adminRepo.GetByUserID(ctx, userID)
}

// Bootstrap makes sure every configured user id is a super admin. Existing rows are kept.
func (uc *ManageAdminsUseCase) Bootstrap(ctx context.Context, superAdminIDs []int64) (int, error) {
	created := 0
	for _, userID := range superAdminIDs {
		existing, err := uc.adminRepo.GetByUserID(ctx, userID)
		if err != nil {
			return created, err
		}
		if existing != nil {
			if !existing.Level().IsSuper() {
				uc.logger.Warnw("configured super admin holds an ordinary role", "user_id", userID)
			}
			continue
		}

		a, err := admin.NewAdmin(userID, "", admin.LevelSuper, "bootstrap", uc.clock.Now())
		if err != nil {
			return created, fmt.Errorf("invalid bootstrap admin %d: %w", userID, err)
		}
		if err := uc.adminRepo.Create(ctx, a); err != nil && !errors.Is(err, admin.ErrAlreadyAdmin) {
			return created, err
		}
		created++
	}
	if created > 0 {
		uc.logger.Infow("super admins bootstrapped", "count", created)
	}
	return created, nil
}

func mapAdminError(err error) error {
	switch {
	case errors.Is(err, admin.ErrAlreadyAdmin):
		return appErrors.NewConflictError(err.Error())
	case errors.Is(err, admin.ErrAdminNotFound):
		return appErrors.NewNotFoundError(err.Error())
	default:
		return err
	}
}
