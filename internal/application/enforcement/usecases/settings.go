package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type UpdateSettingsCommand struct {
	KickIntervalSeconds     *int
	RejoinDelayMinutes      *int
	RecoveryIntervalSeconds *int
}

// SettingsUseCase reads and updates the enforcement singleton. Running schedulers pick up
// new intervals on their next start.
type SettingsUseCase struct {
	settingRepo setting.Repository
	defaults    setting.Defaults
	clock       biztime.Clock
	logger      logger.Interface
}

func NewSettingsUseCase(settingRepo setting.Repository, defaults setting.Defaults, clock biztime.Clock, logger logger.Interface) *SettingsUseCase {
	return &SettingsUseCase{
		settingRepo: settingRepo,
		defaults:    defaults,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *SettingsUseCase) Get(ctx context.Context) (*setting.Enforcement, error) {
	return uc.settingRepo.GetOrCreate(ctx, uc.defaults)
}

func (uc *SettingsUseCase) Update(ctx context.Context, cmd UpdateSettingsCommand) (*setting.Enforcement, error) {
	current, err := uc.settingRepo.GetOrCreate(ctx, uc.defaults)
	if err != nil {
		return nil, err
	}
	if err := current.Update(cmd.KickIntervalSeconds, cmd.RejoinDelayMinutes, cmd.RecoveryIntervalSeconds, uc.clock.Now()); err != nil {
		if errors.Is(err, setting.ErrInvalidSetting) {
			return nil, appErrors.NewValidationError(err.Error())
		}
		return nil, err
	}
	if err := uc.settingRepo.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save enforcement settings: %w", err)
	}

	uc.logger.Infow("enforcement settings updated",
		"kick_interval_seconds", current.KickIntervalSeconds(),
		"rejoin_delay_minutes", current.RejoinDelayMinutes(),
		"recovery_interval_seconds", current.RecoveryIntervalSeconds(),
	)
	return current, nil
}
