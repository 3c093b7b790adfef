package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
)

// CanResubscribeUseCase decides whether a user may start a new subscription.
// Any storage failure answers false.
type CanResubscribeUseCase struct {
	membershipRepo membership.Repository
	settingRepo    setting.Repository
	defaults       setting.Defaults
	clock          biztime.Clock
}

func NewCanResubscribeUseCase(
	membershipRepo membership.Repository,
	settingRepo setting.Repository,
	defaults setting.Defaults,
	clock biztime.Clock,
) *CanResubscribeUseCase {
	return &CanResubscribeUseCase{
		membershipRepo: membershipRepo,
		settingRepo:    settingRepo,
		defaults:       defaults,
		clock:          clock,
	}
}

func (uc *CanResubscribeUseCase) Execute(ctx context.Context, userID int64) (bool, error) {
	m, err := uc.membershipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load membership: %w", err)
	}
	if m == nil || !m.IsBanned() {
		return true, nil
	}

	settings, err := uc.settingRepo.GetOrCreate(ctx, uc.defaults)
	if err != nil {
		return false, fmt.Errorf("failed to load enforcement settings: %w", err)
	}
	return m.CanResubscribe(uc.clock.Now(), settings.RejoinDelay()), nil
}
