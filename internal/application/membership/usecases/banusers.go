package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// BanUsersUseCase moves members to the banned state. Users already banned, without a
// membership, or modified concurrently are skipped.
type BanUsersUseCase struct {
	membershipRepo membership.Repository
	txMgr          db.Transactor
	clock          biztime.Clock
	logger         logger.Interface
}

func NewBanUsersUseCase(
	membershipRepo membership.Repository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *BanUsersUseCase {
	return &BanUsersUseCase{
		membershipRepo: membershipRepo,
		txMgr:          txMgr,
		clock:          clock,
		logger:         logger,
	}
}

// Execute returns the number of users actually banned.
func (uc *BanUsersUseCase) Execute(ctx context.Context, userIDs []int64) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	banned := 0
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		now := uc.clock.Now()
		for _, userID := range userIDs {
			m, err := uc.membershipRepo.GetByUserID(txCtx, userID)
			if err != nil {
				return err
			}
			if m == nil || m.IsBanned() {
				continue
			}
			ok, err := uc.membershipRepo.BanIfVersion(txCtx, userID, m.Version(), now)
			if err != nil {
				return err
			}
			if ok {
				banned++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ban users: %w", err)
	}

	if banned > 0 {
		uc.logger.Infow("users banned", "requested", len(userIDs), "banned", banned)
	}
	return banned, nil
}

// ExecuteObserved bans each member only at the version the caller read. A member renewed,
// deleted or banned since that read is skipped as a conflict.
func (uc *BanUsersUseCase) ExecuteObserved(ctx context.Context, observed []membership.Observed) (int, error) {
	if len(observed) == 0 {
		return 0, nil
	}

	banned, conflicts := 0, 0
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		now := uc.clock.Now()
		for _, o := range observed {
			ok, err := uc.membershipRepo.BanIfVersion(txCtx, o.UserID, o.Version, now)
			if err != nil {
				return err
			}
			if ok {
				banned++
			} else {
				conflicts++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ban users: %w", err)
	}

	if conflicts > 0 {
		uc.logger.Infow("ban skipped for members modified since read", "conflicts", conflicts)
	}
	if banned > 0 {
		uc.logger.Infow("users banned", "requested", len(observed), "banned", banned)
	}
	return banned, nil
}
