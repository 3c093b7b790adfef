package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// RecoverBansUseCase lifts bans older than the rejoin delay and returns the users it
// unbanned so the caller can restore them remotely.
type RecoverBansUseCase struct {
	membershipRepo membership.Repository
	txMgr          db.Transactor
	clock          biztime.Clock
	logger         logger.Interface
}

func NewRecoverBansUseCase(
	membershipRepo membership.Repository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *RecoverBansUseCase {
	return &RecoverBansUseCase{
		membershipRepo: membershipRepo,
		txMgr:          txMgr,
		clock:          clock,
		logger:         logger,
	}
}

func (uc *RecoverBansUseCase) Execute(ctx context.Context, delay time.Duration) ([]int64, error) {
	var recovered []int64
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		now := uc.clock.Now()
		eligible, err := uc.membershipRepo.ListRecoverable(txCtx, now.Add(-delay))
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return nil
		}

		userIDs := make([]int64, 0, len(eligible))
		for _, m := range eligible {
			userIDs = append(userIDs, m.UserID())
		}
		if _, err := uc.membershipRepo.ClearBans(txCtx, userIDs, now); err != nil {
			return err
		}
		recovered = userIDs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recover bans: %w", err)
	}

	if len(recovered) > 0 {
		uc.logger.Infow("bans recovered", "count", len(recovered), "delay", delay.String())
	}
	return recovered, nil
}
