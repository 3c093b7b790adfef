package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type DeleteMembershipsCommand struct {
	UserIDs []int64
	// OperatorID is the admin performing the deletion, zero for the CLI.
	OperatorID int64
	Remark     string
}

// DeleteMembershipsUseCase removes memberships as an operator override. It reports zero on any
// storage failure since nothing is committed.
type DeleteMembershipsUseCase struct {
	membershipRepo membership.Repository
	logRepo        membership.LogRepository
	txMgr          db.Transactor
	clock          biztime.Clock
	logger         logger.Interface
}

func NewDeleteMembershipsUseCase(
	membershipRepo membership.Repository,
	logRepo membership.LogRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *DeleteMembershipsUseCase {
	return &DeleteMembershipsUseCase{
		membershipRepo: membershipRepo,
		logRepo:        logRepo,
		txMgr:          txMgr,
		clock:          clock,
		logger:         logger,
	}
}

func (uc *DeleteMembershipsUseCase) Execute(ctx context.Context, cmd DeleteMembershipsCommand) (int, error) {
	if len(cmd.UserIDs) == 0 {
		return 0, nil
	}

	deleted := 0
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		now := uc.clock.Now()
		for _, userID := range cmd.UserIDs {
			m, err := uc.membershipRepo.GetByUserID(txCtx, userID)
			if err != nil {
				return err
			}
			if m == nil {
				continue
			}

			ok, err := uc.membershipRepo.DeleteIfVersion(txCtx, userID, m.Version())
			if err != nil {
				return err
			}
			if !ok {
				uc.logger.Warnw("membership changed before delete, skipping", "user_id", userID)
				continue
			}

			oldEnd := m.EndTime()
			entry, err := membership.NewLog(userID, nil, membership.OperationDelete, &oldEnd, now, cmd.Remark, now)
			if err != nil {
				return err
			}
			if cmd.OperatorID != 0 {
				entry.WithMeta("operator_id", cmd.OperatorID)
			}
			if err := uc.logRepo.Create(txCtx, entry); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to delete memberships",
			"user_count", len(cmd.UserIDs),
			"error", err,
		)
		return 0, fmt.Errorf("failed to delete memberships: %w", err)
	}

	uc.logger.Infow("memberships deleted",
		"requested", len(cmd.UserIDs),
		"deleted", deleted,
		"operator_id", cmd.OperatorID,
	)
	return deleted, nil
}
