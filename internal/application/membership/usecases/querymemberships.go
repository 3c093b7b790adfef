package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
)

type ListMembershipsQuery struct {
	State    membership.State
	Page     int
	PageSize int
}

type QueryMembershipsUseCase struct {
	membershipRepo membership.Repository
	logRepo        membership.LogRepository
	clock          biztime.Clock
}

func NewQueryMembershipsUseCase(
	membershipRepo membership.Repository,
	logRepo membership.LogRepository,
	clock biztime.Clock,
) *QueryMembershipsUseCase {
	return &QueryMembershipsUseCase{
		membershipRepo: membershipRepo,
		logRepo:        logRepo,
		clock:          clock,
	}
}

func (uc *QueryMembershipsUseCase) Get(ctx context.Context, userID int64) (*membership.Membership, error) {
	if userID <= 0 {
		return nil, appErrors.NewValidationError("invalid user id")
	}
	m, err := uc.membershipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, appErrors.NewNotFoundError("membership not found", fmt.Sprint(userID))
	}
	return m, nil
}

func (uc *QueryMembershipsUseCase) List(ctx context.Context, q ListMembershipsQuery) ([]*membership.Membership, int64, error) {
	switch q.State {
	case "", membership.StateActive, membership.StateExpired, membership.StateBanned:
	default:
		return nil, 0, appErrors.NewValidationError("invalid membership state", string(q.State))
	}
	page, pageSize := db.NormalizePage(q.Page, q.PageSize)
	return uc.membershipRepo.List(ctx, membership.ListFilter{
		State:    q.State,
		Now:      uc.clock.Now(),
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *QueryMembershipsUseCase) ListLogs(ctx context.Context, userID int64, page, pageSize int) ([]*membership.Log, int64, error) {
	if userID <= 0 {
		return nil, 0, appErrors.NewValidationError("invalid user id")
	}
	page, pageSize = db.NormalizePage(page, pageSize)
	return uc.logRepo.ListByUser(ctx, userID, page, pageSize)
}

func (uc *QueryMembershipsUseCase) Now() time.Time {
	return uc.clock.Now()
}
