package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

const defaultRemovalConcurrency = 8

type ExpireResult struct {
	Expired  int
	Attempts int
	Removed  int
	Failed   int
	Banned   int
}

// ExpireAndKickUseCase removes expired members from every VIP channel and then bans them
// locally. Remote failures never block the local transition; the next run re-derives the
// work from storage.
type ExpireAndKickUseCase struct {
	membershipRepo membership.Repository
	channelRepo    channel.Repository
	kickRepo       channel.KickRecordRepository
	settingRepo    setting.Repository
	banner         MemberBanner
	client         GroupClient
	clock          biztime.Clock
	logger         logger.Interface
	concurrency    int
}

func NewExpireAndKickUseCase(
	membershipRepo membership.Repository,
	channelRepo channel.Repository,
	kickRepo channel.KickRecordRepository,
	settingRepo setting.Repository,
	banner MemberBanner,
	client GroupClient,
	clock biztime.Clock,
	logger logger.Interface,
	concurrency int,
) *ExpireAndKickUseCase {
	if concurrency <= 0 {
		concurrency = defaultRemovalConcurrency
	}
	return &ExpireAndKickUseCase{
		membershipRepo: membershipRepo,
		channelRepo:    channelRepo,
		kickRepo:       kickRepo,
		settingRepo:    settingRepo,
		banner:         banner,
		client:         client,
		clock:          clock,
		logger:         logger,
		concurrency:    concurrency,
	}
}

func (uc *ExpireAndKickUseCase) Execute(ctx context.Context) (ExpireResult, error) {
	start := time.Now()
	now := uc.clock.Now()

	expired, err := uc.membershipRepo.ListEnforceable(ctx, now)
	if err != nil {
		return ExpireResult{}, fmt.Errorf("failed to list expired memberships: %w", err)
	}
	result := ExpireResult{Expired: len(expired)}

	if len(expired) > 0 {
		uc.logger.Infow("found expired memberships to process", "count", len(expired))

		channels, err := uc.channelRepo.ListVIP(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to list vip channels: %w", err)
		}

		records := uc.removeAll(ctx, expired, channels, now)
		for _, rec := range records {
			result.Attempts++
			if rec.Outcome == channel.KickOutcomeRemoved || rec.Outcome == channel.KickOutcomeNotParticipant {
				result.Removed++
			} else {
				result.Failed++
			}
		}
		if len(records) > 0 {
			if err := uc.kickRepo.CreateBatch(ctx, records); err != nil {
				uc.logger.Warnw("failed to store kick records", "count", len(records), "error", err)
			}
		}

		observed := make([]membership.Observed, 0, len(expired))
		for _, m := range expired {
			observed = append(observed, m.Observed())
		}
		// a member renewed during removal has a newer version and keeps access
		banned, err := uc.banner.ExecuteObserved(ctx, observed)
		if err != nil {
			return result, err
		}
		result.Banned = banned
	}

	if err := uc.settingRepo.MarkExecuted(ctx, now); err != nil {
		uc.logger.Warnw("failed to stamp enforcement run", "error", err)
	}

	if result.Expired > 0 {
		uc.logger.Infow("expire and kick completed",
			"expired", result.Expired,
			"attempts", result.Attempts,
			"removed", result.Removed,
			"failed", result.Failed,
			"banned", result.Banned,
			"duration", time.Since(start).String(),
		)
	}
	return result, nil
}

// removeAll attempts every (member, channel) pair with bounded concurrency and returns one
// record per attempt.
func (uc *ExpireAndKickUseCase) removeAll(
	ctx context.Context,
	expired []*membership.Membership,
	channels []*channel.Config,
	now time.Time,
) []channel.KickRecord {
	var (
		mu      sync.Mutex
		records = make([]channel.KickRecord, 0, len(expired)*len(channels))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, m := range expired {
		for _, ch := range channels {
			userID := m.UserID()
			ref := ch.Ref()
			g.Go(func() error {
				outcome, err := uc.client.RemoveMember(gctx, ref, userID)
				rec := channel.KickRecord{
					UserID:   userID,
					Outcome:  outcome,
					KickedAt: now,
				}
				if ref.ChatID != nil {
					rec.ChatID = *ref.ChatID
				}
				if err != nil {
					if outcome == "" {
						rec.Outcome = channel.KickOutcomeError
					}
					rec.Reason = err.Error()
					uc.logger.Warnw("failed to remove member from channel",
						"user_id", userID,
						"channel", ref.String(),
						"outcome", rec.Outcome,
						"error", err,
					)
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
	return records
}
