package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

const (
	defaultSnapshotStaleAfter = 60 * time.Minute
	memberPageSize            = 100
)

type SnapshotResult struct {
	Channels  int
	Refreshed int
	Members   int
}

// RefreshSnapshotsUseCase caches the member list of every channel whose snapshot is stale.
// It writes only to the snapshot table and the channel row.
type RefreshSnapshotsUseCase struct {
	channelRepo channel.Repository
	memberRepo  channel.GroupMemberRepository
	client      GroupClient
	clock       biztime.Clock
	logger      logger.Interface
	staleAfter  time.Duration
}

func NewRefreshSnapshotsUseCase(
	channelRepo channel.Repository,
	memberRepo channel.GroupMemberRepository,
	client GroupClient,
	clock biztime.Clock,
	logger logger.Interface,
	staleAfter time.Duration,
) *RefreshSnapshotsUseCase {
	if staleAfter <= 0 {
		staleAfter = defaultSnapshotStaleAfter
	}
	return &RefreshSnapshotsUseCase{
		channelRepo: channelRepo,
		memberRepo:  memberRepo,
		client:      client,
		clock:       clock,
		logger:      logger,
		staleAfter:  staleAfter,
	}
}

func (uc *RefreshSnapshotsUseCase) Execute(ctx context.Context) (SnapshotResult, error) {
	now := uc.clock.Now()
	channels, err := uc.channelRepo.ListStaleSnapshots(ctx, now.Add(-uc.staleAfter))
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("failed to list stale channels: %w", err)
	}

	result := SnapshotResult{Channels: len(channels)}
	for _, cfg := range channels {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		n, err := uc.refreshOne(ctx, cfg, now)
		if err != nil {
			uc.logger.Warnw("failed to refresh member snapshot",
				"channel_id", cfg.ID(),
				"channel", cfg.URL(),
				"error", err,
			)
			continue
		}
		result.Refreshed++
		result.Members += n
	}

	uc.logger.Infow("member snapshot refresh completed",
		"channels", result.Channels,
		"refreshed", result.Refreshed,
		"members", result.Members,
	)
	return result, nil
}

func (uc *RefreshSnapshotsUseCase) refreshOne(ctx context.Context, cfg *channel.Config, now time.Time) (int, error) {
	resolved, err := uc.client.ResolveChannel(ctx, cfg.Ref())
	if err != nil {
		return 0, fmt.Errorf("resolve: %w", err)
	}
	if cfg.ChatID() == nil || *cfg.ChatID() != resolved.ChatID || cfg.BotJoined() != resolved.BotJoined {
		cfg.Resolve(resolved.ChatID, resolved.BotJoined, now)
		if err := uc.channelRepo.Update(ctx, cfg); err != nil {
			return 0, err
		}
	}

	total := 0
	for offset := 0; ; {
		page, err := uc.client.ListMembers(ctx, resolved.ChatID, offset, memberPageSize)
		if err != nil {
			return 0, fmt.Errorf("list members at offset %d: %w", offset, err)
		}

		batch := make([]channel.GroupMember, 0, len(page))
		for _, gm := range page {
			if !gm.Cacheable() {
				continue
			}
			gm.ChatID = resolved.ChatID
			gm.CachedAt = now
			batch = append(batch, gm)
		}
		if err := uc.memberRepo.Upsert(ctx, batch); err != nil {
			return 0, err
		}
		total += len(batch)

		if len(page) < memberPageSize {
			break
		}
		offset += len(page)
	}

	if err := uc.channelRepo.MarkMembersFetched(ctx, cfg.ID(), now); err != nil {
		return 0, err
	}
	return total, nil
}
