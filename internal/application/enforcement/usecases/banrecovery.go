package usecases

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type RecoveryResult struct {
	Recovered int
	Restored  int
	Failed    int
}

// BanRecoveryUseCase unbans users whose rejoin delay elapsed and lifts their remote
// restriction on every VIP channel. Remote failures do not undo the local unban.
type BanRecoveryUseCase struct {
	recoverer   BanRecoverer
	settingRepo setting.Repository
	defaults    setting.Defaults
	channelRepo channel.Repository
	client      GroupClient
	logger      logger.Interface
	concurrency int
}

func NewBanRecoveryUseCase(
	recoverer BanRecoverer,
	settingRepo setting.Repository,
	defaults setting.Defaults,
	channelRepo channel.Repository,
	client GroupClient,
	logger logger.Interface,
	concurrency int,
) *BanRecoveryUseCase {
	if concurrency <= 0 {
		concurrency = defaultRemovalConcurrency
	}
	return &BanRecoveryUseCase{
		recoverer:   recoverer,
		settingRepo: settingRepo,
		defaults:    defaults,
		channelRepo: channelRepo,
		client:      client,
		logger:      logger,
		concurrency: concurrency,
	}
}

func (uc *BanRecoveryUseCase) Execute(ctx context.Context) (RecoveryResult, error) {
	start := time.Now()

	settings, err := uc.settingRepo.GetOrCreate(ctx, uc.defaults)
	if err != nil {
		return RecoveryResult{}, fmt.Errorf("failed to load enforcement settings: %w", err)
	}

	userIDs, err := uc.recoverer.Execute(ctx, settings.RejoinDelay())
	if err != nil {
		return RecoveryResult{}, err
	}
	result := RecoveryResult{Recovered: len(userIDs)}
	if len(userIDs) == 0 {
		return result, nil
	}

	channels, err := uc.channelRepo.ListVIP(ctx)
	if err != nil {
		uc.logger.Warnw("failed to list vip channels, remote restore skipped",
			"recovered", len(userIDs),
			"error", err,
		)
		return result, nil
	}

	var restored, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, userID := range userIDs {
		for _, ch := range channels {
			ref := ch.Ref()
			g.Go(func() error {
				if err := uc.client.RestoreMember(gctx, ref, userID); err != nil {
					failed.Add(1)
					uc.logger.Warnw("failed to restore member in channel",
						"user_id", userID,
						"channel", ref.String(),
						"error", err,
					)
					return nil
				}
				restored.Add(1)
				return nil
			})
		}
	}
	_ = g.Wait()

	result.Restored = int(restored.Load())
	result.Failed = int(failed.Load())
	uc.logger.Infow("ban recovery completed",
		"recovered", result.Recovered,
		"restored", result.Restored,
		"failed", result.Failed,
		"duration", time.Since(start).String(),
	)
	return result, nil
}
