package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// Resolver looks a channel up in the group system.
type Resolver interface {
	ResolveChannel(ctx context.Context, ref channel.Ref) (channel.Resolution, error)
}

type AddChannelCommand struct {
	URL    string
	IsVIP  bool
	Remark string
}

type UpdateChannelCommand struct {
	ID     uint
	IsVIP  *bool
	Remark *string
}

// ManageChannelsUseCase maintains the set of channels under enforcement.
type ManageChannelsUseCase struct {
	channelRepo channel.Repository
	kickRepo    channel.KickRecordRepository
	resolver    Resolver
	clock       biztime.Clock
	logger      logger.Interface
}

func NewManageChannelsUseCase(
	channelRepo channel.Repository,
	kickRepo channel.KickRecordRepository,
	resolver Resolver,
	clock biztime.Clock,
	logger logger.Interface,
) *ManageChannelsUseCase {
	return &ManageChannelsUseCase{
		channelRepo: channelRepo,
		kickRepo:    kickRepo,
		resolver:    resolver,
		clock:       clock,
		logger:      logger,
	}
}

// Add stores the channel and tries to resolve its numeric id. A failed lookup is retried
// by the snapshot refresh job.
func (uc *ManageChannelsUseCase) Add(ctx context.Context, cmd AddChannelCommand) (*channel.Config, error) {
	now := uc.clock.Now()
	cfg, err := channel.NewConfig(cmd.URL, cmd.IsVIP, cmd.Remark, now)
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}

	if uc.resolver != nil {
		resolved, err := uc.resolver.ResolveChannel(ctx, cfg.Ref())
		if err != nil {
			uc.logger.Warnw("channel not resolved, keeping url only", "channel", cfg.URL(), "error", err)
		} else {
			cfg.Resolve(resolved.ChatID, resolved.BotJoined, now)
		}
	}

	if err := uc.channelRepo.Create(ctx, cfg); err != nil {
		return nil, mapChannelError(err)
	}

	uc.logger.Infow("channel added",
		"channel_id", cfg.ID(),
		"channel", cfg.URL(),
		"is_vip", cfg.IsVIP(),
		"resolved", cfg.ChatID() != nil,
	)
	return cfg, nil
}

func (uc *ManageChannelsUseCase) Update(ctx context.Context, cmd UpdateChannelCommand) (*channel.Config, error) {
	cfg, err := uc.channelRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, mapChannelError(err)
	}
	now := uc.clock.Now()
	if cmd.IsVIP != nil {
		cfg.SetVIP(*cmd.IsVIP, now)
	}
	if cmd.Remark != nil {
		cfg.SetRemark(*cmd.Remark, now)
	}
	if err := uc.channelRepo.Update(ctx, cfg); err != nil {
		return nil, mapChannelError(err)
	}
	return cfg, nil
}

func (uc *ManageChannelsUseCase) Remove(ctx context.Context, id uint) error {
	if err := uc.channelRepo.Delete(ctx, id); err != nil {
		return mapChannelError(err)
	}
	uc.logger.Infow("channel removed", "channel_id", id)
	return nil
}

func (uc *ManageChannelsUseCase) List(ctx context.Context) ([]*channel.Config, error) {
	return uc.channelRepo.List(ctx)
}

// ListKicks returns removal attempts, newest first. A zero userID lists every user.
func (uc *ManageChannelsUseCase) ListKicks(ctx context.Context, userID int64, page, pageSize int) ([]channel.KickRecord, int64, error) {
	return uc.kickRepo.List(ctx, userID, page, pageSize)
}

func mapChannelError(err error) error {
	switch {
	case errors.Is(err, channel.ErrChannelNotFound):
		return appErrors.NewNotFoundError(err.Error())
	case errors.Is(err, channel.ErrChannelDuplicate):
		return appErrors.NewConflictError(err.Error())
	default:
		return fmt.Errorf("channel storage: %w", err)
	}
}
