package handlers

import (
	"context"
	"time"

	adminUsecases "github.com/orris-inc/vipgate/internal/application/admin/usecases"
	channelUsecases "github.com/orris-inc/vipgate/internal/application/channel/usecases"
	enforcementUsecases "github.com/orris-inc/vipgate/internal/application/enforcement/usecases"
	membershipUsecases "github.com/orris-inc/vipgate/internal/application/membership/usecases"
	subscriptionUsecases "github.com/orris-inc/vipgate/internal/application/subscription/usecases"
	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/domain/subscription"
)

type recordSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.RecordSubscriptionCommand) (*subscription.Subscription, error)
}

type manageSubscriptionUseCase interface {
	Get(ctx context.Context, invoiceID string) (*subscription.Subscription, error)
	MarkFailed(ctx context.Context, invoiceID string) (*subscription.Subscription, error)
}

type canResubscribeUseCase interface {
	Execute(ctx context.Context, userID int64) (bool, error)
}

type applyInvoicesUseCase interface {
	ExecuteRaw(ctx context.Context, raw string) (membershipUsecases.ApplyResult, error)
}

type deleteMembershipsUseCase interface {
	Execute(ctx context.Context, cmd membershipUsecases.DeleteMembershipsCommand) (int, error)
}

type banUsersUseCase interface {
	Execute(ctx context.Context, userIDs []int64) (int, error)
}

type queryMembershipsUseCase interface {
	Get(ctx context.Context, userID int64) (*membership.Membership, error)
	List(ctx context.Context, q membershipUsecases.ListMembershipsQuery) ([]*membership.Membership, int64, error)
	ListLogs(ctx context.Context, userID int64, page, pageSize int) ([]*membership.Log, int64, error)
	Now() time.Time
}

type settingsUseCase interface {
	Get(ctx context.Context) (*setting.Enforcement, error)
	Update(ctx context.Context, cmd enforcementUsecases.UpdateSettingsCommand) (*setting.Enforcement, error)
}

type manageChannelsUseCase interface {
	Add(ctx context.Context, cmd channelUsecases.AddChannelCommand) (*channel.Config, error)
	Update(ctx context.Context, cmd channelUsecases.UpdateChannelCommand) (*channel.Config, error)
	Remove(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*channel.Config, error)
	ListKicks(ctx context.Context, userID int64, page, pageSize int) ([]channel.KickRecord, int64, error)
}

type manageAdminsUseCase interface {
	Add(ctx context.Context, cmd adminUsecases.AddAdminCommand) (*admin.Admin, error)
	Remove(ctx context.Context, operatorID, userID int64) error
	List(ctx context.Context) ([]*admin.Admin, error)
}
