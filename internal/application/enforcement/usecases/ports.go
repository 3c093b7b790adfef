package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/domain/membership"
)

// ErrRecipientBlocked is returned by a Notifier when the user blocked the bot.
var ErrRecipientBlocked = errors.New("recipient blocked notifications")

// GroupClient drives the external group-membership system. It is never authoritative;
// implementations report per-call failures and the jobs carry on.
type GroupClient interface {
	RemoveMember(ctx context.Context, ref channel.Ref, userID int64) (channel.KickOutcome, error)
	RestoreMember(ctx context.Context, ref channel.Ref, userID int64) error
	ResolveChannel(ctx context.Context, ref channel.Ref) (channel.Resolution, error)
	// ListMembers returns one page starting at offset. A page shorter than limit is the last.
	ListMembers(ctx context.Context, chatID int64, offset, limit int) ([]channel.GroupMember, error)
}

type Notifier interface {
	SendMessage(ctx context.Context, userID int64, text string) error
}

// MemberBanner is the membership state machine's ban transition, guarded by the versions
// the job read.
type MemberBanner interface {
	ExecuteObserved(ctx context.Context, observed []membership.Observed) (int, error)
}

// BanRecoverer lifts bans older than delay and returns the recovered users.
type BanRecoverer interface {
	Execute(ctx context.Context, delay time.Duration) ([]int64, error)
}
