package membership

import (
	"context"
	"time"
)

// ListFilter selects memberships for operator listings.
type ListFilter struct {
	State    State
	Now      time.Time
	Page     int
	PageSize int
}

// Observed is a (user, version) pair captured by a read. A conditional write carrying it
// loses when the row has moved since.
type Observed struct {
	UserID  int64
	Version int
}

// Repository exposes the conditional writes that implement optimistic concurrency.
// Every conditional method reports false, nil when the expected version no longer matches.
type Repository interface {
	// GetByUserID returns nil, nil when the user has no membership.
	GetByUserID(ctx context.Context, userID int64) (*Membership, error)
	Create(ctx context.Context, m *Membership) error

	// RenewIfVersion moves end_time to newEnd and bumps version. A renewal of an unbanned member
	// also clears banned_at so the new window is enforced again when it closes.
	RenewIfVersion(ctx context.Context, userID int64, expectedVersion int, subscriptionID *uint, newEnd, now time.Time) (bool, error)
	// BanIfVersion applies only to a member that is not banned.
	BanIfVersion(ctx context.Context, userID int64, expectedVersion int, bannedAt time.Time) (bool, error)
	DeleteIfVersion(ctx context.Context, userID int64, expectedVersion int) (bool, error)

	// ListEnforceable returns end_time < now AND NOT is_banned AND banned_at IS NULL.
	ListEnforceable(ctx context.Context, now time.Time) ([]*Membership, error)
	// ListRecoverable returns is_banned AND banned_at IS NOT NULL AND banned_at <= cutoff.
	ListRecoverable(ctx context.Context, cutoff time.Time) ([]*Membership, error)
	// ClearBans unbans exactly userIDs that are still banned, bumping version, and returns the
	// number of rows changed.
	ClearBans(ctx context.Context, userIDs []int64, now time.Time) (int64, error)
	// ListExpiringBetween returns unbanned members whose end_time lies in [from, to).
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*Membership, error)
	List(ctx context.Context, filter ListFilter) ([]*Membership, int64, error)
}

type LogRepository interface {
	Create(ctx context.Context, log *Log) error
	ExistsForSubscription(ctx context.Context, subscriptionID uint) (bool, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*Log, int64, error)
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*Log, error)
}
