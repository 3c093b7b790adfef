package membership

import (
	"time"

	"github.com/orris-inc/vipgate/internal/shared/biztime"
)

const (
	SourceSubscription = "subscription"
	SourceAdmin        = "admin"
)

// State is derived from the stored row, never persisted.
type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
	StateBanned  State = "banned"
)

// Membership is the single per-user entitlement window. Every accepted write bumps version by one;
// writers carry the version they read and lose when it has moved.
type Membership struct {
	id             uint
	userID         int64
	subscriptionID *uint
	startTime      time.Time
	endTime        time.Time
	source         string
	isBanned       bool
	bannedAt       *time.Time
	remark         string
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewMembership opens the window [now, now+duration) at version 1.
func NewMembership(userID int64, subscriptionID *uint, source string, duration time.Duration, now time.Time) (*Membership, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if source == "" {
		source = SourceSubscription
	}
	return &Membership{
		userID:         userID,
		subscriptionID: subscriptionID,
		startTime:      now,
		endTime:        now.Add(duration),
		source:         source,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructMembership(
	id uint,
	userID int64,
	subscriptionID *uint,
	startTime, endTime time.Time,
	source string,
	isBanned bool,
	bannedAt *time.Time,
	remark string,
	version int,
	createdAt, updatedAt time.Time,
) *Membership {
	return &Membership{
		id:             id,
		userID:         userID,
		subscriptionID: subscriptionID,
		startTime:      startTime,
		endTime:        endTime,
		source:         source,
		isBanned:       isBanned,
		bannedAt:       bannedAt,
		remark:         remark,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (m *Membership) ID() uint              { return m.id }
func (m *Membership) UserID() int64         { return m.userID }
func (m *Membership) SubscriptionID() *uint { return m.subscriptionID }
func (m *Membership) StartTime() time.Time  { return m.startTime }
func (m *Membership) EndTime() time.Time    { return m.endTime }
func (m *Membership) Source() string        { return m.source }
func (m *Membership) IsBanned() bool        { return m.isBanned }
func (m *Membership) BannedAt() *time.Time  { return m.bannedAt }
func (m *Membership) Remark() string        { return m.remark }
func (m *Membership) Version() int          { return m.version }
func (m *Membership) CreatedAt() time.Time  { return m.createdAt }
func (m *Membership) UpdatedAt() time.Time  { return m.updatedAt }

// Observed pins the member to the version read by the caller.
func (m *Membership) Observed() Observed {
	return Observed{UserID: m.userID, Version: m.version}
}

func (m *Membership) SetID(id uint) {
	m.id = id
}

// RenewedEndTime extends from whichever is later, the current end or now.
// Time already lost after expiry is not given back.
func RenewedEndTime(currentEnd, now time.Time, duration time.Duration) time.Time {
	return biztime.Later(currentEnd, now).Add(duration)
}

// IsExpired reports whether the window has closed on a member that is not banned.
func (m *Membership) IsExpired(now time.Time) bool {
	return m.endTime.Before(now) && !m.isBanned
}

// NeedsEnforcement reports whether the expiry job should remove this member.
// A non-nil banned_at marks a window that was already enforced once.
func (m *Membership) NeedsEnforcement(now time.Time) bool {
	return m.IsExpired(now) && m.bannedAt == nil
}

func (m *Membership) State(now time.Time) State {
	switch {
	case m.isBanned:
		return StateBanned
	case m.endTime.Before(now):
		return StateExpired
	default:
		return StateActive
	}
}

// CanResubscribe fails closed for a ban without a timestamp.
func (m *Membership) CanResubscribe(now time.Time, rejoinDelay time.Duration) bool {
	if !m.isBanned {
		return true
	}
	if m.bannedAt == nil {
		return false
	}
	return !now.Before(m.bannedAt.Add(rejoinDelay))
}

// RemainingUntil returns the time left in the window at now, zero once closed.
func (m *Membership) RemainingUntil(now time.Time) time.Duration {
	if !m.endTime.After(now) {
		return 0
	}
	return m.endTime.Sub(now)
}
