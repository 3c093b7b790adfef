package channel

import "time"

// GroupMember is one row of a channel's cached member snapshot, keyed by (chat id, user id).
// It is never read by enforcement.
type GroupMember struct {
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	IsBot     bool
	IsDeleted bool
	CachedAt  time.Time
}

// Cacheable reports whether the member belongs in the snapshot.
func (m GroupMember) Cacheable() bool {
	return !m.IsBot && !m.IsDeleted
}
