package channel

import "time"

type KickOutcome string

const (
	KickOutcomeRemoved        KickOutcome = "removed"
	KickOutcomeNotParticipant KickOutcome = "not_participant"
	KickOutcomeNoPermission   KickOutcome = "no_permission"
	KickOutcomeError          KickOutcome = "error"
)

// KickRecord is written for every removal attempted by the expiry job.
type KickRecord struct {
	ID       uint
	UserID   int64
	ChatID   int64
	Outcome  KickOutcome
	Reason   string
	KickedAt time.Time
}
