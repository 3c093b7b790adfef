package setting

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultKickIntervalSeconds     = 60
	DefaultRejoinDelayMinutes      = 300
	DefaultRecoveryIntervalSeconds = 300
)

var ErrInvalidSetting = errors.New("setting values must be positive")

// Enforcement is the singleton row that tunes the reconciliation jobs.
// The recovery period and the rejoin delay are separate knobs with separate units.
type Enforcement struct {
	id                      uint
	kickIntervalSeconds     int
	rejoinDelayMinutes      int
	recoveryIntervalSeconds int
	lastExecutedAt          *time.Time
	updatedAt               time.Time
}

// Defaults used when the row is created lazily.
type Defaults struct {
	KickIntervalSeconds     int
	RejoinDelayMinutes      int
	RecoveryIntervalSeconds int
}

func (d Defaults) orFallback() Defaults {
	if d.KickIntervalSeconds <= 0 {
		d.KickIntervalSeconds = DefaultKickIntervalSeconds
	}
	if d.RejoinDelayMinutes <= 0 {
		d.RejoinDelayMinutes = DefaultRejoinDelayMinutes
	}
	if d.RecoveryIntervalSeconds <= 0 {
		d.RecoveryIntervalSeconds = DefaultRecoveryIntervalSeconds
	}
	return d
}

func NewEnforcement(d Defaults, now time.Time) *Enforcement {
	d = d.orFallback()
	return &Enforcement{
		kickIntervalSeconds:     d.KickIntervalSeconds,
		rejoinDelayMinutes:      d.RejoinDelayMinutes,
		recoveryIntervalSeconds: d.RecoveryIntervalSeconds,
		updatedAt:               now,
	}
}

func ReconstructEnforcement(id uint, kickSeconds, rejoinMinutes, recoverySeconds int, lastExecutedAt *time.Time, updatedAt time.Time) *Enforcement {
	return &Enforcement{
		id:                      id,
		kickIntervalSeconds:     kickSeconds,
		rejoinDelayMinutes:      rejoinMinutes,
		recoveryIntervalSeconds: recoverySeconds,
		lastExecutedAt:          lastExecutedAt,
		updatedAt:               updatedAt,
	}
}

func (e *Enforcement) ID() uint                     { return e.id }
func (e *Enforcement) KickIntervalSeconds() int     { return e.kickIntervalSeconds }
func (e *Enforcement) RejoinDelayMinutes() int      { return e.rejoinDelayMinutes }
func (e *Enforcement) RecoveryIntervalSeconds() int { return e.recoveryIntervalSeconds }
func (e *Enforcement) LastExecutedAt() *time.Time   { return e.lastExecutedAt }
func (e *Enforcement) UpdatedAt() time.Time         { return e.updatedAt }

func (e *Enforcement) SetID(id uint) {
	e.id = id
}

func (e *Enforcement) KickInterval() time.Duration {
	return time.Duration(e.kickIntervalSeconds) * time.Second
}

func (e *Enforcement) RejoinDelay() time.Duration {
	return time.Duration(e.rejoinDelayMinutes) * time.Minute
}

func (e *Enforcement) RecoveryInterval() time.Duration {
	return time.Duration(e.recoveryIntervalSeconds) * time.Second
}

// Update replaces the knobs given as non-nil. All resulting values must stay positive.
func (e *Enforcement) Update(kickSeconds, rejoinMinutes, recoverySeconds *int, now time.Time) error {
	next := *e
	if kickSeconds != nil {
		next.kickIntervalSeconds = *kickSeconds
	}
	if rejoinMinutes != nil {
		next.rejoinDelayMinutes = *rejoinMinutes
	}
	if recoverySeconds != nil {
		next.recoveryIntervalSeconds = *recoverySeconds
	}
	if next.kickIntervalSeconds <= 0 || next.rejoinDelayMinutes <= 0 || next.recoveryIntervalSeconds <= 0 {
		return ErrInvalidSetting
	}
	next.updatedAt = now
	*e = next
	return nil
}

func (e *Enforcement) MarkExecuted(now time.Time) {
	e.lastExecutedAt = &now
}

type Repository interface {
	// GetOrCreate returns the singleton, inserting one built from defaults when absent.
	GetOrCreate(ctx context.Context, defaults Defaults) (*Enforcement, error)
	Save(ctx context.Context, e *Enforcement) error
	MarkExecuted(ctx context.Context, at time.Time) error
}
