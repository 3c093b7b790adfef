package membership

import (
	"fmt"
	"time"
)

type Operation string

const (
	OperationNew    Operation = "new"
	OperationRenew  Operation = "renew"
	OperationDelete Operation = "delete"
)

func (o Operation) IsValid() bool {
	return o == OperationNew || o == OperationRenew || o == OperationDelete
}

// Log is an append-only audit entry for one membership transition.
// New and renew entries carry the subscription they applied; a subscription appears at most once.
type Log struct {
	id             uint
	userID         int64
	subscriptionID *uint
	operation      Operation
	oldEndTime     *time.Time
	newEndTime     time.Time
	remark         string
	metadata       map[string]any
	createdAt      time.Time
}

func NewLog(
	userID int64,
	subscriptionID *uint,
	op Operation,
	oldEndTime *time.Time,
	newEndTime time.Time,
	remark string,
	now time.Time,
) (*Log, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if !op.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	return &Log{
		userID:         userID,
		subscriptionID: subscriptionID,
		operation:      op,
		oldEndTime:     oldEndTime,
		newEndTime:     newEndTime,
		remark:         remark,
		metadata:       map[string]any{},
		createdAt:      now,
	}, nil
}

func ReconstructLog(
	id uint,
	userID int64,
	subscriptionID *uint,
	op Operation,
	oldEndTime *time.Time,
	newEndTime time.Time,
	remark string,
	metadata map[string]any,
	createdAt time.Time,
) *Log {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Log{
		id:             id,
		userID:         userID,
		subscriptionID: subscriptionID,
		operation:      op,
		oldEndTime:     oldEndTime,
		newEndTime:     newEndTime,
		remark:         remark,
		metadata:       metadata,
		createdAt:      createdAt,
	}
}

func (l *Log) ID() uint                 { return l.id }
func (l *Log) UserID() int64            { return l.userID }
func (l *Log) SubscriptionID() *uint    { return l.subscriptionID }
func (l *Log) Operation() Operation     { return l.operation }
func (l *Log) OldEndTime() *time.Time   { return l.oldEndTime }
func (l *Log) NewEndTime() time.Time    { return l.newEndTime }
func (l *Log) Remark() string           { return l.remark }
func (l *Log) Metadata() map[string]any { return l.metadata }
func (l *Log) CreatedAt() time.Time     { return l.createdAt }

func (l *Log) SetID(id uint) {
	l.id = id
}

// WithMeta attaches an operator-facing detail such as the acting admin.
func (l *Log) WithMeta(key string, value any) *Log {
	l.metadata[key] = value
	return l
}
