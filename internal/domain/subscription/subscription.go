package subscription

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/vipgate/internal/shared/id"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// Subscription is one payment intent, identified externally by its invoice id.
type Subscription struct {
	id            uint
	invoiceID     string
	userID        int64
	amount        decimal.Decimal
	durationHours int
	status        Status
	network       string
	address       string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewSubscription validates its inputs and generates an invoice id when none is given.
// An empty status means pending.
func NewSubscription(
	userID int64,
	amount decimal.Decimal,
	durationHours int,
	invoiceID, network, address string,
	status Status,
	now time.Time,
) (*Subscription, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if durationHours <= 0 {
		return nil, ErrInvalidDuration
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if invoiceID == "" {
		invoiceID = id.NewInvoiceID()
	} else {
		normalized, err := id.NormalizeInvoiceID(invoiceID)
		if err != nil {
			return nil, err
		}
		invoiceID = normalized
	}

	return &Subscription{
		invoiceID:     invoiceID,
		userID:        userID,
		amount:        amount,
		durationHours: durationHours,
		status:        status,
		network:       network,
		address:       address,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructSubscription rebuilds a Subscription from persistence.
func ReconstructSubscription(
	id uint,
	invoiceID string,
	userID int64,
	amount decimal.Decimal,
	durationHours int,
	status Status,
	network, address string,
	createdAt, updatedAt time.Time,
) *Subscription {
	return &Subscription{
		id:            id,
		invoiceID:     invoiceID,
		userID:        userID,
		amount:        amount,
		durationHours: durationHours,
		status:        status,
		network:       network,
		address:       address,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (s *Subscription) ID() uint                { return s.id }
func (s *Subscription) InvoiceID() string       { return s.invoiceID }
func (s *Subscription) UserID() int64           { return s.userID }
func (s *Subscription) Amount() decimal.Decimal { return s.amount }
func (s *Subscription) DurationHours() int      { return s.durationHours }
func (s *Subscription) Status() Status          { return s.status }
func (s *Subscription) Network() string         { return s.network }
func (s *Subscription) Address() string         { return s.address }
func (s *Subscription) CreatedAt() time.Time    { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time    { return s.updatedAt }

func (s *Subscription) SetID(id uint) {
	s.id = id
}

func (s *Subscription) Duration() time.Duration {
	return time.Duration(s.durationHours) * time.Hour
}

func (s *Subscription) IsFailed() bool { return s.status == StatusFailed }

// MarkSucceeded records that the subscription was applied to a membership.
// A subscription recorded directly as success may be applied once as well.
func (s *Subscription) MarkSucceeded(now time.Time) error {
	if s.status == StatusFailed {
		return errTransition(s.status, StatusSuccess)
	}
	s.status = StatusSuccess
	s.updatedAt = now
	return nil
}

// MarkFailed closes a pending subscription whose payment did not complete.
func (s *Subscription) MarkFailed(now time.Time) error {
	if s.status != StatusPending {
		return errTransition(s.status, StatusFailed)
	}
	s.status = StatusFailed
	s.updatedAt = now
	return nil
}
