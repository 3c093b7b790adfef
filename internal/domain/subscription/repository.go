package subscription

import "context"

type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	// GetByInvoiceID returns nil, nil when no subscription carries invoiceID.
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Subscription, error)
	UpdateStatus(ctx context.Context, sub *Subscription) error
	ListByUser(ctx context.Context, userID int64) ([]*Subscription, error)
}
