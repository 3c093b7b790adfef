package dto

import (
	"github.com/shopspring/decimal"

	subscriptionUsecases "github.com/orris-inc/vipgate/internal/application/subscription/usecases"
	"github.com/orris-inc/vipgate/internal/domain/subscription"
)

// RecordSubscriptionRequest represents HTTP request to record a payment intent
type RecordSubscriptionRequest struct {
	UserID        int64           `json:"user_id" binding:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	DurationHours int             `json:"duration_hours" binding:"required,gt=0"`
	InvoiceID     string          `json:"invoice_id" binding:"required,uuid"`
	Network       string          `json:"network" binding:"max=32"`
	Address       string          `json:"address" binding:"max=128"`
	Status        string          `json:"status" binding:"omitempty,oneof=pending success failed"`
}

func (r *RecordSubscriptionRequest) ToCommand() subscriptionUsecases.RecordSubscriptionCommand {
	status := subscription.Status(r.Status)
	if status == "" {
		status = subscription.StatusPending
	}
	return subscriptionUsecases.RecordSubscriptionCommand{
		UserID:        r.UserID,
		Amount:        r.Amount,
		DurationHours: r.DurationHours,
		InvoiceID:     r.InvoiceID,
		Network:       r.Network,
		Address:       r.Address,
		Status:        status,
	}
}

// ApplyInvoicesRequest carries a raw invoice batch: ids separated by commas, full-width
// commas or whitespace.
type ApplyInvoicesRequest struct {
	InvoiceIDs string `json:"invoice_ids" binding:"required"`
}

type UserIDsRequest struct {
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,dive,gt=0"`
	Remark  string  `json:"remark" binding:"max=255"`
}

type UpdateSettingsRequest struct {
	KickIntervalSeconds     *int `json:"kick_interval_seconds" binding:"omitempty,gt=0"`
	RejoinDelayMinutes      *int `json:"rejoin_delay_minutes" binding:"omitempty,gt=0"`
	RecoveryIntervalSeconds *int `json:"recovery_interval_seconds" binding:"omitempty,gt=0"`
}

type AddChannelRequest struct {
	URL    string `json:"url" binding:"required,max=255"`
	IsVIP  bool   `json:"is_vip"`
	Remark string `json:"remark" binding:"max=255"`
}

type UpdateChannelRequest struct {
	IsVIP  *bool   `json:"is_vip"`
	Remark *string `json:"remark" binding:"omitempty,max=255"`
}

type AddAdminRequest struct {
	UserID   int64  `json:"user_id" binding:"required,gt=0"`
	Username string `json:"username" binding:"max=64"`
	Super    bool   `json:"super"`
	Remark   string `json:"remark" binding:"max=255"`
}
