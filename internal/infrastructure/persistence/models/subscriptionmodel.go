package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionModel is the GORM model for the subscriptions table.
type SubscriptionModel struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	InvoiceID     string          `gorm:"column:invoice_id;type:varchar(36);not null;uniqueIndex"`
	UserID        int64           `gorm:"column:user_id;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null"`
	DurationHours int             `gorm:"column:duration_hours;not null"`
	Status        string          `gorm:"column:status;type:varchar(16);not null;index"`
	Network       string          `gorm:"column:network;type:varchar(20)"`
	Address       string          `gorm:"column:address;type:varchar(100)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
