package models

import (
	"time"

	"gorm.io/datatypes"
)

// MembershipModel is the GORM model for the memberships table. Version is written only through
// conditional updates.
type MembershipModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	UserID         int64      `gorm:"column:user_id;not null;uniqueIndex"`
	SubscriptionID *uint      `gorm:"column:subscription_id"`
	StartTime      time.Time  `gorm:"column:start_time;not null"`
	EndTime        time.Time  `gorm:"column:end_time;not null;index"`
	Source         string     `gorm:"column:source;type:varchar(20);not null"`
	IsBanned       bool       `gorm:"column:is_banned;not null"`
	BannedAt       *time.Time `gorm:"column:banned_at;index"`
	Remark         string     `gorm:"column:remark;type:varchar(255)"`
	Version        int        `gorm:"column:version;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (MembershipModel) TableName() string {
	return "memberships"
}

// MembershipLogModel is the GORM model for the append-only membership_logs table.
// The unique index on subscription_id backs the apply-once guard; delete entries leave it NULL.
type MembershipLogModel struct {
	ID             uint              `gorm:"primaryKey;autoIncrement"`
	UserID         int64             `gorm:"column:user_id;not null;index"`
	SubscriptionID *uint             `gorm:"column:subscription_id;uniqueIndex"`
	Operation      string            `gorm:"column:operation;type:varchar(10);not null"`
	OldEndTime     *time.Time        `gorm:"column:old_end_time"`
	NewEndTime     time.Time         `gorm:"column:new_end_time;not null"`
	Remark         string            `gorm:"column:remark;type:varchar(255)"`
	Metadata       datatypes.JSONMap `gorm:"column:metadata"`
	CreatedAt      time.Time         `gorm:"column:created_at;index"`
}

func (MembershipLogModel) TableName() string {
	return "membership_logs"
}
