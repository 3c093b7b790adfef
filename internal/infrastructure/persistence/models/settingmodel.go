package models

import "time"

// EnforcementSettingModel is the singleton kick_after_invite row.
type EnforcementSettingModel struct {
	ID                      uint       `gorm:"primaryKey;autoIncrement"`
	KickIntervalSeconds     int        `gorm:"column:kick_interval_seconds;not null"`
	RejoinDelayMinutes      int        `gorm:"column:rejoin_delay_minutes;not null"`
	RecoveryIntervalSeconds int        `gorm:"column:recovery_interval_seconds;not null"`
	LastExecutedAt          *time.Time `gorm:"column:last_executed_at"`
	CreatedAt               time.Time  `gorm:"column:created_at"`
	UpdatedAt               time.Time  `gorm:"column:updated_at"`
}

func (EnforcementSettingModel) TableName() string {
	return "kick_after_invite"
}

// AdminModel is the GORM model for the admins table.
type AdminModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex"`
	Username  string    `gorm:"column:username;type:varchar(100)"`
	Level     int       `gorm:"column:level;not null"`
	Remark    string    `gorm:"column:remark;type:varchar(255)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (AdminModel) TableName() string {
	return "admins"
}
