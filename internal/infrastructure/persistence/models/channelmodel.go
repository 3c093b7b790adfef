package models

import "time"

// ChannelConfigModel is the GORM model for the channel_configs table.
type ChannelConfigModel struct {
	ID                uint       `gorm:"primaryKey;autoIncrement"`
	ChatID            *int64     `gorm:"column:chat_id;uniqueIndex"`
	URL               string     `gorm:"column:url;type:varchar(255);not null;uniqueIndex"`
	IsVIP             bool       `gorm:"column:is_vip;not null;index"`
	BotJoined         bool       `gorm:"column:bot_joined;not null"`
	LastMemberFetchAt *time.Time `gorm:"column:last_member_fetch_at"`
	Remark            string     `gorm:"column:remark;type:varchar(255)"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (ChannelConfigModel) TableName() string {
	return "channel_configs"
}

// GroupMemberModel is one cached snapshot row, unique per (chat_id, user_id).
type GroupMemberModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ChatID    int64     `gorm:"column:chat_id;not null;uniqueIndex:idx_group_member_chat_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_group_member_chat_user"`
	Username  string    `gorm:"column:username;type:varchar(100)"`
	FirstName string    `gorm:"column:first_name;type:varchar(100)"`
	LastName  string    `gorm:"column:last_name;type:varchar(100)"`
	IsBot     bool      `gorm:"column:is_bot;not null"`
	IsDeleted bool      `gorm:"column:is_deleted;not null"`
	CachedAt  time.Time `gorm:"column:cached_at;not null"`
}

func (GroupMemberModel) TableName() string {
	return "group_members"
}

// KickLogModel records each removal attempt made by the expiry job.
type KickLogModel struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	UserID   int64     `gorm:"column:user_id;not null;index"`
	ChatID   int64     `gorm:"column:chat_id;not null"`
	Outcome  string    `gorm:"column:outcome;type:varchar(20);not null"`
	Reason   string    `gorm:"column:reason;type:varchar(255)"`
	KickedAt time.Time `gorm:"column:kicked_at;not null;index"`
}

func (KickLogModel) TableName() string {
	return "kick_logs"
}
