package channel

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, cfg *Config) error
	Update(ctx context.Context, cfg *Config) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Config, error)
	List(ctx context.Context) ([]*Config, error)
	ListVIP(ctx context.Context) ([]*Config, error)
	// ListStaleSnapshots returns channels never fetched or fetched before cutoff.
	ListStaleSnapshots(ctx context.Context, cutoff time.Time) ([]*Config, error)
	MarkMembersFetched(ctx context.Context, id uint, at time.Time) error
}

type GroupMemberRepository interface {
	// Upsert inserts or refreshes members keyed by (chat id, user id).
	Upsert(ctx context.Context, members []GroupMember) error
	CountByChat(ctx context.Context, chatID int64) (int64, error)
}

type KickRecordRepository interface {
	CreateBatch(ctx context.Context, records []KickRecord) error
	List(ctx context.Context, userID int64, page, pageSize int) ([]KickRecord, int64, error)
}
