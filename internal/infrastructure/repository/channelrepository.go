package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/db"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(gdb *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: gdb}
}

func (r *ChannelRepository) Create(ctx context.Context, cfg *channel.Config) error {
	model := toChannelModel(cfg)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return channel.ErrChannelDuplicate
		}
		return fmt.Errorf("failed to create channel: %w", err)
	}
	cfg.SetID(model.ID)
	return nil
}

func (r *ChannelRepository) Update(ctx context.Context, cfg *channel.Config) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChannelConfigModel{}).
		Where("id = ?", cfg.ID()).
		Updates(map[string]any{
			"chat_id":    cfg.ChatID(),
			"is_vip":     cfg.IsVIP(),
			"bot_joined": cfg.BotJoined(),
			"remark":     cfg.Remark(),
			"updated_at": cfg.UpdatedAt(),
		})
	if result.Error != nil {
		if appErrors.IsDuplicateError(result.Error) {
			return channel.ErrChannelDuplicate
		}
		return fmt.Errorf("failed to update channel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return channel.ErrChannelNotFound
	}
	return nil
}

func (r *ChannelRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ChannelConfigModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete channel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return channel.ErrChannelNotFound
	}
	return nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id uint) (*channel.Config, error) {
	var model models.ChannelConfigModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channel.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return toChannelEntity(&model), nil
}

func (r *ChannelRepository) List(ctx context.Context) ([]*channel.Config, error) {
	return r.find(ctx, nil)
}

func (r *ChannelRepository) ListVIP(ctx context.Context) ([]*channel.Config, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("is_vip = ?", true) })
}

func (r *ChannelRepository) ListStaleSnapshots(ctx context.Context, cutoff time.Time) ([]*channel.Config, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("last_member_fetch_at IS NULL OR last_member_fetch_at < ?", cutoff)
	})
}

func (r *ChannelRepository) MarkMembersFetched(ctx context.Context, id uint, at time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChannelConfigModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_member_fetch_at": at, "updated_at": at}).Error; err != nil {
		return fmt.Errorf("failed to stamp member fetch: %w", err)
	}
	return nil
}

func (r *ChannelRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*channel.Config, error) {
	q := db.GetTxFromContext(ctx, r.db)
	if scope != nil {
		q = q.Scopes(scope)
	}
	var rows []models.ChannelConfigModel
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	out := make([]*channel.Config, 0, len(rows))
	for i := range rows {
		out = append(out, toChannelEntity(&rows[i]))
	}
	return out, nil
}

func toChannelModel(c *channel.Config) *models.ChannelConfigModel {
	return &models.ChannelConfigModel{
		ID:                c.ID(),
		ChatID:            c.ChatID(),
		URL:               c.URL(),
		IsVIP:             c.IsVIP(),
		BotJoined:         c.BotJoined(),
		LastMemberFetchAt: c.LastMemberFetchAt(),
		Remark:            c.Remark(),
		CreatedAt:         c.CreatedAt(),
		UpdatedAt:         c.UpdatedAt(),
	}
}

func toChannelEntity(m *models.ChannelConfigModel) *channel.Config {
	return channel.ReconstructConfig(
		m.ID,
		m.ChatID,
		m.URL,
		m.IsVIP,
		m.BotJoined,
		m.LastMemberFetchAt,
		m.Remark,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// GroupMemberRepository stores member snapshots. It never touches memberships.
type GroupMemberRepository struct {
	db        *gorm.DB
	batchSize int
}

func NewGroupMemberRepository(gdb *gorm.DB) *GroupMemberRepository {
	return &GroupMemberRepository{db: gdb, batchSize: 100}
}

func (r *GroupMemberRepository) Upsert(ctx context.Context, members []channel.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	rows := make([]models.GroupMemberModel, 0, len(members))
	for _, m := range members {
		rows = append(rows, models.GroupMemberModel{
			ChatID:    m.ChatID,
			UserID:    m.UserID,
			Username:  m.Username,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			IsBot:     m.IsBot,
			IsDeleted: m.IsDeleted,
			CachedAt:  m.CachedAt,
		})
	}

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "is_bot", "is_deleted", "cached_at"}),
		}).
		CreateInBatches(&rows, r.batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert group members: %w", err)
	}
	return nil
}

func (r *GroupMemberRepository) CountByChat(ctx context.Context, chatID int64) (int64, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.GroupMemberModel{}).
		Where("chat_id = ?", chatID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count group members: %w", err)
	}
	return n, nil
}

type KickRecordRepository struct {
	db *gorm.DB
}

func NewKickRecordRepository(gdb *gorm.DB) *KickRecordRepository {
	return &KickRecordRepository{db: gdb}
}

func (r *KickRecordRepository) CreateBatch(ctx context.Context, records []channel.KickRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.KickLogModel, 0, len(records))
	for _, rec := range records {
		rows = append(rows, models.KickLogModel{
			UserID:   rec.UserID,
			ChatID:   rec.ChatID,
			Outcome:  string(rec.Outcome),
			Reason:   truncate(rec.Reason, 255),
			KickedAt: rec.KickedAt,
		})
	}
	if err := db.GetTxFromContext(ctx, r.db).CreateInBatches(&rows, 200).Error; err != nil {
		return fmt.Errorf("failed to record kicks: %w", err)
	}
	return nil
}

// List returns kick records newest first. A zero userID lists every user.
func (r *KickRecordRepository) List(ctx context.Context, userID int64, page, pageSize int) ([]channel.KickRecord, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.KickLogModel{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count kick records: %w", err)
	}

	var rows []models.KickLogModel
	if err := q.Scopes(db.Paginate(page, pageSize)).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list kick records: %w", err)
	}

	out := make([]channel.KickRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, channel.KickRecord{
			ID:       m.ID,
			UserID:   m.UserID,
			ChatID:   m.ChatID,
			Outcome:  channel.KickOutcome(m.Outcome),
			Reason:   m.Reason,
			KickedAt: m.KickedAt,
		})
	}
	return out, total, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
