package dto

import (
	"time"

	membershipUsecases "github.com/orris-inc/vipgate/internal/application/membership/usecases"
	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/domain/subscription"
)

type SubscriptionDTO struct {
	ID            uint      `json:"id"`
	InvoiceID     string    `json:"invoice_id"`
	UserID        int64     `json:"user_id"`
	Amount        string    `json:"amount"`
	DurationHours int       `json:"duration_hours"`
	Status        string    `json:"status"`
	Network       string    `json:"network,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:            s.ID(),
		InvoiceID:     s.InvoiceID(),
		UserID:        s.UserID(),
		Amount:        s.Amount().String(),
		DurationHours: s.DurationHours(),
		Status:        string(s.Status()),
		Network:       s.Network(),
		Address:       s.Address(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
}

type MembershipDTO struct {
	UserID         int64      `json:"user_id"`
	SubscriptionID *uint      `json:"subscription_id,omitempty"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	Source         string     `json:"source"`
	State          string     `json:"state"`
	IsBanned       bool       `json:"is_banned"`
	BannedAt       *time.Time `json:"banned_at,omitempty"`
	Remark         string     `json:"remark,omitempty"`
	Version        int        `json:"version"`
}

func ToMembershipDTO(m *membership.Membership, now time.Time) *MembershipDTO {
	if m == nil {
		return nil
	}
	return &MembershipDTO{
		UserID:         m.UserID(),
		SubscriptionID: m.SubscriptionID(),
		StartTime:      m.StartTime(),
		EndTime:        m.EndTime(),
		Source:         m.Source(),
		State:          string(m.State(now)),
		IsBanned:       m.IsBanned(),
		BannedAt:       m.BannedAt(),
		Remark:         m.Remark(),
		Version:        m.Version(),
	}
}

func ToMembershipDTOList(ms []*membership.Membership, now time.Time) []*MembershipDTO {
	out := make([]*MembershipDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMembershipDTO(m, now))
	}
	return out
}

type MembershipLogDTO struct {
	ID             uint           `json:"id"`
	UserID         int64          `json:"user_id"`
	SubscriptionID *uint          `json:"subscription_id,omitempty"`
	Operation      string         `json:"operation"`
	OldEndTime     *time.Time     `json:"old_end_time,omitempty"`
	NewEndTime     time.Time      `json:"new_end_time"`
	Remark         string         `json:"remark,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func ToMembershipLogDTOList(logs []*membership.Log) []*MembershipLogDTO {
	out := make([]*MembershipLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, &MembershipLogDTO{
			ID:             l.ID(),
			UserID:         l.UserID(),
			SubscriptionID: l.SubscriptionID(),
			Operation:      string(l.Operation()),
			OldEndTime:     l.OldEndTime(),
			NewEndTime:     l.NewEndTime(),
			Remark:         l.Remark(),
			Metadata:       l.Metadata(),
			CreatedAt:      l.CreatedAt(),
		})
	}
	return out
}

// ApplyResultDTO reports the outcome of an invoice batch.
type ApplyResultDTO = membershipUsecases.ApplyResult

type CountDTO struct {
	Affected int `json:"affected"`
}

type ResubscribeDTO struct {
	UserID         int64 `json:"user_id"`
	CanResubscribe bool  `json:"can_resubscribe"`
}

type SettingsDTO struct {
	KickIntervalSeconds     int        `json:"kick_interval_seconds"`
	RejoinDelayMinutes      int        `json:"rejoin_delay_minutes"`
	RecoveryIntervalSeconds int        `json:"recovery_interval_seconds"`
	LastExecutedAt          *time.Time `json:"last_executed_at,omitempty"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func ToSettingsDTO(e *setting.Enforcement) *SettingsDTO {
	return &SettingsDTO{
		KickIntervalSeconds:     e.KickIntervalSeconds(),
		RejoinDelayMinutes:      e.RejoinDelayMinutes(),
		RecoveryIntervalSeconds: e.RecoveryIntervalSeconds(),
		LastExecutedAt:          e.LastExecutedAt(),
		UpdatedAt:               e.UpdatedAt(),
	}
}

type ChannelDTO struct {
	ID                uint       `json:"id"`
	ChatID            *int64     `json:"chat_id,omitempty"`
	URL               string     `json:"url"`
	IsVIP             bool       `json:"is_vip"`
	BotJoined         bool       `json:"bot_joined"`
	LastMemberFetchAt *time.Time `json:"last_member_fetch_at,omitempty"`
	Remark            string     `json:"remark,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToChannelDTO(c *channel.Config) *ChannelDTO {
	return &ChannelDTO{
		ID:                c.ID(),
		ChatID:            c.ChatID(),
		URL:               c.URL(),
		IsVIP:             c.IsVIP(),
		BotJoined:         c.BotJoined(),
		LastMemberFetchAt: c.LastMemberFetchAt(),
		Remark:            c.Remark(),
		CreatedAt:         c.CreatedAt(),
	}
}

func ToChannelDTOList(cs []*channel.Config) []*ChannelDTO {
	out := make([]*ChannelDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToChannelDTO(c))
	}
	return out
}

type KickRecordDTO struct {
	ID       uint      `json:"id"`
	UserID   int64     `json:"user_id"`
	ChatID   int64     `json:"chat_id"`
	Outcome  string    `json:"outcome"`
	Reason   string    `json:"reason,omitempty"`
	KickedAt time.Time `json:"kicked_at"`
}

func ToKickRecordDTOList(records []channel.KickRecord) []*KickRecordDTO {
	out := make([]*KickRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, &KickRecordDTO{
			ID:       r.ID,
			UserID:   r.UserID,
			ChatID:   r.ChatID,
			Outcome:  string(r.Outcome),
			Reason:   r.Reason,
			KickedAt: r.KickedAt,
		})
	}
	return out
}

type AdminDTO struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAdminDTO(a *admin.Admin) *AdminDTO {
	return &AdminDTO{
		UserID:    a.UserID(),
		Username:  a.Username(),
		Role:      a.Level().Role(),
		Remark:    a.Remark(),
		CreatedAt: a.CreatedAt(),
	}
}

func ToAdminDTOList(as []*admin.Admin) []*AdminDTO {
	out := make([]*AdminDTO, 0, len(as))
	for _, a := range as {
		out = append(out, ToAdminDTO(a))
	}
	return out
}
