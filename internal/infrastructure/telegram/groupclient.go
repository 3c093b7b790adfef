package telegram

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// kickBanDuration is the shortest ban the Bot API accepts; the ban is lifted right after.
const kickBanDuration = 60 * time.Second

// GroupClient drives Telegram groups through the Bot API.
//
// The Bot API cannot enumerate ordinary members, so ListMembers pages over the chat
// administrators only.
type GroupClient struct {
	bot    *BotService
	logger logger.Interface

	resolveGroup singleflight.Group

	botIDMu sync.Mutex
	botID   int64
}

func NewGroupClient(bot *BotService, log logger.Interface) *GroupClient {
	return &GroupClient{bot: bot, logger: log}
}

// chatTarget converts a channel reference into a Bot API chat_id value.
func chatTarget(ref channel.Ref) (any, error) {
	if ref.ChatID != nil {
		return *ref.ChatID, nil
	}
	raw := strings.TrimSpace(ref.URL)
	if raw == "" {
		return nil, ErrUnresolvableRef
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	if strings.HasPrefix(raw, "@") {
		return raw, nil
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableRef, ref.URL)
	}
	name := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	if name == "" || strings.HasPrefix(name, "+") || name == "joinchat" {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableRef, ref.URL)
	}
	return "@" + name, nil
}

// RemoveMember kicks userID: a short ban followed by an unban so the user may rejoin later.
func (c *GroupClient) RemoveMember(ctx context.Context, ref channel.Ref, userID int64) (channel.KickOutcome, error) {
	target, err := chatTarget(ref)
	if err != nil {
		return channel.KickOutcomeError, err
	}

	if err := c.bot.BanChatMember(ctx, target, userID, time.Now().Add(kickBanDuration)); err != nil {
		switch {
		case IsNotParticipant(err):
			return channel.KickOutcomeNotParticipant, nil
		case IsNoPermission(err):
			return channel.KickOutcomeNoPermission, err
		default:
			return channel.KickOutcomeError, err
		}
	}
	if err := c.bot.UnbanChatMember(ctx, target, userID); err != nil {
		c.logger.Warnw("kicked member left banned", "user_id", userID, "channel", ref.String(), "error", err)
	}
	return channel.KickOutcomeRemoved, nil
}

func (c *GroupClient) RestoreMember(ctx context.Context, ref channel.Ref, userID int64) error {
	target, err := chatTarget(ref)
	if err != nil {
		return err
	}
	return c.bot.UnbanChatMember(ctx, target, userID)
}

// ResolveChannel looks the chat up once per reference even under concurrent callers.
func (c *GroupClient) ResolveChannel(ctx context.Context, ref channel.Ref) (channel.Resolution, error) {
	target, err := chatTarget(ref)
	if err != nil {
		return channel.Resolution{}, err
	}

	v, err, _ := c.resolveGroup.Do(fmt.Sprint(target), func() (any, error) {
		chat, err := c.bot.GetChat(ctx, target)
		if err != nil {
			return nil, err
		}
		res := channel.Resolution{ChatID: chat.ID, Title: chat.Title}

		botID, err := c.selfID(ctx)
		if err != nil {
			return nil, err
		}
		member, err := c.bot.GetChatMember(ctx, chat.ID, botID)
		if err == nil {
			res.BotJoined = member.Status == "administrator" || member.Status == "member" || member.Status == "creator"
		} else {
			c.logger.Debugw("bot membership unknown", "chat_id", chat.ID, "error", err)
		}
		return res, nil
	})
	if err != nil {
		return channel.Resolution{}, err
	}
	return v.(channel.Resolution), nil
}

// ListMembers pages over the chat administrators, the only members the Bot API lists.
func (c *GroupClient) ListMembers(ctx context.Context, chatID int64, offset, limit int) ([]channel.GroupMember, error) {
	admins, err := c.bot.GetChatAdministrators(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if offset >= len(admins) {
		return nil, nil
	}
	end := min(len(admins), offset+limit)

	out := make([]channel.GroupMember, 0, end-offset)
	for _, m := range admins[offset:end] {
		out = append(out, channel.GroupMember{
			ChatID:    chatID,
			UserID:    m.User.ID,
			Username:  m.User.Username,
			FirstName: m.User.FirstName,
			LastName:  m.User.LastName,
			IsBot:     m.User.IsBot,
			// deleted accounts come back with an empty first name
			IsDeleted: m.User.FirstName == "",
		})
	}
	return out, nil
}

func (c *GroupClient) selfID(ctx context.Context) (int64, error) {
	c.botIDMu.Lock()
	defer c.botIDMu.Unlock()
	if c.botID != 0 {
		return c.botID, nil
	}
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return 0, err
	}
	c.botID = me.ID
	return c.botID, nil
}
