package channel

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidURL       = errors.New("channel url is required")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrChannelDuplicate = errors.New("channel already exists")
)

// Config is a group or channel under enforcement. The numeric chat id stays nil until the
// group client resolves the URL.
type Config struct {
	id                uint
	chatID            *int64
	url               string
	isVIP             bool
	botJoined         bool
	lastMemberFetchAt *time.Time
	remark            string
	createdAt         time.Time
	updatedAt         time.Time
}

func NewConfig(url string, isVIP bool, remark string, now time.Time) (*Config, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrInvalidURL
	}
	return &Config{
		url:       url,
		isVIP:     isVIP,
		remark:    remark,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructConfig(
	id uint,
	chatID *int64,
	url string,
	isVIP, botJoined bool,
	lastMemberFetchAt *time.Time,
	remark string,
	createdAt, updatedAt time.Time,
) *Config {
	return &Config{
		id:                id,
		chatID:            chatID,
		url:               url,
		isVIP:             isVIP,
		botJoined:         botJoined,
		lastMemberFetchAt: lastMemberFetchAt,
		remark:            remark,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (c *Config) ID() uint                      { return c.id }
func (c *Config) ChatID() *int64                { return c.chatID }
func (c *Config) URL() string                   { return c.url }
func (c *Config) IsVIP() bool                   { return c.isVIP }
func (c *Config) BotJoined() bool               { return c.botJoined }
func (c *Config) LastMemberFetchAt() *time.Time { return c.lastMemberFetchAt }
func (c *Config) Remark() string                { return c.remark }
func (c *Config) CreatedAt() time.Time          { return c.createdAt }
func (c *Config) UpdatedAt() time.Time          { return c.updatedAt }

func (c *Config) SetID(id uint) {
	c.id = id
}

// Ref is how the group client addresses this channel: the resolved id when known, else the URL.
func (c *Config) Ref() Ref {
	return Ref{ChatID: c.chatID, URL: c.url}
}

func (c *Config) Resolve(chatID int64, botJoined bool, now time.Time) {
	c.chatID = &chatID
	c.botJoined = botJoined
	c.updatedAt = now
}

func (c *Config) SetVIP(isVIP bool, now time.Time) {
	c.isVIP = isVIP
	c.updatedAt = now
}

func (c *Config) SetRemark(remark string, now time.Time) {
	c.remark = remark
	c.updatedAt = now
}

// SnapshotStale reports whether the member snapshot is missing or older than maxAge.
func (c *Config) SnapshotStale(now time.Time, maxAge time.Duration) bool {
	return c.lastMemberFetchAt == nil || c.lastMemberFetchAt.Before(now.Add(-maxAge))
}

// Ref identifies a channel towards the external group system.
type Ref struct {
	ChatID *int64
	URL    string
}

func (r Ref) String() string {
	return r.URL
}

// Resolution is what the group system reports for a Ref.
type Resolution struct {
	ChatID    int64
	Title     string
	BotJoined bool
}
