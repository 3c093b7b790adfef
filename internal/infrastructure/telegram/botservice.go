package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	sharedConfig "github.com/orris-inc/vipgate/internal/shared/config"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

// BotService provides the Telegram Bot API methods the engine needs.
// Calls answered with 429 are retried after the advertised retry_after.
type BotService struct {
	httpClient *http.Client
	baseURL    string
	maxRetries uint
	logger     logger.Interface
}

func NewBotService(config sharedConfig.TelegramConfig, log logger.Interface) *BotService {
	base := strings.TrimRight(config.APIBaseURL, "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &BotService{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("%s/bot%s", base, config.BotToken),
		maxRetries: uint(maxRetries),
		logger:     log,
	}
}

func (s *BotService) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := s.call(ctx, "getMe", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetChat accepts a numeric id or an @username.
func (s *BotService) GetChat(ctx context.Context, chatID any) (*Chat, error) {
	var c Chat
	if err := s.call(ctx, "getChat", map[string]any{"chat_id": chatID}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BotService) GetChatMember(ctx context.Context, chatID any, userID int64) (*ChatMember, error) {
	var m ChatMember
	if err := s.call(ctx, "getChatMember", map[string]any{"chat_id": chatID, "user_id": userID}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *BotService) GetChatAdministrators(ctx context.Context, chatID any) ([]ChatMember, error) {
	var members []ChatMember
	if err := s.call(ctx, "getChatAdministrators", map[string]any{"chat_id": chatID}, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *BotService) BanChatMember(ctx context.Context, chatID any, userID int64, until time.Time) error {
	return s.call(ctx, "banChatMember", map[string]any{
		"chat_id":    chatID,
		"user_id":    userID,
		"until_date": until.Unix(),
	}, nil)
}

func (s *BotService) UnbanChatMember(ctx context.Context, chatID any, userID int64) error {
	return s.call(ctx, "unbanChatMember", map[string]any{
		"chat_id":        chatID,
		"user_id":        userID,
		"only_if_banned": true,
	}, nil)
}

// SendMessage sends a plain text message without any formatting.
func (s *BotService) SendMessage(ctx context.Context, chatID int64, text string) error {
	return s.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, nil)
}

func (s *BotService) call(ctx context.Context, method string, body map[string]any, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond

	raw, err := backoff.Retry(ctx, func() (json.RawMessage, error) {
		raw, err := s.do(ctx, method, body)
		if err == nil {
			return raw, nil
		}
		if IsRetryAfter(err) {
			apiErr, _ := asAPIError(err)
			s.logger.Warnw("telegram rate limited, retrying",
				"method", method,
				"retry_after", apiErr.RetryAfter,
			)
			return nil, backoff.RetryAfter(apiErr.RetryAfter)
		}
		if _, ok := asAPIError(err); ok {
			return nil, backoff.Permanent(err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(s.maxRetries))
	if err != nil {
		var retryAfter *backoff.RetryAfterError
		if errors.As(err, &retryAfter) {
			return fmt.Errorf("telegram %s still rate limited after %d attempts: %w", method, s.maxRetries, err)
		}
		return err
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

func (s *BotService) do(ctx context.Context, method string, body map[string]any) (json.RawMessage, error) {
	if body == nil {
		body = map[string]any{}
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/"+method, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if !result.OK {
		apiErr := &APIError{
			Method:      method,
			ErrorCode:   result.ErrorCode,
			Description: result.Description,
		}
		if apiErr.ErrorCode == 0 {
			apiErr.ErrorCode = resp.StatusCode
		}
		if result.Parameters != nil {
			apiErr.RetryAfter = result.Parameters.RetryAfter
		}
		return nil, apiErr
	}
	return result.Result, nil
}
