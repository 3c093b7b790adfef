package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnresolvableRef is returned for links the Bot API cannot address, such as private invites.
var ErrUnresolvableRef = errors.New("telegram: channel reference cannot be addressed by the bot api")

// APIError represents a structured Telegram Bot API error response.
type APIError struct {
	Method      string
	ErrorCode   int // 400, 403, 429 ...
	Description string
	RetryAfter  int // seconds, only for 429
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram %s error %d: %s (retry_after=%ds)", e.Method, e.ErrorCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram %s error %d: %s", e.Method, e.ErrorCode, e.Description)
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsBotBlocked reports a 403 answer to a private message.
func IsBotBlocked(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.ErrorCode == http.StatusForbidden
}

// IsRetryAfter returns true if the error is a 429 Too Many Requests with retry_after.
func IsRetryAfter(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.ErrorCode == http.StatusTooManyRequests && apiErr.RetryAfter > 0
}

// IsNotParticipant reports that the user is not, or no longer, in the chat.
func IsNotParticipant(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	d := strings.ToLower(apiErr.Description)
	return strings.Contains(d, "user not found") ||
		strings.Contains(d, "participant_id_invalid") ||
		strings.Contains(d, "user_not_participant")
}

// IsNoPermission reports that the bot lacks the rights to act on the chat or the user.
func IsNoPermission(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	if apiErr.ErrorCode == http.StatusForbidden {
		return true
	}
	d := strings.ToLower(apiErr.Description)
	return strings.Contains(d, "not enough rights") ||
		strings.Contains(d, "chat_admin_required") ||
		strings.Contains(d, "user is an administrator")
}
