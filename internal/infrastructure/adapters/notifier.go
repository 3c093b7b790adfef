package adapters

import (
	"context"
	"fmt"

	"github.com/orris-inc/vipgate/internal/application/enforcement/usecases"
	"github.com/orris-inc/vipgate/internal/infrastructure/telegram"
)

// messageSender is the part of telegram.BotService the notifier needs.
type messageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramNotifierAdapter adapts the bot's private messages to usecases.Notifier.
type TelegramNotifierAdapter struct {
	sender messageSender
}

// NewTelegramNotifierAdapter creates a new TelegramNotifierAdapter
func NewTelegramNotifierAdapter(sender messageSender) *TelegramNotifierAdapter {
	return &TelegramNotifierAdapter{sender: sender}
}

// SendMessage delivers text to the user's private chat. A user who blocked the bot
// surfaces as usecases.ErrRecipientBlocked.
func (a *TelegramNotifierAdapter) SendMessage(ctx context.Context, userID int64, text string) error {
	err := a.sender.SendMessage(ctx, userID, text)
	if err != nil && telegram.IsBotBlocked(err) {
		return fmt.Errorf("%w: %v", usecases.ErrRecipientBlocked, err)
	}
	return err
}
