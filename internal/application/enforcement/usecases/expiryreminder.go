package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

const defaultReminderWindow = 7 * 24 * time.Hour

type ReminderResult struct {
	Due     int
	Sent    int
	Blocked int
	Failed  int
}

// ExpiryReminderUseCase warns members whose window closes within the reminder window.
// Delivery is one-way and never retried.
type ExpiryReminderUseCase struct {
	membershipRepo membership.Repository
	notifier       Notifier
	clock          biztime.Clock
	logger         logger.Interface
	window         time.Duration
}

func NewExpiryReminderUseCase(
	membershipRepo membership.Repository,
	notifier Notifier,
	clock biztime.Clock,
	logger logger.Interface,
	window time.Duration,
) *ExpiryReminderUseCase {
	if window <= 0 {
		window = defaultReminderWindow
	}
	return &ExpiryReminderUseCase{
		membershipRepo: membershipRepo,
		notifier:       notifier,
		clock:          clock,
		logger:         logger,
		window:         window,
	}
}

func (uc *ExpiryReminderUseCase) Execute(ctx context.Context) (ReminderResult, error) {
	now := uc.clock.Now()
	due, err := uc.membershipRepo.ListExpiringBetween(ctx, now, now.Add(uc.window))
	if err != nil {
		return ReminderResult{}, fmt.Errorf("failed to list expiring memberships: %w", err)
	}

	result := ReminderResult{Due: len(due)}
	for _, m := range due {
		err := uc.notifier.SendMessage(ctx, m.UserID(), ReminderText(m, now))
		switch {
		case err == nil:
			result.Sent++
		case errors.Is(err, ErrRecipientBlocked):
			result.Blocked++
			uc.logger.Infow("member blocked reminders, skipping", "user_id", m.UserID())
		default:
			result.Failed++
			uc.logger.Warnw("failed to send expiry reminder", "user_id", m.UserID(), "error", err)
		}
	}

	uc.logger.Infow("expiry reminders sent",
		"due", result.Due,
		"sent", result.Sent,
		"blocked", result.Blocked,
		"failed", result.Failed,
	)
	return result, nil
}

// ReminderText renders the notice for m at now.
func ReminderText(m *membership.Membership, now time.Time) string {
	remaining := m.RemainingUntil(now)
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	return fmt.Sprintf(
		"Your VIP membership expires on %s UTC (in %dd %dh). Renew before then to keep your access.",
		m.EndTime().UTC().Format(time.DateTime), days, hours,
	)
}
