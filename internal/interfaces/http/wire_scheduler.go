package http

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/vipgate/internal/infrastructure/scheduler"
)

// StartScheduler reads the enforcement settings once and starts the reconciliation jobs.
// Changed intervals take effect on the next start.
func (c *Container) StartScheduler(ctx context.Context) error {
	if !c.cfg.Scheduler.Enabled {
		c.log.Infow("scheduler disabled by configuration")
		return nil
	}

	settings, err := c.ucs.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load enforcement settings: %w", err)
	}

	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"), c.cfg.Scheduler.MaxConcurrentJobs)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	jobs := scheduler.EnforcementJobs{
		ExpireAndKick:   c.ucs.expireAndKick,
		BanRecovery:     c.ucs.banRecovery,
		SnapshotRefresh: c.ucs.refreshSnapshots,
		ExpiryReminder:  c.ucs.expiryReminder,
	}
	if c.cfg.Telegram.BotToken == "" {
		c.log.Warnw("telegram bot token not configured, reminders disabled")
		jobs.ExpiryReminder = nil
	}

	err = manager.RegisterEnforcementJobs(jobs, scheduler.Schedule{
		KickInterval:     settings.KickInterval(),
		RecoveryInterval: settings.RecoveryInterval(),
		SnapshotCron:     c.cfg.Scheduler.SnapshotCron,
		ReminderCron:     c.cfg.Scheduler.ReminderCron,
		CronJobTimeout:   time.Duration(c.cfg.Scheduler.SnapshotJobTimeoutMins) * time.Minute,
	})
	if err != nil {
		return err
	}

	manager.Start()
	c.schedulerManager = manager
	return nil
}
