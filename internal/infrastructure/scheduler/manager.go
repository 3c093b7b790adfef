// Package scheduler runs the reconciliation jobs on gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/vipgate/internal/shared/goroutine"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

const defaultCronJobTimeout = 30 * time.Minute

// BatchJob processes one pass and returns the number of items it acted on.
type BatchJob interface {
	Run(ctx context.Context) (int, error)
}

// EnforcementJobs are the four reconciliation jobs. A nil job is not registered.
type EnforcementJobs struct {
	ExpireAndKick   BatchJob
	BanRecovery     BatchJob
	SnapshotRefresh BatchJob
	ExpiryReminder  BatchJob
}

// Schedule holds the periods read from enforcement settings at start, plus the daily crons.
type Schedule struct {
	KickInterval     time.Duration
	RecoveryInterval time.Duration
	SnapshotCron     string
	ReminderCron     string
	CronJobTimeout   time.Duration
}

// SchedulerManager owns the gocron scheduler. Every job runs in singleton mode so a firing
// that finds the previous run still busy is rescheduled instead of overlapping.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a UTC scheduler running at most maxConcurrentJobs jobs at once.
// Zero means no limit.
func NewSchedulerManager(log logger.Interface, maxConcurrentJobs uint) (*SchedulerManager, error) {
	opts := []gocron.SchedulerOption{gocron.WithLocation(time.UTC)}
	if maxConcurrentJobs > 0 {
		opts = append(opts, gocron.WithLimitConcurrentJobs(maxConcurrentJobs, gocron.LimitModeReschedule))
	}
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterEnforcementJobs registers the interval jobs (start immediately) and the daily
// cron jobs. Interval jobs get a deadline equal to their period.
func (m *SchedulerManager) RegisterEnforcementJobs(jobs EnforcementJobs, s Schedule) error {
	if s.CronJobTimeout <= 0 {
		s.CronJobTimeout = defaultCronJobTimeout
	}

	if jobs.ExpireAndKick != nil {
		if err := m.registerInterval("expire-and-kick", s.KickInterval, jobs.ExpireAndKick, "enforcement", "kick"); err != nil {
			return err
		}
	}
	if jobs.BanRecovery != nil {
		if err := m.registerInterval("ban-recovery", s.RecoveryInterval, jobs.BanRecovery, "enforcement", "recovery"); err != nil {
			return err
		}
	}
	if jobs.SnapshotRefresh != nil {
		if err := m.registerCron("member-snapshot-refresh", s.SnapshotCron, s.CronJobTimeout, jobs.SnapshotRefresh, "snapshot"); err != nil {
			return err
		}
	}
	if jobs.ExpiryReminder != nil {
		if err := m.registerCron("expiry-reminder", s.ReminderCron, s.CronJobTimeout, jobs.ExpiryReminder, "reminder", "telegram"); err != nil {
			return err
		}
	}
	return nil
}

func (m *SchedulerManager) registerInterval(name string, interval time.Duration, job BatchJob, tags ...string) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive, got %s", name, interval)
	}
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			m.runJob(name, interval, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}

	m.logger.Infow("registered job", "name", name, "interval", interval.String())
	return nil
}

func (m *SchedulerManager) registerCron(name, crontab string, timeout time.Duration, job BatchJob, tags ...string) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(func() {
			m.runJob(name, timeout, job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}

	m.logger.Infow("registered job", "name", name, "cron", crontab)
	return nil
}

// runJob never lets an error or panic escape into the scheduler.
func (m *SchedulerManager) runJob(name string, timeout time.Duration, job BatchJob) {
	defer goroutine.Recover(m.logger, name)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	m.logger.Debugw("job started", "name", name)
	startTime := time.Now()

	count, err := job.Run(ctx)
	if err != nil {
		m.logger.Errorw("job failed",
			"name", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("job completed",
			"name", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("job completed, nothing to do",
			"name", name,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
