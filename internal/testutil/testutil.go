// Package testutil wires an in-memory store with every repository for application tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/subscription"
	"github.com/orris-inc/vipgate/internal/infrastructure/migration"
	"github.com/orris-inc/vipgate/internal/infrastructure/repository"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// BaseTime is the default starting point of the manual clock.
var BaseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Store bundles a migrated SQLite database with its repositories.
type Store struct {
	DB    *gorm.DB
	Clock *biztime.ManualClock
	Log   logger.Interface
	TxMgr *db.TransactionManager

	Subscriptions *repository.SubscriptionRepository
	Memberships   *repository.MembershipRepository
	Logs          *repository.MembershipLogRepository
	Channels      *repository.ChannelRepository
	GroupMembers  *repository.GroupMemberRepository
	Kicks         *repository.KickRecordRepository
	Settings      *repository.EnforcementSettingRepository
	Admins        *repository.AdminRepository
}

// NewDB opens a private in-memory database with all tables migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: biztime.NowUTC,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(migration.Models()...))
	return gdb
}

func NewStore(t testing.TB) *Store {
	t.Helper()

	gdb := NewDB(t)
	log := logger.NewNopLogger()
	return &Store{
		DB:            gdb,
		Clock:         biztime.NewManualClock(BaseTime),
		Log:           log,
		TxMgr:         db.NewTransactionManager(gdb),
		Subscriptions: repository.NewSubscriptionRepository(gdb, log),
		Memberships:   repository.NewMembershipRepository(gdb, log),
		Logs:          repository.NewMembershipLogRepository(gdb),
		Channels:      repository.NewChannelRepository(gdb),
		GroupMembers:  repository.NewGroupMemberRepository(gdb),
		Kicks:         repository.NewKickRecordRepository(gdb),
		Settings:      repository.NewEnforcementSettingRepository(gdb),
		Admins:        repository.NewAdminRepository(gdb),
	}
}

// SeedSubscription records a subscription and returns it.
func (s *Store) SeedSubscription(t testing.TB, userID int64, hours int, invoiceID string, status subscription.Status) *subscription.Subscription {
	t.Helper()

	sub, err := subscription.NewSubscription(userID, decimal.NewFromInt(10), hours, invoiceID, "TRC20", "", status, s.Clock.Now())
	require.NoError(t, err)
	require.NoError(t, s.Subscriptions.Create(context.Background(), sub))
	return sub
}

// SeedMembership stores a membership row as given, bypassing the state machine.
func (s *Store) SeedMembership(t testing.TB, userID int64, endTime time.Time, isBanned bool, bannedAt *time.Time) *membership.Membership {
	t.Helper()

	now := s.Clock.Now()
	m := membership.ReconstructMembership(0, userID, nil, endTime.Add(-24*time.Hour), endTime,
		membership.SourceAdmin, isBanned, bannedAt, "", 1, now, now)
	require.NoError(t, s.Memberships.Create(context.Background(), m))
	return m
}

// Membership reloads the user's membership.
func (s *Store) Membership(t testing.TB, userID int64) *membership.Membership {
	t.Helper()

	m, err := s.Memberships.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return m
}
