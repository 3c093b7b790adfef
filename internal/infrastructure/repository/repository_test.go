package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/domain/channel"
	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/domain/subscription"
	appErrors "github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

func TestSubscriptionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepository(setupTestDB(t), logger.NewNopLogger())

	sub, err := subscription.NewSubscription(7, decimal.RequireFromString("12.5"), 24,
		"11111111-1111-1111-1111-111111111111", "TRC20", "Taddr", "", baseTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sub))
	assert.NotZero(t, sub.ID())

	t.Run("duplicate invoice id is a conflict", func(t *testing.T) {
		dup, err := subscription.NewSubscription(8, decimal.Zero, 1, sub.InvoiceID(), "", "", "", baseTime)
		require.NoError(t, err)
		assert.True(t, appErrors.IsConflictError(repo.Create(ctx, dup)))
	})

	t.Run("lookup and status update", func(t *testing.T) {
		got, err := repo.GetByInvoiceID(ctx, sub.InvoiceID())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Amount().Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, subscription.StatusPending, got.Status())

		require.NoError(t, got.MarkSucceeded(baseTime.Add(time.Minute)))
		require.NoError(t, repo.UpdateStatus(ctx, got))

		again, err := repo.GetByInvoiceID(ctx, sub.InvoiceID())
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusSuccess, again.Status())
	})

	t.Run("missing invoice", func(t *testing.T) {
		got, err := repo.GetByInvoiceID(ctx, "22222222-2222-2222-2222-222222222222")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list by user", func(t *testing.T) {
		subs, err := repo.ListByUser(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})
}

func TestMembershipLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipLogRepository(setupTestDB(t))
	subID := uint(3)

	exists, err := repo.ExistsForSubscription(ctx, subID)
	require.NoError(t, err)
	assert.False(t, exists)

	entry, err := membership.NewLog(5, &subID, membership.OperationNew, nil, baseTime.Add(time.Hour), "", baseTime)
	require.NoError(t, err)
	entry.WithMeta("invoice_id", "11111111-1111-1111-1111-111111111111")
	require.NoError(t, repo.Create(ctx, entry))

	exists, err = repo.ExistsForSubscription(ctx, subID)
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("second entry for the same subscription is rejected", func(t *testing.T) {
		dup, err := membership.NewLog(5, &subID, membership.OperationRenew, nil, baseTime, "", baseTime)
		require.NoError(t, err)
		assert.True(t, appErrors.IsConflictError(repo.Create(ctx, dup)))
	})

	t.Run("delete entries carry no subscription", func(t *testing.T) {
		old := baseTime.Add(time.Hour)
		for i := 0; i < 2; i++ {
			del, err := membership.NewLog(5, nil, membership.OperationDelete, &old, baseTime, "", baseTime)
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, del))
		}
	})

	logs, total, err := repo.ListByUser(ctx, 5, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, logs, 3)
	assert.Equal(t, membership.OperationDelete, logs[0].Operation())

	bySub, err := repo.ListBySubscription(ctx, subID)
	require.NoError(t, err)
	require.Len(t, bySub, 1)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", bySub[0].Metadata()["invoice_id"])
}

func TestChannelRepositories(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	channels := NewChannelRepository(gdb)
	members := NewGroupMemberRepository(gdb)
	kicks := NewKickRecordRepository(gdb)

	vip, err := channel.NewConfig("https://t.me/vip", true, "", baseTime)
	require.NoError(t, err)
	require.NoError(t, channels.Create(ctx, vip))
	free, err := channel.NewConfig("https://t.me/free", false, "", baseTime)
	require.NoError(t, err)
	require.NoError(t, channels.Create(ctx, free))

	dup, err := channel.NewConfig("https://t.me/vip", true, "", baseTime)
	require.NoError(t, err)
	assert.ErrorIs(t, channels.Create(ctx, dup), channel.ErrChannelDuplicate)

	t.Run("vip filter keeps non-vip flag", func(t *testing.T) {
		got, err := channels.ListVIP(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "https://t.me/vip", got[0].URL())

		all, err := channels.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.False(t, all[1].IsVIP())
	})

	t.Run("resolve and stale snapshots", func(t *testing.T) {
		vip.Resolve(-100, true, baseTime)
		require.NoError(t, channels.Update(ctx, vip))
		require.NoError(t, channels.MarkMembersFetched(ctx, vip.ID(), baseTime.Add(-30*time.Minute)))

		stale, err := channels.ListStaleSnapshots(ctx, baseTime.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, free.ID(), stale[0].ID())

		got, err := channels.GetByID(ctx, vip.ID())
		require.NoError(t, err)
		require.NotNil(t, got.ChatID())
		assert.Equal(t, int64(-100), *got.ChatID())
	})

	t.Run("member upsert keyed by chat and user", func(t *testing.T) {
		require.NoError(t, members.Upsert(ctx, []channel.GroupMember{
			{ChatID: -100, UserID: 1, Username: "a", CachedAt: baseTime},
			{ChatID: -100, UserID: 2, Username: "b", CachedAt: baseTime},
		}))
		require.NoError(t, members.Upsert(ctx, []channel.GroupMember{
			{ChatID: -100, UserID: 1, Username: "a2", CachedAt: baseTime.Add(time.Hour)},
		}))

		n, err := members.CountByChat(ctx, -100)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("kick records", func(t *testing.T) {
		require.NoError(t, kicks.CreateBatch(ctx, []channel.KickRecord{
			{UserID: 1, ChatID: -100, Outcome: channel.KickOutcomeRemoved, KickedAt: baseTime},
			{UserID: 2, ChatID: -100, Outcome: channel.KickOutcomeNoPermission, Reason: "not enough rights", KickedAt: baseTime},
		}))
		recs, total, err := kicks.List(ctx, 2, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, channel.KickOutcomeNoPermission, recs[0].Outcome)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, channels.Delete(ctx, free.ID()))
		assert.ErrorIs(t, channels.Delete(ctx, free.ID()), channel.ErrChannelNotFound)
		_, err := channels.GetByID(ctx, free.ID())
		assert.ErrorIs(t, err, channel.ErrChannelNotFound)
	})
}

func TestEnforcementSettingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEnforcementSettingRepository(setupTestDB(t))

	e, err := repo.GetOrCreate(ctx, setting.Defaults{})
	require.NoError(t, err)
	assert.Equal(t, 60, e.KickIntervalSeconds())
	assert.Equal(t, 300, e.RejoinDelayMinutes())

	kick := 15
	require.NoError(t, e.Update(&kick, nil, nil, baseTime))
	require.NoError(t, repo.Save(ctx, e))
	require.NoError(t, repo.MarkExecuted(ctx, baseTime))

	again, err := repo.GetOrCreate(ctx, setting.Defaults{KickIntervalSeconds: 99})
	require.NoError(t, err)
	assert.Equal(t, e.ID(), again.ID(), "singleton is created once")
	assert.Equal(t, 15, again.KickIntervalSeconds())
	require.NotNil(t, again.LastExecutedAt())
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(setupTestDB(t))

	ordinary, err := admin.NewAdmin(1, "op", admin.LevelOrdinary, "", baseTime)
	require.NoError(t, err)
	super, err := admin.NewAdmin(2, "root", admin.LevelSuper, "founder", baseTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ordinary))
	require.NoError(t, repo.Create(ctx, super))
	assert.ErrorIs(t, repo.Create(ctx, ordinary), admin.ErrAlreadyAdmin)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].UserID(), "super admins first")

	require.NoError(t, repo.DeleteByUserID(ctx, 1))
	assert.ErrorIs(t, repo.DeleteByUserID(ctx, 1), admin.ErrAdminNotFound)

	got, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
