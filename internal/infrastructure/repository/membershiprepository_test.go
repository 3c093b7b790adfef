package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

func seedMembership(t *testing.T, repo *MembershipRepository, userID int64, end time.Time) *membership.Membership {
	t.Helper()
	start := baseTime.Add(-48 * time.Hour)
	m := membership.ReconstructMembership(0, userID, nil, start, end, membership.SourceSubscription, false, nil, "", 1, start, start)
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestMembershipRepository_ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(setupTestDB(t), logger.NewNopLogger())

	t.Run("get missing returns nil", func(t *testing.T) {
		m, err := repo.GetByUserID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("duplicate user is a conflict", func(t *testing.T) {
		seedMembership(t, repo, 1, baseTime.Add(time.Hour))
		dup, err := membership.NewMembership(1, nil, "", time.Hour, baseTime)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, dup))
	})

	t.Run("renew from same version has exactly one winner", func(t *testing.T) {
		seedMembership(t, repo, 2, baseTime.Add(time.Hour))
		first := baseTime.Add(25 * time.Hour)
		second := baseTime.Add(49 * time.Hour)

		ok, err := repo.RenewIfVersion(ctx, 2, 1, nil, first, baseTime)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.RenewIfVersion(ctx, 2, 1, nil, second, baseTime)
		require.NoError(t, err)
		assert.False(t, ok, "stale version must not apply")

		got, err := repo.GetByUserID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version())
		assert.True(t, got.EndTime().Equal(first), "end time reflects only the winner")
	})

	t.Run("ban applies once and bumps version", func(t *testing.T) {
		seedMembership(t, repo, 3, baseTime.Add(-time.Hour))

		ok, err := repo.BanIfVersion(ctx, 3, 1, baseTime)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.BanIfVersion(ctx, 3, 2, baseTime)
		require.NoError(t, err)
		assert.False(t, ok, "already banned")

		got, err := repo.GetByUserID(ctx, 3)
		require.NoError(t, err)
		assert.True(t, got.IsBanned())
		require.NotNil(t, got.BannedAt())
		assert.True(t, got.BannedAt().Equal(baseTime))
		assert.Equal(t, 2, got.Version())
	})

	t.Run("delete from same version has exactly one winner", func(t *testing.T) {
		seedMembership(t, repo, 4, baseTime.Add(time.Hour))

		ok, err := repo.DeleteIfVersion(ctx, 4, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.DeleteIfVersion(ctx, 4, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.GetByUserID(ctx, 4)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestMembershipRepository_EnforcementQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(setupTestDB(t), logger.NewNopLogger())
	delay := 300 * time.Minute

	seedMembership(t, repo, 10, baseTime.Add(time.Hour))       // active
	seedMembership(t, repo, 11, baseTime.Add(-time.Hour))      // expired
	seedMembership(t, repo, 12, baseTime.Add(-2*time.Hour))    // banned long ago
	seedMembership(t, repo, 13, baseTime.Add(-2*time.Hour))    // banned recently
	seedMembership(t, repo, 14, baseTime.Add(72*time.Hour))    // expiring within a week
	seedMembership(t, repo, 15, baseTime.Add(10*24*time.Hour)) // expiring later

	_, err := repo.BanIfVersion(ctx, 12, 1, baseTime.Add(-delay-time.Minute))
	require.NoError(t, err)
	_, err = repo.BanIfVersion(ctx, 13, 1, baseTime.Add(-time.Minute))
	require.NoError(t, err)

	t.Run("enforceable are expired, unbanned and never enforced", func(t *testing.T) {
		got, err := repo.ListEnforceable(ctx, baseTime)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(11), got[0].UserID())
	})

	t.Run("recoverable selects bans at or before the cutoff", func(t *testing.T) {
		got, err := repo.ListRecoverable(ctx, baseTime.Add(-delay))
		require.NoError(t, err)
		require.Len(t, got, 1, "a ban older than the delay must be recoverable")
		assert.Equal(t, int64(12), got[0].UserID())
	})

	t.Run("expiring window", func(t *testing.T) {
		got, err := repo.ListExpiringBetween(ctx, baseTime, baseTime.Add(7*24*time.Hour))
		require.NoError(t, err)
		ids := make([]int64, 0, len(got))
		for _, m := range got {
			ids = append(ids, m.UserID())
		}
		assert.ElementsMatch(t, []int64{10, 14}, ids)
	})

	t.Run("clear bans touches only the given banned users", func(t *testing.T) {
		n, err := repo.ClearBans(ctx, []int64{12, 10}, baseTime)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := repo.GetByUserID(ctx, 12)
		require.NoError(t, err)
		assert.False(t, got.IsBanned())
		assert.NotNil(t, got.BannedAt(), "expired window keeps its enforcement marker")
		assert.Equal(t, 3, got.Version())

		n, err = repo.ClearBans(ctx, nil, baseTime)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("list by state", func(t *testing.T) {
		banned, total, err := repo.List(ctx, membership.ListFilter{State: membership.StateBanned, Now: baseTime})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, banned, 1)
		assert.Equal(t, int64(13), banned[0].UserID())

		active, total, err := repo.List(ctx, membership.ListFilter{State: membership.StateActive, Now: baseTime, PageSize: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, active, 2)
	})
}

func TestMembershipRepository_RenewClearsEnforcementMarker(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(setupTestDB(t), logger.NewNopLogger())

	seedMembership(t, repo, 20, baseTime.Add(-10*time.Hour))
	_, err := repo.BanIfVersion(ctx, 20, 1, baseTime.Add(-9*time.Hour))
	require.NoError(t, err)
	_, err = repo.ClearBans(ctx, []int64{20}, baseTime)
	require.NoError(t, err)

	ok, err := repo.RenewIfVersion(ctx, 20, 3, nil, baseTime.Add(24*time.Hour), baseTime)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByUserID(ctx, 20)
	require.NoError(t, err)
	assert.Nil(t, got.BannedAt(), "renewed window is enforceable again once it closes")
	assert.Equal(t, 4, got.Version())

	enforceable, err := repo.ListEnforceable(ctx, baseTime.Add(25*time.Hour))
	require.NoError(t, err)
	require.Len(t, enforceable, 1)
	assert.Equal(t, int64(20), enforceable[0].UserID())
}
