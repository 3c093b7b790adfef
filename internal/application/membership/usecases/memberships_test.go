package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/testutil"
)

func TestDeleteMemberships(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	now := s.Clock.Now()
	s.SeedMembership(t, 1, now.Add(time.Hour), false, nil)
	s.SeedMembership(t, 2, now.Add(time.Hour), true, &now)

	uc := NewDeleteMembershipsUseCase(s.Memberships, s.Logs, s.TxMgr, s.Clock, s.Log)
	n, err := uc.Execute(ctx, DeleteMembershipsCommand{UserIDs: []int64{1, 2, 3}, OperatorID: 99})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Nil(t, s.Membership(t, 1))
	assert.Nil(t, s.Membership(t, 2))

	logs, total, err := s.Logs.ListByUser(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, membership.OperationDelete, logs[0].Operation())
	assert.Nil(t, logs[0].SubscriptionID())
	assert.True(t, logs[0].NewEndTime().Equal(now))

	again, err := uc.Execute(ctx, DeleteMembershipsCommand{UserIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, 0, again)
}

func TestDeleteMemberships_ConcurrentAdmins(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	s.SeedMembership(t, 8, s.Clock.Now().Add(time.Hour), false, nil)
	uc := NewDeleteMembershipsUseCase(s.Memberships, s.Logs, s.TxMgr, s.Clock, s.Log)

	var wg sync.WaitGroup
	counts := make([]int, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts[i], errs[i] = uc.Execute(ctx, DeleteMembershipsCommand{UserIDs: []int64{8}})
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, counts[0]+counts[1])
	assert.Nil(t, s.Membership(t, 8))

	logs, total, err := s.Logs.ListByUser(ctx, 8, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, membership.OperationDelete, logs[0].Operation())
}

func TestBanUsers(t *testing.T) {
	s := testutil.NewStore(t)
	now := s.Clock.Now()
	earlier := now.Add(-time.Hour)
	s.SeedMembership(t, 1, now.Add(-time.Hour), false, nil)
	s.SeedMembership(t, 2, now.Add(time.Hour), true, &earlier)

	uc := NewBanUsersUseCase(s.Memberships, s.TxMgr, s.Clock, s.Log)
	n, err := uc.Execute(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m := s.Membership(t, 1)
	assert.True(t, m.IsBanned())
	require.NotNil(t, m.BannedAt())
	assert.True(t, m.BannedAt().Equal(now))
	assert.Equal(t, 2, m.Version())

	already := s.Membership(t, 2)
	assert.Equal(t, 1, already.Version())
	assert.True(t, already.BannedAt().Equal(earlier))
}

func TestBanUsers_ExecuteObservedSkipsMovedVersions(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	now := s.Clock.Now()
	stale := s.SeedMembership(t, 1, now.Add(-time.Hour), false, nil)
	fresh := s.SeedMembership(t, 2, now.Add(-time.Hour), false, nil)
	observed := []membership.Observed{stale.Observed(), fresh.Observed()}

	ok, err := s.Memberships.RenewIfVersion(ctx, 1, stale.Version(), nil, now.Add(48*time.Hour), now)
	require.NoError(t, err)
	require.True(t, ok)

	uc := NewBanUsersUseCase(s.Memberships, s.TxMgr, s.Clock, s.Log)
	n, err := uc.ExecuteObserved(ctx, observed)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.False(t, s.Membership(t, 1).IsBanned())
	assert.Equal(t, 2, s.Membership(t, 1).Version())
	assert.True(t, s.Membership(t, 2).IsBanned())
}

func TestRecoverBans_FiresForBansPastDelay(t *testing.T) {
	s := testutil.NewStore(t)
	now := s.Clock.Now()
	old := now.Add(-6 * time.Hour)
	recent := now.Add(-time.Hour)
	s.SeedMembership(t, 1, now.Add(-7*time.Hour), true, &old)
	s.SeedMembership(t, 2, now.Add(-2*time.Hour), true, &recent)
	s.SeedMembership(t, 3, now.Add(-7*time.Hour), true, nil)

	uc := NewRecoverBansUseCase(s.Memberships, s.TxMgr, s.Clock, s.Log)
	recovered, err := uc.Execute(context.Background(), 300*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, recovered)

	m := s.Membership(t, 1)
	assert.False(t, m.IsBanned())
	assert.Equal(t, 2, m.Version())
	assert.True(t, s.Membership(t, 2).IsBanned())
	assert.True(t, s.Membership(t, 3).IsBanned())

	again, err := uc.Execute(context.Background(), 300*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestQueryMemberships(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	now := s.Clock.Now()
	s.SeedMembership(t, 1, now.Add(time.Hour), false, nil)
	s.SeedMembership(t, 2, now.Add(-time.Hour), false, nil)

	uc := NewQueryMembershipsUseCase(s.Memberships, s.Logs, s.Clock)

	_, err := uc.Get(ctx, 3)
	require.Error(t, err)

	items, total, err := uc.List(ctx, ListMembershipsQuery{State: membership.StateExpired})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, int64(2), items[0].UserID())

	_, _, err = uc.List(ctx, ListMembershipsQuery{State: "gone"})
	require.Error(t, err)
}
