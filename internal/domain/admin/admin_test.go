package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdmin(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a, err := NewAdmin(100, "alice", 0, "", now)
	require.NoError(t, err)
	assert.Equal(t, LevelOrdinary, a.Level())
	assert.Equal(t, "admin", a.Level().Role())

	_, err = NewAdmin(100, "", Level(5), "", now)
	assert.ErrorIs(t, err, ErrInvalidLevel)
	_, err = NewAdmin(0, "", LevelSuper, "", now)
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestCanManage(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ordinary := ReconstructAdmin(1, 1, "", LevelOrdinary, "", now)
	super := ReconstructAdmin(2, 2, "", LevelSuper, "", now)

	assert.NoError(t, CanManage(ordinary, LevelOrdinary))
	assert.ErrorIs(t, CanManage(ordinary, LevelSuper), ErrSuperRequired)
	assert.NoError(t, CanManage(super, LevelSuper))
	assert.ErrorIs(t, CanManage(nil, LevelOrdinary), ErrNotAdmin)
}
