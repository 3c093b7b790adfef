package setting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnforcementDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	e := NewEnforcement(Defaults{}, now)
	assert.Equal(t, 60*time.Second, e.KickInterval())
	assert.Equal(t, 300*time.Minute, e.RejoinDelay())
	assert.Equal(t, 300*time.Second, e.RecoveryInterval())

	e = NewEnforcement(Defaults{KickIntervalSeconds: 15}, now)
	assert.Equal(t, 15, e.KickIntervalSeconds())
}

func TestEnforcementUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := NewEnforcement(Defaults{}, now)

	kick, zero := 30, 0
	require.NoError(t, e.Update(&kick, nil, nil, now.Add(time.Minute)))
	assert.Equal(t, 30, e.KickIntervalSeconds())
	assert.Equal(t, 300, e.RejoinDelayMinutes())
	assert.Equal(t, now.Add(time.Minute), e.UpdatedAt())

	assert.ErrorIs(t, e.Update(nil, &zero, nil, now), ErrInvalidSetting)
	assert.Equal(t, 300, e.RejoinDelayMinutes(), "failed update leaves values untouched")
}
