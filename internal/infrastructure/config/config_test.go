package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite
  path: /tmp/vip.db
enforcement:
  kick_interval_seconds: 30
admin:
  super_admin_ids: [42, 43]
`), 0o600))

	t.Run("file values and defaults", func(t *testing.T) {
		cfg, err := Load("", path)
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 30, cfg.Enforcement.KickIntervalSeconds)
		assert.Equal(t, 300, cfg.Enforcement.RejoinDelayMinutes)
		assert.Equal(t, 300, cfg.Enforcement.RecoveryIntervalSeconds)
		assert.Equal(t, 5, cfg.Admission.Capacity)
		assert.Equal(t, []int64{42, 43}, cfg.Admin.SuperAdminIDs)
		assert.Equal(t, "0 3 * * *", cfg.Scheduler.SnapshotCron)
		assert.Same(t, cfg, Get())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("VIPGATE_ADMISSION_CAPACITY", "9")
		t.Setenv("VIPGATE_SERVER_PORT", "9090")

		cfg, err := Load("release", path)
		require.NoError(t, err)

		assert.Equal(t, 9, cfg.Admission.Capacity)
		assert.Equal(t, "0.0.0.0:9090", cfg.Server.GetAddr())
		assert.Equal(t, "release", cfg.Server.Mode)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load("", filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
