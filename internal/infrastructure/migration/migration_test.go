package migration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func assertModelsMigrated(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, m := range Models() {
		stmt := &gorm.Statement{DB: db}
		require.NoError(t, stmt.Parse(m))
		require.True(t, db.Migrator().HasTable(m), stmt.Schema.Table)
		for _, f := range stmt.Schema.Fields {
			if f.DBName == "" {
				continue
			}
			assert.True(t, db.Migrator().HasColumn(m, f.DBName), "%s.%s", stmt.Schema.Table, f.DBName)
		}
	}
}

func TestAutoMigrateStrategy(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	s := NewAutoMigrateStrategy(logger.NewNopLogger())

	pending, err := s.Pending(ctx, db)
	require.NoError(t, err)
	assert.Len(t, pending, len(Models()))
	assert.Contains(t, pending, "table memberships")

	require.NoError(t, s.Up(ctx, db))
	pending, err = s.Pending(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assertModelsMigrated(t, db)
	assert.True(t, db.Migrator().HasIndex("group_members", "idx_group_member_chat_user"))

	require.NoError(t, s.Up(ctx, db), "migration is repeatable")
}

func TestGooseStrategy_SQLiteScripts(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	s, err := NewGooseStrategy("sqlite", logger.NewNopLogger())
	require.NoError(t, err)

	pending, err := s.Pending(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"script 00001_initial_schema.sql"}, pending)

	require.NoError(t, s.Up(ctx, db))
	pending, err = s.Pending(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, pending)

	version, err := s.Version(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	assertModelsMigrated(t, db)
	for table, index := range map[string]string{
		"memberships":     "idx_memberships_user_id",
		"membership_logs": "idx_membership_logs_subscription_id",
		"subscriptions":   "idx_subscriptions_invoice_id",
		"group_members":   "idx_group_member_chat_user",
	} {
		assert.True(t, db.Migrator().HasIndex(table, index), index)
	}

	require.NoError(t, s.Up(ctx, db), "no pending scripts is not an error")
}

func TestGooseStrategy_SchemaConstraints(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	s, err := NewGooseStrategy("sqlite", logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, s.Up(ctx, db))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertMembership := "INSERT INTO memberships (user_id, start_time, end_time, source) VALUES (?, ?, ?, ?)"
	require.NoError(t, db.Exec(insertMembership, 7, now, now, "admin").Error)
	assert.Error(t, db.Exec(insertMembership, 7, now, now, "admin").Error, "one membership per user")

	var version int
	require.NoError(t, db.Raw("SELECT version FROM memberships WHERE user_id = ?", 7).Scan(&version).Error)
	assert.Equal(t, 1, version)

	insertLog := "INSERT INTO membership_logs (user_id, subscription_id, operation, new_end_time) VALUES (?, ?, ?, ?)"
	require.NoError(t, db.Exec(insertLog, 7, 1, "new", now).Error)
	assert.Error(t, db.Exec(insertLog, 7, 1, "renew", now).Error, "one log per subscription")
	require.NoError(t, db.Exec(insertLog, 7, nil, "delete", now).Error)
	require.NoError(t, db.Exec(insertLog, 7, nil, "delete", now).Error, "delete logs carry no subscription")
}

func TestGooseStrategy_Down(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	s, err := NewGooseStrategy("sqlite", logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, s.Up(ctx, db))

	n, err := s.Down(ctx, db, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable("memberships"))

	n, err = s.Down(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Up(ctx, db))
	assert.True(t, db.Migrator().HasTable("memberships"))
}

func TestNewManager(t *testing.T) {
	log := logger.NewNopLogger()
	tests := []struct {
		name     string
		env      string
		driver   string
		override string
		want     string
		wantErr  bool
	}{
		{"development uses auto migrate", "development", "sqlite", "", StrategyAuto, false},
		{"production uses scripts", "production", "mysql", "", StrategyGoose, false},
		{"test uses scripts", "test", "sqlite", "", StrategyGoose, false},
		{"override wins", "production", "mysql", "auto", StrategyAuto, false},
		{"unknown strategy", "development", "sqlite", "flyway", "", true},
		{"no scripts for driver", "production", "postgres", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.env, tt.driver, tt.override, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Strategy().Name())
		})
	}
}

func TestManager_Rollback(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	log := logger.NewNopLogger()

	auto := NewManagerWithStrategy(NewAutoMigrateStrategy(log), log)
	_, err := auto.Rollback(ctx, db, 1)
	assert.Error(t, err)

	m, err := NewManager("test", "sqlite", "", log)
	require.NoError(t, err)
	require.NoError(t, m.Migrate(ctx, db))
	n, err := m.Rollback(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, err := m.Pending(ctx, db)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
