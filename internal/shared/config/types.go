package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`

	// MigrationStrategy is auto or goose; empty picks by environment.
	MigrationStrategy string `mapstructure:"migration_strategy"`
}

// GetDSN returns the MySQL DSN. All timestamps are stored and read as UTC.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type TelegramConfig struct {
	BotToken       string `mapstructure:"bot_token"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

// AdmissionConfig configures the per-actor token bucket.
type AdmissionConfig struct {
	Backend        string  `mapstructure:"backend"` // memory or redis
	Capacity       int     `mapstructure:"capacity"`
	RefillPerSec   float64 `mapstructure:"refill_per_sec"`
	MaxActors      int     `mapstructure:"max_actors"`
	IdleTTLMinutes int     `mapstructure:"idle_ttl_minutes"`
}

func (a *AdmissionConfig) IdleTTL() time.Duration {
	return time.Duration(a.IdleTTLMinutes) * time.Minute
}

type SchedulerConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	MaxConcurrentJobs      uint   `mapstructure:"max_concurrent_jobs"`
	SnapshotCron           string `mapstructure:"snapshot_cron"`
	ReminderCron           string `mapstructure:"reminder_cron"`
	ReminderWindowDays     int    `mapstructure:"reminder_window_days"`
	SnapshotStaleMinutes   int    `mapstructure:"snapshot_stale_minutes"`
	RemovalConcurrency     int    `mapstructure:"removal_concurrency"`
	SnapshotJobTimeoutMins int    `mapstructure:"snapshot_job_timeout_minutes"`
}

// EnforcementConfig holds the defaults used when the settings row is first created.
type EnforcementConfig struct {
	KickIntervalSeconds     int `mapstructure:"kick_interval_seconds"`
	RejoinDelayMinutes      int `mapstructure:"rejoin_delay_minutes"`
	RecoveryIntervalSeconds int `mapstructure:"recovery_interval_seconds"`
}

type AdminConfig struct {
	SuperAdminIDs []int64 `mapstructure:"super_admin_ids"`
}
