package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/vipgate/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Auth        sharedConfig.AuthConfig        `mapstructure:"auth"`
	Telegram    sharedConfig.TelegramConfig    `mapstructure:"telegram"`
	Admission   sharedConfig.AdmissionConfig   `mapstructure:"admission"`
	Scheduler   sharedConfig.SchedulerConfig   `mapstructure:"scheduler"`
	Enforcement sharedConfig.EnforcementConfig `mapstructure:"enforcement"`
	Admin       sharedConfig.AdminConfig       `mapstructure:"admin"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (or configPath when set), then applies VIPGATE_* environment
// overrides. A .env file in the working directory is loaded first when present.
func Load(env, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("VIPGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the last loaded configuration, or nil before Load.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "vipgate")
	v.SetDefault("database.path", "vipgate.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.migration_strategy", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_ttl_hours", 24)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout_seconds", 10)
	v.SetDefault("telegram.max_retries", 3)

	v.SetDefault("admission.backend", "memory")
	v.SetDefault("admission.capacity", 5)
	v.SetDefault("admission.refill_per_sec", 1.0)
	v.SetDefault("admission.max_actors", 10000)
	v.SetDefault("admission.idle_ttl_minutes", 30)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.max_concurrent_jobs", 4)
	v.SetDefault("scheduler.snapshot_cron", "0 3 * * *")
	v.SetDefault("scheduler.reminder_cron", "2 17 * * *")
	v.SetDefault("scheduler.reminder_window_days", 7)
	v.SetDefault("scheduler.snapshot_stale_minutes", 60)
	v.SetDefault("scheduler.removal_concurrency", 8)
	v.SetDefault("scheduler.snapshot_job_timeout_minutes", 30)

	v.SetDefault("enforcement.kick_interval_seconds", 60)
	v.SetDefault("enforcement.rejoin_delay_minutes", 300)
	v.SetDefault("enforcement.recovery_interval_seconds", 300)

	v.SetDefault("admin.super_admin_ids", []int64{})
}
