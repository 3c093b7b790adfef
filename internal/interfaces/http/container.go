package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/infrastructure/adapters"
	"github.com/orris-inc/vipgate/internal/infrastructure/auth"
	"github.com/orris-inc/vipgate/internal/infrastructure/config"
	"github.com/orris-inc/vipgate/internal/infrastructure/permission"
	"github.com/orris-inc/vipgate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/vipgate/internal/infrastructure/scheduler"
	"github.com/orris-inc/vipgate/internal/infrastructure/telegram"
	"github.com/orris-inc/vipgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/vipgate/internal/shared/biztime"
	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// Container wires storage, use cases, the Telegram client, HTTP handlers and the
// reconciliation scheduler together, and tears them down in Shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	clock  biztime.Clock
	redis  *redis.Client

	txMgr    *db.TransactionManager
	defaults setting.Defaults

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	jwtSvc      *auth.JWTService
	enforcer    *permission.Enforcer
	limiter     ratelimit.Limiter
	bot         *telegram.BotService
	groupClient *telegram.GroupClient
	notifier    *adapters.TelegramNotifierAdapter

	authMiddleware       *middleware.AuthMiddleware
	admissionMiddleware  *middleware.AdmissionMiddleware
	permissionMiddleware *middleware.PermissionMiddleware

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer builds every component. Nothing is started; see StartScheduler and Engine.
func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
		clock:  biztime.SystemClock(),
		txMgr:  db.NewTransactionManager(gdb),
		defaults: setting.Defaults{
			KickIntervalSeconds:     cfg.Enforcement.KickIntervalSeconds,
			RejoinDelayMinutes:      cfg.Enforcement.RejoinDelayMinutes,
			RecoveryIntervalSeconds: cfg.Enforcement.RecoveryIntervalSeconds,
		},
	}

	// Section 1: Infrastructure - Repositories, Telegram, Auth
	c.repos = newRepositories(gdb, log)
	c.bot = telegram.NewBotService(cfg.Telegram, log.Named("telegram"))
	c.groupClient = telegram.NewGroupClient(c.bot, log.Named("telegram"))
	c.notifier = adapters.NewTelegramNotifierAdapter(c.bot)
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), c.clock)

	enforcer, err := permission.NewEnforcer(log)
	if err != nil {
		return nil, err
	}
	c.enforcer = enforcer

	if err := c.initAdmission(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.ucs = c.newUseCases()

	// Section 3: Handlers and middlewares
	c.hdlrs = c.newHandlers()
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.ucs.manageAdmins, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)

	return c, nil
}

func (c *Container) initAdmission() error {
	bucket := ratelimit.TokenBucketConfig{
		Capacity:     c.cfg.Admission.Capacity,
		RefillPerSec: c.cfg.Admission.RefillPerSec,
		MaxActors:    c.cfg.Admission.MaxActors,
		IdleTTL:      c.cfg.Admission.IdleTTL(),
	}

	switch c.cfg.Admission.Backend {
	case "redis":
		c.redis = initRedis(c.cfg, c.log)
		limiter, err := ratelimit.NewRedisLimiter(c.redis, bucket, c.clock)
		if err != nil {
			return fmt.Errorf("failed to create redis admission limiter: %w", err)
		}
		c.limiter = limiter
	case "", "memory":
		limiter, err := ratelimit.NewMemoryLimiter(bucket, c.clock)
		if err != nil {
			return fmt.Errorf("failed to create admission limiter: %w", err)
		}
		c.limiter = limiter
	default:
		return fmt.Errorf("unknown admission backend %q", c.cfg.Admission.Backend)
	}

	c.admissionMiddleware = middleware.NewAdmissionMiddleware(c.limiter, bucket, c.log)
	c.log.Infow("admission control configured",
		"backend", c.cfg.Admission.Backend,
		"capacity", bucket.Capacity,
		"refill_per_sec", bucket.RefillPerSec,
	)
	return nil
}

// initRedis creates the Redis client. A failed ping is logged; the limiter admits requests
// while Redis is unreachable.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect to Redis", "addr", cfg.Redis.GetAddr(), "error", err)
	} else {
		log.Infow("Redis connection established successfully")
	}
	return redisClient
}

// Engine returns the gin engine with every route registered.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown stops the scheduler, waiting for running jobs, then releases Redis.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}

// IssueToken signs an admin API token for userID.
func (c *Container) IssueToken(userID int64) (string, time.Time, error) {
	return c.jwtSvc.Issue(userID)
}
