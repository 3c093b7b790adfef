package migration

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/shared/constants"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

const (
	StrategyAuto  = "auto"
	StrategyGoose = "goose"
)

// Strategy brings a database to the current schema.
type Strategy interface {
	Name() string
	Up(ctx context.Context, db *gorm.DB) error
	// Pending describes what Up would still do; empty means up to date.
	Pending(ctx context.Context, db *gorm.DB) ([]string, error)
}

// Reverter is implemented by strategies that can undo applied versions.
type Reverter interface {
	Down(ctx context.Context, db *gorm.DB, steps int) (int, error)
	Version(ctx context.Context, db *gorm.DB) (int64, error)
}

// Manager runs the strategy chosen for an environment.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks AutoMigrate for development and the versioned scripts for test and
// production. A non-empty name overrides the environment default.
func NewManager(environment, driver, name string, log logger.Interface) (*Manager, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		switch strings.ToLower(environment) {
		case constants.EnvTest, constants.EnvProduction:
			name = StrategyGoose
		default:
			name = StrategyAuto
		}
	}

	var strategy Strategy
	switch name {
	case StrategyAuto:
		strategy = NewAutoMigrateStrategy(log)
	case StrategyGoose:
		s, err := NewGooseStrategy(driver, log)
		if err != nil {
			return nil, err
		}
		strategy = s
	default:
		return nil, fmt.Errorf("unknown migration strategy %q", name)
	}

	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}

func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	if err := m.strategy.Up(ctx, db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}
	return nil
}

func (m *Manager) Pending(ctx context.Context, db *gorm.DB) ([]string, error) {
	return m.strategy.Pending(ctx, db)
}

// Rollback reverts up to steps versions. AutoMigrate cannot roll back.
func (m *Manager) Rollback(ctx context.Context, db *gorm.DB, steps int) (int, error) {
	r, ok := m.strategy.(Reverter)
	if !ok {
		return 0, fmt.Errorf("migration strategy %s does not support rollback", m.strategy.Name())
	}
	m.logger.Warnw("rolling back migrations", "strategy", m.strategy.Name(), "steps", steps)
	return r.Down(ctx, db, steps)
}
