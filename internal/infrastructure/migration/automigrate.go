// Package migration keeps the relational schema in step with the persistence models.
package migration

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// Models lists every table the service owns, in creation order.
func Models() []any {
	return []any{
		&models.SubscriptionModel{},
		&models.MembershipModel{},
		&models.MembershipLogModel{},
		&models.ChannelConfigModel{},
		&models.GroupMemberModel{},
		&models.KickLogModel{},
		&models.EnforcementSettingModel{},
		&models.AdminModel{},
	}
}

// AutoMigrateStrategy derives the schema from the models. It creates missing tables, columns
// and indexes and never drops anything.
type AutoMigrateStrategy struct {
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface) *AutoMigrateStrategy {
	return &AutoMigrateStrategy{logger: log}
}

func (s *AutoMigrateStrategy) Name() string {
	return StrategyAuto
}

func (s *AutoMigrateStrategy) Up(ctx context.Context, db *gorm.DB) error {
	start := time.Now()
	all := Models()
	s.logger.Infow("starting schema migration", "strategy", s.Name(), "models", len(all))

	if err := db.WithContext(ctx).AutoMigrate(all...); err != nil {
		s.logger.Errorw("schema migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("schema migration completed", "duration", time.Since(start))
	return nil
}

// Pending returns the tables that do not exist yet.
func (s *AutoMigrateStrategy) Pending(ctx context.Context, db *gorm.DB) ([]string, error) {
	db = db.WithContext(ctx)
	var missing []string
	for _, m := range Models() {
		if db.Migrator().HasTable(m) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		missing = append(missing, "table "+stmt.Schema.Table)
	}
	return missing, nil
}
