package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/infrastructure/database"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

//go:embed scripts
var scripts embed.FS

// GooseStrategy applies the versioned SQL scripts embedded for the configured driver.
// Applied versions are tracked in goose_db_version.
type GooseStrategy struct {
	dialect goose.Dialect
	scripts fs.FS
	logger  logger.Interface
}

func NewGooseStrategy(driver string, log logger.Interface) (*GooseStrategy, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch strings.ToLower(driver) {
	case database.DriverMySQL, "":
		dialect, dir = goose.DialectMySQL, "mysql"
	case database.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "sqlite3"
	default:
		return nil, fmt.Errorf("no migration scripts for database driver %q", driver)
	}

	sub, err := fs.Sub(scripts, path.Join("scripts", dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts: %w", err)
	}
	return &GooseStrategy{
		dialect: dialect,
		scripts: sub,
		logger:  log.With("component", "migration.goose"),
	}, nil
}

func (s *GooseStrategy) Name() string {
	return StrategyGoose
}

// provider is not closed: closing it would close the shared pool.
func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	p, err := goose.NewProvider(s.dialect, sqlDB, s.scripts)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

func (s *GooseStrategy) Up(ctx context.Context, db *gorm.DB) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}

	from, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	s.logger.Infow("starting goose migration", "dialect", s.dialect, "version", from)

	results, err := p.Up(ctx)
	if err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	to, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}
	s.logger.Infow("migration completed successfully", "from_version", from, "to_version", to)
	return nil
}

// Pending lists the scripts not applied yet.
func (s *GooseStrategy) Pending(ctx context.Context, db *gorm.DB) ([]string, error) {
	p, err := s.provider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	var pending []string
	for _, st := range statuses {
		if st.State == goose.StatePending {
			pending = append(pending, "script "+path.Base(st.Source.Path))
		}
	}
	return pending, nil
}

// Down rolls back up to steps applied scripts and returns how many were reverted.
func (s *GooseStrategy) Down(ctx context.Context, db *gorm.DB, steps int) (int, error) {
	p, err := s.provider(db)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for reverted < steps {
		r, err := p.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		}
		if err != nil {
			s.logger.Errorw("down migration failed", "error", err)
			return reverted, fmt.Errorf("failed to run down migration: %w", err)
		}
		s.logger.Infow("migration reverted", "version", r.Source.Version)
		reverted++
	}
	return reverted, nil
}

func (s *GooseStrategy) Version(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := s.provider(db)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}
