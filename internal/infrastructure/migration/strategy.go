package migration

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

//go:embed scripts/*.sql
var scripts embed.FS

const scriptsDir = "scripts"

// Strategy defines the interface for different migration strategies
type Strategy interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB, steps int) error
	Status(db *gorm.DB) error
	Name() string
}

// GooseStrategy applies the embedded versioned SQL scripts (MySQL).
type GooseStrategy struct {
	dialect string
	logger  logger.Interface
}

func NewGooseStrategy(dialect string, log logger.Interface) Strategy {
	goose.SetBaseFS(scripts)
	return &GooseStrategy{
		dialect: dialect,
		logger:  log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) Up(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	from, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := goose.Up(sqlDB, scriptsDir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed", "from_version", from, "to_version", to)
	return nil
}

func (s *GooseStrategy) Down(db *gorm.DB, steps int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, scriptsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}
	s.logger.Infow("down migration completed", "steps", steps)
	return nil
}

func (s *GooseStrategy) Status(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Status(sqlDB, scriptsDir); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}

func (s *GooseStrategy) Name() string {
	return "goose"
}

// AutoMigrateStrategy creates and alters tables from the gorm models.
// Used for SQLite installs and tests, where versioned rollback is not needed.
type AutoMigrateStrategy struct {
	models []any
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface, models ...any) Strategy {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}
	return &AutoMigrateStrategy{
		models: models,
		logger: log.With("component", "migration.automigrate"),
	}
}

func (s *AutoMigrateStrategy) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(s.models...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	s.logger.Infow("auto-migration completed", "models", len(s.models))
	return nil
}

func (s *AutoMigrateStrategy) Down(db *gorm.DB, steps int) error {
	return fmt.Errorf("down migrations are not supported by the %s strategy", s.Name())
}

func (s *AutoMigrateStrategy) Status(db *gorm.DB) error {
	for _, m := range s.models {
		s.logger.Infow("table status", "model", fmt.Sprintf("%T", m), "exists", db.Migrator().HasTable(m))
	}
	return nil
}

func (s *AutoMigrateStrategy) Name() string {
	return "gorm_automigrate"
}
