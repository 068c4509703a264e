package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// Manager handles database migrations with the strategy matching the driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose scripts for MySQL and gorm AutoMigrate for SQLite.
func NewManager(driver string, log logger.Interface) *Manager {
	var strategy Strategy
	switch driver {
	case "mysql":
		strategy = NewGooseStrategy("mysql", log)
	default:
		strategy = NewAutoMigrateStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())
	if err := m.strategy.Up(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive")
	}
	m.logger.Infow("rolling back migrations", "strategy", m.strategy.Name(), "steps", steps)
	return m.strategy.Down(db, steps)
}

func (m *Manager) Status(db *gorm.DB) error {
	return m.strategy.Status(db)
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}
