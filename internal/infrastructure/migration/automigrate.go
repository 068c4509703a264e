package migration

import (
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models the gorm strategy creates. Keep in step
// with the goose scripts.
func AutoMigrateModels() []any {
	return []any{
		&models.WeekLogModel{},
		&models.PriorityItemModel{},
		&models.AbsenceModel{},
		&models.IncidentModel{},
		&models.OnCallDutyModel{},
	}
}
