package mappers

import (
	"time"

	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/models"
)

func OnCallDutyToModel(d *oncall.Duty) *models.OnCallDutyModel {
	return &models.OnCallDutyModel{
		ID:         d.ID(),
		Year:       d.Key().Year,
		WeekNumber: d.Key().Week,
		StaffName:  d.StaffName(),
		Notes:      d.Notes(),
		CreatedAt:  d.CreatedAt(),
		UpdatedAt:  d.UpdatedAt(),
	}
}

func OnCallDutyToDomain(model *models.OnCallDutyModel) *oncall.Duty {
	if model == nil {
		return nil
	}
	return oncall.ReconstructDuty(model.ID, vo.WeekKey{Year: model.Year, Week: model.WeekNumber},
		model.StaffName, model.Notes, model.CreatedAt.UTC(), model.UpdatedAt.UTC())
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
