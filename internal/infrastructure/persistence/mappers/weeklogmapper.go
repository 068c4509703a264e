package mappers

import (
	"fmt"

	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/models"
)

// WeekLogMapper handles the conversion between week log entities and persistence models.
type WeekLogMapper interface {
	ToModel(w *weeklog.WeekLog) *models.WeekLogModel
	ToDomain(model *models.WeekLogModel) (*weeklog.WeekLog, error)

	PriorityItemToModel(weekLogID uint, p *weeklog.PriorityItem) *models.PriorityItemModel
	PriorityItemToDomain(model *models.PriorityItemModel) (*weeklog.PriorityItem, error)
	AbsenceToModel(weekLogID uint, a *weeklog.Absence) *models.AbsenceModel
	AbsenceToDomain(model *models.AbsenceModel) (*weeklog.Absence, error)
	IncidentToModel(weekLogID uint, i *weeklog.Incident) *models.IncidentModel
	IncidentToDomain(model *models.IncidentModel) (*weeklog.Incident, error)
}

type weekLogMapper struct{}

func NewWeekLogMapper() WeekLogMapper {
	return &weekLogMapper{}
}

func (m *weekLogMapper) ToModel(w *weeklog.WeekLog) *models.WeekLogModel {
	return &models.WeekLogModel{
		ID:                   w.ID(),
		Year:                 w.Year(),
		WeekNumber:           w.Week(),
		HelpdeskNew:          w.HelpdeskNew(),
		HelpdeskClosed:       w.HelpdeskClosed(),
		HelpdeskOpen:         w.HelpdeskOpen(),
		LastSyncedAt:         w.LastSyncedAt(),
		Summary:              w.Summary(),
		MeetingSkipped:       w.MeetingSkipped(),
		MeetingSkippedReason: w.MeetingSkippedReason(),
		MeetingAttendees:     w.MeetingAttendees(),
		MeetingMinutes:       w.MeetingMinutes(),
		CreatedBy:            w.CreatedBy(),
		CreatedAt:            w.CreatedAt(),
		UpdatedAt:            w.UpdatedAt(),
	}
}

func (m *weekLogMapper) ToDomain(model *models.WeekLogModel) (*weeklog.WeekLog, error) {
	if model == nil {
		return nil, nil
	}
	w, err := weeklog.ReconstructWeekLog(weeklog.WeekLogState{
		ID:                   model.ID,
		Key:                  vo.WeekKey{Year: model.Year, Week: model.WeekNumber},
		HelpdeskNew:          model.HelpdeskNew,
		HelpdeskClosed:       model.HelpdeskClosed,
		HelpdeskOpen:         model.HelpdeskOpen,
		LastSyncedAt:         utcPtr(model.LastSyncedAt),
		Summary:              model.Summary,
		MeetingSkipped:       model.MeetingSkipped,
		MeetingSkippedReason: model.MeetingSkippedReason,
		MeetingAttendees:     model.MeetingAttendees,
		MeetingMinutes:       model.MeetingMinutes,
		CreatedBy:            model.CreatedBy,
		CreatedAt:            model.CreatedAt.UTC(),
		UpdatedAt:            model.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct week log %d: %w", model.ID, err)
	}
	return w, nil
}

func (m *weekLogMapper) PriorityItemToModel(weekLogID uint, p *weeklog.PriorityItem) *models.PriorityItemModel {
	return &models.PriorityItemModel{
		ID:          p.ID(),
		WeekLogID:   weekLogID,
		Title:       p.Title(),
		Description: p.Description(),
		Priority:    p.Priority().String(),
		Status:      p.Status().String(),
		Notes:       p.Notes(),
		SortOrder:   p.Order(),
		CreatedAt:   p.CreatedAt(),
	}
}

func (m *weekLogMapper) PriorityItemToDomain(model *models.PriorityItemModel) (*weeklog.PriorityItem, error) {
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, err
	}
	status, err := vo.NewTaskStatus(model.Status)
	if err != nil {
		return nil, err
	}
	return weeklog.ReconstructPriorityItem(model.ID, model.Title, model.Description, priority, status,
		model.Notes, model.SortOrder, model.CreatedAt.UTC()), nil
}

func (m *weekLogMapper) AbsenceToModel(weekLogID uint, a *weeklog.Absence) *models.AbsenceModel {
	return &models.AbsenceModel{
		ID:          a.ID(),
		WeekLogID:   weekLogID,
		StaffName:   a.StaffName(),
		AbsenceType: a.Type().String(),
		StartDate:   a.StartDate(),
		EndDate:     a.EndDate(),
		Notes:       a.Notes(),
		CreatedAt:   a.CreatedAt(),
	}
}

func (m *weekLogMapper) AbsenceToDomain(model *models.AbsenceModel) (*weeklog.Absence, error) {
	t, err := vo.NewAbsenceType(model.AbsenceType)
	if err != nil {
		return nil, err
	}
	return weeklog.ReconstructAbsence(model.ID, model.StaffName, t, model.StartDate, model.EndDate,
		model.Notes, model.CreatedAt.UTC()), nil
}

func (m *weekLogMapper) IncidentToModel(weekLogID uint, i *weeklog.Incident) *models.IncidentModel {
	return &models.IncidentModel{
		ID:           i.ID(),
		WeekLogID:    weekLogID,
		Title:        i.Title(),
		IncidentType: i.Type().String(),
		Severity:     i.Severity().String(),
		Description:  i.Description(),
		Resolution:   i.Resolution(),
		OccurredAt:   i.OccurredAt(),
		Resolved:     i.IsResolved(),
		CreatedAt:    i.CreatedAt(),
	}
}

func (m *weekLogMapper) IncidentToDomain(model *models.IncidentModel) (*weeklog.Incident, error) {
	t, err := vo.NewIncidentType(model.IncidentType)
	if err != nil {
		return nil, err
	}
	severity, err := vo.NewSeverity(model.Severity)
	if err != nil {
		return nil, err
	}
	return weeklog.ReconstructIncident(model.ID, model.Title, t, severity, model.Description, model.Resolution,
		model.OccurredAt.UTC(), model.Resolved, model.CreatedAt.UTC()), nil
}
