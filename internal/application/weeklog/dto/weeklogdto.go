package dto

import (
	"time"

	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
)

type WeekLogDTO struct {
	ID                   uint              `json:"id"`
	Week                 string            `json:"week"`
	Label                string            `json:"label"`
	Year                 int               `json:"year"`
	WeekNumber           int               `json:"week_number"`
	HelpdeskNew          *int              `json:"helpdesk_new"`
	HelpdeskClosed       *int              `json:"helpdesk_closed"`
	HelpdeskOpen         *int              `json:"helpdesk_open"`
	LastSyncedAt         *time.Time        `json:"last_synced_at"`
	Summary              string            `json:"summary"`
	MeetingSkipped       bool              `json:"meeting_skipped"`
	MeetingSkippedReason string            `json:"meeting_skipped_reason,omitempty"`
	MeetingAttendees     string            `json:"meeting_attendees,omitempty"`
	MeetingMinutes       string            `json:"meeting_minutes,omitempty"`
	PriorityItems        []PriorityItemDTO `json:"priority_items"`
	Absences             []AbsenceDTO      `json:"absences"`
	Incidents            []IncidentDTO     `json:"incidents"`
	OnCall               *OnCallDTO        `json:"oncall,omitempty"`
	CreatedBy            string            `json:"created_by,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

type PriorityItemDTO struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
}

type AbsenceDTO struct {
	StaffName string `json:"staff_name"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	Notes     string `json:"notes,omitempty"`
}

type IncidentDTO struct {
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Resolution  string    `json:"resolution,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Resolved    bool      `json:"resolved"`
}

type OnCallDTO struct {
	StaffName string `json:"staff_name"`
	Notes     string `json:"notes,omitempty"`
}

const dateLayout = "2006-01-02"

func ToWeekLogDTO(w *weeklog.WeekLog, duty *oncall.Duty) *WeekLogDTO {
	if w == nil {
		return nil
	}
	out := &WeekLogDTO{
		ID:                   w.ID(),
		Week:                 w.Key().String(),
		Label:                w.Label(),
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
		PriorityItems:        []PriorityItemDTO{},
		Absences:             []AbsenceDTO{},
		Incidents:            []IncidentDTO{},
	}
	for _, p := range w.PriorityItems() {
		out.PriorityItems = append(out.PriorityItems, PriorityItemDTO{
			Title:       p.Title(),
			Description: p.Description(),
			Priority:    p.Priority().String(),
			Status:      p.Status().String(),
			Notes:       p.Notes(),
		})
	}
	for _, a := range w.Absences() {
		out.Absences = append(out.Absences, AbsenceDTO{
			StaffName: a.StaffName(),
			Type:      a.Type().String(),
			StartDate: a.StartDate().Format(dateLayout),
			EndDate:   a.EndDate().Format(dateLayout),
			Days:      a.DurationDays(),
			Notes:     a.Notes(),
		})
	}
	for _, i := range w.Incidents() {
		out.Incidents = append(out.Incidents, IncidentDTO{
			Title:       i.Title(),
			Type:        i.Type().String(),
			Severity:    i.Severity().String(),
			Description: i.Description(),
			Resolution:  i.Resolution(),
			OccurredAt:  i.OccurredAt(),
			Resolved:    i.IsResolved(),
		})
	}
	if duty != nil {
		out.OnCall = &OnCallDTO{StaffName: duty.StaffName(), Notes: duty.Notes()}
	}
	return out
}
