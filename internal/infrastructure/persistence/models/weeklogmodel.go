package models

import "time"

// WeekLogModel is one row per ISO week. Counts stay NULL until recorded.
type WeekLogModel struct {
	ID                   uint       `gorm:"primaryKey"`
	Year                 int        `gorm:"not null;uniqueIndex:idx_week_logs_week,priority:1"`
	WeekNumber           int        `gorm:"not null;uniqueIndex:idx_week_logs_week,priority:2"`
	HelpdeskNew          *int       `gorm:"column:helpdesk_new"`
	HelpdeskClosed       *int       `gorm:"column:helpdesk_closed"`
	HelpdeskOpen         *int       `gorm:"column:helpdesk_open"`
	LastSyncedAt         *time.Time `gorm:"column:last_synced_at"`
	Summary              string     `gorm:"type:text;not null;default:''"`
	MeetingSkipped       bool       `gorm:"not null;default:false"`
	MeetingSkippedReason string     `gorm:"size:200;not null;default:''"`
	MeetingAttendees     string     `gorm:"type:text;not null;default:''"`
	MeetingMinutes       string     `gorm:"type:text;not null;default:''"`
	CreatedBy            string     `gorm:"size:150;not null;default:''"`
	CreatedAt            time.Time  `gorm:"not null"`
	UpdatedAt            time.Time  `gorm:"not null"`
}

func (WeekLogModel) TableName() string {
	return "week_logs"
}

type PriorityItemModel struct {
	ID          uint      `gorm:"primaryKey"`
	WeekLogID   uint      `gorm:"not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Priority    string    `gorm:"size:20;not null"`
	Status      string    `gorm:"size:20;not null"`
	Notes       string    `gorm:"type:text;not null;default:''"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (PriorityItemModel) TableName() string {
	return "priority_items"
}

type AbsenceModel struct {
	ID          uint      `gorm:"primaryKey"`
	WeekLogID   uint      `gorm:"not null;index"`
	StaffName   string    `gorm:"size:100;not null"`
	AbsenceType string    `gorm:"size:20;not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Notes       string    `gorm:"size:200;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (AbsenceModel) TableName() string {
	return "absences"
}

type IncidentModel struct {
	ID           uint      `gorm:"primaryKey"`
	WeekLogID    uint      `gorm:"not null;index"`
	Title        string    `gorm:"size:200;not null"`
	IncidentType string    `gorm:"size:20;not null"`
	Severity     string    `gorm:"size:20;not null"`
	Description  string    `gorm:"type:text;not null"`
	Resolution   string    `gorm:"type:text;not null;default:''"`
	OccurredAt   time.Time `gorm:"not null"`
	Resolved     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (IncidentModel) TableName() string {
	return "incidents"
}

// Note: No foreign key constraints or associations.
// Child rows are removed by the repository when a week log is deleted.
