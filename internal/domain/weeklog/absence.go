package weeklog

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

const (
	maxStaffNameLength    = 100
	maxAbsenceNotesLength = 200
)

var danishWeekdays = [...]string{"søndag", "mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag"}

var danishTitle = cases.Title(language.Danish)

// Absence records a staff member being away for part of the week.
// Dates are calendar dates; the time of day is ignored.
type Absence struct {
	id          uint
	staffName   string
	absenceType vo.AbsenceType
	startDate   time.Time
	endDate     time.Time
	notes       string
	createdAt   time.Time
}

func NewAbsence(staffName string, absenceType vo.AbsenceType, start, end time.Time, notes string) (*Absence, error) {
	if staffName == "" {
		return nil, fmt.Errorf("staff name is required")
	}
	if len([]rune(staffName)) > maxStaffNameLength {
		return nil, fmt.Errorf("staff name exceeds maximum length of %d characters", maxStaffNameLength)
	}
	if !absenceType.IsValid() {
		return nil, fmt.Errorf("invalid absence type")
	}
	if len([]rune(notes)) > maxAbsenceNotesLength {
		return nil, fmt.Errorf("notes exceed maximum length of %d characters", maxAbsenceNotesLength)
	}
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date is before start date")
	}
	return &Absence{
		staffName:   staffName,
		absenceType: absenceType,
		startDate:   start,
		endDate:     end,
		notes:       notes,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructAbsence(id uint, staffName string, absenceType vo.AbsenceType, start, end time.Time, notes string, createdAt time.Time) *Absence {
	return &Absence{
		id:          id,
		staffName:   staffName,
		absenceType: absenceType,
		startDate:   dateOnly(start),
		endDate:     dateOnly(end),
		notes:       notes,
		createdAt:   createdAt,
	}
}

func (a *Absence) ID() uint             { return a.id }
func (a *Absence) SetID(id uint)        { a.id = id }
func (a *Absence) StaffName() string    { return a.staffName }
func (a *Absence) Type() vo.AbsenceType { return a.absenceType }
func (a *Absence) StartDate() time.Time { return a.startDate }
func (a *Absence) EndDate() time.Time   { return a.endDate }
func (a *Absence) Notes() string        { return a.notes }
func (a *Absence) CreatedAt() time.Time { return a.createdAt }

// DurationDays counts calendar days, both ends inclusive.
func (a *Absence) DurationDays() int {
	return int(a.endDate.Sub(a.startDate).Hours()/24) + 1
}

// WeekdayRange renders the span in Danish, e.g. "Onsdag til fredag" or "Mandag".
func (a *Absence) WeekdayRange() string {
	start := danishTitle.String(danishWeekdays[a.startDate.Weekday()])
	if a.startDate.Equal(a.endDate) {
		return start
	}
	return start + " til " + danishWeekdays[a.endDate.Weekday()]
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
