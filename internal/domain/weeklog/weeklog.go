// Package weeklog holds the weekly IT log aggregate: helpdesk counts, the
// narrative summary, Monday meeting notes and the week's tasks, absences
// and incidents.
package weeklog

import (
	"fmt"
	"time"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

const maxSkipReasonLength = 200

// SyncedCounts is what a reconciliation writes. Open is nil when the remote
// cannot report it for the week in question.
type SyncedCounts struct {
	New    int
	Closed int
	Open   *int
}

type WeekLog struct {
	id                   uint
	key                  vo.WeekKey
	helpdeskNew          *int
	helpdeskClosed       *int
	helpdeskOpen         *int
	lastSyncedAt         *time.Time
	summary              string
	meetingSkipped       bool
	meetingSkippedReason string
	meetingAttendees     string
	meetingMinutes       string
	createdBy            string
	createdAt            time.Time
	updatedAt            time.Time
	priorityItems        []*PriorityItem
	absences             []*Absence
	incidents            []*Incident
}

// NewWeekLog creates an empty log for key. The key must come from vo.NewWeekKey.
func NewWeekLog(key vo.WeekKey, createdBy string) (*WeekLog, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("week key is required")
	}
	now := time.Now().UTC()
	return &WeekLog{
		key:       key,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewSyncedWeekLog creates the log a reconciliation inserts when the week has no row yet.
func NewSyncedWeekLog(key vo.WeekKey, counts SyncedCounts, syncedAt time.Time) (*WeekLog, error) {
	w, err := NewWeekLog(key, "")
	if err != nil {
		return nil, err
	}
	w.applySync(counts, syncedAt)
	return w, nil
}

// WeekLogState carries persisted values back into the aggregate.
type WeekLogState struct {
	ID                   uint
	Key                  vo.WeekKey
	HelpdeskNew          *int
	HelpdeskClosed       *int
	HelpdeskOpen         *int
	LastSyncedAt         *time.Time
	Summary              string
	MeetingSkipped       bool
	MeetingSkippedReason string
	MeetingAttendees     string
	MeetingMinutes       string
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func ReconstructWeekLog(s WeekLogState) (*WeekLog, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("week log ID cannot be zero")
	}
	if _, err := vo.NewWeekKey(s.Key.Year, s.Key.Week); err != nil {
		return nil, err
	}
	return &WeekLog{
		id:                   s.ID,
		key:                  s.Key,
		helpdeskNew:          s.HelpdeskNew,
		helpdeskClosed:       s.HelpdeskClosed,
		helpdeskOpen:         s.HelpdeskOpen,
		lastSyncedAt:         s.LastSyncedAt,
		summary:              s.Summary,
		meetingSkipped:       s.MeetingSkipped,
		meetingSkippedReason: s.MeetingSkippedReason,
		meetingAttendees:     s.MeetingAttendees,
		meetingMinutes:       s.MeetingMinutes,
		createdBy:            s.CreatedBy,
		createdAt:            s.CreatedAt,
		updatedAt:            s.UpdatedAt,
	}, nil
}

func (w *WeekLog) ID() uint {
	return w.id
}

func (w *WeekLog) SetID(id uint) error {
	if w.id != 0 {
		return fmt.Errorf("week log ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("week log ID cannot be zero")
	}
	w.id = id
	return nil
}

func (w *WeekLog) Key() vo.WeekKey {
	return w.key
}

func (w *WeekLog) Year() int {
	return w.key.Year
}

func (w *WeekLog) Week() int {
	return w.key.Week
}

// Label is the Danish display form, e.g. "Uge 3, 2025".
func (w *WeekLog) Label() string {
	return w.key.Label()
}

func (w *WeekLog) HelpdeskNew() *int {
	return w.helpdeskNew
}

func (w *WeekLog) HelpdeskClosed() *int {
	return w.helpdeskClosed
}

func (w *WeekLog) HelpdeskOpen() *int {
	return w.helpdeskOpen
}

// HelpdeskDelta is new minus closed. ok is false until both are known.
func (w *WeekLog) HelpdeskDelta() (delta int, ok bool) {
	if w.helpdeskNew == nil || w.helpdeskClosed == nil {
		return 0, false
	}
	return *w.helpdeskNew - *w.helpdeskClosed, true
}

func (w *WeekLog) HasHelpdeskData() bool {
	return w.helpdeskNew != nil || w.helpdeskClosed != nil || w.helpdeskOpen != nil
}

func (w *WeekLog) LastSyncedAt() *time.Time {
	return w.lastSyncedAt
}

func (w *WeekLog) Summary() string {
	return w.summary
}

func (w *WeekLog) MeetingSkipped() bool {
	return w.meetingSkipped
}

func (w *WeekLog) MeetingSkippedReason() string {
	return w.meetingSkippedReason
}

func (w *WeekLog) MeetingAttendees() string {
	return w.meetingAttendees
}

func (w *WeekLog) MeetingMinutes() string {
	return w.meetingMinutes
}

func (w *WeekLog) CreatedBy() string {
	return w.createdBy
}

func (w *WeekLog) CreatedAt() time.Time {
	return w.createdAt
}

func (w *WeekLog) UpdatedAt() time.Time {
	return w.updatedAt
}

// SetHelpdeskCounts records counts entered by hand. A nil pointer leaves
// that count unchanged. Manual edits never move LastSyncedAt.
func (w *WeekLog) SetHelpdeskCounts(newCount, closed, open *int) error {
	for name, v := range map[string]*int{"new": newCount, "closed": closed, "open": open} {
		if v != nil && *v < 0 {
			return fmt.Errorf("helpdesk %s count cannot be negative", name)
		}
	}
	if newCount != nil {
		w.helpdeskNew = intPtr(*newCount)
	}
	if closed != nil {
		w.helpdeskClosed = intPtr(*closed)
	}
	if open != nil {
		w.helpdeskOpen = intPtr(*open)
	}
	w.touch()
	return nil
}

func (w *WeekLog) applySync(c SyncedCounts, at time.Time) {
	w.helpdeskNew = intPtr(c.New)
	w.helpdeskClosed = intPtr(c.Closed)
	if c.Open != nil {
		w.helpdeskOpen = intPtr(*c.Open)
	}
	synced := at.UTC()
	w.lastSyncedAt = &synced
	w.updatedAt = synced
}

func (w *WeekLog) UpdateSummary(summary string) {
	w.summary = summary
	w.touch()
}

// RecordMeeting stores attendees and minutes and clears a previous cancellation.
func (w *WeekLog) RecordMeeting(attendees, minutes string) {
	w.meetingSkipped = false
	w.meetingSkippedReason = ""
	w.meetingAttendees = attendees
	w.meetingMinutes = minutes
	w.touch()
}

func (w *WeekLog) SkipMeeting(reason string) error {
	if len([]rune(reason)) > maxSkipReasonLength {
		return fmt.Errorf("skip reason exceeds maximum length of %d characters", maxSkipReasonLength)
	}
	w.meetingSkipped = true
	w.meetingSkippedReason = reason
	w.touch()
	return nil
}

func (w *WeekLog) PriorityItems() []*PriorityItem {
	return append([]*PriorityItem(nil), w.priorityItems...)
}

// ActivePriorityItems returns items that are not completed.
func (w *WeekLog) ActivePriorityItems() []*PriorityItem {
	var out []*PriorityItem
	for _, p := range w.priorityItems {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

func (w *WeekLog) Absences() []*Absence {
	return append([]*Absence(nil), w.absences...)
}

func (w *WeekLog) Incidents() []*Incident {
	return append([]*Incident(nil), w.incidents...)
}

func (w *WeekLog) AddPriorityItem(p *PriorityItem) {
	w.priorityItems = append(w.priorityItems, p)
}

func (w *WeekLog) AddAbsence(a *Absence) {
	w.absences = append(w.absences, a)
}

func (w *WeekLog) AddIncident(i *Incident) {
	w.incidents = append(w.incidents, i)
}

func (w *WeekLog) touch() {
	w.updatedAt = time.Now().UTC()
}

func intPtr(v int) *int {
	return &v
}
