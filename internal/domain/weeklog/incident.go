package weeklog

import (
	"fmt"
	"time"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

// Incident documents a security or operational event during the week.
type Incident struct {
	id           uint
	title        string
	incidentType vo.IncidentType
	severity     vo.Severity
	description  string
	resolution   string
	occurredAt   time.Time
	resolved     bool
	createdAt    time.Time
}

func NewIncident(title string, incidentType vo.IncidentType, severity vo.Severity, description string, occurredAt time.Time) (*Incident, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !incidentType.IsValid() {
		return nil, fmt.Errorf("invalid incident type")
	}
	if !severity.IsValid() {
		return nil, fmt.Errorf("invalid severity")
	}
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if occurredAt.IsZero() {
		return nil, fmt.Errorf("occurred at is required")
	}
	return &Incident{
		title:        title,
		incidentType: incidentType,
		severity:     severity,
		description:  description,
		occurredAt:   occurredAt.UTC(),
		createdAt:    time.Now().UTC(),
	}, nil
}

func ReconstructIncident(id uint, title string, incidentType vo.IncidentType, severity vo.Severity, description, resolution string, occurredAt time.Time, resolved bool, createdAt time.Time) *Incident {
	return &Incident{
		id:           id,
		title:        title,
		incidentType: incidentType,
		severity:     severity,
		description:  description,
		resolution:   resolution,
		occurredAt:   occurredAt,
		resolved:     resolved,
		createdAt:    createdAt,
	}
}

func (i *Incident) ID() uint              { return i.id }
func (i *Incident) SetID(id uint)         { i.id = id }
func (i *Incident) Title() string         { return i.title }
func (i *Incident) Type() vo.IncidentType { return i.incidentType }
func (i *Incident) Severity() vo.Severity { return i.severity }
func (i *Incident) Description() string   { return i.description }
func (i *Incident) Resolution() string    { return i.resolution }
func (i *Incident) OccurredAt() time.Time { return i.occurredAt }
func (i *Incident) IsResolved() bool      { return i.resolved }
func (i *Incident) CreatedAt() time.Time  { return i.createdAt }

// Resolve marks the incident resolved with the given resolution text.
func (i *Incident) Resolve(resolution string) {
	i.resolution = resolution
	i.resolved = true
}
