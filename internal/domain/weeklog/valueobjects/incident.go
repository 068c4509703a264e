package valueobjects

import "fmt"

type IncidentType string

const (
	IncidentSecurity IncidentType = "security"
	IncidentSystem   IncidentType = "system"
	IncidentNetwork  IncidentType = "network"
	IncidentData     IncidentType = "data"
	IncidentOther    IncidentType = "other"
)

var incidentTypeLabels = map[IncidentType]string{
	IncidentSecurity: "Sikkerhed",
	IncidentSystem:   "Systemfejl",
	IncidentNetwork:  "Netværk",
	IncidentData:     "Data",
	IncidentOther:    "Andet",
}

func NewIncidentType(s string) (IncidentType, error) {
	t := IncidentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid incident type: %s", s)
	}
	return t, nil
}

func (t IncidentType) String() string {
	return string(t)
}

func (t IncidentType) IsValid() bool {
	_, ok := incidentTypeLabels[t]
	return ok
}

func (t IncidentType) Label() string {
	return incidentTypeLabels[t]
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityLabels = map[Severity]string{
	SeverityCritical: "Kritisk",
	SeverityHigh:     "Høj",
	SeverityMedium:   "Medium",
	SeverityLow:      "Lav",
}

func NewSeverity(s string) (Severity, error) {
	sv := Severity(s)
	if !sv.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return sv, nil
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) IsValid() bool {
	_, ok := severityLabels[s]
	return ok
}

func (s Severity) Label() string {
	return severityLabels[s]
}
