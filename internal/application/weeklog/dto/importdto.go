package dto

// ImportWeek is one week of historical data. Field tags serve both the YAML
// decoder and struct validation.
type ImportWeek struct {
	Week          string               `yaml:"week" validate:"required"`
	CreatedBy     string               `yaml:"created_by"`
	Helpdesk      *ImportHelpdesk      `yaml:"helpdesk"`
	Summary       string               `yaml:"summary"`
	Meeting       *ImportMeeting       `yaml:"meeting"`
	PriorityItems []ImportPriorityItem `yaml:"priority_items" validate:"dive"`
	Absences      []ImportAbsence      `yaml:"absences" validate:"dive"`
	Incidents     []ImportIncident     `yaml:"incidents" validate:"dive"`
	OnCall        *ImportOnCall        `yaml:"oncall"`
}

type ImportHelpdesk struct {
	New    *int `yaml:"new" validate:"omitempty,gte=0"`
	Closed *int `yaml:"closed" validate:"omitempty,gte=0"`
	Open   *int `yaml:"open" validate:"omitempty,gte=0"`
}

type ImportMeeting struct {
	Skipped   bool   `yaml:"skipped"`
	Reason    string `yaml:"reason" validate:"max=200"`
	Attendees string `yaml:"attendees"`
	Minutes   string `yaml:"minutes"`
}

type ImportPriorityItem struct {
	Title       string `yaml:"title" validate:"required,max=200"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority" validate:"omitempty,oneof=high medium low"`
	Status      string `yaml:"status" validate:"omitempty,oneof=not_started ongoing blocked completed"`
	Notes       string `yaml:"notes"`
}

type ImportAbsence struct {
	StaffName string `yaml:"staff" validate:"required,max=100"`
	Type      string `yaml:"type" validate:"required"`
	Start     string `yaml:"start" validate:"required,datetime=2006-01-02"`
	End       string `yaml:"end" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `yaml:"notes" validate:"max=200"`
}

type ImportIncident struct {
	Title       string `yaml:"title" validate:"required,max=200"`
	Type        string `yaml:"type" validate:"required"`
	Severity    string `yaml:"severity" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	Resolution  string `yaml:"resolution"`
	OccurredAt  string `yaml:"occurred_at" validate:"required"`
	Resolved    bool   `yaml:"resolved"`
}

type ImportOnCall struct {
	StaffName string `yaml:"staff" validate:"required"`
	Notes     string `yaml:"notes" validate:"max=200"`
}
