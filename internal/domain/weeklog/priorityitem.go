package weeklog

import (
	"fmt"
	"time"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

const maxTitleLength = 200

// PriorityItem is a task the department tracks for the week.
type PriorityItem struct {
	id          uint
	title       string
	description string
	priority    vo.Priority
	status      vo.TaskStatus
	notes       string
	order       int
	createdAt   time.Time
}

func NewPriorityItem(title, description string, priority vo.Priority, status vo.TaskStatus, notes string, order int) (*PriorityItem, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if order < 0 {
		return nil, fmt.Errorf("order cannot be negative")
	}
	return &PriorityItem{
		title:       title,
		description: description,
		priority:    priority,
		status:      status,
		notes:       notes,
		order:       order,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructPriorityItem(id uint, title, description string, priority vo.Priority, status vo.TaskStatus, notes string, order int, createdAt time.Time) *PriorityItem {
	return &PriorityItem{
		id:          id,
		title:       title,
		description: description,
		priority:    priority,
		status:      status,
		notes:       notes,
		order:       order,
		createdAt:   createdAt,
	}
}

func (p *PriorityItem) ID() uint              { return p.id }
func (p *PriorityItem) SetID(id uint)         { p.id = id }
func (p *PriorityItem) Title() string         { return p.title }
func (p *PriorityItem) Description() string   { return p.description }
func (p *PriorityItem) Priority() vo.Priority { return p.priority }
func (p *PriorityItem) Status() vo.TaskStatus { return p.status }
func (p *PriorityItem) Notes() string         { return p.notes }
func (p *PriorityItem) Order() int            { return p.order }
func (p *PriorityItem) CreatedAt() time.Time  { return p.createdAt }

// IsActive is false once the item is completed.
func (p *PriorityItem) IsActive() bool {
	return p.status != vo.TaskCompleted
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	return nil
}
