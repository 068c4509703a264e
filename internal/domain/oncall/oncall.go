// Package oncall tracks which staff member carries the on-call phone each week.
package oncall

import (
	"context"
	"fmt"
	"time"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

const maxNotesLength = 200

type Duty struct {
	id        uint
	key       vo.WeekKey
	staffName string
	notes     string
	createdAt time.Time
	updatedAt time.Time
}

func NewDuty(key vo.WeekKey, staffName, notes string) (*Duty, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("week key is required")
	}
	if err := validate(staffName, notes); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Duty{key: key, staffName: staffName, notes: notes, createdAt: now, updatedAt: now}, nil
}

func ReconstructDuty(id uint, key vo.WeekKey, staffName, notes string, createdAt, updatedAt time.Time) *Duty {
	return &Duty{id: id, key: key, staffName: staffName, notes: notes, createdAt: createdAt, updatedAt: updatedAt}
}

func (d *Duty) ID() uint             { return d.id }
func (d *Duty) SetID(id uint)        { d.id = id }
func (d *Duty) Key() vo.WeekKey      { return d.key }
func (d *Duty) StaffName() string    { return d.staffName }
func (d *Duty) Notes() string        { return d.notes }
func (d *Duty) CreatedAt() time.Time { return d.createdAt }
func (d *Duty) UpdatedAt() time.Time { return d.updatedAt }

// Reassign hands the week to another staff member.
func (d *Duty) Reassign(staffName, notes string) error {
	if err := validate(staffName, notes); err != nil {
		return err
	}
	d.staffName = staffName
	d.notes = notes
	d.updatedAt = time.Now().UTC()
	return nil
}

func validate(staffName, notes string) error {
	if staffName == "" {
		return fmt.Errorf("staff name is required")
	}
	if len([]rune(notes)) > maxNotesLength {
		return fmt.Errorf("notes exceed maximum length of %d characters", maxNotesLength)
	}
	return nil
}

type Repository interface {
	// Assign creates or replaces the duty for the duty's week.
	Assign(ctx context.Context, d *Duty) error
	// FindByWeek returns nil when nobody is assigned.
	FindByWeek(ctx context.Context, key vo.WeekKey) (*Duty, error)
}
