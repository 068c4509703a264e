package models

import "time"

type OnCallDutyModel struct {
	ID         uint      `gorm:"primaryKey"`
	Year       int       `gorm:"not null;uniqueIndex:idx_oncall_week,priority:1"`
	WeekNumber int       `gorm:"not null;uniqueIndex:idx_oncall_week,priority:2"`
	StaffName  string    `gorm:"size:150;not null"`
	Notes      string    `gorm:"size:200;not null;default:''"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (OnCallDutyModel) TableName() string {
	return "oncall_duties"
}
