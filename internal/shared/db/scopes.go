package db

import (
	"gorm.io/gorm"
)

// UpToWeek restricts a week-keyed query to weeks at or before (year, week).
//
// Example usage:
//
//	db.Model(&models.WeekLogModel{}).Scopes(db.UpToWeek(2025, 3), db.NewestWeekFirst()).Limit(12).Find(&rows)
func UpToWeek(year, week int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("year < ? OR (year = ? AND week_number <= ?)", year, year, week)
	}
}

// ForWeek restricts a week-keyed query to exactly (year, week).
func ForWeek(year, week int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("year = ? AND week_number = ?", year, week)
	}
}

// NewestWeekFirst orders week-keyed rows from the most recent week backwards.
func NewestWeekFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("year DESC").Order("week_number DESC")
	}
}
