package biztime

import (
	"fmt"
	"time"
)

// WeekWindow is the span of one ISO week in the business timezone:
// Monday 00:00:00.000 through Sunday 23:59:59.999.
type WeekWindow struct {
	Year  int
	Week  int
	Start time.Time
	End   time.Time
}

// StartMillis returns the window start as Unix milliseconds.
func (w WeekWindow) StartMillis() int64 {
	return w.Start.UnixMilli()
}

// EndMillis returns the window end as Unix milliseconds.
func (w WeekWindow) EndMillis() int64 {
	return w.End.UnixMilli()
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w WeekWindow) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// ISOWeek returns the ISO year and week of t, evaluated in the business timezone.
func ISOWeek(t time.Time) (year, week int) {
	return t.In(Location()).ISOWeek()
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in the given ISO year.
func WeeksInYear(year int) int {
	// Dec 28 always falls in the last ISO week of its year.
	_, w := time.Date(year, time.December, 28, 12, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// MondayOfWeek returns Monday 00:00 of the ISO week in the business timezone.
func MondayOfWeek(year, week int) time.Time {
	// Jan 4 is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, Location())
	offset := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -offset)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// WindowFor returns the window of an explicit ISO year and week.
func WindowFor(year, week int) (WeekWindow, error) {
	if week < 1 || week > WeeksInYear(year) {
		return WeekWindow{}, fmt.Errorf("week %d out of range for ISO year %d", week, year)
	}
	monday := MondayOfWeek(year, week)
	// AddDate keeps wall-clock time across DST changes.
	nextMonday := monday.AddDate(0, 0, 7)
	return WeekWindow{
		Year:  year,
		Week:  week,
		Start: monday,
		End:   nextMonday.Add(-time.Millisecond),
	}, nil
}

// WindowAt returns the window of the ISO week containing t.
func WindowAt(t time.Time) WeekWindow {
	year, week := ISOWeek(t)
	w, _ := WindowFor(year, week)
	return w
}

// PreviousWeek returns the ISO year and week preceding (year, week).
func PreviousWeek(year, week int) (int, int) {
	if week > 1 {
		return year, week - 1
	}
	return year - 1, WeeksInYear(year - 1)
}
