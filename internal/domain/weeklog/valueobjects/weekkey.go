package valueobjects

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// WeekKey identifies an ISO week. It is the natural key of a week log.
type WeekKey struct {
	Year int
	Week int
}

func NewWeekKey(year, week int) (WeekKey, error) {
	if year < MinYear || year > MaxYear {
		return WeekKey{}, fmt.Errorf("year %d outside %d-%d", year, MinYear, MaxYear)
	}
	if week < 1 || week > biztime.WeeksInYear(year) {
		return WeekKey{}, fmt.Errorf("week %d does not exist in ISO year %d", week, year)
	}
	return WeekKey{Year: year, Week: week}, nil
}

// WeekKeyAt returns the key of the ISO week containing t in the business timezone.
func WeekKeyAt(t time.Time) WeekKey {
	y, w := biztime.ISOWeek(t)
	return WeekKey{Year: y, Week: w}
}

var weekKeyPattern = regexp.MustCompile(`^(\d{4})-?[Ww]?(\d{1,2})$`)

// ParseWeekKey accepts "2025-W03", "2025W3" and "2025-3".
func ParseWeekKey(s string) (WeekKey, error) {
	m := weekKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return WeekKey{}, fmt.Errorf("invalid week %q, expected YYYY-Www", s)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	return NewWeekKey(year, week)
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

// Label is the Danish display form, e.g. "Uge 3, 2025".
func (k WeekKey) Label() string {
	return fmt.Sprintf("Uge %d, %d", k.Week, k.Year)
}

func (k WeekKey) IsZero() bool {
	return k.Year == 0 && k.Week == 0
}

func (k WeekKey) Before(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

// Window returns the Monday-Sunday span of the week in the business timezone.
func (k WeekKey) Window() biztime.WeekWindow {
	w, err := biztime.WindowFor(k.Year, k.Week)
	if err != nil {
		panic(fmt.Sprintf("week key %s was not validated: %v", k, err))
	}
	return w
}

func (k WeekKey) Previous() WeekKey {
	y, w := biztime.PreviousWeek(k.Year, k.Week)
	return WeekKey{Year: y, Week: w}
}
