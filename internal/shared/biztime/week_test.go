package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		wantYear int
		wantWeek int
	}{
		{"monday of week 1 in previous december", time.Date(2024, 12, 30, 12, 0, 0, 0, Location()), 2025, 1},
		{"sunday before it", time.Date(2024, 12, 29, 12, 0, 0, 0, Location()), 2024, 52},
		{"long year week 53", time.Date(2020, 12, 31, 12, 0, 0, 0, Location()), 2020, 53},
		{"january belonging to week 53", time.Date(2021, 1, 3, 12, 0, 0, 0, Location()), 2020, 53},
		{"mid january", time.Date(2025, 1, 15, 9, 30, 0, 0, Location()), 2025, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, w := ISOWeek(tt.date)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantWeek, w)
		})
	}
}

func TestISOWeek_UsesBusinessTimezone(t *testing.T) {
	// Sunday 23:30 UTC is already Monday in Copenhagen.
	utc := time.Date(2025, 1, 12, 23, 30, 0, 0, time.UTC)
	y, w := ISOWeek(utc)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 3, w)
}

func TestWeeksInYear(t *testing.T) {
	assert.Equal(t, 53, WeeksInYear(2020))
	assert.Equal(t, 52, WeeksInYear(2021))
	assert.Equal(t, 52, WeeksInYear(2025))
	assert.Equal(t, 53, WeeksInYear(2026))
}

func TestWindowFor(t *testing.T) {
	w, err := WindowFor(2025, 3)
	require.NoError(t, err)

	start := w.Start.In(Location())
	end := w.End.In(Location())

	assert.Equal(t, time.Monday, start.Weekday())
	assert.True(t, time.Date(2025, 1, 13, 0, 0, 0, 0, Location()).Equal(start))
	assert.Equal(t, time.Sunday, end.Weekday())
	assert.True(t, time.Date(2025, 1, 19, 23, 59, 59, int(999*time.Millisecond), Location()).Equal(end))
	assert.Equal(t, int64(7*24*3600*1000-1), w.EndMillis()-w.StartMillis())
	assert.Equal(t, "2025-W03", w.String())
}

func TestWindowFor_DSTWeek(t *testing.T) {
	// Week containing the March 2025 DST switch is one hour short.
	w, err := WindowFor(2025, 13)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Start.In(Location()).Hour())
	assert.Equal(t, 23, w.End.In(Location()).Hour())
	assert.Equal(t, 7*24*time.Hour-time.Hour-time.Millisecond, w.End.Sub(w.Start))
}

func TestWindowFor_InvalidWeek(t *testing.T) {
	_, err := WindowFor(2021, 53)
	assert.Error(t, err)

	_, err = WindowFor(2025, 0)
	assert.Error(t, err)

	_, err = WindowFor(2020, 53)
	assert.NoError(t, err)
}

func TestWindowAt_ContainsInstant(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, Location())
	w := WindowAt(now)
	assert.Equal(t, 2025, w.Year)
	assert.Equal(t, 3, w.Week)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(w.End.Add(time.Millisecond)))
	assert.True(t, w.Contains(w.Start))
}

func TestPreviousWeek(t *testing.T) {
	y, w := PreviousWeek(2025, 3)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 2, w)

	y, w = PreviousWeek(2021, 1)
	assert.Equal(t, 2020, y)
	assert.Equal(t, 53, w)
}
