package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

func TestNewWeekKey(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		week    int
		wantErr bool
	}{
		{"regular week", 2025, 3, false},
		{"week 53 in long year", 2020, 53, false},
		{"week 53 in short year", 2021, 53, true},
		{"week zero", 2025, 0, true},
		{"year before range", 1999, 10, true},
		{"year after range", 2101, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewWeekKey(tt.year, tt.week)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, k.Year)
			assert.Equal(t, tt.week, k.Week)
		})
	}
}

func TestParseWeekKey(t *testing.T) {
	for _, in := range []string{"2025-W03", "2025W3", "2025-3", "2025-w03"} {
		k, err := ParseWeekKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, WeekKey{Year: 2025, Week: 3}, k, in)
	}

	_, err := ParseWeekKey("uge 3")
	assert.Error(t, err)
	_, err = ParseWeekKey("2021-W53")
	assert.Error(t, err)
}

func TestWeekKey_Formatting(t *testing.T) {
	k := WeekKey{Year: 2025, Week: 3}
	assert.Equal(t, "2025-W03", k.String())
	assert.Equal(t, "Uge 3, 2025", k.Label())
}

func TestWeekKey_Ordering(t *testing.T) {
	assert.True(t, WeekKey{Year: 2024, Week: 52}.Before(WeekKey{Year: 2025, Week: 1}))
	assert.True(t, WeekKey{Year: 2025, Week: 1}.Before(WeekKey{Year: 2025, Week: 2}))
	assert.False(t, WeekKey{Year: 2025, Week: 2}.Before(WeekKey{Year: 2025, Week: 2}))
	assert.Equal(t, WeekKey{Year: 2020, Week: 53}, WeekKey{Year: 2021, Week: 1}.Previous())
}

func TestWeekKeyAt(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, biztime.Location())
	k := WeekKeyAt(now)
	assert.Equal(t, WeekKey{Year: 2025, Week: 3}, k)
	assert.True(t, k.Window().Contains(now))
}

func TestEnumLabels(t *testing.T) {
	p, err := NewPriority("high")
	require.NoError(t, err)
	assert.Equal(t, "Høj", p.Label())
	assert.Less(t, PriorityHigh.Rank(), PriorityLow.Rank())

	_, err = NewTaskStatus("paused")
	assert.Error(t, err)
	assert.Equal(t, "Blokeret", TaskBlocked.Label())

	at, err := NewAbsenceType("wfh")
	require.NoError(t, err)
	assert.Equal(t, "Arbejder hjemme", at.Label())

	sv, err := NewSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, "Kritisk", sv.Label())

	_, err = NewIncidentType("fire")
	assert.Error(t, err)
}
