package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
weeks:
  - week: 2025-W03
    created_by: mette
    helpdesk:
      new: 12
      closed: 9
      open: 34
    summary: |
      Rolig uge.
    meeting:
      attendees: Mette, Lars
      minutes: Gennemgang af backup
    priority_items:
      - title: Udskift firewall
        priority: high
        status: ongoing
    absences:
      - staff: Lars
        type: vacation
        start: 2025-01-15
        end: 2025-01-17
    incidents:
      - title: Phishing-mail
        type: security
        severity: medium
        description: Mail til økonomi
        occurred_at: 2025-01-14 09:30
        resolved: true
        resolution: Blokeret afsender
    oncall:
      staff: Mette
  - week: 2025-W04
    meeting:
      skipped: true
      reason: Helligdag
`

func TestDecode(t *testing.T) {
	weeks, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	w := weeks[0]
	assert.Equal(t, "2025-W03", w.Week)
	require.NotNil(t, w.Helpdesk)
	assert.Equal(t, 34, *w.Helpdesk.Open)
	assert.Equal(t, "Rolig uge.\n", w.Summary)
	require.Len(t, w.Absences, 1)
	assert.Equal(t, "2025-01-17", w.Absences[0].End)
	require.Len(t, w.Incidents, 1)
	assert.True(t, w.Incidents[0].Resolved)
	require.NotNil(t, w.OnCall)
	assert.Equal(t, "Mette", w.OnCall.StaffName)

	assert.True(t, weeks[1].Meeting.Skipped)
	assert.Nil(t, weeks[1].Helpdesk)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("weeks:\n  - week: 2025-W03\n    sumary: typo\n"))
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	weeks, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weeks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	weeks, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, weeks, 2)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
