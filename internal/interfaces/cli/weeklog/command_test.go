package weeklog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
	"github.com/chronicle-it/chronicle/internal/application/weeklog/usecases"
)

func TestPrintWeekLogs(t *testing.T) {
	n, c, o := 12, 9, 34
	synced := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	result := &usecases.ListWeekLogsResult{
		WeekLogs: []*dto.WeekLogDTO{
			{Week: "2025-W03", HelpdeskNew: &n, HelpdeskClosed: &c, HelpdeskOpen: &o, LastSyncedAt: &synced},
			{Week: "2025-W02"},
		},
		Total:    5,
		Page:     1,
		PageSize: 2,
	}

	var buf bytes.Buffer
	printWeekLogs(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "WEEK")
	assert.Regexp(t, `2025-W03\s+12\s+9\s+34\s+2025-01-15 10:00`, out)
	assert.Regexp(t, `2025-W02\s+-\s+-\s+-\s+-`, out)
	assert.Contains(t, out, "page 1, 2 of 5 weeks")
}

func TestDeleteCommandRequiresWeek(t *testing.T) {
	cmd := newDeleteCommand()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
