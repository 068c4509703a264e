package report

import (
	"context"
	"errors"
	"time"

	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

type stubWeekLogRepo struct {
	logs       map[vo.WeekKey]*weeklog.WeekLog
	history    []*weeklog.WeekLog
	historyErr error
	upTo       vo.WeekKey
	limit      int
}

func (s *stubWeekLogRepo) Create(ctx context.Context, w *weeklog.WeekLog) error {
	return errors.New("read only")
}
func (s *stubWeekLogRepo) Update(ctx context.Context, w *weeklog.WeekLog) error {
	return errors.New("read only")
}
func (s *stubWeekLogRepo) Delete(ctx context.Context, id uint) error { return errors.New("read only") }

func (s *stubWeekLogRepo) FindByWeek(ctx context.Context, key vo.WeekKey) (*weeklog.WeekLog, error) {
	return s.logs[key], nil
}

func (s *stubWeekLogRepo) List(ctx context.Context, filter weeklog.ListFilter) ([]*weeklog.WeekLog, int64, error) {
	return nil, 0, nil
}

func (s *stubWeekLogRepo) ListKeys(ctx context.Context) ([]vo.WeekKey, error) { return nil, nil }

func (s *stubWeekLogRepo) History(ctx context.Context, upTo vo.WeekKey, limit int) ([]*weeklog.WeekLog, error) {
	s.upTo, s.limit = upTo, limit
	return s.history, s.historyErr
}

func (s *stubWeekLogRepo) UpsertSyncedCounts(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error) {
	return false, errors.New("read only")
}

type stubOnCallRepo struct {
	duty *oncall.Duty
}

func (s *stubOnCallRepo) Assign(ctx context.Context, d *oncall.Duty) error { return nil }

func (s *stubOnCallRepo) FindByWeek(ctx context.Context, key vo.WeekKey) (*oncall.Duty, error) {
	return s.duty, nil
}

type stubPDF struct {
	data []byte
	err  error
}

func (s *stubPDF) RenderPDF(r *WeekReport) ([]byte, error) {
	return s.data, s.err
}

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
