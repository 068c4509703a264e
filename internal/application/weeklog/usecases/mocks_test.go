package usecases

import (
	"context"
	"sort"
	"time"

	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	apperrors "github.com/chronicle-it/chronicle/internal/shared/errors"
)

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// memoryWeekLogRepo keeps aggregates in a map keyed by week.
type memoryWeekLogRepo struct {
	logs          map[vo.WeekKey]*weeklog.WeekLog
	nextID        uint
	createCalls   int
	updateCalls   int
	findByWeekErr error
	createFunc    func(ctx context.Context, w *weeklog.WeekLog) error
	deleted       []uint
	lastFilter    weeklog.ListFilter
}

func newMemoryWeekLogRepo() *memoryWeekLogRepo {
	return &memoryWeekLogRepo{logs: map[vo.WeekKey]*weeklog.WeekLog{}, nextID: 1}
}

func (m *memoryWeekLogRepo) Create(ctx context.Context, w *weeklog.WeekLog) error {
	m.createCalls++
	if m.createFunc != nil {
		if err := m.createFunc(ctx, w); err != nil {
			return err
		}
	}
	if err := w.SetID(m.nextID); err != nil {
		return err
	}
	m.nextID++
	m.logs[w.Key()] = w
	return nil
}

func (m *memoryWeekLogRepo) Update(ctx context.Context, w *weeklog.WeekLog) error {
	m.updateCalls++
	m.logs[w.Key()] = w
	return nil
}

func (m *memoryWeekLogRepo) Delete(ctx context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	for k, w := range m.logs {
		if w.ID() == id {
			delete(m.logs, k)
			return nil
		}
	}
	return apperrors.NewNotFoundError("week log not found")
}

func (m *memoryWeekLogRepo) FindByWeek(ctx context.Context, key vo.WeekKey) (*weeklog.WeekLog, error) {
	if m.findByWeekErr != nil {
		return nil, m.findByWeekErr
	}
	return m.logs[key], nil
}

func (m *memoryWeekLogRepo) List(ctx context.Context, filter weeklog.ListFilter) ([]*weeklog.WeekLog, int64, error) {
	m.lastFilter = filter
	var out []*weeklog.WeekLog
	for _, w := range m.logs {
		if filter.Year == nil || w.Year() == *filter.Year {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Key().Before(out[i].Key()) })
	return out, int64(len(out)), nil
}

func (m *memoryWeekLogRepo) ListKeys(ctx context.Context) ([]vo.WeekKey, error) {
	keys := make([]vo.WeekKey, 0, len(m.logs))
	for k := range m.logs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys, nil
}

func (m *memoryWeekLogRepo) History(ctx context.Context, upTo vo.WeekKey, limit int) ([]*weeklog.WeekLog, error) {
	return nil, nil
}

func (m *memoryWeekLogRepo) UpsertSyncedCounts(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error) {
	return false, nil
}

type memoryOnCallRepo struct {
	duties    map[vo.WeekKey]*oncall.Duty
	assignErr error
	findErr   error
}

func newMemoryOnCallRepo() *memoryOnCallRepo {
	return &memoryOnCallRepo{duties: map[vo.WeekKey]*oncall.Duty{}}
}

func (m *memoryOnCallRepo) Assign(ctx context.Context, d *oncall.Duty) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	m.duties[d.Key()] = d
	return nil
}

func (m *memoryOnCallRepo) FindByWeek(ctx context.Context, key vo.WeekKey) (*oncall.Duty, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.duties[key], nil
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
