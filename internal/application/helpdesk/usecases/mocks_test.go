package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

// scriptedSource answers FetchCounts from a queue of responses; the last
// response repeats once the queue is drained.
type scriptedSource struct {
	mu        sync.Mutex
	responses []sourceResponse
	calls     []biztime.WeekWindow
	fetchFunc func(ctx context.Context, window biztime.WeekWindow) (helpdesk.TicketCounts, error)
}

type sourceResponse struct {
	counts helpdesk.TicketCounts
	err    error
}

func (s *scriptedSource) FetchCounts(ctx context.Context, window biztime.WeekWindow) (helpdesk.TicketCounts, error) {
	s.mu.Lock()
	s.calls = append(s.calls, window)
	if s.fetchFunc != nil {
		s.mu.Unlock()
		return s.fetchFunc(ctx, window)
	}
	defer s.mu.Unlock()
	if len(s.responses) == 0 {
		return helpdesk.TicketCounts{}, nil
	}
	r := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return r.counts, r.err
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type upsertCall struct {
	key      vo.WeekKey
	counts   weeklog.SyncedCounts
	syncedAt time.Time
}

type mockRepository struct {
	mu          sync.Mutex
	upserts     []upsertCall
	keys        []vo.WeekKey
	listKeysErr error
	upsertFunc  func(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error)
}

func (m *mockRepository) Create(ctx context.Context, w *weeklog.WeekLog) error { return nil }
func (m *mockRepository) Update(ctx context.Context, w *weeklog.WeekLog) error { return nil }
func (m *mockRepository) Delete(ctx context.Context, id uint) error            { return nil }

func (m *mockRepository) FindByWeek(ctx context.Context, key vo.WeekKey) (*weeklog.WeekLog, error) {
	return nil, nil
}

func (m *mockRepository) List(ctx context.Context, filter weeklog.ListFilter) ([]*weeklog.WeekLog, int64, error) {
	return nil, 0, nil
}

func (m *mockRepository) ListKeys(ctx context.Context) ([]vo.WeekKey, error) {
	return m.keys, m.listKeysErr
}

func (m *mockRepository) History(ctx context.Context, upTo vo.WeekKey, limit int) ([]*weeklog.WeekLog, error) {
	return nil, nil
}

func (m *mockRepository) UpsertSyncedCounts(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error) {
	m.mu.Lock()
	m.upserts = append(m.upserts, upsertCall{key: key, counts: counts, syncedAt: syncedAt})
	m.mu.Unlock()
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, key, counts, syncedAt)
	}
	return true, nil
}

func (m *mockRepository) upsertCalls() []upsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]upsertCall(nil), m.upserts...)
}

// recordingSleeper records requested delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

type recordingObserver struct {
	results []SyncResult
}

func (o *recordingObserver) ObserveSync(result SyncResult) {
	o.results = append(o.results, result)
}
