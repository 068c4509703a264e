package usecases

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// Wednesday of ISO week 2025-W03.
var wednesdayW03 = time.Date(2025, 1, 15, 10, 0, 0, 0, biztime.Location())

func newTestUseCase(src *scriptedSource, repo *mockRepository, sleeper *recordingSleeper, opts ...Option) *ReconcileUseCase {
	opts = append(opts, WithSleeper(sleeper.sleep))
	return NewReconcileUseCase(src, repo, DefaultRetryPolicy(), logger.NewNop(), opts...)
}

func TestRunOnce_WritesCountsForCurrentWeek(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{counts: helpdesk.TicketCounts{New: 12, Closed: 9, Open: 34}}}}
	repo := &mockRepository{}
	sleeper := &recordingSleeper{}
	uc := newTestUseCase(src, repo, sleeper)

	result := uc.RunOnce(context.Background(), wednesdayW03)

	require.True(t, result.Succeeded())
	assert.Equal(t, vo.WeekKey{Year: 2025, Week: 3}, result.Week)
	assert.Equal(t, 1, result.Attempts)
	assert.True(t, result.Created)
	assert.True(t, result.OpenWritten)
	assert.Nil(t, result.Err)

	require.Len(t, src.calls, 1)
	window := src.calls[0]
	assert.True(t, time.Date(2025, 1, 13, 0, 0, 0, 0, biztime.Location()).Equal(window.Start))
	assert.True(t, window.Contains(wednesdayW03))

	calls := repo.upsertCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 12, calls[0].counts.New)
	assert.Equal(t, 9, calls[0].counts.Closed)
	require.NotNil(t, calls[0].counts.Open)
	assert.Equal(t, 34, *calls[0].counts.Open)
	assert.True(t, wednesdayW03.Equal(calls[0].syncedAt))
	assert.Empty(t, sleeper.delays)
}

func TestRunOnce_NetworkFailureExhaustsAttempts(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{err: helpdesk.NewNetworkError(errors.New("connection refused"))}}}
	repo := &mockRepository{}
	sleeper := &recordingSleeper{}
	uc := newTestUseCase(src, repo, sleeper)

	result := uc.RunOnce(context.Background(), wednesdayW03)

	assert.False(t, result.Succeeded())
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, src.callCount())
	assert.Equal(t, helpdesk.KindNetwork, result.FailureKind)
	require.NotNil(t, result.Err)
	assert.Empty(t, repo.upsertCalls())
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, sleeper.delays)
}

func TestRunOnce_NonRetryableFailuresStopAfterOneAttempt(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind helpdesk.ErrorKind
	}{
		{"parse failure", helpdesk.NewParseError(errors.New("unexpected token")), helpdesk.KindParseFailure},
		{"unauthorized", helpdesk.NewStatusError(http.StatusUnauthorized, nil), helpdesk.KindUnauthorized},
		{"forbidden", helpdesk.NewStatusError(http.StatusForbidden, nil), helpdesk.KindUnauthorized},
		{"bad request", helpdesk.NewStatusError(http.StatusBadRequest, nil), helpdesk.KindHTTPStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{responses: []sourceResponse{{err: tt.err}}}
			repo := &mockRepository{}
			sleeper := &recordingSleeper{}
			uc := newTestUseCase(src, repo, sleeper)

			result := uc.RunOnce(context.Background(), wednesdayW03)

			assert.False(t, result.Succeeded())
			assert.Equal(t, 1, result.Attempts)
			assert.Equal(t, tt.kind, result.FailureKind)
			assert.Empty(t, repo.upsertCalls())
			assert.Empty(t, sleeper.delays)
		})
	}
}

func TestRunOnce_ServerErrorThenSuccess(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{
		{err: helpdesk.NewStatusError(http.StatusServiceUnavailable, nil)},
		{counts: helpdesk.TicketCounts{New: 1, Closed: 2, Open: 3}},
	}}
	repo := &mockRepository{}
	sleeper := &recordingSleeper{}
	uc := newTestUseCase(src, repo, sleeper)

	result := uc.RunOnce(context.Background(), wednesdayW03)

	require.True(t, result.Succeeded())
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, sleeper.delays)
	assert.Len(t, repo.upsertCalls(), 1)
}

func TestRunOnce_DelaysGrowAndCap(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{err: helpdesk.NewStatusError(http.StatusBadGateway, nil)}}}
	repo := &mockRepository{}
	sleeper := &recordingSleeper{}
	policy := RetryPolicy{MaxAttempts: 5, InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}
	uc := NewReconcileUseCase(src, repo, policy, logger.NewNop(), WithSleeper(sleeper.sleep))

	result := uc.RunOnce(context.Background(), wednesdayW03)

	assert.False(t, result.Succeeded())
	assert.Equal(t, 5, result.Attempts)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
		300 * time.Millisecond,
	}, sleeper.delays)
}

func TestRunOnce_CancelledDuringBackoff(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{err: helpdesk.NewNetworkError(errors.New("timeout"))}}}
	repo := &mockRepository{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewReconcileUseCase(src, repo, DefaultRetryPolicy(), logger.NewNop())
	result := uc.RunOnce(ctx, wednesdayW03)

	assert.False(t, result.Succeeded())
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, helpdesk.KindNetwork, result.FailureKind)
	assert.Empty(t, repo.upsertCalls())
}

func TestRunOnce_StorageFailureIsNotRetried(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{counts: helpdesk.TicketCounts{New: 1}}}}
	repo := &mockRepository{
		upsertFunc: func(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error) {
			return false, errors.New("database is locked")
		},
	}
	uc := newTestUseCase(src, repo, &recordingSleeper{})

	result := uc.RunOnce(context.Background(), wednesdayW03)

	assert.False(t, result.Succeeded())
	assert.Equal(t, helpdesk.KindStorage, result.FailureKind)
	assert.Equal(t, 1, src.callCount())
	assert.Len(t, repo.upsertCalls(), 1)
}

func TestRunOnce_NegativeCountsAreParseFailures(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{counts: helpdesk.TicketCounts{New: -1}}}}
	repo := &mockRepository{}
	uc := newTestUseCase(src, repo, &recordingSleeper{})

	result := uc.RunOnce(context.Background(), wednesdayW03)

	assert.Equal(t, helpdesk.KindParseFailure, result.FailureKind)
	assert.Empty(t, repo.upsertCalls())
}

func TestRunOnce_RepeatedRunsWriteSameCounts(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{counts: helpdesk.TicketCounts{New: 12, Closed: 9, Open: 34}}}}
	created := true
	repo := &mockRepository{
		upsertFunc: func(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error) {
			c := created
			created = false
			return c, nil
		},
	}
	uc := newTestUseCase(src, repo, &recordingSleeper{})

	first := uc.RunOnce(context.Background(), wednesdayW03)
	second := uc.RunOnce(context.Background(), wednesdayW03)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	calls := repo.upsertCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].key, calls[1].key)
	assert.Equal(t, calls[0].counts.New, calls[1].counts.New)
	assert.Equal(t, *calls[0].counts.Open, *calls[1].counts.Open)
}

func TestRunOnce_NotifiesObserver(t *testing.T) {
	src := &scriptedSource{responses: []sourceResponse{{counts: helpdesk.TicketCounts{New: 1}}}}
	observer := &recordingObserver{}
	uc := newTestUseCase(src, &mockRepository{}, &recordingSleeper{}, WithObserver(observer))

	uc.RunOnce(context.Background(), wednesdayW03)

	require.Len(t, observer.results, 1)
	assert.Equal(t, SyncSucceeded, observer.results[0].Status)
}

func TestRunOnce_ReturnsMeasuredDuration(t *testing.T) {
	slow := func(fail bool) *scriptedSource {
		return &scriptedSource{fetchFunc: func(ctx context.Context, window biztime.WeekWindow) (helpdesk.TicketCounts, error) {
			time.Sleep(20 * time.Millisecond)
			if fail {
				return helpdesk.TicketCounts{}, helpdesk.NewParseError(errors.New("bad body"))
			}
			return helpdesk.TicketCounts{New: 1}, nil
		}}
	}

	for _, fail := range []bool{false, true} {
		observer := &recordingObserver{}
		uc := newTestUseCase(slow(fail), &mockRepository{}, &recordingSleeper{}, WithObserver(observer))

		result := uc.RunOnce(context.Background(), wednesdayW03)

		assert.Equal(t, !fail, result.Succeeded())
		assert.GreaterOrEqual(t, result.Duration, 20*time.Millisecond)
		require.Len(t, observer.results, 1)
		assert.Equal(t, observer.results[0].Duration, result.Duration)
	}
}

func TestRunForAllWeeks_PartialFailure(t *testing.T) {
	w01 := vo.WeekKey{Year: 2025, Week: 1}
	w02 := vo.WeekKey{Year: 2025, Week: 2}
	w03 := vo.WeekKey{Year: 2025, Week: 3}

	src := &scriptedSource{
		fetchFunc: func(ctx context.Context, window biztime.WeekWindow) (helpdesk.TicketCounts, error) {
			if window.Week == 2 {
				return helpdesk.TicketCounts{}, helpdesk.NewStatusError(http.StatusUnauthorized, nil)
			}
			return helpdesk.TicketCounts{New: window.Week, Closed: 1, Open: 40}, nil
		},
	}
	repo := &mockRepository{keys: []vo.WeekKey{w01, w02, w03}}
	uc := newTestUseCase(src, repo, &recordingSleeper{})

	bulk := uc.RunForAllWeeks(context.Background(), wednesdayW03)

	assert.NoError(t, bulk.Err)
	assert.Equal(t, 2, bulk.Succeeded)
	assert.Equal(t, 1, bulk.Failed)
	assert.False(t, bulk.AllSucceeded())
	require.Len(t, bulk.Results, 3)
	assert.Equal(t, helpdesk.KindUnauthorized, bulk.Results[1].FailureKind)

	calls := repo.upsertCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, w01, calls[0].key)
	assert.Nil(t, calls[0].counts.Open)
	assert.Equal(t, w03, calls[1].key)
	require.NotNil(t, calls[1].counts.Open)
	assert.Equal(t, 40, *calls[1].counts.Open)
}

func TestRunForAllWeeks_ListFailure(t *testing.T) {
	repo := &mockRepository{listKeysErr: errors.New("no such table")}
	src := &scriptedSource{}
	uc := newTestUseCase(src, repo, &recordingSleeper{})

	bulk := uc.RunForAllWeeks(context.Background(), wednesdayW03)

	assert.Error(t, bulk.Err)
	assert.False(t, bulk.AllSucceeded())
	assert.Equal(t, 0, src.callCount())
}

func TestRunForAllWeeks_NoWeeks(t *testing.T) {
	uc := newTestUseCase(&scriptedSource{}, &mockRepository{}, &recordingSleeper{})

	bulk := uc.RunForAllWeeks(context.Background(), wednesdayW03)

	assert.True(t, bulk.AllSucceeded())
	assert.Empty(t, bulk.Results)
}

func TestRetryPolicy_Normalized(t *testing.T) {
	p := RetryPolicy{}.normalized()
	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, p.InitialDelay)
	assert.Equal(t, 500*time.Millisecond, p.MaxDelay)
	assert.Equal(t, 2.0, p.Multiplier)
}
