package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

type SyncStatus string

const (
	SyncSucceeded SyncStatus = "success"
	SyncFailed    SyncStatus = "failed"
)

// SyncResult reports one week's reconciliation. On failure Err holds the
// last classified error and nothing was written.
type SyncResult struct {
	Week        vo.WeekKey
	Status      SyncStatus
	Counts      helpdesk.TicketCounts
	OpenWritten bool
	Created     bool
	Attempts    int
	SyncedAt    time.Time
	Duration    time.Duration
	FailureKind helpdesk.ErrorKind
	Err         *helpdesk.SyncError
}

func (r SyncResult) Succeeded() bool {
	return r.Status == SyncSucceeded
}

// BulkSyncResult collects per-week results. Err is set only when the week
// list itself could not be read or the run was cancelled.
type BulkSyncResult struct {
	Results   []SyncResult
	Succeeded int
	Failed    int
	Err       error
}

func (b BulkSyncResult) AllSucceeded() bool {
	return b.Err == nil && b.Failed == 0
}

// SyncObserver is notified after every week reconciliation.
type SyncObserver interface {
	ObserveSync(result SyncResult)
}

type Option func(*ReconcileUseCase)

func WithSleeper(s Sleeper) Option {
	return func(uc *ReconcileUseCase) { uc.sleep = s }
}

func WithObserver(o SyncObserver) Option {
	return func(uc *ReconcileUseCase) { uc.observer = o }
}

// ReconcileUseCase copies ticket counts from the ticket source into week logs.
type ReconcileUseCase struct {
	source   helpdesk.TicketSource
	repo     weeklog.Repository
	policy   RetryPolicy
	sleep    Sleeper
	observer SyncObserver
	logger   logger.Interface
}

func NewReconcileUseCase(
	source helpdesk.TicketSource,
	repo weeklog.Repository,
	policy RetryPolicy,
	logger logger.Interface,
	opts ...Option,
) *ReconcileUseCase {
	uc := &ReconcileUseCase{
		source: source,
		repo:   repo,
		policy: policy.normalized(),
		sleep:  sleepCtx,
		logger: logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RunOnce reconciles the ISO week containing now. It never returns an error;
// the outcome is carried by the result.
func (uc *ReconcileUseCase) RunOnce(ctx context.Context, now time.Time) SyncResult {
	return uc.reconcile(ctx, vo.WeekKeyAt(now), now, true)
}

// RunForAllWeeks reconciles every stored week independently. Only the current
// week receives an open count; the remote reports open tickets as of today.
func (uc *ReconcileUseCase) RunForAllWeeks(ctx context.Context, now time.Time) BulkSyncResult {
	var bulk BulkSyncResult

	keys, err := uc.repo.ListKeys(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list weeks for bulk sync", "error", err)
		bulk.Err = fmt.Errorf("failed to list weeks: %w", err)
		return bulk
	}

	current := vo.WeekKeyAt(now)
	uc.logger.Infow("starting bulk sync", "weeks", len(keys), "current_week", current.String())

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			uc.logger.Warnw("bulk sync cancelled", "remaining", len(keys)-len(bulk.Results))
			bulk.Err = err
			break
		}

		result := uc.reconcile(ctx, key, now, key == current)
		bulk.Results = append(bulk.Results, result)
		if result.Succeeded() {
			bulk.Succeeded++
		} else {
			bulk.Failed++
		}
	}

	uc.logger.Infow("bulk sync finished", "succeeded", bulk.Succeeded, "failed", bulk.Failed)
	return bulk
}

func (uc *ReconcileUseCase) reconcile(ctx context.Context, key vo.WeekKey, now time.Time, writeOpen bool) (result SyncResult) {
	started := time.Now()
	log := uc.logger.With("week", key.String())
	result = SyncResult{Week: key}

	defer func() {
		result.Duration = time.Since(started)
		if uc.observer != nil {
			uc.observer.ObserveSync(result)
		}
	}()

	counts, attempts, err := uc.fetchWithRetry(ctx, key, log)
	result.Attempts = attempts
	if err != nil {
		return uc.fail(&result, helpdesk.AsSyncError(err), log)
	}
	result.Counts = counts

	synced := weeklog.SyncedCounts{New: counts.New, Closed: counts.Closed}
	if writeOpen {
		open := counts.Open
		synced.Open = &open
	}

	created, err := uc.repo.UpsertSyncedCounts(ctx, key, synced, now)
	if err != nil {
		return uc.fail(&result, helpdesk.NewStorageError(err), log)
	}

	result.Status = SyncSucceeded
	result.Created = created
	result.OpenWritten = writeOpen
	result.SyncedAt = now.UTC()

	log.Infow("helpdesk counts synced",
		"new", counts.New,
		"closed", counts.Closed,
		"open", counts.Open,
		"open_written", writeOpen,
		"created", created,
		"attempts", attempts,
	)
	return result
}

func (uc *ReconcileUseCase) fail(result *SyncResult, se *helpdesk.SyncError, log logger.Interface) SyncResult {
	result.Status = SyncFailed
	result.FailureKind = se.Kind
	result.Err = se
	log.Errorw("helpdesk sync failed",
		"kind", se.Kind,
		"status_code", se.StatusCode,
		"attempts", result.Attempts,
		"error", se,
	)
	return *result
}

// fetchWithRetry calls the source until it succeeds, the error is not
// retryable, attempts run out or ctx is done.
func (uc *ReconcileUseCase) fetchWithRetry(ctx context.Context, key vo.WeekKey, log logger.Interface) (helpdesk.TicketCounts, int, error) {
	window := key.Window()
	delays := uc.policy.delays()

	var lastErr error
	for attempt := 1; attempt <= uc.policy.MaxAttempts; attempt++ {
		counts, err := uc.source.FetchCounts(ctx, window)
		if err == nil {
			if counts.New < 0 || counts.Closed < 0 || counts.Open < 0 {
				return helpdesk.TicketCounts{}, attempt, helpdesk.NewParseError(fmt.Errorf("negative count in %+v", counts))
			}
			return counts, attempt, nil
		}
		lastErr = err

		if !helpdesk.IsRetryable(err) || attempt == uc.policy.MaxAttempts {
			return helpdesk.TicketCounts{}, attempt, err
		}

		delay := delays.NextBackOff()
		log.Warnw("ticket source request failed, retrying",
			"attempt", attempt,
			"max_attempts", uc.policy.MaxAttempts,
			"kind", helpdesk.AsSyncError(err).Kind,
			"retry_in", delay,
			"error", err,
		)
		if err := uc.sleep(ctx, delay); err != nil {
			return helpdesk.TicketCounts{}, attempt, lastErr
		}
	}
	return helpdesk.TicketCounts{}, uc.policy.MaxAttempts, lastErr
}
