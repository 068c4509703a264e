package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk/usecases"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
	"github.com/chronicle-it/chronicle/internal/shared/goroutine"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const syncJobName = "helpdesk-sync"

// SyncRunner is the reconciliation entry point driven by the scheduler.
type SyncRunner interface {
	RunOnce(ctx context.Context, now time.Time) usecases.SyncResult
}

type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
)

// SyncStatus is a point-in-time view of the scheduler for the ops endpoint.
type SyncStatus struct {
	State      State
	Interval   time.Duration
	InFlight   bool
	NextRun    time.Time
	LastRunAt  time.Time
	LastResult *usecases.SyncResult
	Runs       int64
	Skipped    int64
}

type SyncSchedulerOption func(*SyncScheduler)

// WithRunTimeout bounds one reconciliation. Zero leaves runs unbounded, in
// which case only the per-request timeout of the ticket source applies.
func WithRunTimeout(d time.Duration) SyncSchedulerOption {
	return func(s *SyncScheduler) { s.runTimeout = d }
}

// WithRunOnStart triggers a reconciliation as soon as Start is called.
func WithRunOnStart(enabled bool) SyncSchedulerOption {
	return func(s *SyncScheduler) { s.runOnStart = enabled }
}

// WithNow replaces the clock passed to the runner.
func WithNow(now func() time.Time) SyncSchedulerOption {
	return func(s *SyncScheduler) { s.now = now }
}

// SyncScheduler triggers the reconciliation periodically. It owns a single
// gocron job, so at most one timer exists, and an in-flight flag keeps ticks
// from overlapping.
type SyncScheduler struct {
	scheduler gocron.Scheduler
	runner    SyncRunner
	logger    logger.Interface

	runTimeout time.Duration
	runOnStart bool
	now        func() time.Time

	mu         sync.Mutex
	state      State
	interval   time.Duration
	jobID      uuid.UUID
	job        gocron.Job
	started    bool
	lastRunAt  time.Time
	lastResult *usecases.SyncResult

	inFlight atomic.Bool
	runs     atomic.Int64
	skipped  atomic.Int64
	wg       sync.WaitGroup
}

func NewSyncScheduler(runner SyncRunner, log logger.Interface, opts ...SyncSchedulerOption) (*SyncScheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
		gocron.WithLogger(log.Named("gocron")),
	)
	if err != nil {
		return nil, err
	}

	s := &SyncScheduler{
		scheduler: sched,
		runner:    runner,
		logger:    log,
		now:       biztime.NowUTC,
		state:     StateStopped,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start moves the scheduler to Running with the given interval. Calling it
// while running replaces the interval of the existing job.
func (s *SyncScheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return errors.New("sync interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		if interval == s.interval {
			return nil
		}
		job, err := s.scheduler.Update(s.jobID, gocron.DurationJob(interval), gocron.NewTask(s.tick), s.jobOptions()...)
		if err != nil {
			return err
		}
		s.job = job
		s.logger.Infow("sync interval changed", "from", s.interval, "to", interval)
		s.interval = interval
		return nil
	}

	job, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(s.tick), s.jobOptions()...)
	if err != nil {
		return err
	}
	s.job = job
	s.jobID = job.ID()
	s.interval = interval
	s.state = StateRunning

	if !s.started {
		s.scheduler.Start()
		s.started = true
	}

	s.logger.Infow("sync scheduler started", "interval", interval, "run_on_start", s.runOnStart)

	if s.runOnStart {
		goroutine.SafeGo(s.logger, "sync-on-start", s.tick)
	}
	return nil
}

func (s *SyncScheduler) jobOptions() []gocron.JobOption {
	return []gocron.JobOption{
		gocron.WithName(syncJobName),
		gocron.WithTags("helpdesk", "sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
}

// Stop removes the timer and waits for an in-flight run to finish.
// The run itself is not cancelled.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	if err := s.scheduler.RemoveJob(s.jobID); err != nil {
		s.logger.Warnw("failed to remove sync job", "error", err)
	}
	s.jobID = uuid.Nil
	s.job = nil
	s.mu.Unlock()

	s.logger.Infow("stopping sync scheduler, waiting for in-flight run")
	s.wg.Wait()
	s.logger.Infow("sync scheduler stopped")
}

// Close stops the scheduler and releases the gocron instance. It is not
// restartable afterwards.
func (s *SyncScheduler) Close() error {
	s.Stop()
	return s.scheduler.Shutdown()
}

func (s *SyncScheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SyncScheduler) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SyncStatus{
		State:      s.state,
		Interval:   s.interval,
		InFlight:   s.inFlight.Load(),
		LastRunAt:  s.lastRunAt,
		LastResult: s.lastResult,
		Runs:       s.runs.Load(),
		Skipped:    s.skipped.Load(),
	}
	if s.job != nil {
		if next, err := s.job.NextRun(); err == nil {
			status.NextRun = next
		}
	}
	return status
}

// tick runs one reconciliation unless the scheduler is stopped or a previous
// run is still in flight. Failures are logged and wait for the next tick.
func (s *SyncScheduler) tick() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if !s.inFlight.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.logger.Warnw("previous sync still running, skipping tick")
		return
	}
	defer s.inFlight.Store(false)
	defer goroutine.Recover(s.logger, syncJobName)

	ctx := context.Background()
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	now := s.now()
	result := s.runner.RunOnce(ctx, now)
	s.runs.Add(1)

	s.mu.Lock()
	s.lastRunAt = now
	s.lastResult = &result
	s.mu.Unlock()

	if !result.Succeeded() {
		s.logger.Warnw("scheduled sync failed, will retry on next tick",
			"week", result.Week.String(),
			"kind", result.FailureKind,
			"attempts", result.Attempts,
		)
	}
}
