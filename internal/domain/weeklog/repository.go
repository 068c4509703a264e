package weeklog

import (
	"context"
	"time"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
)

type Repository interface {
	// Create inserts the log and any child entries it carries.
	Create(ctx context.Context, w *WeekLog) error
	// Update writes manual fields (counts, summary, meeting) and inserts new
	// child entries. It never changes last_synced_at.
	Update(ctx context.Context, w *WeekLog) error
	// Delete removes the log and its child entries.
	Delete(ctx context.Context, id uint) error
	// FindByWeek returns the log with its child entries, or nil when the week has no row.
	FindByWeek(ctx context.Context, key vo.WeekKey) (*WeekLog, error)
	// List returns one page of logs, newest first, without child entries,
	// and the total number of matching logs.
	List(ctx context.Context, filter ListFilter) ([]*WeekLog, int64, error)
	// ListKeys returns every stored week, oldest first.
	ListKeys(ctx context.Context) ([]vo.WeekKey, error)
	// History returns up to limit logs at or before upTo, newest first, without child entries.
	History(ctx context.Context, upTo vo.WeekKey, limit int) ([]*WeekLog, error)
	// UpsertSyncedCounts creates or updates the week's row in one transaction,
	// touching only the count columns, last_synced_at and updated_at.
	UpsertSyncedCounts(ctx context.Context, key vo.WeekKey, counts SyncedCounts, syncedAt time.Time) (created bool, err error)
}

type ListFilter struct {
	Year     *int
	Page     int
	PageSize int
}
