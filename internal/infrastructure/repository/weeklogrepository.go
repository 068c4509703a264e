package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/mappers"
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/models"
	"github.com/chronicle-it/chronicle/internal/shared/db"
	apperrors "github.com/chronicle-it/chronicle/internal/shared/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type WeekLogRepository struct {
	db     *gorm.DB
	txm    *db.TransactionManager
	mapper mappers.WeekLogMapper
}

func NewWeekLogRepository(gdb *gorm.DB) *WeekLogRepository {
	return &WeekLogRepository{
		db:     gdb,
		txm:    db.NewTransactionManager(gdb),
		mapper: mappers.NewWeekLogMapper(),
	}
}

// Create inserts w with its entries. Generated IDs are assigned to the
// aggregate only after the transaction commits.
func (r *WeekLogRepository) Create(ctx context.Context, w *weeklog.WeekLog) error {
	if w.ID() != 0 {
		return fmt.Errorf("week log %s already has ID %d", w.Key(), w.ID())
	}
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)
		model := r.mapper.ToModel(w)
		if err := tx.Create(model).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewConflictError("week log already exists", w.Key().String())
			}
			return fmt.Errorf("failed to create week log: %w", err)
		}
		id := model.ID
		db.AfterCommit(ctx, func() { _ = w.SetID(id) })
		return r.insertEntries(ctx, tx, id, w)
	})
}

func (r *WeekLogRepository) Update(ctx context.Context, w *weeklog.WeekLog) error {
	if w.ID() == 0 {
		return fmt.Errorf("cannot update week log without ID")
	}
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)
		result := tx.Model(&models.WeekLogModel{}).
			Where("id = ?", w.ID()).
			Updates(map[string]any{
				"helpdesk_new":           w.HelpdeskNew(),
				"helpdesk_closed":        w.HelpdeskClosed(),
				"helpdesk_open":          w.HelpdeskOpen(),
				"summary":                w.Summary(),
				"meeting_skipped":        w.MeetingSkipped(),
				"meeting_skipped_reason": w.MeetingSkippedReason(),
				"meeting_attendees":      w.MeetingAttendees(),
				"meeting_minutes":        w.MeetingMinutes(),
				"updated_at":             w.UpdatedAt().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update week log: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError("week log not found", w.Key().String())
		}
		return r.insertEntries(ctx, tx, w.ID(), w)
	})
}

// insertEntries persists child entries that have not been saved yet.
func (r *WeekLogRepository) insertEntries(ctx context.Context, tx *gorm.DB, weekLogID uint, w *weeklog.WeekLog) error {
	for _, p := range w.PriorityItems() {
		if p.ID() != 0 {
			continue
		}
		m := r.mapper.PriorityItemToModel(weekLogID, p)
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create priority item: %w", err)
		}
		db.AfterCommit(ctx, func() { p.SetID(m.ID) })
	}
	for _, a := range w.Absences() {
		if a.ID() != 0 {
			continue
		}
		m := r.mapper.AbsenceToModel(weekLogID, a)
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create absence: %w", err)
		}
		db.AfterCommit(ctx, func() { a.SetID(m.ID) })
	}
	for _, i := range w.Incidents() {
		if i.ID() != 0 {
			continue
		}
		m := r.mapper.IncidentToModel(weekLogID, i)
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create incident: %w", err)
		}
		db.AfterCommit(ctx, func() { i.SetID(m.ID) })
	}
	return nil
}

func (r *WeekLogRepository) Delete(ctx context.Context, id uint) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)
		for _, child := range []any{&models.PriorityItemModel{}, &models.AbsenceModel{}, &models.IncidentModel{}} {
			if err := tx.Where("week_log_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete week log entries: %w", err)
			}
		}
		result := tx.Delete(&models.WeekLogModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete week log: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError("week log not found")
		}
		return nil
	})
}

func (r *WeekLogRepository) FindByWeek(ctx context.Context, key vo.WeekKey) (*weeklog.WeekLog, error) {
	var model models.WeekLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Scopes(db.ForWeek(key.Year, key.Week)).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find week log %s: %w", key, err)
	}
	return r.toDomainWithEntries(tx, &model)
}

func (r *WeekLogRepository) toDomainWithEntries(tx *gorm.DB, model *models.WeekLogModel) (*weeklog.WeekLog, error) {
	w, err := r.mapper.ToDomain(model)
	if err != nil {
		return nil, err
	}

	var items []models.PriorityItemModel
	if err := tx.Where("week_log_id = ?", model.ID).Order("sort_order ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load priority items: %w", err)
	}
	for i := range items {
		p, err := r.mapper.PriorityItemToDomain(&items[i])
		if err != nil {
			return nil, err
		}
		w.AddPriorityItem(p)
	}

	var absences []models.AbsenceModel
	if err := tx.Where("week_log_id = ?", model.ID).Order("start_date ASC").Order("id ASC").Find(&absences).Error; err != nil {
		return nil, fmt.Errorf("failed to load absences: %w", err)
	}
	for i := range absences {
		a, err := r.mapper.AbsenceToDomain(&absences[i])
		if err != nil {
			return nil, err
		}
		w.AddAbsence(a)
	}

	var incidents []models.IncidentModel
	if err := tx.Where("week_log_id = ?", model.ID).Order("occurred_at ASC").Order("id ASC").Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}
	for i := range incidents {
		inc, err := r.mapper.IncidentToDomain(&incidents[i])
		if err != nil {
			return nil, err
		}
		w.AddIncident(inc)
	}

	return w, nil
}

func (r *WeekLogRepository) List(ctx context.Context, filter weeklog.ListFilter) ([]*weeklog.WeekLog, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.WeekLogModel{})
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count week logs: %w", err)
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var rows []models.WeekLogModel
	if err := query.Scopes(db.NewestWeekFirst()).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list week logs: %w", err)
	}

	out, err := r.toDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *WeekLogRepository) ListKeys(ctx context.Context) ([]vo.WeekKey, error) {
	var rows []models.WeekLogModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Select("year", "week_number").
		Order("year ASC").Order("week_number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list week keys: %w", err)
	}

	keys := make([]vo.WeekKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, vo.WeekKey{Year: row.Year, Week: row.WeekNumber})
	}
	return keys, nil
}

func (r *WeekLogRepository) History(ctx context.Context, upTo vo.WeekKey, limit int) ([]*weeklog.WeekLog, error) {
	var rows []models.WeekLogModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Scopes(db.UpToWeek(upTo.Year, upTo.Week), db.NewestWeekFirst()).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load week log history: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *WeekLogRepository) toDomainList(rows []models.WeekLogModel) ([]*weeklog.WeekLog, error) {
	out := make([]*weeklog.WeekLog, 0, len(rows))
	for i := range rows {
		w, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// UpsertSyncedCounts looks the week up and inserts or updates it inside one
// transaction. An insert that loses a race against a concurrent insert of the
// same week falls back to the update path.
func (r *WeekLogRepository) UpsertSyncedCounts(ctx context.Context, key vo.WeekKey, counts weeklog.SyncedCounts, syncedAt time.Time) (bool, error) {
	var created bool
	err := r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		created = false
		tx := db.GetTxFromContext(ctx, r.db)

		var existing models.WeekLogModel
		err := tx.Select("id").Scopes(db.ForWeek(key.Year, key.Week)).Take(&existing).Error
		if err == nil {
			return r.updateCounts(tx, existing.ID, counts, syncedAt)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up week log %s: %w", key, err)
		}

		w, err := weeklog.NewSyncedWeekLog(key, counts, syncedAt)
		if err != nil {
			return err
		}
		model := r.mapper.ToModel(w)
		if err := tx.Create(model).Error; err != nil {
			if !apperrors.IsDuplicateError(err) {
				return fmt.Errorf("failed to create week log %s: %w", key, err)
			}
			if err := tx.Select("id").Scopes(db.ForWeek(key.Year, key.Week)).Take(&existing).Error; err != nil {
				return fmt.Errorf("failed to reload week log %s: %w", key, err)
			}
			return r.updateCounts(tx, existing.ID, counts, syncedAt)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *WeekLogRepository) updateCounts(tx *gorm.DB, id uint, counts weeklog.SyncedCounts, syncedAt time.Time) error {
	at := syncedAt.UTC()
	values := map[string]any{
		"helpdesk_new":    counts.New,
		"helpdesk_closed": counts.Closed,
		"last_synced_at":  at,
		"updated_at":      at,
	}
	if counts.Open != nil {
		values["helpdesk_open"] = *counts.Open
	}
	if err := tx.Model(&models.WeekLogModel{}).Where("id = ?", id).Updates(values).Error; err != nil {
		return fmt.Errorf("failed to update synced counts: %w", err)
	}
	return nil
}
