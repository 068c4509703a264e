package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/mappers"
	"github.com/chronicle-it/chronicle/internal/infrastructure/persistence/models"
	"github.com/chronicle-it/chronicle/internal/shared/db"
)

type OnCallRepository struct {
	db  *gorm.DB
	txm *db.TransactionManager
}

func NewOnCallRepository(gdb *gorm.DB) *OnCallRepository {
	return &OnCallRepository{db: gdb, txm: db.NewTransactionManager(gdb)}
}

func (r *OnCallRepository) Assign(ctx context.Context, d *oncall.Duty) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)
		key := d.Key()

		var existing models.OnCallDutyModel
		err := tx.Scopes(db.ForWeek(key.Year, key.Week)).Take(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]any{
				"staff_name": d.StaffName(),
				"notes":      d.Notes(),
				"updated_at": d.UpdatedAt(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update on-call duty: %w", err)
			}
			id := existing.ID
			db.AfterCommit(ctx, func() { d.SetID(id) })
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			model := mappers.OnCallDutyToModel(d)
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to create on-call duty: %w", err)
			}
			db.AfterCommit(ctx, func() { d.SetID(model.ID) })
			return nil
		default:
			return fmt.Errorf("failed to look up on-call duty: %w", err)
		}
	})
}

func (r *OnCallRepository) FindByWeek(ctx context.Context, key vo.WeekKey) (*oncall.Duty, error) {
	var model models.OnCallDutyModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Scopes(db.ForWeek(key.Year, key.Week)).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find on-call duty: %w", err)
	}
	return mappers.OnCallDutyToDomain(&model), nil
}
