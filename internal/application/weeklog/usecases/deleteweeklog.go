package usecases

import (
	"context"

	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// DeleteWeekLogUseCase removes a week log with its entries. On-call duty is
// stored per week and stays in place.
type DeleteWeekLogUseCase struct {
	repo   weeklog.Repository
	txm    TransactionRunner
	logger logger.Interface
}

func NewDeleteWeekLogUseCase(repo weeklog.Repository, txm TransactionRunner, logger logger.Interface) *DeleteWeekLogUseCase {
	return &DeleteWeekLogUseCase{repo: repo, txm: txm, logger: logger}
}

func (uc *DeleteWeekLogUseCase) Execute(ctx context.Context, key vo.WeekKey) error {
	err := uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		w, err := uc.repo.FindByWeek(ctx, key)
		if err != nil {
			return err
		}
		if w == nil {
			return errors.NewNotFoundError("week log not found", key.String())
		}
		return uc.repo.Delete(ctx, w.ID())
	})
	if err != nil {
		uc.logger.Errorw("failed to delete week log", "week", key.String(), "error", err)
		return err
	}

	uc.logger.Infow("week log deleted", "week", key.String())
	return nil
}
