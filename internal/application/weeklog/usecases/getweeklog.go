package usecases

import (
	"context"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

type GetWeekLogUseCase struct {
	repo       weeklog.Repository
	oncallRepo oncall.Repository
	logger     logger.Interface
}

func NewGetWeekLogUseCase(repo weeklog.Repository, oncallRepo oncall.Repository, logger logger.Interface) *GetWeekLogUseCase {
	return &GetWeekLogUseCase{repo: repo, oncallRepo: oncallRepo, logger: logger}
}

func (uc *GetWeekLogUseCase) Execute(ctx context.Context, key vo.WeekKey) (*dto.WeekLogDTO, error) {
	w, err := uc.repo.FindByWeek(ctx, key)
	if err != nil {
		uc.logger.Errorw("failed to load week log", "week", key.String(), "error", err)
		return nil, err
	}
	if w == nil {
		return nil, errors.NewNotFoundError("week log not found", key.String())
	}

	duty, err := uc.oncallRepo.FindByWeek(ctx, key)
	if err != nil {
		uc.logger.Warnw("failed to load on-call duty", "week", key.String(), "error", err)
		duty = nil
	}

	return dto.ToWeekLogDTO(w, duty), nil
}
