package usecases

import (
	"context"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

type AssignOnCallCommand struct {
	Week      vo.WeekKey
	StaffName string
	Notes     string
}

type AssignOnCallUseCase struct {
	repo   oncall.Repository
	logger logger.Interface
}

func NewAssignOnCallUseCase(repo oncall.Repository, logger logger.Interface) *AssignOnCallUseCase {
	return &AssignOnCallUseCase{repo: repo, logger: logger}
}

func (uc *AssignOnCallUseCase) Execute(ctx context.Context, cmd AssignOnCallCommand) (*dto.OnCallDTO, error) {
	duty, err := oncall.NewDuty(cmd.Week, cmd.StaffName, cmd.Notes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.repo.Assign(ctx, duty); err != nil {
		uc.logger.Errorw("failed to assign on-call duty", "week", cmd.Week.String(), "error", err)
		return nil, err
	}

	uc.logger.Infow("on-call duty assigned", "week", cmd.Week.String(), "staff", cmd.StaffName)
	return &dto.OnCallDTO{StaffName: duty.StaffName(), Notes: duty.Notes()}, nil
}
