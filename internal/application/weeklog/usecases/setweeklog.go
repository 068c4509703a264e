package usecases

import (
	"context"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// SetWeekLogCommand carries a manual edit. Nil fields are left unchanged.
type SetWeekLogCommand struct {
	Week    vo.WeekKey
	New     *int
	Closed  *int
	Open    *int
	Summary *string
	// MeetingAttendees or MeetingMinutes record the meeting; SkipMeetingReason
	// marks it as cancelled. Setting both is a validation error.
	MeetingAttendees  *string
	MeetingMinutes    *string
	SkipMeetingReason *string
	Author            string
}

type SetWeekLogResult struct {
	Created bool
	WeekLog *dto.WeekLogDTO
}

type SetWeekLogUseCase struct {
	repo   weeklog.Repository
	txm    TransactionRunner
	logger logger.Interface
}

func NewSetWeekLogUseCase(repo weeklog.Repository, txm TransactionRunner, logger logger.Interface) *SetWeekLogUseCase {
	return &SetWeekLogUseCase{repo: repo, txm: txm, logger: logger}
}

func (uc *SetWeekLogUseCase) Execute(ctx context.Context, cmd SetWeekLogCommand) (*SetWeekLogResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	var (
		result SetWeekLogResult
		saved  *weeklog.WeekLog
	)
	err := uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		result.Created = false
		w, err := uc.repo.FindByWeek(ctx, cmd.Week)
		if err != nil {
			return err
		}

		if w == nil {
			w, err = weeklog.NewWeekLog(cmd.Week, cmd.Author)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			result.Created = true
		}

		if err := applyManualEdit(w, cmd); err != nil {
			return errors.NewValidationError(err.Error())
		}

		if result.Created {
			err = uc.repo.Create(ctx, w)
		} else {
			err = uc.repo.Update(ctx, w)
		}
		if err != nil {
			return err
		}

		saved = w
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to set week log", "week", cmd.Week.String(), "error", err)
		return nil, err
	}
	result.WeekLog = dto.ToWeekLogDTO(saved, nil)

	uc.logger.Infow("week log saved", "week", cmd.Week.String(), "created", result.Created, "author", cmd.Author)
	return &result, nil
}

func (uc *SetWeekLogUseCase) validateCommand(cmd SetWeekLogCommand) error {
	if _, err := vo.NewWeekKey(cmd.Week.Year, cmd.Week.Week); err != nil {
		return errors.NewValidationError(err.Error())
	}
	if cmd.SkipMeetingReason != nil && (cmd.MeetingAttendees != nil || cmd.MeetingMinutes != nil) {
		return errors.NewValidationError("a meeting cannot be both recorded and skipped")
	}
	return nil
}

func applyManualEdit(w *weeklog.WeekLog, cmd SetWeekLogCommand) error {
	if cmd.New != nil || cmd.Closed != nil || cmd.Open != nil {
		if err := w.SetHelpdeskCounts(cmd.New, cmd.Closed, cmd.Open); err != nil {
			return err
		}
	}
	if cmd.Summary != nil {
		w.UpdateSummary(*cmd.Summary)
	}
	if cmd.SkipMeetingReason != nil {
		return w.SkipMeeting(*cmd.SkipMeetingReason)
	}
	if cmd.MeetingAttendees != nil || cmd.MeetingMinutes != nil {
		attendees, minutes := w.MeetingAttendees(), w.MeetingMinutes()
		if cmd.MeetingAttendees != nil {
			attendees = *cmd.MeetingAttendees
		}
		if cmd.MeetingMinutes != nil {
			minutes = *cmd.MeetingMinutes
		}
		w.RecordMeeting(attendees, minutes)
	}
	return nil
}
