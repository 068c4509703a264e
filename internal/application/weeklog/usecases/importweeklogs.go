package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const importAuthor = "import"

var occurredAtLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

type ImportWeekLogsCommand struct {
	Weeks []dto.ImportWeek
	// Overwrite updates weeks that already exist instead of skipping them.
	Overwrite bool
}

type ImportFailure struct {
	Week string
	Err  error
}

type ImportWeekLogsResult struct {
	Created  int
	Updated  int
	Skipped  int
	Failures []ImportFailure
}

// ImportWeekLogsUseCase loads historical weeks. Each week is imported in its
// own transaction; a bad week is reported and the rest continue.
type ImportWeekLogsUseCase struct {
	repo       weeklog.Repository
	oncallRepo oncall.Repository
	txm        TransactionRunner
	validate   *validator.Validate
	logger     logger.Interface
}

func NewImportWeekLogsUseCase(
	repo weeklog.Repository,
	oncallRepo oncall.Repository,
	txm TransactionRunner,
	logger logger.Interface,
) *ImportWeekLogsUseCase {
	return &ImportWeekLogsUseCase{
		repo:       repo,
		oncallRepo: oncallRepo,
		txm:        txm,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (uc *ImportWeekLogsUseCase) Execute(ctx context.Context, cmd ImportWeekLogsCommand) *ImportWeekLogsResult {
	result := &ImportWeekLogsResult{}

	for _, week := range cmd.Weeks {
		outcome, err := uc.importWeek(ctx, week, cmd.Overwrite)
		if err != nil {
			uc.logger.Warnw("failed to import week", "week", week.Week, "error", err)
			result.Failures = append(result.Failures, ImportFailure{Week: week.Week, Err: err})
			continue
		}
		switch outcome {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	uc.logger.Infow("week log import finished",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", len(result.Failures),
	)
	return result
}

type importOutcome int

const (
	outcomeSkipped importOutcome = iota
	outcomeCreated
	outcomeUpdated
)

func (uc *ImportWeekLogsUseCase) importWeek(ctx context.Context, in dto.ImportWeek, overwrite bool) (importOutcome, error) {
	if err := uc.validate.Struct(in); err != nil {
		return outcomeSkipped, err
	}
	key, err := vo.ParseWeekKey(in.Week)
	if err != nil {
		return outcomeSkipped, err
	}

	outcome := outcomeSkipped
	err = uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		outcome = outcomeSkipped
		w, err := uc.repo.FindByWeek(ctx, key)
		if err != nil {
			return err
		}

		switch {
		case w == nil:
			author := in.CreatedBy
			if author == "" {
				author = importAuthor
			}
			if w, err = weeklog.NewWeekLog(key, author); err != nil {
				return err
			}
			outcome = outcomeCreated
		case overwrite:
			outcome = outcomeUpdated
		default:
			return nil
		}

		if err := applyImport(w, in); err != nil {
			return err
		}

		if outcome == outcomeCreated {
			err = uc.repo.Create(ctx, w)
		} else {
			err = uc.repo.Update(ctx, w)
		}
		if err != nil {
			return err
		}

		if in.OnCall != nil {
			duty, err := oncall.NewDuty(key, in.OnCall.StaffName, in.OnCall.Notes)
			if err != nil {
				return err
			}
			return uc.oncallRepo.Assign(ctx, duty)
		}
		return nil
	})
	if err != nil {
		return outcomeSkipped, err
	}
	return outcome, nil
}

// applyImport copies narrative, counts and entries onto w. Entries are
// appended; existing entries of an overwritten week are kept.
func applyImport(w *weeklog.WeekLog, in dto.ImportWeek) error {
	if in.Helpdesk != nil {
		if err := w.SetHelpdeskCounts(in.Helpdesk.New, in.Helpdesk.Closed, in.Helpdesk.Open); err != nil {
			return err
		}
	}
	if in.Summary != "" {
		w.UpdateSummary(in.Summary)
	}
	if m := in.Meeting; m != nil {
		if m.Skipped {
			if err := w.SkipMeeting(m.Reason); err != nil {
				return err
			}
		} else {
			w.RecordMeeting(m.Attendees, m.Minutes)
		}
	}

	offset := len(w.PriorityItems())
	for i, p := range in.PriorityItems {
		priority := vo.Priority(p.Priority)
		if p.Priority == "" {
			priority = vo.PriorityMedium
		}
		status := vo.TaskStatus(p.Status)
		if p.Status == "" {
			status = vo.TaskNotStarted
		}
		item, err := weeklog.NewPriorityItem(p.Title, p.Description, priority, status, p.Notes, offset+i)
		if err != nil {
			return fmt.Errorf("priority item %q: %w", p.Title, err)
		}
		w.AddPriorityItem(item)
	}

	for _, a := range in.Absences {
		absence, err := toAbsence(a)
		if err != nil {
			return fmt.Errorf("absence for %s: %w", a.StaffName, err)
		}
		w.AddAbsence(absence)
	}

	for _, i := range in.Incidents {
		incident, err := toIncident(i)
		if err != nil {
			return fmt.Errorf("incident %q: %w", i.Title, err)
		}
		w.AddIncident(incident)
	}
	return nil
}

func toAbsence(a dto.ImportAbsence) (*weeklog.Absence, error) {
	absenceType, err := vo.NewAbsenceType(a.Type)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(time.DateOnly, a.Start)
	if err != nil {
		return nil, err
	}
	end := start
	if a.End != "" {
		if end, err = time.Parse(time.DateOnly, a.End); err != nil {
			return nil, err
		}
	}
	return weeklog.NewAbsence(a.StaffName, absenceType, start, end, a.Notes)
}

func toIncident(i dto.ImportIncident) (*weeklog.Incident, error) {
	incidentType, err := vo.NewIncidentType(i.Type)
	if err != nil {
		return nil, err
	}
	severity, err := vo.NewSeverity(i.Severity)
	if err != nil {
		return nil, err
	}
	occurredAt, err := parseOccurredAt(i.OccurredAt)
	if err != nil {
		return nil, err
	}
	incident, err := weeklog.NewIncident(i.Title, incidentType, severity, i.Description, occurredAt)
	if err != nil {
		return nil, err
	}
	if i.Resolved {
		incident.Resolve(i.Resolution)
	}
	return incident, nil
}

// parseOccurredAt reads timestamps without an offset as business-timezone wall time.
func parseOccurredAt(s string) (time.Time, error) {
	for _, layout := range occurredAtLayouts {
		if t, err := time.ParseInLocation(layout, s, biztime.Location()); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid occurred_at %q", s)
}
