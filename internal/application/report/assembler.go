// Package report assembles a week's log into Markdown, HTML, PDF and email
// payloads. It only reads week logs.
package report

import (
	"context"
	"math"
	"time"

	"github.com/chronicle-it/chronicle/internal/domain/oncall"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const defaultHistoryWeeks = 12

type Settings struct {
	Title        string
	Organization string
	HistoryWeeks int
}

// Averages are mean weekly new and closed counts over the weeks in the
// history window that have helpdesk data.
type Averages struct {
	New    float64
	Closed float64
	Weeks  int
}

// HistoryPoint is one week of the trend shown in reports, oldest first.
type HistoryPoint struct {
	Week   vo.WeekKey
	New    int
	Closed int
}

type WeekReport struct {
	Title        string
	Organization string
	GeneratedAt  time.Time
	WeekLog      *weeklog.WeekLog
	OnCall       *oncall.Duty
	Averages     Averages
	History      []HistoryPoint
}

func (r *WeekReport) Key() vo.WeekKey {
	return r.WeekLog.Key()
}

type Assembler struct {
	repo       weeklog.Repository
	oncallRepo oncall.Repository
	settings   Settings
	now        func() time.Time
	logger     logger.Interface
}

func NewAssembler(repo weeklog.Repository, oncallRepo oncall.Repository, settings Settings, logger logger.Interface) *Assembler {
	if settings.HistoryWeeks <= 0 {
		settings.HistoryWeeks = defaultHistoryWeeks
	}
	if settings.Title == "" {
		settings.Title = "IT Ugelog"
	}
	return &Assembler{
		repo:       repo,
		oncallRepo: oncallRepo,
		settings:   settings,
		now:        biztime.NowUTC,
		logger:     logger,
	}
}

// Assemble loads everything a report for key needs. A week without a log is
// a not-found error.
func (a *Assembler) Assemble(ctx context.Context, key vo.WeekKey) (*WeekReport, error) {
	w, err := a.repo.FindByWeek(ctx, key)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, errors.NewNotFoundError("week log not found", key.String())
	}

	duty, err := a.oncallRepo.FindByWeek(ctx, key)
	if err != nil {
		return nil, err
	}

	history, err := a.repo.History(ctx, key, a.settings.HistoryWeeks)
	if err != nil {
		return nil, err
	}

	points, averages := summarizeHistory(history)

	a.logger.Debugw("assembled week report",
		"week", key.String(),
		"history_weeks", len(points),
		"has_oncall", duty != nil,
	)

	return &WeekReport{
		Title:        a.settings.Title,
		Organization: a.settings.Organization,
		GeneratedAt:  a.now(),
		WeekLog:      w,
		OnCall:       duty,
		Averages:     averages,
		History:      points,
	}, nil
}

// summarizeHistory takes logs newest first and returns the points oldest
// first together with their averages.
func summarizeHistory(logs []*weeklog.WeekLog) ([]HistoryPoint, Averages) {
	var (
		points            []HistoryPoint
		sumNew, sumClosed int
	)
	for i := len(logs) - 1; i >= 0; i-- {
		w := logs[i]
		if w.HelpdeskNew() == nil || w.HelpdeskClosed() == nil {
			continue
		}
		p := HistoryPoint{Week: w.Key(), New: *w.HelpdeskNew(), Closed: *w.HelpdeskClosed()}
		points = append(points, p)
		sumNew += p.New
		sumClosed += p.Closed
	}

	avg := Averages{Weeks: len(points)}
	if avg.Weeks > 0 {
		avg.New = round1(float64(sumNew) / float64(avg.Weeks))
		avg.Closed = round1(float64(sumClosed) / float64(avg.Weeks))
	}
	return points, avg
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
