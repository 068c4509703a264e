package usecases

import (
	"context"
	"fmt"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/dto"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const (
	defaultListPageSize = 20
	maxListPageSize     = 100
)

type ListWeekLogsQuery struct {
	Year     *int
	Page     int
	PageSize int
}

type ListWeekLogsResult struct {
	WeekLogs []*dto.WeekLogDTO `json:"week_logs"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type ListWeekLogsUseCase struct {
	repo   weeklog.Repository
	logger logger.Interface
}

func NewListWeekLogsUseCase(repo weeklog.Repository, logger logger.Interface) *ListWeekLogsUseCase {
	return &ListWeekLogsUseCase{repo: repo, logger: logger}
}

func (uc *ListWeekLogsUseCase) Execute(ctx context.Context, query ListWeekLogsQuery) (*ListWeekLogsResult, error) {
	if query.Year != nil && (*query.Year < vo.MinYear || *query.Year > vo.MaxYear) {
		return nil, errors.NewValidationError("year out of range", fmt.Sprintf("%d-%d", vo.MinYear, vo.MaxYear))
	}
	if query.Page < 0 || query.PageSize < 0 {
		return nil, errors.NewValidationError("page and page size cannot be negative")
	}

	page := max(query.Page, 1)
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = defaultListPageSize
	}
	pageSize = min(pageSize, maxListPageSize)

	logs, total, err := uc.repo.List(ctx, weeklog.ListFilter{
		Year:     query.Year,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list week logs", "error", err)
		return nil, err
	}

	result := &ListWeekLogsResult{
		WeekLogs: make([]*dto.WeekLogDTO, 0, len(logs)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, w := range logs {
		result.WeekLogs = append(result.WeekLogs, dto.ToWeekLogDTO(w, nil))
	}
	return result, nil
}
