package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	apperrors "github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

func seedWeeks(t *testing.T, repo *memoryWeekLogRepo, keys ...vo.WeekKey) {
	t.Helper()
	for _, k := range keys {
		w, err := weeklog.NewWeekLog(k, "mette")
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), w))
	}
}

func TestListWeekLogs(t *testing.T) {
	repo := newMemoryWeekLogRepo()
	seedWeeks(t, repo, vo.WeekKey{Year: 2024, Week: 52}, vo.WeekKey{Year: 2025, Week: 1}, week3)
	uc := NewListWeekLogsUseCase(repo, logger.NewNop())

	year := 2025
	result, err := uc.Execute(context.Background(), ListWeekLogsQuery{Year: &year})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, defaultListPageSize, result.PageSize)
	require.Len(t, result.WeekLogs, 2)
	assert.Equal(t, "2025-W03", result.WeekLogs[0].Week)
	assert.Equal(t, defaultListPageSize, repo.lastFilter.PageSize)

	_, err = uc.Execute(context.Background(), ListWeekLogsQuery{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, maxListPageSize, repo.lastFilter.PageSize)
}

func TestListWeekLogs_ValidationErrors(t *testing.T) {
	uc := NewListWeekLogsUseCase(newMemoryWeekLogRepo(), logger.NewNop())
	year := 1999

	_, err := uc.Execute(context.Background(), ListWeekLogsQuery{Year: &year})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), ListWeekLogsQuery{Page: -1})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestDeleteWeekLog(t *testing.T) {
	repo := newMemoryWeekLogRepo()
	seedWeeks(t, repo, week3)
	tx := &passthroughTx{}
	uc := NewDeleteWeekLogUseCase(repo, tx, logger.NewNop())

	require.NoError(t, uc.Execute(context.Background(), week3))
	assert.Equal(t, []uint{1}, repo.deleted)
	assert.Equal(t, 1, tx.calls)

	err := uc.Execute(context.Background(), week3)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Len(t, repo.deleted, 1)
}
