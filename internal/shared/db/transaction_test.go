package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type counterRow struct {
	ID    uint `gorm:"primaryKey"`
	Value int
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tx.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&counterRow{}))
	return db
}

func TestRunInTransaction_Commit(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		return GetTxFromContext(ctx, db).Create(&counterRow{Value: 1}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&counterRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunInTransaction_RollbackIsNotRetried(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)
	boom := errors.New("boom")

	calls := 0
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		calls++
		if err := GetTxFromContext(ctx, db).Create(&counterRow{Value: 1}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	var count int64
	require.NoError(t, db.Model(&counterRow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunInTransaction_RetriesBusy(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)

	calls := 0
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestAfterCommit_RunsOnlyAfterCommit(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)

	var committed []int
	attempts := 0
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		attempts++
		row := &counterRow{Value: attempts}
		if err := GetTxFromContext(ctx, db).Create(row).Error; err != nil {
			return err
		}
		AfterCommit(ctx, func() { committed = append(committed, row.Value) })
		assert.Empty(t, committed)
		if attempts == 1 {
			return errors.New("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []int{2}, committed)
}

func TestAfterCommit_DroppedOnRollback(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)

	ran := false
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func() { ran = true })
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.False(t, ran)
}

func TestAfterCommit_NestedWaitsForOuterCommit(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)

	ran := false
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
			AfterCommit(ctx, func() { ran = true })
			return nil
		}); err != nil {
			return err
		}
		assert.False(t, ran)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestAfterCommit_WithoutTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func() { ran = true })
	assert.True(t, ran)
}

func TestScopes(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Exec("CREATE TABLE weeks (year INTEGER, week_number INTEGER)").Error)
	for _, k := range [][2]int{{2024, 52}, {2025, 1}, {2025, 2}, {2025, 3}} {
		require.NoError(t, db.Exec("INSERT INTO weeks VALUES (?, ?)", k[0], k[1]).Error)
	}

	type row struct {
		Year       int
		WeekNumber int
	}
	var rows []row
	require.NoError(t, db.Table("weeks").Scopes(UpToWeek(2025, 2), NewestWeekFirst()).Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, row{2025, 2}, rows[0])
	assert.Equal(t, row{2024, 52}, rows[2])

	var n int64
	require.NoError(t, db.Table("weeks").Scopes(ForWeek(2025, 3)).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIsBusy(t *testing.T) {
	assert.True(t, IsBusy(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, IsBusy(errors.New("UNIQUE constraint failed")))
	assert.False(t, IsBusy(nil))
}
