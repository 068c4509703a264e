// Package db provides database utilities including transaction management.
package db

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// busyRetries bounds how often a transaction is replayed after SQLITE_BUSY.
const busyRetries = 3

// txKey is the context key for storing transaction.
type txKey struct{}

// txState is the transaction carried in a context together with the hooks
// registered to run once it commits.
type txState struct {
	tx          *gorm.DB
	afterCommit []func()
}

// TransactionManager manages database transactions.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn within a database transaction. The transaction
// is rolled back when fn returns an error. A transaction that fails because
// SQLite reported the database as locked is replayed a bounded number of times.
// When ctx already carries a transaction, fn joins it through a savepoint and
// its commit hooks are handed to the enclosing transaction.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	parent, _ := ctx.Value(txKey{}).(*txState)
	base := GetTxFromContext(ctx, tm.db)

	var hooks []func()
	op := func() error {
		state := &txState{}
		err := base.Transaction(func(tx *gorm.DB) error {
			state.tx = tx
			return fn(context.WithValue(ctx, txKey{}, state))
		})
		if err != nil && !IsBusy(err) {
			return backoff.Permanent(err)
		}
		if err == nil {
			hooks = state.afterCommit
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, busyRetries), ctx)); err != nil {
		return err
	}

	if parent != nil {
		parent.afterCommit = append(parent.afterCommit, hooks...)
		return nil
	}
	for _, h := range hooks {
		h()
	}
	return nil
}

// AfterCommit registers fn to run once the outermost transaction in ctx has
// committed. Hooks of a rolled back attempt are discarded. Without a
// transaction in ctx fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.afterCommit = append(state.afterCommit, fn)
		return
	}
	fn()
}

// GetTxFromContext returns the transaction from context if available.
// This is a standalone function for use in repositories.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx
	}
	return defaultDB.WithContext(ctx)
}

// IsBusy reports whether err indicates an SQLite BUSY condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
