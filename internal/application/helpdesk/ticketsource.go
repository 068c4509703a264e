// Package helpdesk defines the port to the external ticketing system and the
// error taxonomy that drives retry decisions during reconciliation.
package helpdesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

// TicketCounts is the normalized answer for one week window.
type TicketCounts struct {
	New    int
	Closed int
	Open   int
}

// TicketSource fetches ticket counts for a week. Implementations are read-only,
// own their per-request timeouts and never retry; failures are *SyncError.
type TicketSource interface {
	FetchCounts(ctx context.Context, window biztime.WeekWindow) (TicketCounts, error)
}

type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindHTTPStatus   ErrorKind = "http_status"
	KindParseFailure ErrorKind = "parse_failure"
	KindUnauthorized ErrorKind = "unauthorized"
	// KindStorage is raised by the reconciliation itself when the upsert fails.
	KindStorage ErrorKind = "storage"
)

// SyncError is a classified failure. StatusCode is set for KindHTTPStatus
// and KindUnauthorized.
type SyncError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *SyncError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s (%d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (%d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func NewNetworkError(err error) *SyncError {
	return &SyncError{Kind: KindNetwork, Err: err}
}

// NewStatusError classifies a non-2xx response. 401 and 403 map to KindUnauthorized.
func NewStatusError(code int, err error) *SyncError {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return &SyncError{Kind: KindUnauthorized, StatusCode: code, Err: err}
	}
	return &SyncError{Kind: KindHTTPStatus, StatusCode: code, Err: err}
}

func NewParseError(err error) *SyncError {
	return &SyncError{Kind: KindParseFailure, Err: err}
}

func NewStorageError(err error) *SyncError {
	return &SyncError{Kind: KindStorage, Err: err}
}

// retryable is the single classification table consulted by the retry loop.
var retryable = map[ErrorKind]func(statusCode int) bool{
	KindNetwork:      func(int) bool { return true },
	KindHTTPStatus:   func(code int) bool { return code >= 500 || code == http.StatusTooManyRequests },
	KindParseFailure: func(int) bool { return false },
	KindUnauthorized: func(int) bool { return false },
	KindStorage:      func(int) bool { return false },
}

// IsRetryable reports whether another attempt may succeed. Errors that are
// not *SyncError are treated as network failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	se := AsSyncError(err)
	fn, ok := retryable[se.Kind]
	return ok && fn(se.StatusCode)
}

// AsSyncError extracts the classified error, wrapping anything else as KindNetwork.
func AsSyncError(err error) *SyncError {
	var se *SyncError
	if errors.As(err, &se) {
		return se
	}
	return NewNetworkError(err)
}
