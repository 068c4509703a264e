package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chronicle-it/chronicle/internal/infrastructure/scheduler"
	"github.com/chronicle-it/chronicle/internal/shared/utils"
)

// SyncStatusProvider exposes the scheduler state.
type SyncStatusProvider interface {
	Status() scheduler.SyncStatus
}

type SyncResultResponse struct {
	Week        string     `json:"week"`
	Status      string     `json:"status"`
	New         int        `json:"new"`
	Closed      int        `json:"closed"`
	Open        *int       `json:"open,omitempty"`
	Created     bool       `json:"created"`
	Attempts    int        `json:"attempts"`
	SyncedAt    *time.Time `json:"synced_at,omitempty"`
	DurationMs  int64      `json:"duration_ms"`
	FailureKind string     `json:"failure_kind,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type SyncStatusResponse struct {
	State           string              `json:"state"`
	IntervalSeconds int64               `json:"interval_seconds"`
	InFlight        bool                `json:"in_flight"`
	NextRun         *time.Time          `json:"next_run,omitempty"`
	LastRunAt       *time.Time          `json:"last_run_at,omitempty"`
	Runs            int64               `json:"runs"`
	Skipped         int64               `json:"skipped"`
	LastResult      *SyncResultResponse `json:"last_result,omitempty"`
}

// OpsHandler serves health, metrics and sync status for operators.
type OpsHandler struct {
	status  SyncStatusProvider
	metrics http.Handler
}

// NewOpsHandler builds the handler. status may be nil when no scheduler runs
// in this process.
func NewOpsHandler(status SyncStatusProvider, gatherer prometheus.Gatherer) *OpsHandler {
	return &OpsHandler{
		status:  status,
		metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

func (h *OpsHandler) Health(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
}

func (h *OpsHandler) Metrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

func (h *OpsHandler) SyncStatus(c *gin.Context) {
	if h.status == nil {
		utils.SuccessResponse(c, http.StatusOK, "", SyncStatusResponse{State: string(scheduler.StateStopped)})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toSyncStatusResponse(h.status.Status()))
}

func toSyncStatusResponse(s scheduler.SyncStatus) SyncStatusResponse {
	resp := SyncStatusResponse{
		State:           string(s.State),
		IntervalSeconds: int64(s.Interval / time.Second),
		InFlight:        s.InFlight,
		Runs:            s.Runs,
		Skipped:         s.Skipped,
	}
	if !s.NextRun.IsZero() {
		next := s.NextRun.UTC()
		resp.NextRun = &next
	}
	if !s.LastRunAt.IsZero() {
		last := s.LastRunAt.UTC()
		resp.LastRunAt = &last
	}
	if r := s.LastResult; r != nil {
		out := &SyncResultResponse{
			Week:        r.Week.String(),
			Status:      string(r.Status),
			New:         r.Counts.New,
			Closed:      r.Counts.Closed,
			Created:     r.Created,
			Attempts:    r.Attempts,
			DurationMs:  r.Duration.Milliseconds(),
			FailureKind: string(r.FailureKind),
		}
		if !r.SyncedAt.IsZero() {
			synced := r.SyncedAt.UTC()
			out.SyncedAt = &synced
		}
		if r.OpenWritten {
			open := r.Counts.Open
			out.Open = &open
		}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		resp.LastResult = out
	}
	return resp
}
