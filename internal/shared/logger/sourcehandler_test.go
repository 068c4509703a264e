package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		minLevel   slog.Level
		logAt      slog.Level
		wantSource bool
	}{
		{"info below warn threshold", slog.LevelWarn, slog.LevelInfo, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelWarn, slog.LevelError, true},
		{"debug threshold shows info", slog.LevelDebug, slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewSourceHandler(base, tt.minLevel))

			l.Log(t.Context(), tt.logAt, "sync tick")

			out := buf.String()
			assert.Equal(t, tt.wantSource, strings.Contains(out, "source="), out)
			if tt.wantSource {
				assert.Contains(t, out, "sourcehandler_test.go")
			}
		})
	}
}

func TestSourceHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(NewSourceHandler(base, slog.LevelError)).With("component", "scheduler")

	l.Warn("skipped tick")
	assert.Contains(t, buf.String(), "component=scheduler")
	assert.NotContains(t, buf.String(), "source=")

	buf.Reset()
	l.WithGroup("run").Error("sync failed", "attempts", 3)
	assert.Contains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "run.attempts=3")
}

func TestNop(t *testing.T) {
	l := NewNop().Named("test").With("k", "v")
	assert.NotPanics(t, func() {
		l.Infow("ignored", "a", 1)
		l.Errorw("ignored", "error", assert.AnError)
	})
}
