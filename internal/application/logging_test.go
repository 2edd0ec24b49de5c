package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/seat-planner/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	baseLogger := slog.New(slog.NewJSONHandler(&base, nil))
	ctx := logging.ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&scoped, nil)))

	serviceLogger(ctx, baseLogger, "PlanService", "AutoAssign", "date", "2024-03-04").Info("done")

	if base.Len() != 0 {
		t.Fatalf("expected base logger to stay silent, got %s", base.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(scoped.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry: %v", err)
	}
	if entry["service"] != "PlanService" || entry["operation"] != "AutoAssign" || entry["date"] != "2024-03-04" {
		t.Fatalf("unexpected log attributes: %v", entry)
	}
}

func TestLogOutcomeLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		level string
	}{
		{name: "success", err: nil, level: "INFO"},
		{name: "save failure", err: fmt.Errorf("%w: %w", ErrSaveFailed, errors.New("disk full")), level: "WARN"},
		{name: "failure", err: ErrNotFound, level: "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			logOutcome(context.Background(), logger, tt.err, "room added", "room_id", "r1")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log entry: %v", err)
			}
			if entry["level"] != tt.level {
				t.Fatalf("expected level %s, got %v", tt.level, entry["level"])
			}
			if tt.err != nil && entry["error_kind"] != ErrorKind(tt.err) {
				t.Fatalf("expected error_kind %s, got %v", ErrorKind(tt.err), entry["error_kind"])
			}
		})
	}
}
