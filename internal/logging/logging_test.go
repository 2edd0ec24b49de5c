package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestScoped(t *testing.T) {
	t.Parallel()

	var fallbackBuf, requestBuf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&fallbackBuf, nil))

	Scoped(context.Background(), fallback, "service", "PlanService", "AutoAssign", "date", "2024-03-04").Info("done")
	record := decode(t, fallbackBuf.Bytes())
	if record["service"] != "PlanService" || record["operation"] != "AutoAssign" || record["date"] != "2024-03-04" {
		t.Fatalf("unexpected record: %v", record)
	}

	ctx := ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&requestBuf, nil)))
	Scoped(ctx, fallback, "handler", "PlanHandler", "").Info("done")
	record = decode(t, requestBuf.Bytes())
	if record["handler"] != "PlanHandler" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["operation"]; ok {
		t.Fatalf("empty operation should be omitted: %v", record)
	}
}

func TestContextWithLoggerIgnoresNil(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Fatal("expected the same context for a nil logger")
	}
	if FromContext(ctx) != nil {
		t.Fatal("expected no logger in a bare context")
	}
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("invalid log record: %v", err)
	}
	return record
}
