package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/seat-planner/internal/logging"
	"github.com/example/seat-planner/internal/persistence"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	return logging.Scoped(ctx, base, "service", serviceName, operation, attrs...)
}

// logOutcome writes the single completion record of an operation. A failed
// save after a successful change is logged as a warning.
func logOutcome(ctx context.Context, logger *slog.Logger, err error, message string, attrs ...any) {
	switch {
	case err == nil:
		logger.With(attrs...).InfoContext(ctx, message)
	case errors.Is(err, ErrSaveFailed):
		logger.With(attrs...).WarnContext(ctx, message+" but not saved", "error", err, "error_kind", ErrorKind(err))
	default:
		logger.ErrorContext(ctx, "operation failed", "error", err, "error_kind", ErrorKind(err))
	}
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrSaveFailed):
		return "save_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotLoaded):
		return "not_loaded"
	case errors.Is(err, persistence.ErrCorruptDocument):
		return "corrupt_document"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
