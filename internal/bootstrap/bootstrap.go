// Package bootstrap wires configuration into the stores and services shared
// by the planner binaries.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/config"
	"github.com/example/seat-planner/internal/persistence/jsonfile"
	"github.com/example/seat-planner/internal/persistence/sqlite"
	"github.com/example/seat-planner/internal/persistence/sqlite/migration"
)

// Store is a document store holding resources until Close.
type Store interface {
	application.DocumentStore
	Close() error
}

type fileStore struct {
	*jsonfile.Store
}

func (fileStore) Close() error { return nil }

// NewLogger returns the JSON logger used by both binaries.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewID returns a random identifier for new rooms, seats and people.
func NewID() string {
	return uuid.NewString()
}

// OpenStore opens the store selected by cfg.Store.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, migration.DefaultSQLiteConfig(cfg.SQLiteDSN), logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", cfg.SQLiteDSN, err)
		}
		return store, nil
	case config.StoreJSON, "":
		return fileStore{jsonfile.New(cfg.DataFile)}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// NewPlanService builds the plan service over store, installs recorder when
// given and loads the document.
func NewPlanService(ctx context.Context, store application.DocumentStore, recorder application.Recorder, logger *slog.Logger) (*application.PlanService, error) {
	svc := application.NewPlanServiceWithLogger(store, NewID, time.Now, logger)
	if recorder != nil {
		svc.SetRecorder(recorder)
	}
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
