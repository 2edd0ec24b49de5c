package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/seat-planner/internal/persistence/sqlite/migration"
)

// backoff describes how long a whole-document transaction waits for a
// competing writer (a second seatplanctl process, for instance).
type backoff struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

var defaultBackoff = backoff{attempts: 4, initial: 100 * time.Millisecond, max: 2 * time.Second}

type database struct {
	db      *sql.DB
	backoff backoff
}

func openDatabase(config migration.SQLiteConfig) (*database, error) {
	db, err := migration.OpenDatabase(config)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &database{db: db, backoff: defaultBackoff}, nil
}

func (d *database) close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// inTx runs fn in a transaction, starting over while SQLite reports the
// database as busy. fn must not keep state across attempts.
func (d *database) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	delay := d.backoff.initial
	var err error
	for attempt := 1; ; attempt++ {
		err = d.runTx(ctx, fn)
		if err == nil || !isBusy(err) || attempt >= d.backoff.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(2*delay, d.backoff.max)
	}
	if err != nil && isBusy(err) {
		return fmt.Errorf("database still busy after %d attempts: %w", d.backoff.attempts, err)
	}
	return err
}

func (d *database) runTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
