package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/seat-planner/internal/persistence/sqlite/migration"
	"github.com/example/seat-planner/internal/seatplan"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(context.Background(), migration.TempFileTestSQLiteConfig(path), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleDocument() seatplan.Document {
	room := "r1"
	return seatplan.Document{
		Rooms: []seatplan.Room{
			{ID: "r1", X: 100, Y: 100, W: 200, H: 150, Name: "Büro 101", SeatCount: 2},
			{ID: "r0", X: 400, Y: 100, W: 50, H: 50, Name: "Lager"},
		},
		Seats: []seatplan.Seat{
			{ID: "s2", X: 200, Y: 140, RoomID: &room, Features: []string{seatplan.FeatureWindow, seatplan.FeatureDualMonitor}},
			{ID: "s1", X: 130, Y: 140, RoomID: &room, Features: []string{}},
			{ID: "loose", X: 10, Y: 10, Features: []string{seatplan.FeatureStanding}},
		},
		People: []seatplan.Person{
			{ID: "p2", Name: "Ben", Days: []string{seatplan.Friday, seatplan.Monday}},
			{ID: "p1", Name: "Anna", Days: []string{}},
		},
		Assignments: seatplan.Assignments{
			"2024-03-04": {"s2": "p2", "gone": "p1"},
			"2024-03-05": {},
		},
	}
}

func TestStoreEmptyDatabaseLoadsDefaultDocument(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "seatplan.db"))

	doc, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Equal(t, seatplan.NewDocument(), doc)
}

func TestStoreRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "seatplan.db"))
	doc := sampleDocument()

	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, doc, loaded)
}

func TestStoreSaveReplacesPreviousDocument(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "seatplan.db"))
	require.NoError(t, store.Save(ctx, sampleDocument()))

	smaller := seatplan.NewDocument()
	smaller, _ = seatplan.AddPerson(smaller, "p9", "Clara")
	require.NoError(t, store.Save(ctx, smaller))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, smaller, loaded)
}

func TestStoreDuplicateIDsSurvive(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "seatplan.db"))
	doc := seatplan.NewDocument()
	doc.People = []seatplan.Person{
		{ID: "p1", Name: "First", Days: []string{seatplan.Monday}},
		{ID: "p1", Name: "Second", Days: []string{seatplan.Monday, seatplan.Monday}},
	}

	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, doc, loaded)
}

func TestStoreReopenKeepsDataAndSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seatplan.db")

	first, err := Open(ctx, migration.TempFileTestSQLiteConfig(path), nil)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, sampleDocument()))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, sampleDocument(), loaded)
}

func TestInTxRetriesBusyDatabase(t *testing.T) {
	t.Parallel()

	store := openTestStore(t, filepath.Join(t.TempDir(), "busy.db"))
	store.db.backoff = backoff{attempts: 3, initial: time.Millisecond, max: time.Millisecond}

	calls := 0
	err := store.db.inTx(context.Background(), func(*sql.Tx) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	calls = 0
	err = store.db.inTx(context.Background(), func(*sql.Tx) error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	require.ErrorContains(t, err, "still busy after 3 attempts")
	require.Equal(t, 3, calls)

	calls = 0
	boom := errors.New("constraint failed")
	err = store.db.inTx(context.Background(), func(*sql.Tx) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}
