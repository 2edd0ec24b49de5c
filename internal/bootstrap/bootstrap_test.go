package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/example/seat-planner/internal/config"
)

func TestOpenStore(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.DiscardHandler)

	t.Run("json store creates the default document", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		cfg.DataFile = filepath.Join(t.TempDir(), "data.json")

		store, err := OpenStore(context.Background(), cfg, logger)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, store.Close()) })

		svc, err := NewPlanService(context.Background(), store, nil, logger)
		require.NoError(t, err)
		require.True(t, svc.Loaded())

		_, err = os.Stat(cfg.DataFile)
		require.NoError(t, err)
	})

	t.Run("sqlite store persists new entities", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		cfg.Store = config.StoreSQLite
		cfg.SQLiteDSN = filepath.Join(t.TempDir(), "plan.db")

		store, err := OpenStore(context.Background(), cfg, logger)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, store.Close()) })

		svc, err := NewPlanService(context.Background(), store, nil, logger)
		require.NoError(t, err)

		room, err := svc.AddRoom(context.Background(), "Büro")
		require.NoError(t, err)
		_, err = uuid.Parse(room.ID)
		require.NoError(t, err, "ids are uuids")

		doc, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, doc.Rooms, 1)
		require.Equal(t, room.ID, doc.Rooms[0].ID)
	})

	t.Run("unknown store", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		cfg.Store = "mongo"

		_, err := OpenStore(context.Background(), cfg, logger)
		require.Error(t, err)
	})
}
