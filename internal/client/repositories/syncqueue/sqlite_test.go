package syncqueue

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sync_queue (
  id TEXT PRIMARY KEY,
  operation TEXT NOT NULL,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  payload TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  synced_at TIMESTAMP,
  attempts INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)

	return db
}

func enqueueN(t *testing.T, r *SQLiteRepository, n int) []*models.SyncQueueItem {
	t.Helper()
	base := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	items := make([]*models.SyncQueueItem, 0, n)
	for i := 0; i < n; i++ {
		item := &models.SyncQueueItem{
			ID:         fmt.Sprintf("item-%03d", i),
			Operation:  models.SyncOpCreate,
			EntityType: models.EntityPOI,
			EntityID:   fmt.Sprintf("KHS-g-070325-14050%d-000", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, r.Enqueue(context.Background(), item))
		items = append(items, item)
	}
	return items
}

func TestEnqueueAndPending_FIFO(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	enqueueN(t, r, 3)

	pending, err := r.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "item-000", pending[0].ID)
	assert.Equal(t, "item-001", pending[1].ID)
	assert.Equal(t, "item-002", pending[2].ID)
}

func TestMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	items := enqueueN(t, r, 2)
	require.NoError(t, r.MarkSynced(ctx, items[0].ID, time.Now().UTC()))

	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, items[1].ID, pending[0].ID)

	n, err := r.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkSynced_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.MarkSynced(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestIncrementAttempts(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	items := enqueueN(t, r, 1)

	for want := 1; want <= 3; want++ {
		got, err := r.IncrementAttempts(ctx, items[0].ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.IncrementAttempts(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAbandon(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	items := enqueueN(t, r, 1)
	payload := models.AbandonPayload("", "remote unreachable")
	require.NoError(t, r.Abandon(ctx, items[0].ID, time.Now().UTC(), payload))

	// Abandoned items leave the pending set.
	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Abandoned())
	assert.False(t, all[0].Pending())
}

func TestLastSyncedAt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	last, err := r.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	items := enqueueN(t, r, 2)
	early := time.Date(2025, 3, 7, 11, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.MarkSynced(ctx, items[0].ID, late))
	require.NoError(t, r.MarkSynced(ctx, items[1].ID, early))

	last, err = r.LastSyncedAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(late))
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	enqueueN(t, r, 3)
	require.NoError(t, r.Clear(ctx))

	n, err := r.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
