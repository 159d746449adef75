// Package syncqueue persists the append-only outbound mutation log. Items are
// drained in creation order by the sync engine; the queue itself never talks
// to the network.
package syncqueue

import (
	"context"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// Repository is the sync queue contract.
type Repository interface {
	// Enqueue appends a fully-populated item.
	Enqueue(ctx context.Context, item *models.SyncQueueItem) error
	// Pending lists unsynced items in FIFO creation order.
	Pending(ctx context.Context) ([]*models.SyncQueueItem, error)
	// PendingCount counts unsynced items.
	PendingCount(ctx context.Context) (int, error)
	// All lists every item, synced or not, in creation order.
	All(ctx context.Context) ([]*models.SyncQueueItem, error)
	// MarkSynced stamps an item as propagated.
	MarkSynced(ctx context.Context, id string, at time.Time) error
	// IncrementAttempts bumps the attempt counter and returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	// Abandon marks an item done-with-failure: synced_at is set and the
	// payload is replaced with one flagged _abandoned.
	Abandon(ctx context.Context, id string, at time.Time, payload string) error
	// LastSyncedAt returns the most recent synced_at, or nil if nothing has
	// ever synced.
	LastSyncedAt(ctx context.Context) (*time.Time, error)
	// Clear removes all items (factory reset).
	Clear(ctx context.Context) error
}
