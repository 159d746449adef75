package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/config"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/syncqueue"
	"github.com/dmitrijs2005/trailkeeper/internal/logging"
	"github.com/google/uuid"
)

// SyncGate decides whether a mutation should produce an outbound queue item.
// The persisted metadata toggle lets the user flip sync on a running device;
// it defaults to the config value when unset.
type SyncGate struct {
	cfg  *config.Config
	meta metadata.Repository
}

func NewSyncGate(cfg *config.Config, meta metadata.Repository) *SyncGate {
	return &SyncGate{cfg: cfg, meta: meta}
}

// Enabled reports whether outbound sync is on and a remote store is
// configured.
func (g *SyncGate) Enabled(ctx context.Context) bool {
	if g == nil || g.cfg == nil || g.cfg.RemoteDSN == "" {
		return false
	}
	enabled, err := g.meta.GetBool(ctx, metadata.KeySyncEnabled, g.cfg.SyncEnabled)
	if err != nil {
		return false
	}
	return enabled
}

// Enqueuer appends sync queue items off the caller's path. Repository writes
// hand their queue entries to a single background worker, so the write never
// waits on queue persistence and item creation order matches call order.
// Worker failures are logged and dropped; the entity write has already
// succeeded at that point.
type Enqueuer struct {
	repo syncqueue.Repository
	log  logging.Logger
	ch   chan *models.SyncQueueItem
	wg   sync.WaitGroup
	once sync.Once
}

// NewEnqueuer starts the background worker.
func NewEnqueuer(repo syncqueue.Repository, log logging.Logger) *Enqueuer {
	e := &Enqueuer{
		repo: repo,
		log:  log,
		ch:   make(chan *models.SyncQueueItem, 64),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *Enqueuer) run() {
	defer e.wg.Done()
	ctx := context.Background()
	for item := range e.ch {
		if err := e.repo.Enqueue(ctx, item); err != nil {
			e.log.Error(ctx, "failed to append sync queue item",
				"entity_type", string(item.EntityType), "entity_id", item.EntityID, "error", err)
		}
	}
}

// Enqueue records a mutation for later propagation. The creation timestamp
// is taken here, on the caller's goroutine, so FIFO drain order equals
// mutation order.
func (e *Enqueuer) Enqueue(op models.SyncOperation, entityType models.EntityType, entityID, payload string) {
	e.ch <- &models.SyncQueueItem{
		ID:         uuid.NewString(),
		Operation:  op,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
}

// Close drains the worker. Safe to call more than once. Call at shutdown
// (and in tests before asserting on queue contents).
func (e *Enqueuer) Close() {
	e.once.Do(func() {
		close(e.ch)
		e.wg.Wait()
	})
}
