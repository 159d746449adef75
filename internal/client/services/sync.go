package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/client"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/dmitrijs2005/trailkeeper/internal/logging"
)

// SyncResult summarizes one drain cycle.
type SyncResult struct {
	Synced    int
	Abandoned int
}

// SyncEngine drains the outbound queue against the remote store. A drain
// processes pending items strictly in creation order, one at a time, and
// stops at the first failure: a later update must never reach the remote
// before the create it depends on. The engine does not guard against
// concurrent drains; callers serialize.
type SyncEngine struct {
	repos  *client.Repositories
	remote client.Remote
	blobs  client.BlobStore
	gate   *SyncGate
	log    logging.Logger
}

func NewSyncEngine(repos *client.Repositories, remote client.Remote, blobs client.BlobStore, gate *SyncGate, log logging.Logger) *SyncEngine {
	return &SyncEngine{repos: repos, remote: remote, blobs: blobs, gate: gate, log: log}
}

// Drain runs one sync cycle. With sync disabled, no remote configured or no
// local identity it is a successful no-op reporting zero synced items.
// On failure the partial result is returned together with the first error;
// the next trigger resumes from the same queue position.
func (e *SyncEngine) Drain(ctx context.Context) (*SyncResult, error) {
	res := &SyncResult{}

	if !e.gate.Enabled(ctx) || e.remote == nil {
		return res, nil
	}

	prof, err := e.repos.Profile.Get(ctx)
	if err != nil {
		return res, fmt.Errorf("error reading profile: %w", err)
	}
	if prof == nil {
		return res, nil
	}

	if err := e.remote.UpsertProfile(ctx, prof); err != nil {
		return res, fmt.Errorf("error syncing profile: %w", err)
	}

	items, err := e.repos.Queue.Pending(ctx)
	if err != nil {
		return res, fmt.Errorf("error reading sync queue: %w", err)
	}

	for _, item := range items {
		if err := e.processItem(ctx, item); err != nil {
			e.recordFailure(ctx, item, err, res)
			return res, fmt.Errorf("sync stopped at item %s (%s %s): %w",
				item.ID, item.Operation, item.EntityID, err)
		}
		if err := e.repos.Queue.MarkSynced(ctx, item.ID, time.Now().UTC()); err != nil {
			return res, fmt.Errorf("error marking item synced: %w", err)
		}
		res.Synced++
	}
	return res, nil
}

// recordFailure bumps the attempt counter and abandons the item once it hits
// the retry ceiling, so a poison pill cannot block the queue forever.
func (e *SyncEngine) recordFailure(ctx context.Context, item *models.SyncQueueItem, cause error, res *SyncResult) {
	attempts, err := e.repos.Queue.IncrementAttempts(ctx, item.ID)
	if err != nil {
		e.log.Error(ctx, "failed to record sync attempt", "item_id", item.ID, "error", err)
		return
	}
	if attempts < common.MaxSyncAttempts {
		return
	}

	payload := models.AbandonPayload(item.Payload, cause.Error())
	if err := e.repos.Queue.Abandon(ctx, item.ID, time.Now().UTC(), payload); err != nil {
		e.log.Error(ctx, "failed to abandon sync item", "item_id", item.ID, "error", err)
		return
	}
	res.Abandoned++
	e.log.Warn(ctx, "sync item abandoned after retry ceiling",
		"item_id", item.ID, "entity_id", item.EntityID, "attempts", attempts)
}

func (e *SyncEngine) processItem(ctx context.Context, item *models.SyncQueueItem) error {
	switch item.EntityType {
	case models.EntityTrail:
		return e.processTrail(ctx, item)
	case models.EntityPOI:
		return e.processPOI(ctx, item)
	case models.EntityBrochureSetup:
		return e.processBrochure(ctx, item)
	default:
		return fmt.Errorf("unknown entity type %q", item.EntityType)
	}
}

func (e *SyncEngine) processTrail(ctx context.Context, item *models.SyncQueueItem) error {
	if item.Operation == models.SyncOpDelete {
		return e.remote.DeleteTrail(ctx, item.EntityID)
	}
	t, err := e.repos.Trails.GetByID(ctx, item.EntityID)
	if errors.Is(err, common.ErrorNotFound) {
		// Deleted locally after this item was enqueued; the delete item
		// further down the queue handles the remote side.
		return nil
	}
	if err != nil {
		return err
	}
	return e.remote.UpsertTrail(ctx, t)
}

func (e *SyncEngine) processPOI(ctx context.Context, item *models.SyncQueueItem) error {
	if item.Operation == models.SyncOpDelete {
		return e.remote.DeletePOI(ctx, item.EntityID)
	}
	p, err := e.repos.POIs.GetByID(ctx, item.EntityID, true)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	photoURL, err := e.blobs.Upload(ctx, p.TrailID+"/"+p.Filename, p.Photo)
	if err != nil {
		return fmt.Errorf("photo upload: %w", err)
	}
	thumbURL, err := e.blobs.Upload(ctx, p.TrailID+"/thumb_"+p.Filename, p.Thumbnail)
	if err != nil {
		return fmt.Errorf("thumbnail upload: %w", err)
	}
	return e.remote.UpsertPOI(ctx, &client.RemotePOI{POI: p, PhotoURL: photoURL, ThumbnailURL: thumbURL})
}

func (e *SyncEngine) processBrochure(ctx context.Context, item *models.SyncQueueItem) error {
	if item.Operation == models.SyncOpDelete {
		return e.remote.DeleteBrochure(ctx, item.EntityID)
	}
	b, err := e.repos.Brochures.GetByID(ctx, item.EntityID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var coverURL, mapURL string
	if len(b.CoverPhoto) > 0 {
		if coverURL, err = e.blobs.Upload(ctx, b.ID+"/cover.jpg", b.CoverPhoto); err != nil {
			return fmt.Errorf("cover upload: %w", err)
		}
	}
	if len(b.MapImage) > 0 {
		if mapURL, err = e.blobs.Upload(ctx, b.ID+"/map.png", b.MapImage); err != nil {
			return fmt.Errorf("map upload: %w", err)
		}
	}
	return e.remote.UpsertBrochure(ctx, &client.RemoteBrochure{Brochure: b, CoverURL: coverURL, MapURL: mapURL})
}
