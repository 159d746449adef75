package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/syncqueue"
)

// QueueStats is the aggregate view of the sync queue shown on the status
// screen. DistinctEntities deduplicates by entity id, as opposed to the raw
// item counts; DistinctTrails maps POI items back to their owning trail via
// the id naming convention.
type QueueStats struct {
	TotalItems       int
	PendingItems     int
	SyncedItems      int
	DistinctEntities int
	DistinctTrails   int
	LastSyncedAt     *time.Time
}

// StatsService computes queue aggregates.
type StatsService struct {
	queue syncqueue.Repository
}

func NewStatsService(queue syncqueue.Repository) *StatsService {
	return &StatsService{queue: queue}
}

func (s *StatsService) QueueStats(ctx context.Context) (*QueueStats, error) {
	items, err := s.queue.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading sync queue: %w", err)
	}

	stats := &QueueStats{}
	entities := make(map[string]struct{})
	trails := make(map[string]struct{})

	for _, item := range items {
		stats.TotalItems++
		if item.Pending() {
			stats.PendingItems++
		} else {
			stats.SyncedItems++
		}
		entities[item.EntityID] = struct{}{}

		switch item.EntityType {
		case models.EntityTrail:
			trails[item.EntityID] = struct{}{}
		case models.EntityBrochureSetup:
			// Brochure setup shares its id with the trail.
			trails[item.EntityID] = struct{}{}
		case models.EntityPOI:
			if trailID, ok := models.TrailIDFromPOIID(item.EntityID); ok {
				trails[trailID] = struct{}{}
			}
		}
	}
	stats.DistinctEntities = len(entities)
	stats.DistinctTrails = len(trails)

	last, err := s.queue.LastSyncedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading last synced at: %w", err)
	}
	stats.LastSyncedAt = last

	return stats, nil
}
