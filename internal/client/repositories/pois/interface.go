// Package pois persists point-of-interest records, including their photo and
// thumbnail blobs.
package pois

import (
	"context"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// Repository is the POI collection contract. The includeBlobs flag controls
// whether photo/thumbnail columns are fetched at all; list views pass false
// to keep reads cheap.
type Repository interface {
	// Create inserts a new POI record and fails if the id already exists.
	Create(ctx context.Context, p *models.POIRecord) error
	// Update applies a partial patch. Returns common.ErrorNotFound if the id
	// does not exist. The completion flag is recomputed only when the patch
	// touches site name, description or story.
	Update(ctx context.Context, id string, patch *models.POIPatch) error
	// Delete removes a record. Surviving sequence numbers are not renumbered
	// here; that is a service-level concern.
	Delete(ctx context.Context, id string) error
	// DeleteByTrailID removes every POI under a trail.
	DeleteByTrailID(ctx context.Context, trailID string) error
	// GetByID returns one record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string, includeBlobs bool) (*models.POIRecord, error)
	// GetByTrailID lists a trail's POIs in sequence order.
	GetByTrailID(ctx context.Context, trailID string, includeBlobs bool) ([]*models.POIRecord, error)
	// CountByTrailID counts a trail's POIs.
	CountByTrailID(ctx context.Context, trailID string) (int, error)
	// Clear removes all POIs (factory reset).
	Clear(ctx context.Context) error
}
