// Package trails persists trail records in the local store.
package trails

import (
	"context"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// Repository is the trail collection contract.
type Repository interface {
	// Create inserts a new trail and fails if the id already exists.
	Create(ctx context.Context, t *models.Trail) error
	// Upsert inserts or field-replaces a trail by id.
	Upsert(ctx context.Context, t *models.Trail) error
	// GetByID returns a trail or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Trail, error)
	// GetAll lists all trails.
	GetAll(ctx context.Context) ([]*models.Trail, error)
	// SetNextSequence stores the POI numbering counter for a trail.
	SetNextSequence(ctx context.Context, id string, next int) error
	// Delete removes the trail row. POIs are the caller's problem.
	Delete(ctx context.Context, id string) error
	// Clear removes all trails (factory reset).
	Clear(ctx context.Context) error
}
