// Package brochures persists per-trail brochure settings. Funder logos live
// in a child table keyed by (brochure_id, position).
package brochures

import (
	"context"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// Repository is the brochure setup contract.
type Repository interface {
	// Upsert inserts or replaces a setup by id, replacing the logo set
	// wholesale.
	Upsert(ctx context.Context, b *models.BrochureSetup) error
	// GetByID returns a setup or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.BrochureSetup, error)
	// Delete removes a setup and its logos.
	Delete(ctx context.Context, id string) error
	// Clear removes all setups (factory reset).
	Clear(ctx context.Context) error
}
