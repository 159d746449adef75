package profile

import (
	"context"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// Repository stores the device's singleton user profile.
type Repository interface {
	// Get returns the profile, or (nil, nil) when none has been created yet.
	Get(ctx context.Context) (*models.UserProfile, error)
	// Save upserts the profile under the fixed singleton key, normalizing
	// the email on the way in.
	Save(ctx context.Context, p *models.UserProfile) error
	// Clear removes the profile (factory reset).
	Clear(ctx context.Context) error
}
