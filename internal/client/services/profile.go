package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/profile"
)

// ProfileService manages the device's singleton user profile.
type ProfileService struct {
	repo profile.Repository
}

func NewProfileService(repo profile.Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Save creates or updates the profile. The group code is derived from the
// group name (or email) and the email is normalized; the creation timestamp
// of an existing profile is preserved.
func (s *ProfileService) Save(ctx context.Context, email, displayName, groupName, descriptor string) (*models.UserProfile, error) {
	existing, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading profile: %w", err)
	}

	createdAt := time.Now().UTC()
	if existing != nil {
		createdAt = existing.CreatedAt
	}

	p := &models.UserProfile{
		ID:          models.ProfileKey,
		Email:       models.NormalizeEmail(email),
		DisplayName: displayName,
		GroupName:   groupName,
		GroupCode:   models.DeriveGroupCode(groupName, email),
		Descriptor:  descriptor,
		CreatedAt:   createdAt,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	return p, nil
}

// Get returns the profile, or (nil, nil) when the device has no identity yet.
func (s *ProfileService) Get(ctx context.Context) (*models.UserProfile, error) {
	return s.repo.Get(ctx)
}
