package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/brochures"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
)

// BrochureService manages per-trail brochure settings.
type BrochureService struct {
	repo brochures.Repository
	gate *SyncGate
	enq  *Enqueuer
}

func NewBrochureService(repo brochures.Repository, gate *SyncGate, enq *Enqueuer) *BrochureService {
	return &BrochureService{repo: repo, gate: gate, enq: enq}
}

// Save upserts the brochure setup for a trail and stamps the update time.
func (s *BrochureService) Save(ctx context.Context, b *models.BrochureSetup) error {
	op := models.SyncOpUpdate
	_, err := s.repo.GetByID(ctx, b.ID)
	if errors.Is(err, common.ErrorNotFound) {
		op = models.SyncOpCreate
	} else if err != nil {
		return fmt.Errorf("error reading brochure setup: %w", err)
	}

	b.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, b); err != nil {
		return fmt.Errorf("error saving brochure setup: %w", err)
	}

	if s.gate.Enabled(ctx) {
		s.enq.Enqueue(op, models.EntityBrochureSetup, b.ID, "")
	}
	return nil
}

// Get returns the brochure setup for a trail.
func (s *BrochureService) Get(ctx context.Context, trailID string) (*models.BrochureSetup, error) {
	return s.repo.GetByID(ctx, trailID)
}
