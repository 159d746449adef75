package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/pois"
)

// CreatePOIInput carries everything a new capture needs. Photo and Thumbnail
// are required at the type level: the capture flow always produces both.
type CreatePOIInput struct {
	TrailID     string
	GroupCode   string
	TrailType   models.TrailType
	Sequence    int
	Photo       []byte
	Thumbnail   []byte
	Latitude    *float64
	Longitude   *float64
	Accuracy    *float64
	CoordSource string
	CapturedAt  time.Time
	SiteName    string
	Category    string
	Description string
	Story       string
	URL         string
	Condition   string
	Notes       string
	CreatedBy   string
}

// POIService manages POI records.
type POIService struct {
	repo pois.Repository
	gate *SyncGate
	enq  *Enqueuer
}

func NewPOIService(repo pois.Repository, gate *SyncGate, enq *Enqueuer) *POIService {
	return &POIService{repo: repo, gate: gate, enq: enq}
}

// Create mints the timestamp-based id, derives the filename and completion
// flag, and persists the record.
func (s *POIService) Create(ctx context.Context, in *CreatePOIInput) (*models.POIRecord, error) {
	if !in.TrailType.Valid() {
		return nil, models.ErrInvalidTrailType
	}

	id := models.NewPOIID(in.GroupCode, in.TrailType, in.CapturedAt)
	p := &models.POIRecord{
		ID:          id,
		TrailID:     in.TrailID,
		GroupCode:   in.GroupCode,
		TrailType:   in.TrailType,
		Sequence:    in.Sequence,
		Filename:    models.POIFilename(id),
		Photo:       in.Photo,
		Thumbnail:   in.Thumbnail,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Accuracy:    in.Accuracy,
		CoordSource: in.CoordSource,
		CapturedAt:  in.CapturedAt,
		SiteName:    in.SiteName,
		Category:    in.Category,
		Description: in.Description,
		Story:       in.Story,
		URL:         in.URL,
		Condition:   in.Condition,
		Notes:       in.Notes,
		Completed:   models.DeriveCompleted(in.SiteName, in.Description, in.Story),
		Rotation:    0,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("error creating poi: %w", err)
	}

	if s.gate.Enabled(ctx) {
		s.enq.Enqueue(models.SyncOpCreate, models.EntityPOI, p.ID, "")
	}
	return p, nil
}

// Update applies a partial patch; the repository recomputes the completion
// flag when the patch touches the fields it derives from.
func (s *POIService) Update(ctx context.Context, id string, patch *models.POIPatch) error {
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("error updating poi: %w", err)
	}
	if s.gate.Enabled(ctx) {
		s.enq.Enqueue(models.SyncOpUpdate, models.EntityPOI, id, "")
	}
	return nil
}

// Delete removes a POI and renumbers the survivors so display order stays
// dense. Renumbering happens here, at the service level: the repository
// delete primitive only removes the row. The trail's nextSequence counter is
// untouched, so capture numbering never reuses a value.
func (s *POIService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return fmt.Errorf("error reading poi: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting poi: %w", err)
	}
	if s.gate.Enabled(ctx) {
		s.enq.Enqueue(models.SyncOpDelete, models.EntityPOI, id, "")
	}

	survivors, err := s.repo.GetByTrailID(ctx, p.TrailID, false)
	if err != nil {
		return fmt.Errorf("error listing pois: %w", err)
	}
	for n, sp := range survivors {
		seq := n + 1
		if sp.Sequence == seq {
			continue
		}
		if err := s.repo.Update(ctx, sp.ID, &models.POIPatch{Sequence: &seq}); err != nil {
			return fmt.Errorf("error renumbering poi %s: %w", sp.ID, err)
		}
		if s.gate.Enabled(ctx) {
			s.enq.Enqueue(models.SyncOpUpdate, models.EntityPOI, sp.ID, "")
		}
	}
	return nil
}

// Get returns one POI; blob fields are omitted entirely unless requested.
func (s *POIService) Get(ctx context.Context, id string, includeBlobs bool) (*models.POIRecord, error) {
	return s.repo.GetByID(ctx, id, includeBlobs)
}

// List returns a trail's POIs in sequence order.
func (s *POIService) List(ctx context.Context, trailID string, includeBlobs bool) ([]*models.POIRecord, error) {
	return s.repo.GetByTrailID(ctx, trailID, includeBlobs)
}
