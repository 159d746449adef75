package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/client"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/pois"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/profile"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/trails"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/dmitrijs2005/trailkeeper/internal/dbx"
)

// TrailService manages trail lifecycle: creation, the POI numbering counter,
// local reset, cascading delete and remote soft-delete.
type TrailService struct {
	db      *sql.DB
	trails  trails.Repository
	pois    pois.Repository
	profile profile.Repository
	remote  client.Remote
	gate    *SyncGate
	enq     *Enqueuer
}

func NewTrailService(db *sql.DB, repos *client.Repositories, remote client.Remote, gate *SyncGate, enq *Enqueuer) *TrailService {
	return &TrailService{
		db:      db,
		trails:  repos.Trails,
		pois:    repos.POIs,
		profile: repos.Profile,
		remote:  remote,
		gate:    gate,
		enq:     enq,
	}
}

// Create makes a new trail with the deterministic id and the numbering
// counter at 1.
func (s *TrailService) Create(ctx context.Context, groupCode string, trailType models.TrailType, displayName string) (*models.Trail, error) {
	if !trailType.Valid() {
		return nil, models.ErrInvalidTrailType
	}

	t := &models.Trail{
		ID:           models.TrailID(groupCode, trailType),
		GroupCode:    groupCode,
		TrailType:    trailType,
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC(),
		NextSequence: 1,
	}
	if err := s.trails.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating trail: %w", err)
	}

	if s.gate.Enabled(ctx) {
		s.enq.Enqueue(models.SyncOpCreate, models.EntityTrail, t.ID, "")
	}
	return t, nil
}

// IncrementSequence advances the trail's POI numbering counter and returns
// the new value. The counter only ever grows; numbers are never reused, even
// after POI deletion. Single active capture flow per device is assumed, so
// this is read-then-write rather than an atomic bump.
func (s *TrailService) IncrementSequence(ctx context.Context, id string) (int, error) {
	t, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("error reading trail: %w", err)
	}

	next := t.NextSequence + 1
	if err := s.trails.SetNextSequence(ctx, id, next); err != nil {
		return 0, fmt.Errorf("error advancing sequence: %w", err)
	}

	if s.gate.Enabled(ctx) {
		s.enq.Enqueue(models.SyncOpUpdate, models.EntityTrail, id, "")
	}
	return next, nil
}

// Reset deletes every POI under the trail and rewinds the numbering counter
// to 1. Local-only: remote state is not touched.
func (s *TrailService) Reset(ctx context.Context, id string) error {
	if _, err := s.trails.GetByID(ctx, id); err != nil {
		return fmt.Errorf("error reading trail: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := pois.NewSQLiteRepository(tx).DeleteByTrailID(ctx, id); err != nil {
			return err
		}
		return trails.NewSQLiteRepository(tx).SetNextSequence(ctx, id, 1)
	})
}

// Delete removes the trail and all POIs it owns, then enqueues remote
// deletes for each.
func (s *TrailService) Delete(ctx context.Context, id string) error {
	poiList, err := s.pois.GetByTrailID(ctx, id, false)
	if err != nil {
		return fmt.Errorf("error listing pois: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := pois.NewSQLiteRepository(tx).DeleteByTrailID(ctx, id); err != nil {
			return err
		}
		return trails.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting trail: %w", err)
	}

	if s.gate.Enabled(ctx) {
		for _, p := range poiList {
			s.enq.Enqueue(models.SyncOpDelete, models.EntityPOI, p.ID, "")
		}
		s.enq.Enqueue(models.SyncOpDelete, models.EntityTrail, id, "")
	}
	return nil
}

// Archive soft-deletes the trail on the remote store. It requires a local
// identity, a configured remote, and a row that has already been synced.
func (s *TrailService) Archive(ctx context.Context, id string) error {
	p, err := s.profile.Get(ctx)
	if err != nil {
		return fmt.Errorf("error reading profile: %w", err)
	}
	if p == nil {
		return common.ErrorNoIdentity
	}
	if s.remote == nil {
		return common.ErrorNoRemote
	}
	return s.remote.ArchiveTrail(ctx, id, time.Now().UTC())
}

// Get returns a trail by id.
func (s *TrailService) Get(ctx context.Context, id string) (*models.Trail, error) {
	return s.trails.GetByID(ctx, id)
}

// List returns all local trails.
func (s *TrailService) List(ctx context.Context) ([]*models.Trail, error) {
	return s.trails.GetAll(ctx)
}
