package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/trailkeeper/internal/client/client"
	"github.com/dmitrijs2005/trailkeeper/internal/client/config"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/brochures"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/pois"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/profile"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/syncqueue"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/trails"
	"github.com/dmitrijs2005/trailkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE user_profile (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  group_name TEXT NOT NULL DEFAULT '',
  group_code TEXT NOT NULL DEFAULT '',
  descriptor TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE trails (
  id TEXT PRIMARY KEY,
  group_code TEXT NOT NULL,
  trail_type TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  next_sequence INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE pois (
  id TEXT PRIMARY KEY,
  trail_id TEXT NOT NULL,
  group_code TEXT NOT NULL,
  trail_type TEXT NOT NULL,
  sequence INTEGER NOT NULL DEFAULT 0,
  filename TEXT NOT NULL,
  photo BLOB NOT NULL,
  thumbnail BLOB NOT NULL,
  latitude REAL,
  longitude REAL,
  accuracy REAL,
  coord_source TEXT NOT NULL DEFAULT '',
  captured_at TIMESTAMP NOT NULL,
  site_name TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  story TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  completed INTEGER NOT NULL DEFAULT 0,
  rotation INTEGER,
  created_by TEXT NOT NULL DEFAULT '',
  last_modified_by TEXT NOT NULL DEFAULT '',
  last_modified_at TIMESTAMP
);
CREATE TABLE brochure_setup (
  id TEXT PRIMARY KEY,
  cover_title TEXT NOT NULL DEFAULT '',
  cover_photo BLOB,
  group_name TEXT NOT NULL DEFAULT '',
  credits TEXT NOT NULL DEFAULT '',
  intro TEXT NOT NULL DEFAULT '',
  funder TEXT NOT NULL DEFAULT '',
  map_image BLOB,
  updated_at TIMESTAMP NOT NULL
);
CREATE TABLE brochure_logos (
  brochure_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  image BLOB NOT NULL,
  PRIMARY KEY (brochure_id, position)
);
CREATE TABLE sync_queue (
  id TEXT PRIMARY KEY,
  operation TEXT NOT NULL,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  payload TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  synced_at TIMESTAMP,
  attempts INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);
`

// testHarness bundles the pieces a service test asserts against.
type testHarness struct {
	repos *client.Repositories
	enq   *Enqueuer
}

func setupRepos(t *testing.T) (*client.Repositories, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	repos := &client.Repositories{
		Profile:   profile.NewSQLiteRepository(db),
		Trails:    trails.NewSQLiteRepository(db),
		POIs:      pois.NewSQLiteRepository(db),
		Brochures: brochures.NewSQLiteRepository(db),
		Queue:     syncqueue.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
	return repos, db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func gateOn(repos *client.Repositories) *SyncGate {
	cfg := &config.Config{RemoteDSN: "postgres://test", SyncEnabled: true}
	return NewSyncGate(cfg, repos.Metadata)
}

func gateOff(repos *client.Repositories) *SyncGate {
	cfg := &config.Config{}
	return NewSyncGate(cfg, repos.Metadata)
}

func seedProfile(t *testing.T, repos *client.Repositories) {
	t.Helper()
	err := repos.Profile.Save(context.Background(), &models.UserProfile{
		ID:        models.ProfileKey,
		Email:     "mary@example.com",
		GroupName: "Kilmore Heritage Society",
		GroupCode: "KHS",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func seedTrail(t *testing.T, repos *client.Repositories) *models.Trail {
	t.Helper()
	tr := &models.Trail{
		ID:           models.TrailID("KHS", models.TrailTypeGraveyard),
		GroupCode:    "KHS",
		TrailType:    models.TrailTypeGraveyard,
		DisplayName:  "Kilmore Graveyard Trail",
		CreatedAt:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		NextSequence: 1,
	}
	require.NoError(t, repos.Trails.Create(context.Background(), tr))
	return tr
}

func seedPOI(t *testing.T, repos *client.Repositories, tr *models.Trail, seq int) *models.POIRecord {
	t.Helper()
	at := time.Date(2025, 3, 7, 10, 0, seq, 0, time.UTC)
	id := models.NewPOIID(tr.GroupCode, tr.TrailType, at)
	p := &models.POIRecord{
		ID:         id,
		TrailID:    tr.ID,
		GroupCode:  tr.GroupCode,
		TrailType:  tr.TrailType,
		Sequence:   seq,
		Filename:   models.POIFilename(id),
		Photo:      []byte{0xFF, 0xD8, byte(seq)},
		Thumbnail:  []byte{0xFF, 0xD9, byte(seq)},
		CapturedAt: at,
		SiteName:   fmt.Sprintf("Site %d", seq),
	}
	require.NoError(t, repos.POIs.Create(context.Background(), p))
	return p
}

// fakeRemote records calls and fails on demand, keyed by entity id.
type fakeRemote struct {
	failIDs    map[string]error
	upserts    []string
	deletes    []string
	profiles   int
	archived   []string
	lastPOI    *client.RemotePOI
	lastBroch  *client.RemoteBrochure
	archiveErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{failIDs: map[string]error{}}
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }

func (f *fakeRemote) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	f.profiles++
	return nil
}

func (f *fakeRemote) checkFail(id string) error {
	if err, ok := f.failIDs[id]; ok {
		return err
	}
	return nil
}

func (f *fakeRemote) UpsertTrail(ctx context.Context, t *models.Trail) error {
	if err := f.checkFail(t.ID); err != nil {
		return err
	}
	f.upserts = append(f.upserts, t.ID)
	return nil
}

func (f *fakeRemote) DeleteTrail(ctx context.Context, id string) error {
	if err := f.checkFail(id); err != nil {
		return err
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeRemote) ArchiveTrail(ctx context.Context, id string, at time.Time) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.archived = append(f.archived, id)
	return nil
}

func (f *fakeRemote) UpsertPOI(ctx context.Context, p *client.RemotePOI) error {
	if err := f.checkFail(p.POI.ID); err != nil {
		return err
	}
	f.upserts = append(f.upserts, p.POI.ID)
	f.lastPOI = p
	return nil
}

func (f *fakeRemote) DeletePOI(ctx context.Context, id string) error {
	if err := f.checkFail(id); err != nil {
		return err
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeRemote) UpsertBrochure(ctx context.Context, b *client.RemoteBrochure) error {
	if err := f.checkFail(b.Brochure.ID); err != nil {
		return err
	}
	f.upserts = append(f.upserts, b.Brochure.ID)
	f.lastBroch = b
	return nil
}

func (f *fakeRemote) DeleteBrochure(ctx context.Context, id string) error {
	if err := f.checkFail(id); err != nil {
		return err
	}
	f.deletes = append(f.deletes, id)
	return nil
}

// fakeBlobStore returns deterministic URLs and remembers every upload.
type fakeBlobStore struct {
	uploads map[string][]byte
	err     error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: map[string][]byte{}}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads[key] = data
	return "blob://" + key, nil
}
