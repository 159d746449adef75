package brochures

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
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
`)
	require.NoError(t, err)

	return db
}

func sampleSetup() *models.BrochureSetup {
	return &models.BrochureSetup{
		ID:         "KHS-graveyard",
		CoverTitle: "Kilmore Graveyard Trail",
		CoverPhoto: []byte{0xFF, 0xD8, 0x01},
		GroupName:  "Kilmore Heritage Society",
		Credits:    "Photos by members",
		Intro:      "A walk through local history.",
		Funder:     "Heritage Council",
		MapImage:   []byte{0x89, 0x50, 0x4E},
		FunderLogos: [][]byte{
			{0x01}, {0x02}, {0x03},
		},
		UpdatedAt: time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b := sampleSetup()
	require.NoError(t, r.Upsert(ctx, b))

	got, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.CoverTitle, got.CoverTitle)
	assert.Equal(t, b.CoverPhoto, got.CoverPhoto)
	assert.Equal(t, b.MapImage, got.MapImage)
	require.Len(t, got.FunderLogos, 3)
	assert.Equal(t, b.FunderLogos, got.FunderLogos)
}

func TestUpsert_ReplacesLogos(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b := sampleSetup()
	require.NoError(t, r.Upsert(ctx, b))

	b.FunderLogos = [][]byte{{0x09}}
	require.NoError(t, r.Upsert(ctx, b))

	got, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.FunderLogos, 1)
	assert.Equal(t, []byte{0x09}, got.FunderLogos[0])
}

func TestUpsert_TooManyLogos(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	b := sampleSetup()
	b.FunderLogos = make([][]byte, common.MaxFunderLogos+1)
	for i := range b.FunderLogos {
		b.FunderLogos[i] = []byte{byte(i)}
	}
	assert.Error(t, r.Upsert(context.Background(), b))
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_LegacyBlobEnvelope(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	raw := []byte{0xAA, 0xBB}
	b := sampleSetup()
	require.NoError(t, r.Upsert(ctx, b))

	_, err := db.Exec(`UPDATE brochure_setup SET cover_photo = ? WHERE id = ?`,
		models.EncodeLegacyBlob(raw), b.ID)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE brochure_logos SET image = ? WHERE brochure_id = ? AND position = 0`,
		models.EncodeLegacyBlob(raw), b.ID)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, raw, got.CoverPhoto)
	assert.Equal(t, raw, got.FunderLogos[0])
}

func TestDeleteAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b := sampleSetup()
	require.NoError(t, r.Upsert(ctx, b))
	require.NoError(t, r.Delete(ctx, b.ID))

	_, err := r.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM brochure_logos`).Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, r.Upsert(ctx, b))
	require.NoError(t, r.Clear(ctx))
	_, err = r.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
