package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryReset(t *testing.T) {
	repos, db := setupRepos(t)
	ctx := context.Background()

	seedProfile(t, repos)
	tr := seedTrail(t, repos)
	seedPOI(t, repos, tr, 1)
	require.NoError(t, repos.Brochures.Upsert(ctx, &models.BrochureSetup{
		ID: tr.ID, CoverTitle: "x", FunderLogos: [][]byte{{1}}, UpdatedAt: time.Now().UTC(),
	}))
	enqueueItem(t, repos.Queue, "i1", models.SyncOpCreate, models.EntityTrail, tr.ID, 0)
	require.NoError(t, repos.Metadata.SetBool(ctx, metadata.KeySyncEnabled, true))

	require.NoError(t, NewMaintenanceService(db).FactoryReset(ctx))

	p, err := repos.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	trailsLeft, err := repos.Trails.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, trailsLeft)

	n, err := repos.POIs.CountByTrailID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	qn, err := repos.Queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, qn)

	v, err := repos.Metadata.Get(ctx, metadata.KeySyncEnabled)
	require.NoError(t, err)
	assert.Nil(t, v)

	var logos int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM brochure_logos`).Scan(&logos))
	assert.Equal(t, 0, logos)
}
