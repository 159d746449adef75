package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/trailkeeper/internal/client/config"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncGate_DisabledWithoutRemote(t *testing.T) {
	repos, _ := setupRepos(t)
	gate := NewSyncGate(&config.Config{SyncEnabled: true}, repos.Metadata)

	assert.False(t, gate.Enabled(context.Background()))
}

func TestSyncGate_DefaultsToConfig(t *testing.T) {
	repos, _ := setupRepos(t)

	gate := NewSyncGate(&config.Config{RemoteDSN: "postgres://x", SyncEnabled: true}, repos.Metadata)
	assert.True(t, gate.Enabled(context.Background()))

	gate = NewSyncGate(&config.Config{RemoteDSN: "postgres://x", SyncEnabled: false}, repos.Metadata)
	assert.False(t, gate.Enabled(context.Background()))
}

func TestSyncGate_MetadataOverridesConfig(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	gate := NewSyncGate(&config.Config{RemoteDSN: "postgres://x", SyncEnabled: false}, repos.Metadata)

	require.NoError(t, repos.Metadata.SetBool(ctx, metadata.KeySyncEnabled, true))
	assert.True(t, gate.Enabled(ctx))

	require.NoError(t, repos.Metadata.SetBool(ctx, metadata.KeySyncEnabled, false))
	assert.False(t, gate.Enabled(ctx))
}

func TestEnqueuer_PersistsInCallOrder(t *testing.T) {
	repos, _ := setupRepos(t)
	enq := NewEnqueuer(repos.Queue, testLogger())

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("KHS-g-070325-1005%02d-000", i)
		enq.Enqueue(models.SyncOpCreate, models.EntityPOI, ids[i], "")
	}
	enq.Close()

	pending, err := repos.Queue.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, len(ids))
	for i, item := range pending {
		assert.Equal(t, ids[i], item.EntityID, "position %d", i)
		assert.NotEmpty(t, item.ID)
		assert.False(t, item.CreatedAt.IsZero())
	}
}

func TestEnqueuer_CloseIsIdempotent(t *testing.T) {
	repos, _ := setupRepos(t)
	enq := NewEnqueuer(repos.Queue, testLogger())
	enq.Close()
	enq.Close()
}
