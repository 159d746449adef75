package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
)

// RemotePOI is a POI row as the remote store sees it: blobs replaced by
// durable URLs.
type RemotePOI struct {
	POI          *models.POIRecord
	PhotoURL     string
	ThumbnailURL string
}

// RemoteBrochure is a brochure row with its images replaced by URLs.
type RemoteBrochure struct {
	Brochure *models.BrochureSetup
	CoverURL string
	MapURL   string
}

// Remote is the remote-store contract the sync engine drains against. Every
// write is an upsert keyed by primary id, so replaying an item after a
// partial failure is harmless.
type Remote interface {
	Close() error
	Ping(ctx context.Context) error
	UpsertProfile(ctx context.Context, p *models.UserProfile) error
	UpsertTrail(ctx context.Context, t *models.Trail) error
	DeleteTrail(ctx context.Context, id string) error
	// ArchiveTrail soft-deletes a remote trail row. Returns
	// common.ErrorNotSynced when the row does not exist remotely.
	ArchiveTrail(ctx context.Context, id string, at time.Time) error
	UpsertPOI(ctx context.Context, p *RemotePOI) error
	DeletePOI(ctx context.Context, id string) error
	UpsertBrochure(ctx context.Context, b *RemoteBrochure) error
	DeleteBrochure(ctx context.Context, id string) error
}

// BlobStore uploads binary payloads and returns a durable URL the remote
// rows can reference.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}
