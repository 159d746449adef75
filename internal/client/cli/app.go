// Package cli wires the TrailKeeper command-line interface: an App that
// assembles the local store, remote connections and services, and the cobra
// command tree operating on it.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/trailkeeper/internal/client/client"
	"github.com/dmitrijs2005/trailkeeper/internal/client/config"
	"github.com/dmitrijs2005/trailkeeper/internal/client/services"
	"github.com/dmitrijs2005/trailkeeper/internal/logging"
)

// App holds everything a command needs. Remote and Blobs stay nil when no
// remote store is configured; the services treat that as sync disabled.
type App struct {
	Cfg    *config.Config
	Log    logging.Logger
	DB     *sql.DB
	Repos  *client.Repositories
	Remote client.Remote
	Blobs  client.BlobStore

	Gate     *services.SyncGate
	Enqueuer *services.Enqueuer

	Profiles    *services.ProfileService
	Trails      *services.TrailService
	POIs        *services.POIService
	Brochures   *services.BrochureService
	Sync        *services.SyncEngine
	Stats       *services.StatsService
	Exporter    *services.Exporter
	Importer    *services.Importer
	Maintenance *services.MaintenanceService
}

// NewApp opens the local store, connects to the remote when configured and
// builds the service layer.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, db, err := client.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error opening local store: %w", err)
	}

	app := &App{Cfg: cfg, Log: log, DB: db, Repos: repos}

	if cfg.RemoteDSN != "" {
		remote, err := client.NewPostgresRemote(cfg.RemoteDSN)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error connecting to remote store: %w", err)
		}
		app.Remote = remote

		blobs, err := client.NewS3BlobStore(ctx, client.S3Options{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			_ = remote.Close()
			_ = db.Close()
			return nil, fmt.Errorf("error configuring blob storage: %w", err)
		}
		app.Blobs = blobs
	}

	app.Gate = services.NewSyncGate(cfg, repos.Metadata)
	app.Enqueuer = services.NewEnqueuer(repos.Queue, log)

	app.Profiles = services.NewProfileService(repos.Profile)
	app.Trails = services.NewTrailService(db, repos, app.Remote, app.Gate, app.Enqueuer)
	app.POIs = services.NewPOIService(repos.POIs, app.Gate, app.Enqueuer)
	app.Brochures = services.NewBrochureService(repos.Brochures, app.Gate, app.Enqueuer)
	app.Sync = services.NewSyncEngine(repos, app.Remote, app.Blobs, app.Gate, log)
	app.Stats = services.NewStatsService(repos.Queue)
	app.Exporter = services.NewExporter(repos, log)
	app.Importer = services.NewImporter(repos, app.Gate, app.Enqueuer, log, cfg.ImportWriteDelay)
	app.Maintenance = services.NewMaintenanceService(db)

	return app, nil
}

// Close flushes the enqueuer and releases the store and remote handles.
func (a *App) Close() {
	if a.Enqueuer != nil {
		a.Enqueuer.Close()
	}
	if a.Remote != nil {
		_ = a.Remote.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
