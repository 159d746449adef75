package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/trailkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/brochures"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/pois"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/profile"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/syncqueue"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/trails"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles every local collection, all bound to the same handle.
// Constructed once at process start and injected into services; nothing in
// the codebase reaches for a package-level singleton.
type Repositories struct {
	Profile   profile.Repository
	Trails    trails.Repository
	POIs      pois.Repository
	Brochures brochures.Repository
	Queue     syncqueue.Repository
	Metadata  metadata.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local store at dsn, migrates it
// and returns the repository bundle plus the handle for transaction use and
// shutdown.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	repos := &Repositories{
		Profile:   profile.NewSQLiteRepository(db),
		Trails:    trails.NewSQLiteRepository(db),
		POIs:      pois.NewSQLiteRepository(db),
		Brochures: brochures.NewSQLiteRepository(db),
		Queue:     syncqueue.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
	return repos, db, nil
}
