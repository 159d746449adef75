package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/brochures"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/pois"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/profile"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/syncqueue"
	"github.com/dmitrijs2005/trailkeeper/internal/client/repositories/trails"
	"github.com/dmitrijs2005/trailkeeper/internal/dbx"
)

// MaintenanceService covers destructive device-level operations.
type MaintenanceService struct {
	db *sql.DB
}

func NewMaintenanceService(db *sql.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// FactoryReset wipes every local collection in one transaction: profile,
// trails, POIs, brochure settings, the sync queue and device metadata. The
// remote store is untouched.
func (s *MaintenanceService) FactoryReset(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := syncqueue.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := brochures.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := pois.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := trails.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := profile.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
}
