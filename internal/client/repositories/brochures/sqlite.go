package brochures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/dmitrijs2005/trailkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Callers that need the row and logo writes to be atomic run Upsert inside
// dbx.WithTx.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, b *models.BrochureSetup) error {
	if len(b.FunderLogos) > common.MaxFunderLogos {
		return fmt.Errorf("too many funder logos: %d (max %d)", len(b.FunderLogos), common.MaxFunderLogos)
	}

	query := `INSERT INTO brochure_setup (id, cover_title, cover_photo, group_name, credits, intro, funder, map_image, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cover_title = excluded.cover_title,
			cover_photo = excluded.cover_photo,
			group_name = excluded.group_name,
			credits = excluded.credits,
			intro = excluded.intro,
			funder = excluded.funder,
			map_image = excluded.map_image,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.CoverTitle, b.CoverPhoto, b.GroupName, b.Credits, b.Intro, b.Funder, b.MapImage, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert brochure setup %s: %w", b.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM brochure_logos WHERE brochure_id = ?`, b.ID); err != nil {
		return fmt.Errorf("failed to clear logos for %s: %w", b.ID, err)
	}
	for i, logo := range b.FunderLogos {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO brochure_logos (brochure_id, position, image) VALUES (?, ?, ?)`, b.ID, i, logo)
		if err != nil {
			return fmt.Errorf("failed to insert logo %d for %s: %w", i, b.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.BrochureSetup, error) {
	query := `SELECT id, cover_title, cover_photo, group_name, credits, intro, funder, map_image, updated_at
		FROM brochure_setup WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	b := &models.BrochureSetup{}
	var cover, mapImage []byte
	err := row.Scan(&b.ID, &b.CoverTitle, &cover, &b.GroupName, &b.Credits, &b.Intro, &b.Funder, &mapImage, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("brochure setup %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brochure setup %s: %w", id, err)
	}

	if b.CoverPhoto, err = models.NormalizeBinary(cover); err != nil {
		return nil, fmt.Errorf("cover photo for %s: %w", id, err)
	}
	if b.MapImage, err = models.NormalizeBinary(mapImage); err != nil {
		return nil, fmt.Errorf("map image for %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT image FROM brochure_logos WHERE brochure_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select logos for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var img []byte
		if err := rows.Scan(&img); err != nil {
			return nil, err
		}
		if img, err = models.NormalizeBinary(img); err != nil {
			return nil, fmt.Errorf("logo for %s: %w", id, err)
		}
		b.FunderLogos = append(b.FunderLogos, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM brochure_logos WHERE brochure_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete logos for %s: %w", id, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM brochure_setup WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete brochure setup %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM brochure_logos`); err != nil {
		return fmt.Errorf("failed to clear brochure logos: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM brochure_setup`); err != nil {
		return fmt.Errorf("failed to clear brochure setup: %w", err)
	}
	return nil
}
