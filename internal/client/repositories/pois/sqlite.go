package pois

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"
	"github.com/dmitrijs2005/trailkeeper/internal/dbx"
)

const scalarColumns = `id, trail_id, group_code, trail_type, sequence, filename,
	latitude, longitude, accuracy, coord_source, captured_at,
	site_name, category, description, story, url, condition, notes,
	completed, rotation, created_by, last_modified_by, last_modified_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRepository) Create(ctx context.Context, p *models.POIRecord) error {
	query := `INSERT INTO pois (id, trail_id, group_code, trail_type, sequence, filename,
			photo, thumbnail, latitude, longitude, accuracy, coord_source, captured_at,
			site_name, category, description, story, url, condition, notes,
			completed, rotation, created_by, last_modified_by, last_modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TrailID, p.GroupCode, string(p.TrailType), p.Sequence, p.Filename,
		p.Photo, p.Thumbnail, p.Latitude, p.Longitude, p.Accuracy, p.CoordSource, p.CapturedAt,
		p.SiteName, p.Category, p.Description, p.Story, p.URL, p.Condition, p.Notes,
		boolToInt(p.Completed), p.Rotation, p.CreatedBy, p.LastModifiedBy, p.LastModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to create poi %s: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, patch *models.POIPatch) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Sequence != nil {
		add("sequence", *patch.Sequence)
	}
	if patch.SiteName != nil {
		add("site_name", *patch.SiteName)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Story != nil {
		add("story", *patch.Story)
	}
	if patch.URL != nil {
		add("url", *patch.URL)
	}
	if patch.Condition != nil {
		add("condition", *patch.Condition)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Rotation != nil {
		add("rotation", models.NormalizeRotation(*patch.Rotation))
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.Accuracy != nil {
		add("accuracy", *patch.Accuracy)
	}
	if patch.CoordSource != nil {
		add("coord_source", *patch.CoordSource)
	}
	if patch.LastModifiedBy != nil {
		add("last_modified_by", *patch.LastModifiedBy)
	}

	if patch.TouchesCompletion() {
		var siteName, description, story string
		row := r.db.QueryRowContext(ctx, `SELECT site_name, description, story FROM pois WHERE id = ?`, id)
		err := row.Scan(&siteName, &description, &story)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("poi %s: %w", id, common.ErrorNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to read poi %s: %w", id, err)
		}
		if patch.SiteName != nil {
			siteName = *patch.SiteName
		}
		if patch.Description != nil {
			description = *patch.Description
		}
		if patch.Story != nil {
			story = *patch.Story
		}
		add("completed", boolToInt(models.DeriveCompleted(siteName, description, story)))
	}

	add("last_modified_at", time.Now().UTC())

	query := `UPDATE pois SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update poi %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("poi %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pois WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poi %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("poi %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByTrailID(ctx context.Context, trailID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pois WHERE trail_id = ?`, trailID); err != nil {
		return fmt.Errorf("failed to delete pois for trail %s: %w", trailID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string, includeBlobs bool) (*models.POIRecord, error) {
	cols := scalarColumns
	if includeBlobs {
		cols += ", photo, thumbnail"
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+cols+` FROM pois WHERE id = ?`, id)
	p, err := scanPOI(row.Scan, includeBlobs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("poi %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poi %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetByTrailID(ctx context.Context, trailID string, includeBlobs bool) ([]*models.POIRecord, error) {
	cols := scalarColumns
	if includeBlobs {
		cols += ", photo, thumbnail"
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cols+` FROM pois WHERE trail_id = ? ORDER BY sequence, captured_at`, trailID)
	if err != nil {
		return nil, fmt.Errorf("failed to select pois for trail %s: %w", trailID, err)
	}
	defer rows.Close()

	var result []*models.POIRecord
	for rows.Next() {
		p, err := scanPOI(rows.Scan, includeBlobs)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) CountByTrailID(ctx context.Context, trailID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pois WHERE trail_id = ?`, trailID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pois for trail %s: %w", trailID, err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pois`); err != nil {
		return fmt.Errorf("failed to clear pois: %w", err)
	}
	return nil
}

// scanPOI reads one row into a POIRecord, normalizing nullable columns and
// legacy blob encodings.
func scanPOI(scan func(...any) error, includeBlobs bool) (*models.POIRecord, error) {
	p := &models.POIRecord{}
	var (
		trailType      string
		lat, lon, acc  sql.NullFloat64
		completed      int
		rotation       sql.NullInt64
		lastModifiedAt sql.NullTime
		photo, thumb   []byte
	)

	dest := []any{
		&p.ID, &p.TrailID, &p.GroupCode, &trailType, &p.Sequence, &p.Filename,
		&lat, &lon, &acc, &p.CoordSource, &p.CapturedAt,
		&p.SiteName, &p.Category, &p.Description, &p.Story, &p.URL, &p.Condition, &p.Notes,
		&completed, &rotation, &p.CreatedBy, &p.LastModifiedBy, &lastModifiedAt,
	}
	if includeBlobs {
		dest = append(dest, &photo, &thumb)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}

	p.TrailType = models.TrailType(trailType)
	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lon.Valid {
		p.Longitude = &lon.Float64
	}
	if acc.Valid {
		p.Accuracy = &acc.Float64
	}
	p.Completed = completed != 0
	// Missing rotation on legacy rows reads as 0.
	p.Rotation = models.NormalizeRotation(int(rotation.Int64))
	if lastModifiedAt.Valid {
		t := lastModifiedAt.Time
		p.LastModifiedAt = &t
	}

	if includeBlobs {
		var err error
		if p.Photo, err = models.NormalizeBinary(photo); err != nil {
			return nil, fmt.Errorf("photo for %s: %w", p.ID, err)
		}
		if p.Thumbnail, err = models.NormalizeBinary(thumb); err != nil {
			return nil, fmt.Errorf("thumbnail for %s: %w", p.ID, err)
		}
	}
	return p, nil
}
