package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/common"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRemote implements Remote over a Postgres connection. Field names
// are translated to the remote column names here; nothing above this layer
// knows the remote schema.
type PostgresRemote struct {
	db *sql.DB
}

// NewPostgresRemote opens a connection pool for the given DSN.
func NewPostgresRemote(dsn string) (*PostgresRemote, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote store: %w", err)
	}
	return &PostgresRemote{db: db}, nil
}

func (r *PostgresRemote) Close() error {
	return r.db.Close()
}

func (r *PostgresRemote) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresRemote) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profile (email, display_name, group_name, group_code, descriptor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email)
		DO UPDATE SET display_name = EXCLUDED.display_name,
			group_name = EXCLUDED.group_name,
			group_code = EXCLUDED.group_code,
			descriptor = EXCLUDED.descriptor
	`
	_, err := r.db.ExecContext(ctx, query,
		models.NormalizeEmail(p.Email), p.DisplayName, p.GroupName, p.GroupCode, p.Descriptor, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert remote profile: %w", err)
	}
	return nil
}

func (r *PostgresRemote) UpsertTrail(ctx context.Context, t *models.Trail) error {
	query := `
		INSERT INTO trails (id, group_code, trail_type, display_name, created_at, next_sequence)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET group_code = EXCLUDED.group_code,
			trail_type = EXCLUDED.trail_type,
			display_name = EXCLUDED.display_name,
			next_sequence = EXCLUDED.next_sequence
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.GroupCode, string(t.TrailType), t.DisplayName, t.CreatedAt, t.NextSequence)
	if err != nil {
		return fmt.Errorf("failed to upsert remote trail %s: %w", t.ID, err)
	}
	return nil
}

func (r *PostgresRemote) DeleteTrail(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trails WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete remote trail %s: %w", id, err)
	}
	return nil
}

// ArchiveTrail is the soft-delete path: archived rows stay queryable for the
// remote reporting views.
func (r *PostgresRemote) ArchiveTrail(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trails SET archived = TRUE, archived_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to archive remote trail %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("trail %s: %w", id, common.ErrorNotSynced)
	}
	return nil
}

func (r *PostgresRemote) UpsertPOI(ctx context.Context, rp *RemotePOI) error {
	p := rp.POI
	query := `
		INSERT INTO pois (id, trail_id, group_code, trail_type, sequence, filename,
			photo_url, thumbnail_url, latitude, longitude, accuracy, coord_source, captured_at,
			site_name, category, description, story, url, condition, notes,
			completed, rotation, created_by, last_modified_by, last_modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (id)
		DO UPDATE SET sequence = EXCLUDED.sequence,
			photo_url = EXCLUDED.photo_url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			accuracy = EXCLUDED.accuracy,
			coord_source = EXCLUDED.coord_source,
			site_name = EXCLUDED.site_name,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			story = EXCLUDED.story,
			url = EXCLUDED.url,
			condition = EXCLUDED.condition,
			notes = EXCLUDED.notes,
			completed = EXCLUDED.completed,
			rotation = EXCLUDED.rotation,
			last_modified_by = EXCLUDED.last_modified_by,
			last_modified_at = EXCLUDED.last_modified_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TrailID, p.GroupCode, string(p.TrailType), p.Sequence, p.Filename,
		rp.PhotoURL, rp.ThumbnailURL, p.Latitude, p.Longitude, p.Accuracy, p.CoordSource, p.CapturedAt,
		p.SiteName, p.Category, p.Description, p.Story, p.URL, p.Condition, p.Notes,
		p.Completed, p.Rotation, p.CreatedBy, p.LastModifiedBy, p.LastModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert remote poi %s: %w", p.ID, err)
	}
	return nil
}

func (r *PostgresRemote) DeletePOI(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pois WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete remote poi %s: %w", id, err)
	}
	return nil
}

func (r *PostgresRemote) UpsertBrochure(ctx context.Context, rb *RemoteBrochure) error {
	b := rb.Brochure
	query := `
		INSERT INTO brochure_setup (id, cover_title, cover_url, group_name, credits, intro, funder, map_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET cover_title = EXCLUDED.cover_title,
			cover_url = EXCLUDED.cover_url,
			group_name = EXCLUDED.group_name,
			credits = EXCLUDED.credits,
			intro = EXCLUDED.intro,
			funder = EXCLUDED.funder,
			map_url = EXCLUDED.map_url,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.CoverTitle, rb.CoverURL, b.GroupName, b.Credits, b.Intro, b.Funder, rb.MapURL, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert remote brochure %s: %w", b.ID, err)
	}
	return nil
}

func (r *PostgresRemote) DeleteBrochure(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM brochure_setup WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete remote brochure %s: %w", id, err)
	}
	return nil
}
