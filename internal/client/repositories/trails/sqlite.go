package trails

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
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Trail) error {
	query := `INSERT INTO trails (id, group_code, trail_type, display_name, created_at, next_sequence)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.GroupCode, string(t.TrailType), t.DisplayName, t.CreatedAt, t.NextSequence)
	if err != nil {
		return fmt.Errorf("failed to create trail %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, t *models.Trail) error {
	query := `INSERT INTO trails (id, group_code, trail_type, display_name, created_at, next_sequence)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET group_code = excluded.group_code,
			trail_type = excluded.trail_type,
			display_name = excluded.display_name,
			created_at = excluded.created_at,
			next_sequence = excluded.next_sequence
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.GroupCode, string(t.TrailType), t.DisplayName, t.CreatedAt, t.NextSequence)
	if err != nil {
		return fmt.Errorf("failed to upsert trail %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Trail, error) {
	query := `SELECT id, group_code, trail_type, display_name, created_at, next_sequence
		FROM trails WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	t := &models.Trail{}
	var trailType string
	err := row.Scan(&t.ID, &t.GroupCode, &trailType, &t.DisplayName, &t.CreatedAt, &t.NextSequence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trail %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trail %s: %w", id, err)
	}
	t.TrailType = models.TrailType(trailType)
	return t, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Trail, error) {
	query := `SELECT id, group_code, trail_type, display_name, created_at, next_sequence
		FROM trails ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select trails: %w", err)
	}
	defer rows.Close()

	var result []*models.Trail
	for rows.Next() {
		t := &models.Trail{}
		var trailType string
		if err := rows.Scan(&t.ID, &t.GroupCode, &trailType, &t.DisplayName, &t.CreatedAt, &t.NextSequence); err != nil {
			return nil, err
		}
		t.TrailType = models.TrailType(trailType)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) SetNextSequence(ctx context.Context, id string, next int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE trails SET next_sequence = ? WHERE id = ?`, next, id)
	if err != nil {
		return fmt.Errorf("failed to set next sequence for %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("trail %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trails WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete trail %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trails`); err != nil {
		return fmt.Errorf("failed to clear trails: %w", err)
	}
	return nil
}
