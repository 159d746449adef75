package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
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

func (r *SQLiteRepository) Get(ctx context.Context) (*models.UserProfile, error) {
	query := `SELECT id, email, display_name, group_name, group_code, descriptor, created_at
		FROM user_profile WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, models.ProfileKey)

	p := &models.UserProfile{}
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.GroupName, &p.GroupCode, &p.Descriptor, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, p *models.UserProfile) error {
	query := `INSERT INTO user_profile (id, email, display_name, group_name, group_code, descriptor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email,
			display_name = excluded.display_name,
			group_name = excluded.group_name,
			group_code = excluded.group_code,
			descriptor = excluded.descriptor
	`
	_, err := r.db.ExecContext(ctx, query,
		models.ProfileKey, models.NormalizeEmail(p.Email), p.DisplayName,
		p.GroupName, p.GroupCode, p.Descriptor, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_profile`); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
