package syncqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.SyncQueueItem) error {
	query := `INSERT INTO sync_queue (id, operation, entity_type, entity_id, payload, created_at, synced_at, attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, string(item.Operation), string(item.EntityType), item.EntityID,
		item.Payload, item.CreatedAt, item.SyncedAt, item.Attempts)
	if err != nil {
		return fmt.Errorf("failed to enqueue sync item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) selectItems(ctx context.Context, query string, args ...any) ([]*models.SyncQueueItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sync items: %w", err)
	}
	defer rows.Close()

	var result []*models.SyncQueueItem
	for rows.Next() {
		item := &models.SyncQueueItem{}
		var op, et string
		var syncedAt sql.NullTime
		if err := rows.Scan(&item.ID, &op, &et, &item.EntityID, &item.Payload,
			&item.CreatedAt, &syncedAt, &item.Attempts); err != nil {
			return nil, err
		}
		item.Operation = models.SyncOperation(op)
		item.EntityType = models.EntityType(et)
		if syncedAt.Valid {
			t := syncedAt.Time
			item.SyncedAt = &t
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Pending(ctx context.Context) ([]*models.SyncQueueItem, error) {
	return r.selectItems(ctx, `SELECT id, operation, entity_type, entity_id, payload, created_at, synced_at, attempts
		FROM sync_queue WHERE synced_at IS NULL ORDER BY created_at, id`)
}

func (r *SQLiteRepository) All(ctx context.Context) ([]*models.SyncQueueItem, error) {
	return r.selectItems(ctx, `SELECT id, operation, entity_type, entity_id, payload, created_at, synced_at, attempts
		FROM sync_queue ORDER BY created_at, id`)
}

func (r *SQLiteRepository) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue WHERE synced_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending sync items: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sync_queue SET synced_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark sync item %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("sync item %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	row := r.db.QueryRowContext(ctx,
		`UPDATE sync_queue SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id)
	err := row.Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sync item %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment attempts for %s: %w", id, err)
	}
	return attempts, nil
}

func (r *SQLiteRepository) Abandon(ctx context.Context, id string, at time.Time, payload string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sync_queue SET synced_at = ?, payload = ? WHERE id = ?`, at, payload, id)
	if err != nil {
		return fmt.Errorf("failed to abandon sync item %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("sync item %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) LastSyncedAt(ctx context.Context) (*time.Time, error) {
	var at time.Time
	row := r.db.QueryRowContext(ctx,
		`SELECT synced_at FROM sync_queue WHERE synced_at IS NOT NULL ORDER BY synced_at DESC LIMIT 1`)
	err := row.Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last synced at: %w", err)
	}
	return &at, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
		return fmt.Errorf("failed to clear sync queue: %w", err)
	}
	return nil
}
