package designs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/dbx"
	"github.com/planmint/designvault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or updates a design for its owner. If a conflicting row
// exists under another owner, no row is written and ErrPermission is
// returned. The server stamps synced_at on every write.
func (r *PostgresRepository) Upsert(ctx context.Context, d *models.Design) error {
	query := `
		INSERT INTO designs (id, owner_id, created_at, doc, synced_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id)
		DO UPDATE SET
			created_at = EXCLUDED.created_at,
			doc = EXCLUDED.doc,
			synced_at = now()
			WHERE designs.owner_id = EXCLUDED.owner_id
		RETURNING synced_at;
	`
	err := r.db.QueryRowContext(ctx, query, d.ID, d.OwnerID, d.CreatedAt, d.Doc).Scan(&d.SyncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrPermission
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetAllByOwner lists all designs for ownerID.
func (r *PostgresRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error) {
	query := `SELECT id, owner_id, created_at, doc, synced_at FROM designs WHERE owner_id = $1`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select designs: %w", err)
	}
	defer rows.Close()

	var result []models.Design
	for rows.Next() {
		var item models.Design
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.CreatedAt, &item.Doc, &item.SyncedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes the (ownerID, id) record. Absent rows are a no-op.
func (r *PostgresRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM designs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	return nil
}
