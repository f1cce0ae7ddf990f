package designs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx). The full wire document is stored in the doc column; id,
// owner_id and created_at are promoted columns for addressing and the
// owner index.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// storageErr classifies a driver failure as common.ErrStorageUnavailable
// while keeping the cause inspectable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(common.ErrStorageUnavailable, err))
}

// CreateOrUpdate upserts a design by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, d *models.Design) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal design: %w", err)
	}

	query := `INSERT INTO designs (id, owner_id, created_at, doc)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET owner_id = excluded.owner_id,
				created_at = excluded.created_at,
				doc = excluded.doc
	`
	_, err = r.db.ExecContext(ctx, query, d.ID, d.OwnerID, d.CreatedAt.UnixNano(), doc)
	if err != nil {
		return storageErr("failed to upsert design", err)
	}
	return nil
}

// GetAllByOwner lists all designs owned by ownerID. The result is unordered.
func (r *SQLiteRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM designs WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, storageErr("failed to select designs", err)
	}
	defer rows.Close()

	var result []models.Design
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, storageErr("failed to scan design row", err)
		}
		var d models.Design
		if err := json.Unmarshal(doc, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal design: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to iterate designs", err)
	}
	return result, nil
}

// GetByID returns one design or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Design, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM designs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("failed to select design", err)
	}

	var d models.Design
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design: %w", err)
	}
	return &d, nil
}

// DeleteByID removes a design. Deleting an absent id succeeds.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id); err != nil {
		return storageErr("failed to delete design", err)
	}
	return nil
}

// ReassignOwner rewrites every design under oldOwnerID to newOwnerID,
// updating both the owner column and the ownerId field inside the stored
// document. When the repository is bound to a *sql.DB the whole rewrite
// runs in one transaction via dbx.WithTx, so a failure mid-way leaves
// every record under the old owner. A repository bound to a *sql.Tx
// participates in the caller's transaction instead.
func (r *SQLiteRepository) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int, error) {
	if db, ok := r.db.(*sql.DB); ok {
		var moved int
		err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			moved, err = reassignOwner(ctx, tx, oldOwnerID, newOwnerID)
			return err
		})
		if err != nil {
			return 0, err
		}
		return moved, nil
	}
	return reassignOwner(ctx, r.db, oldOwnerID, newOwnerID)
}

func reassignOwner(ctx context.Context, db dbx.DBTX, oldOwnerID, newOwnerID string) (int, error) {
	list, err := (&SQLiteRepository{db: db}).GetAllByOwner(ctx, oldOwnerID)
	if err != nil {
		return 0, err
	}

	moved := 0
	for i := range list {
		d := list[i]
		d.OwnerID = newOwnerID
		doc, err := json.Marshal(&d)
		if err != nil {
			return moved, fmt.Errorf("failed to marshal design: %w", err)
		}
		res, err := db.ExecContext(ctx,
			`UPDATE designs SET owner_id = ?, doc = ? WHERE id = ? AND owner_id = ?`,
			newOwnerID, doc, d.ID, oldOwnerID)
		if err != nil {
			return moved, storageErr("failed to reassign design", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			moved++
		}
	}
	return moved, nil
}
