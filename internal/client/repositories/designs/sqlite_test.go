package designs

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE designs (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  doc BLOB NOT NULL
);
CREATE INDEX idx_designs_owner_id ON designs (owner_id);
`)
	require.NoError(t, err)

	return db
}

func sampleDesign(owner string) *models.Design {
	d := models.NewDesign(owner, models.Plan{
		Title: "Cottage",
		Style: "rustic",
		Rooms: []models.Room{
			{Name: "bedroom", Options: map[string]models.CustomizationGroup{
				"walls": {Label: "Walls", Options: []string{"white", "sage"}},
			}},
		},
	})
	d.UpsertArtifact(models.Artifact{ID: "a1", Category: "exterior", Content: "https://cdn/1.png", Prompt: "front"})
	return d
}

func TestCreateOrUpdate_UpsertIsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := sampleDesign("anonymous")
	require.NoError(t, r.CreateOrUpdate(ctx, d))
	require.NoError(t, r.CreateOrUpdate(ctx, d))

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM designs WHERE id=?`, d.ID).Scan(&n))
	assert.Equal(t, 1, n)

	// update through the same id
	d.Artifacts[0].Liked = true
	require.NoError(t, r.CreateOrUpdate(ctx, d))

	got, err := r.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Artifacts[0].Liked)
}

func TestGetAllByOwner_RoundTripAndFiltering(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	mine := sampleDesign("anonymous")
	other := sampleDesign("alice")
	require.NoError(t, r.CreateOrUpdate(ctx, mine))
	require.NoError(t, r.CreateOrUpdate(ctx, other))

	got, err := r.GetAllByOwner(ctx, "anonymous")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// every field survives the round trip
	assert.Equal(t, *mine, got[0])

	empty, err := r.GetAllByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteByID_Idempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := sampleDesign("anonymous")
	require.NoError(t, r.CreateOrUpdate(ctx, d))

	require.NoError(t, r.DeleteByID(ctx, d.ID))
	require.NoError(t, r.DeleteByID(ctx, d.ID))
	require.NoError(t, r.DeleteByID(ctx, "never existed"))

	_, err := r.GetByID(ctx, d.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestReassignOwner_MovesAllRecords(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d1 := sampleDesign("anonymous")
	d2 := sampleDesign("anonymous")
	keep := sampleDesign("bob")
	require.NoError(t, r.CreateOrUpdate(ctx, d1))
	require.NoError(t, r.CreateOrUpdate(ctx, d2))
	require.NoError(t, r.CreateOrUpdate(ctx, keep))

	moved, err := r.ReassignOwner(ctx, "anonymous", "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	// old owner is empty
	old, err := r.GetAllByOwner(ctx, "anonymous")
	require.NoError(t, err)
	assert.Empty(t, old)

	// records kept their ids and content, only ownership changed,
	// including the ownerId inside the stored document
	got, err := r.GetAllByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	ids := map[string]bool{}
	for _, d := range got {
		ids[d.ID] = true
		assert.Equal(t, "alice", d.OwnerID)
		assert.Equal(t, "Cottage", d.Plan.Title)
	}
	assert.True(t, ids[d1.ID])
	assert.True(t, ids[d2.ID])

	// unrelated owner untouched
	bobs, err := r.GetAllByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, keep.ID, bobs[0].ID)
}

func TestReassignOwner_RollsBackWithEnclosingTransaction(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d1 := sampleDesign("anonymous")
	d2 := sampleDesign("anonymous")
	require.NoError(t, r.CreateOrUpdate(ctx, d1))
	require.NoError(t, r.CreateOrUpdate(ctx, d2))

	abort := errors.New("abort")
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		moved, err := NewSQLiteRepository(tx).ReassignOwner(ctx, "anonymous", "alice")
		require.NoError(t, err)
		require.Equal(t, 2, moved)
		return abort
	})
	require.ErrorIs(t, err, abort)

	// The rollback undid the whole rewrite: nothing moved to alice.
	old, err := r.GetAllByOwner(ctx, "anonymous")
	require.NoError(t, err)
	assert.Len(t, old, 2)

	moved, err := r.GetAllByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, moved)
}

func TestReassignOwner_NoRecordsIsNoop(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	moved, err := r.ReassignOwner(context.Background(), "anonymous", "alice")
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestCreateOrUpdate_StorageUnavailable(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())
	r := NewSQLiteRepository(db)

	d := sampleDesign("anonymous")
	d.CreatedAt = time.Now().UTC()
	err := r.CreateOrUpdate(context.Background(), d)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
}
