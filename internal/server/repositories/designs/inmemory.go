package designs

import (
	"context"
	"sync"
	"time"

	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and for
// development servers started without a database DSN. Values are copied on
// the way in and out so callers never share slices with the store.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Design
	nowFunc func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]models.Design),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func cloneDesign(d models.Design) models.Design {
	out := d
	out.Doc = append([]byte(nil), d.Doc...)
	return out
}

// Upsert stores d under its id, enforcing single ownership of an id.
func (r *InMemoryRepository) Upsert(ctx context.Context, d *models.Design) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[d.ID]; ok && existing.OwnerID != d.OwnerID {
		return common.ErrPermission
	}

	d.SyncedAt = r.nowFunc()
	r.byID[d.ID] = cloneDesign(*d)
	return nil
}

// GetAllByOwner returns copies of every design owned by ownerID.
func (r *InMemoryRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Design
	for _, d := range r.byID {
		if d.OwnerID == ownerID {
			result = append(result, cloneDesign(d))
		}
	}
	return result, nil
}

// DeleteByID removes (ownerID, id). A miss, or an id owned by someone
// else, is a no-op.
func (r *InMemoryRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.byID[id]; ok && d.OwnerID == ownerID {
		delete(r.byID, id)
	}
	return nil
}
