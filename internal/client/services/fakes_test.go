package services

import (
	"context"
	"errors"
	"sync"

	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/common"
)

// fakeLocal is an in-memory designs.Repository with error injection.
type fakeLocal struct {
	mu     sync.Mutex
	byID   map[string]models.Design
	putErr error
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{byID: make(map[string]models.Design)}
}

func (f *fakeLocal) CreateOrUpdate(ctx context.Context, d *models.Design) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.byID[d.ID] = *d.Clone()
	return nil
}

func (f *fakeLocal) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Design
	for _, d := range f.byID {
		if d.OwnerID == ownerID {
			out = append(out, *d.Clone())
		}
	}
	return out, nil
}

func (f *fakeLocal) GetByID(ctx context.Context, id string) (*models.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return d.Clone(), nil
}

func (f *fakeLocal) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeLocal) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, d := range f.byID {
		if d.OwnerID == oldOwnerID {
			d.OwnerID = newOwnerID
			f.byID[id] = d
			n++
		}
	}
	return n, nil
}

// fakeRemote is an in-memory remote.Store. When blockPuts is set, Put
// parks until release is closed or the context is cancelled, which lets
// tests race a delete against an in-flight upsert.
type fakeRemote struct {
	mu        sync.Mutex
	byOwner   map[string]map[string]models.Design
	putErr    error
	getErr    error
	delErr    error
	putCalls  int
	blockPuts bool
	started   chan string
	release   chan struct{}
	cancelled []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{byOwner: make(map[string]map[string]models.Design)}
}

func (f *fakeRemote) blocking() *fakeRemote {
	f.blockPuts = true
	f.started = make(chan string, 8)
	f.release = make(chan struct{})
	return f
}

func (f *fakeRemote) Put(ctx context.Context, ownerID string, d *models.Design) error {
	f.mu.Lock()
	f.putCalls++
	putErr := f.putErr
	f.mu.Unlock()

	if putErr != nil {
		return putErr
	}

	if f.blockPuts {
		f.started <- d.ID
		select {
		case <-ctx.Done():
			f.mu.Lock()
			f.cancelled = append(f.cancelled, d.ID)
			f.mu.Unlock()
			return errors.Join(common.ErrNetwork, ctx.Err())
		case <-f.release:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byOwner[ownerID] == nil {
		f.byOwner[ownerID] = make(map[string]models.Design)
	}
	f.byOwner[ownerID][d.ID] = *d.Clone()
	return nil
}

func (f *fakeRemote) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []models.Design
	for _, d := range f.byOwner[ownerID] {
		out = append(out, *d.Clone())
	}
	return out, nil
}

func (f *fakeRemote) DeleteByID(ctx context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.byOwner[ownerID], id)
	return nil
}

func (f *fakeRemote) has(ownerID, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byOwner[ownerID][id]
	return ok
}

// fakeConfirmer answers the migration dialog with a fixed value and counts
// how often it was asked.
type fakeConfirmer struct {
	mu     sync.Mutex
	answer bool
	err    error
	calls  int
	asked  int
	block  chan struct{}
}

func (f *fakeConfirmer) ConfirmMigration(ctx context.Context, n int) (bool, error) {
	f.mu.Lock()
	f.calls++
	f.asked = n
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.answer, f.err
}

func (f *fakeConfirmer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakePrompter answers the guest upgrade prompt.
type fakePrompter struct {
	answer bool
	calls  int
}

func (f *fakePrompter) PromptUpgrade(ctx context.Context) (bool, error) {
	f.calls++
	return f.answer, nil
}
