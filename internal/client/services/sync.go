// Package services implements the client-side coordination layer: the sync
// orchestrator that keeps the published listing, the local store, and the
// remote store consistent; the ownership migration on sign-in; and the
// guest rendering quota.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/planmint/designvault/internal/client/identity"
	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/client/remote"
	designs "github.com/planmint/designvault/internal/client/repositories/designs"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/logging"
)

// Listener receives the published listing after every change.
type Listener func(listing []models.Design)

// pendingPut tracks an in-flight remote upsert so a later delete for the
// same id can cancel it.
type pendingPut struct {
	cancel context.CancelFunc
}

// Orchestrator owns the published in-memory listing and is the only
// component that mutates it. Writes go to the local store synchronously
// and to the remote store as detached best-effort tasks; reads prefer the
// local store and reconcile against the remote store when the identity is
// durable, with the remote snapshot winning over stale local state.
type Orchestrator struct {
	local      designs.Repository
	remote     remote.Store
	migrations *MigrationManager
	logger     logging.Logger

	mu      sync.Mutex
	current *identity.Identity
	listing []models.Design
	loadGen uint64
	pending map[string]*pendingPut
	nextSub int
	subs    map[int]Listener

	wg sync.WaitGroup
}

func NewOrchestrator(local designs.Repository, rs remote.Store, migrations *MigrationManager, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		local:      local,
		remote:     rs,
		migrations: migrations,
		logger:     logger,
		pending:    make(map[string]*pendingPut),
		subs:       make(map[int]Listener),
	}
}

// Designs returns a copy of the published listing.
func (o *Orchestrator) Designs() []models.Design {
	o.mu.Lock()
	defer o.mu.Unlock()
	return cloneListing(o.listing)
}

// Design returns one design by id for detail views. The published listing
// is consulted first so optimistic state wins; ids outside the listing
// fall through to the local store. Absent ids yield common.ErrNotFound.
func (o *Orchestrator) Design(ctx context.Context, id string) (*models.Design, error) {
	o.mu.Lock()
	for i := range o.listing {
		if o.listing[i].ID == id {
			d := o.listing[i].Clone()
			o.mu.Unlock()
			return d, nil
		}
	}
	o.mu.Unlock()

	return o.local.GetByID(ctx, id)
}

// Identity returns the active identity, or nil when signed out.
func (o *Orchestrator) Identity() *identity.Identity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Subscribe registers a listener, replays the current listing to it
// immediately, and returns an unsubscribe handle. Listeners run outside
// the orchestrator lock.
func (o *Orchestrator) Subscribe(l Listener) func() {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = l
	snapshot := cloneListing(o.listing)
	o.mu.Unlock()

	l(snapshot)

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Bind subscribes the orchestrator to an identity provider so every
// identity change flows into SetIdentity. Returns the unsubscribe handle.
func (o *Orchestrator) Bind(provider identity.Provider) func() {
	return provider.Subscribe(func(id *identity.Identity) {
		ctx := context.Background()
		if err := o.SetIdentity(ctx, id); err != nil {
			o.logger.Error(ctx, "identity change failed", "err", err)
		}
	})
}

// Wait blocks until all detached remote tasks have finished. Used by
// shutdown and tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// SetIdentity reacts to an identity change.
//
// Signed out (id nil): the published listing is discarded; the underlying
// stores are left untouched.
//
// Signed in: when the previous state was signed out (nil or the anonymous
// sentinel) and there are designs under the anonymous sentinel, the
// migration manager runs first
// (it may block on the confirmation dialog). The local listing for the new
// identity is then loaded and published immediately, and for a durable
// identity a detached task reconciles against the remote store: a
// non-empty remote snapshot replaces the published listing and is written
// back into the local store, while a remote failure keeps the local
// listing and is logged only.
func (o *Orchestrator) SetIdentity(ctx context.Context, id *identity.Identity) error {
	o.mu.Lock()
	prev := o.current
	if identity.Equal(prev, id) {
		o.mu.Unlock()
		return nil
	}
	o.current = id
	o.loadGen++
	gen := o.loadGen
	o.mu.Unlock()

	if id == nil {
		o.replaceListing(gen, nil)
		return nil
	}

	wasSignedOut := prev == nil || prev.Kind == identity.KindAnonymous

	var migErr error
	if wasSignedOut && id.Kind != identity.KindAnonymous && o.migrations != nil {
		if _, err := o.migrations.Migrate(ctx, id); err != nil {
			if errors.Is(err, common.ErrConfirmationDeclined) {
				o.logger.Info(ctx, "keeping designs under anonymous owner")
			} else {
				migErr = err
			}
		}
	}

	listing, err := o.local.GetAllByOwner(ctx, id.ID)
	if err != nil {
		return errors.Join(migErr, fmt.Errorf("load local listing: %w", err))
	}
	models.SortByCreatedAt(listing)
	o.replaceListing(gen, listing)

	if id.Durable() {
		o.wg.Add(1)
		go o.reconcile(context.WithoutCancel(ctx), gen, id.ID)
	}

	return migErr
}

// reconcile pulls the authoritative remote snapshot and, when non-empty,
// replaces the published listing and warms the local cache with it. Stale
// results (a newer identity change has bumped the generation) are dropped.
func (o *Orchestrator) reconcile(ctx context.Context, gen uint64, ownerID string) {
	defer o.wg.Done()

	remoteListing, err := o.remote.GetAllByOwner(ctx, ownerID)
	if err != nil {
		o.logger.Warn(ctx, "remote reconciliation failed", "owner", ownerID, "err", err)
		return
	}
	if len(remoteListing) == 0 {
		return
	}

	models.SortByCreatedAt(remoteListing)
	if !o.replaceListing(gen, remoteListing) {
		return
	}

	for i := range remoteListing {
		if err := o.local.CreateOrUpdate(ctx, &remoteListing[i]); err != nil {
			o.logger.Warn(ctx, "cache warm-up failed", "id", remoteListing[i].ID, "err", err)
		}
	}
}

// ApplyChange persists a user-initiated mutation. The published listing is
// updated optimistically before any store I/O. A local store failure is
// returned to the caller but the optimistic state is kept. For a durable
// identity the remote upsert runs as a detached task whose failure is
// logged only.
func (o *Orchestrator) ApplyChange(ctx context.Context, d *models.Design) error {
	o.mu.Lock()
	o.upsertListingLocked(d)
	snapshot := cloneListing(o.listing)
	listeners := o.listenersLocked()
	current := o.current
	o.mu.Unlock()

	notify(listeners, snapshot)

	if err := o.local.CreateOrUpdate(ctx, d); err != nil {
		o.logger.Error(ctx, "local write failed, state kept", "id", d.ID, "err", err)
		return err
	}

	if current.Durable() {
		o.schedulePut(ctx, current.ID, d.Clone())
	}

	return nil
}

// schedulePut launches the detached remote upsert for d, superseding any
// in-flight upsert for the same id. Delete cancels it via the pending map.
func (o *Orchestrator) schedulePut(ctx context.Context, ownerID string, d *models.Design) {
	putCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p := &pendingPut{cancel: cancel}

	o.mu.Lock()
	if prev, ok := o.pending[d.ID]; ok {
		prev.cancel()
	}
	o.pending[d.ID] = p
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()

		if err := o.remote.Put(putCtx, ownerID, d); err != nil {
			o.logger.Warn(putCtx, "remote sync failed", "id", d.ID, "err", err)
		}

		o.mu.Lock()
		if o.pending[d.ID] == p {
			delete(o.pending, d.ID)
		}
		o.mu.Unlock()
	}()
}

// Delete removes a design from the published listing, the local store,
// and, for a durable identity, the remote store, in that order. Delete is
// final intent: any in-flight remote upsert for the id is cancelled first.
// A remote delete failure is returned because an unsynced delete would
// resurrect the record on the next reconciliation.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	o.mu.Lock()
	if p, ok := o.pending[id]; ok {
		p.cancel()
		delete(o.pending, id)
	}
	o.removeFromListingLocked(id)
	snapshot := cloneListing(o.listing)
	listeners := o.listenersLocked()
	current := o.current
	o.mu.Unlock()

	notify(listeners, snapshot)

	if err := o.local.DeleteByID(ctx, id); err != nil {
		return err
	}

	if current.Durable() {
		if err := o.remote.DeleteByID(ctx, current.ID, id); err != nil {
			return fmt.Errorf("remote delete: %w", err)
		}
	}

	return nil
}

// replaceListing swaps the published listing if gen is still the latest
// load generation. Reports whether the swap happened.
func (o *Orchestrator) replaceListing(gen uint64, listing []models.Design) bool {
	o.mu.Lock()
	if gen != o.loadGen {
		o.mu.Unlock()
		return false
	}
	o.listing = listing
	snapshot := cloneListing(listing)
	listeners := o.listenersLocked()
	o.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

func (o *Orchestrator) upsertListingLocked(d *models.Design) {
	for i := range o.listing {
		if o.listing[i].ID == d.ID {
			o.listing[i] = *d.Clone()
			return
		}
	}
	o.listing = append(o.listing, *d.Clone())
	models.SortByCreatedAt(o.listing)
}

func (o *Orchestrator) removeFromListingLocked(id string) {
	for i := range o.listing {
		if o.listing[i].ID == id {
			o.listing = append(o.listing[:i], o.listing[i+1:]...)
			return
		}
	}
}

func (o *Orchestrator) listenersLocked() []Listener {
	listeners := make([]Listener, 0, len(o.subs))
	for _, l := range o.subs {
		listeners = append(listeners, l)
	}
	return listeners
}

func notify(listeners []Listener, snapshot []models.Design) {
	for _, l := range listeners {
		l(snapshot)
	}
}

func cloneListing(listing []models.Design) []models.Design {
	out := make([]models.Design, 0, len(listing))
	for i := range listing {
		out = append(out, *listing[i].Clone())
	}
	return out
}
