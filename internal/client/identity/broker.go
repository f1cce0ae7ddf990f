package identity

import (
	"context"
	"sync"
)

// Broker is an in-process identity observable: it holds the current
// identity, fans out changes to subscribers, and replays the current value
// to every new subscriber. It implements Provider so tests and embedding
// applications can drive identity transitions directly.
type Broker struct {
	mu      sync.Mutex
	current *Identity
	nextID  int
	subs    map[int]Handler
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]Handler)}
}

// Current returns the identity as of the last Set, or nil.
func (b *Broker) Current() *Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Set publishes a new current identity and notifies all subscribers.
// Handlers run outside the broker lock, so they may call back into the
// broker without deadlocking.
func (b *Broker) Set(id *Identity) {
	b.mu.Lock()
	b.current = id
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(id)
	}
}

// Subscribe registers h, replays the current value immediately, and returns
// an unsubscribe handle.
func (b *Broker) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	current := b.current
	b.mu.Unlock()

	h(current)

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// SignIn resolves to the current identity; a real deployment wraps an
// external auth SDK instead. Kept so Broker satisfies Provider.
func (b *Broker) SignIn(ctx context.Context) (*Identity, error) {
	return b.Current(), nil
}

// SignOut clears the current identity and notifies subscribers.
func (b *Broker) SignOut(ctx context.Context) error {
	b.Set(nil)
	return nil
}
