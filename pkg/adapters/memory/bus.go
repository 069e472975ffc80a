package memory

import (
	"context"
	"sync"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
)

type subscription struct {
	id   uint64
	name string // empty for catch-all
	h    ports.Handler
}

// Bus is an in-process publish/subscribe channel implementing ports.Publisher
// and ports.Subscriber. Handlers run synchronously on the publishing goroutine,
// in subscription order; name-specific handlers run before catch-all ones.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Publish delivers the event to every matching subscriber.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	named := make([]ports.Handler, 0, len(b.subs))
	var all []ports.Handler
	for _, s := range b.subs {
		switch s.name {
		case "":
			all = append(all, s.h)
		case event.Name:
			named = append(named, s.h)
		}
	}
	b.mu.RUnlock()

	for _, h := range named {
		h(ctx, event)
	}
	for _, h := range all {
		h(ctx, event)
	}
}

// Subscribe registers h for events with the given name.
func (b *Bus) Subscribe(name string, h ports.Handler) (cancel func()) {
	return b.add(name, h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h ports.Handler) (cancel func()) {
	return b.add("", h)
}

// Channel subscribes to every event and forwards them to a buffered channel.
// A send blocks the publisher while the buffer is full; cancel releases any
// blocked send, dropping its event, and closes the channel.
func (b *Bus) Channel(buffer int) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, buffer)
	done := make(chan struct{})
	var (
		mu       sync.Mutex
		closed   bool
		inflight sync.WaitGroup
	)
	unsubscribe := b.SubscribeAll(func(ctx context.Context, e domain.Event) {
		mu.Lock()
		if closed {
			mu.Unlock()
			return
		}
		inflight.Add(1)
		mu.Unlock()
		defer inflight.Done()

		select {
		case ch <- e:
		case <-done:
		}
	})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(done)
			mu.Unlock()
			inflight.Wait()
			close(ch)
		})
	}
}

func (b *Bus) add(name string, h ports.Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, h: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}
