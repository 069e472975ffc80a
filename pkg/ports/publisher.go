package ports

import (
	"context"

	"github.com/aretw0/menube/pkg/domain"
)

// Handler receives published events.
type Handler func(context.Context, domain.Event)

// Publisher is the sink the engine announces path changes and activation outcomes on.
// Publish must not block on slow subscribers for long and must not panic.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event)
}

// Subscriber lets collaborators listen to published events.
// The returned function removes the subscription.
type Subscriber interface {
	Subscribe(name string, h Handler) (cancel func())
	SubscribeAll(h Handler) (cancel func())
}

// MultiPublisher publishes every event to each publisher in order.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event domain.Event) {
	for _, p := range m {
		p.Publish(ctx, event)
	}
}
