package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/menube/pkg/adapters/memory"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_Routing(t *testing.T) {
	bus := memory.NewBus()
	ctx := context.Background()

	var order []string
	bus.SubscribeAll(func(ctx context.Context, e domain.Event) {
		order = append(order, "all:"+e.Name)
	})
	cancel := bus.Subscribe("show_date", func(ctx context.Context, e domain.Event) {
		order = append(order, "named:"+e.Name)
	})

	bus.Publish(ctx, domain.Event{Name: "show_date"})
	bus.Publish(ctx, domain.Event{Name: domain.EventPathChanged})

	assert.Equal(t, []string{
		"named:show_date",
		"all:show_date",
		"all:path_changed",
	}, order)

	cancel()
	cancel() // idempotent
	order = nil
	bus.Publish(ctx, domain.Event{Name: "show_date"})
	assert.Equal(t, []string{"all:show_date"}, order)
}

func TestBus_HandlerMaySubscribe(t *testing.T) {
	bus := memory.NewBus()
	ctx := context.Background()

	calls := 0
	bus.SubscribeAll(func(ctx context.Context, e domain.Event) {
		// Subscribing from inside a handler must not deadlock.
		bus.Subscribe("late", func(context.Context, domain.Event) { calls++ })
	})

	bus.Publish(ctx, domain.Event{Name: "first"})
	bus.Publish(ctx, domain.Event{Name: "late"})
	assert.Equal(t, 1, calls)
}

func TestBus_Channel(t *testing.T) {
	bus := memory.NewBus()
	events, cancel := bus.Channel(4)

	bus.Publish(context.Background(), domain.Event{Name: "a"})
	bus.Publish(context.Background(), domain.Event{Name: "b"})
	cancel()

	var names []string
	for e := range events {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"a", "b"}, names)

	// Publishing after cancel is harmless.
	bus.Publish(context.Background(), domain.Event{Name: "c"})
}

func TestBus_ChannelCancelReleasesBlockedPublisher(t *testing.T) {
	bus := memory.NewBus()
	events, cancel := bus.Channel(1)

	bus.Publish(context.Background(), domain.Event{Name: "a"})

	published := make(chan struct{})
	go func() {
		defer close(published)
		bus.Publish(context.Background(), domain.Event{Name: "b"}) // buffer full, nobody reading
	}()

	// Let the second publish block on the full buffer.
	time.Sleep(50 * time.Millisecond)

	canceled := make(chan struct{})
	go func() {
		cancel()
		close(canceled)
	}()

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not return while a publish was blocked")
	}
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher stayed blocked after cancel")
	}

	var names []string
	for e := range events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a"}, names)
	cancel() // idempotent
}
