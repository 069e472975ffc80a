package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/menube/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Publisher implements ports.Publisher by publishing every event to the
// channel <prefix>event:<name>.
type Publisher struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithChannelPrefix replaces DefaultPrefix for channel names.
func WithChannelPrefix(prefix string) PublisherOption {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithPublisherLogger sets the logger used to report publish failures.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher on an existing client.
func NewPublisher(client *backend.Client, opts ...PublisherOption) *Publisher {
	p := &Publisher{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Channel returns the channel an event name is published on.
func (p *Publisher) Channel(name string) string {
	return p.prefix + "event:" + name
}

// Publish sends the event. Failures are logged; the engine never waits on them.
func (p *Publisher) Publish(ctx context.Context, ev domain.Event) {
	data, err := json.Marshal(domain.ToWire(ev))
	if err != nil {
		p.logger.Error("failed to encode event", "event", ev.Name, "err", err)
		return
	}
	if err := p.client.Publish(ctx, p.Channel(ev.Name), data).Err(); err != nil {
		p.logger.Warn("failed to publish event", "event", ev.Name, "err", err)
	}
}

// Listen subscribes to every event channel and decodes messages until ctx
// is done. The returned channel is closed when the subscription ends.
func (p *Publisher) Listen(ctx context.Context) (<-chan domain.WireEvent, error) {
	sub := p.client.PSubscribe(ctx, p.Channel("*"))
	// Wait for the subscription to be confirmed so no early event is lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan domain.WireEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.WireEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					p.logger.Warn("dropping malformed event", "channel", msg.Channel, "err", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
