package mcp

import (
	"context"
	"sync"

	"github.com/aretw0/menube/pkg/domain"
)

// DefaultEventLogSize is the number of events kept between two menu_events calls.
const DefaultEventLogSize = 256

// EventLog keeps the most recent events for agents that poll. It implements
// ports.Publisher.
type EventLog struct {
	mu      sync.Mutex
	events  []domain.WireEvent
	size    int
	dropped int
}

// NewEventLog creates a log holding up to size events. Older events are
// dropped first.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultEventLogSize
	}
	return &EventLog{size: size}
}

// Publish appends the event.
func (l *EventLog) Publish(_ context.Context, ev domain.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == l.size {
		l.events = l.events[1:]
		l.dropped++
	}
	l.events = append(l.events, domain.ToWire(ev))
}

// Drain returns the kept events and empties the log.
func (l *EventLog) Drain() []domain.WireEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	l.dropped = 0
	if out == nil {
		out = []domain.WireEvent{}
	}
	return out
}

// Dropped returns how many events were discarded since the last Drain.
func (l *EventLog) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}
