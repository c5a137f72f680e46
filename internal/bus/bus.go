package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// sendBuffer is the per-subscriber queue depth. A subscriber that falls this
// far behind starts losing events rather than blocking the publisher.
const sendBuffer = 256

// subscriber delivers matching events to one callback on its own goroutine
type subscriber struct {
	id     string
	match  map[types.EventType]bool // nil means all types
	send   chan types.Event
	done   chan struct{}
}

// Bus is a typed fan-out publish/subscribe channel. Publishing never blocks
// on a slow subscriber, and a panicking subscriber cannot affect the others.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	closed bool
	logger zerolog.Logger
}

// New creates a Bus
func New(logger zerolog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string]*subscriber),
		logger: logger,
	}
}

// Subscribe registers fn for the given event types (all types when none are
// given) and returns the subscription id.
func (b *Bus) Subscribe(fn func(types.Event), eventTypes ...types.EventType) string {
	sub := &subscriber{
		id:   uuid.New().String(),
		send: make(chan types.Event, sendBuffer),
		done: make(chan struct{}),
	}
	if len(eventTypes) > 0 {
		sub.match = make(map[types.EventType]bool, len(eventTypes))
		for _, et := range eventTypes {
			sub.match[et] = true
		}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return sub.id
	}
	b.subs[sub.id] = sub
	b.mu.Unlock()

	go b.deliver(sub, fn)

	b.logger.Debug().
		Str("subscription_id", sub.id).
		Int("event_types", len(eventTypes)).
		Msg("subscriber registered")

	return sub.id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		close(sub.done)
		b.logger.Debug().Str("subscription_id", id).Msg("subscriber removed")
	}
}

// Publish fans out an event to every matching subscriber. Events to a
// subscriber with a full buffer are dropped with a warning.
func (b *Bus) Publish(event types.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if sub.match != nil && !sub.match[event.Type] {
			continue
		}
		select {
		case sub.send <- event:
		default:
			b.logger.Warn().
				Str("subscription_id", sub.id).
				Str("event_type", string(event.Type)).
				Msg("subscriber buffer full, dropping event")
		}
	}
}

// SubscriberCount returns the number of active subscriptions
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close removes all subscribers and stops delivery
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.done)
		delete(b.subs, id)
	}
}

// deliver runs one subscriber's callback loop, isolating panics
func (b *Bus) deliver(sub *subscriber, fn func(types.Event)) {
	for {
		select {
		case <-sub.done:
			return
		case event := <-sub.send:
			b.invoke(sub.id, fn, event)
		}
	}
}

func (b *Bus) invoke(id string, fn func(types.Event), event types.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("subscription_id", id).
				Str("event_type", string(event.Type)).
				Interface("panic", r).
				Msg("subscriber panicked, event delivery continues")
		}
	}()
	fn(event)
}
