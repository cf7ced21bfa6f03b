package broadcast

import (
	"sync"
)

// Handler receives the new value published for a topic.
type Handler func(topic string, payload []byte)

type subscriber struct {
	origin  string
	handler Handler
}

// Bus is the in-process change broadcaster. A publish notifies every
// observer of the topic except subscribers registered under the publisher's
// own origin, so an actor context never echoes its own writes back to
// itself. Delivery is best-effort and at-most-once per observer: the KV
// store stays the source of truth and a stale observer re-reads it on the
// next reconciliation.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	topics map[string]map[int]subscriber
}

func NewBus() *Bus {
	return &Bus{topics: make(map[string]map[int]subscriber)}
}

// Subscribe registers a handler for a topic under the given origin and
// returns a function removing the subscription.
func (b *Bus) Subscribe(origin, topic string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.topics[topic]; !ok {
		b.topics[topic] = make(map[int]subscriber)
	}
	id := b.nextID
	b.nextID++
	b.topics[topic][id] = subscriber{origin: origin, handler: handler}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.topics[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.topics, topic)
			}
		}
	}
}

// Publish delivers payload to every subscriber of topic whose origin differs
// from the publisher's. Handlers run synchronously on the publisher's
// goroutine; no ordering guarantee is made across topics.
func (b *Bus) Publish(origin, topic string, payload []byte) {
	b.mu.RLock()
	subs := make([]subscriber, 0, len(b.topics[topic]))
	for _, s := range b.topics[topic] {
		if s.origin != origin {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(topic, payload)
	}
}
