// Package events is a small explicit publish/subscribe bus. Components
// that need cross-cutting signals (route saved, map ready) receive a Bus
// by injection instead of dispatching through ambient globals, so the
// itinerary core stays free of hidden coupling to unrelated widgets.
package events

import (
	"sync"
)

// Topic names the signal being published.
type Topic string

const (
	TopicRouteSaved Topic = "route.saved"
	TopicMapReady   Topic = "map.ready"
)

// Handler receives the published payload.
type Handler func(payload any)

// Bus is the publish/subscribe contract.
type Bus interface {
	Publish(topic Topic, payload any)
	Subscribe(topic Topic, h Handler) (unsubscribe func())
}

var _ Bus = (*InMemoryBus)(nil)

// InMemoryBus delivers events synchronously to subscribers in
// registration order.
type InMemoryBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[Topic]map[int]Handler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[Topic]map[int]Handler)}
}

func (b *InMemoryBus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[topic]))
	for _, h := range b.handlers[topic] {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

func (b *InMemoryBus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[int]Handler)
	}
	b.nextID++
	id := b.nextID
	b.handlers[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[topic], id)
	}
}
