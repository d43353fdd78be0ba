package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewInMemoryBus()
	var got []any

	unsubscribe := bus.Subscribe(TopicRouteSaved, func(payload any) {
		got = append(got, payload)
	})

	bus.Publish(TopicRouteSaved, "route-1")
	bus.Publish(TopicMapReady, nil) // different topic, not delivered
	assert.Equal(t, []any{"route-1"}, got)

	unsubscribe()
	bus.Publish(TopicRouteSaved, "route-2")
	assert.Equal(t, []any{"route-1"}, got)
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewInMemoryBus()
	calls := 0

	bus.Subscribe(TopicMapReady, func(any) { calls++ })
	bus.Subscribe(TopicMapReady, func(any) { calls++ })

	bus.Publish(TopicMapReady, nil)
	assert.Equal(t, 2, calls)
}
