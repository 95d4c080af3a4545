package handlers

import (
	"sync"

	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

const (
	EventQueueChanged = "queue-changed"
	EventTrackChanged = "track-changed"
	EventMissingCodec = "missing-codec"
)

type EventBus struct {
	subscribers map[string][]subscription
	nextID      types.SubscriptionID
	mutex       sync.RWMutex
}

type EventHandler func(data interface{})

type subscription struct {
	id      types.SubscriptionID
	handler EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]subscription),
	}
}

func (bus *EventBus) Subscribe(eventType string, handler EventHandler) types.SubscriptionID {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.nextID++
	bus.subscribers[eventType] = append(bus.subscribers[eventType], subscription{id: bus.nextID, handler: handler})
	return bus.nextID
}

// Publish delivers data to every handler of eventType, each on its own
// goroutine. Handlers touching widgets must hop back to the UI thread.
func (bus *EventBus) Publish(eventType string, data interface{}) {
	bus.mutex.RLock()
	subs := append([]subscription(nil), bus.subscribers[eventType]...)
	bus.mutex.RUnlock()

	for _, sub := range subs {
		go sub.handler(data)
	}
}

// Unsubscribe removes a single handler. It reports whether id was registered.
func (bus *EventBus) Unsubscribe(id types.SubscriptionID) bool {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	for eventType, subs := range bus.subscribers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			subs = append(subs[:i:i], subs[i+1:]...)
			if len(subs) == 0 {
				delete(bus.subscribers, eventType)
			} else {
				bus.subscribers[eventType] = subs
			}
			return true
		}
	}
	return false
}

// Count returns the number of handlers registered for eventType.
func (bus *EventBus) Count(eventType string) int {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	return len(bus.subscribers[eventType])
}
