// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within vaultflow.
package eventbus

import "sync"

// Event names a bus event type.
type Event string

const (
	// EventTransitionApplied fires after an item was moved and its audit
	// record handled.
	EventTransitionApplied Event = "transition.applied"

	// EventItemDetected fires when the watcher sees a new document land
	// in an inbox directory.
	EventItemDetected Event = "item.detected"
)

// Bus is a synchronous in-process event bus. Subscribers run on the
// publisher's goroutine; handlers are expected to be fast and non-blocking.
type Bus struct {
	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Event][]func(any))}
}

// Subscribe registers fn for the given event.
func (b *Bus) Subscribe(event Event, fn func(payload any)) {
	b.mu.Lock()
	b.subs[event] = append(b.subs[event], fn)
	b.mu.Unlock()
}

// Publish delivers payload to every subscriber of event.
func (b *Bus) Publish(event Event, payload any) {
	b.mu.RLock()
	subs := make([]func(any), len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(payload)
	}
}
