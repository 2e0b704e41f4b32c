package event

import (
	"reflect"
	"sync"
)

// Bus is a single-frame event bus. Events emitted during a tick are readable
// by every later system in the same tick and are dropped by Reset, which
// CleanupSystem calls at tick end. Nothing survives into the next tick.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	queues   map[reflect.Type][]any
	order    []reflect.Type
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		queues:   make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event for the current tick.
func Emit[T any](b *Bus, event T) {
	t := typeOf[T]()
	q, seen := b.queues[t]
	if !seen {
		b.order = append(b.order, t)
	}
	b.queues[t] = append(q, event)
}

// Events returns the events of type T queued so far this tick, in emission
// order. The slice must not be retained past Reset.
func Events[T any](b *Bus) []T {
	q := b.queues[typeOf[T]()]
	out := make([]T, len(q))
	for i, ev := range q {
		out[i] = ev.(T)
	}
	return out
}

// Count returns how many events of type T are queued this tick.
func Count[T any](b *Bus) int {
	return len(b.queues[typeOf[T]()])
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], fn)
}

// DispatchAll delivers all queued events to their subscribed handlers,
// grouped by type in the order each type was first emitted.
func (b *Bus) DispatchAll() {
	for _, t := range b.order {
		handlers := b.handlers[t]
		if len(handlers) == 0 {
			continue
		}
		for _, ev := range b.queues[t] {
			for _, h := range handlers {
				// Safe because Subscribe and Emit use the same type key.
				callHandler(h, ev)
			}
		}
	}
}

// Reset drops every queued event. Called once at tick end.
func (b *Bus) Reset() {
	for k := range b.queues {
		b.queues[k] = b.queues[k][:0]
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
